package jbod

import (
	"log"

	"github.com/sarchlab/jbodsim/sim"
)

// Builder can build Banks.
type Builder struct {
	geometry Geometry
	signer   Signer
}

// MakeBuilder creates a builder with the default geometry and an xxHash
// signer.
func MakeBuilder() Builder {
	return Builder{
		geometry: DefaultGeometry(),
		signer:   XXHashSigner{},
	}
}

// WithGeometry sets the shape of the bank.
func (b Builder) WithGeometry(g Geometry) Builder {
	b.geometry = g
	return b
}

// WithSigner sets the signer used by SIGN_BLOCK.
func (b Builder) WithSigner(s Signer) Builder {
	b.signer = s
	return b
}

func (b Builder) parametersMustBeValid() {
	if err := b.geometry.Validate(); err != nil {
		log.Panic(err)
	}

	if b.signer == nil {
		log.Panic("signer must not be nil")
	}
}

// Build creates an unmounted Bank. Disk contents are zero until the first
// mount.
func (b Builder) Build(name string) *Bank {
	b.parametersMustBeValid()

	bank := &Bank{
		HookableBase: sim.NewHookableBase(),
		NamedBase:    sim.MakeNamedBase(name),
		geometry:     b.geometry,
		signer:       b.signer,
	}

	bank.disks = make([][]byte, b.geometry.NumDisks)
	for i := range bank.disks {
		bank.disks[i] = make([]byte, b.geometry.DiskSize())
	}

	return bank
}
