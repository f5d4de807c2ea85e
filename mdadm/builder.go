package mdadm

import (
	"log"

	"github.com/sarchlab/jbodsim/jbod"
	"github.com/sarchlab/jbodsim/sim"
)

// maxCapacity is the size of the 32-bit address space.
const maxCapacity = 1 << 32

// Builder can build Arrays.
type Builder struct {
	device      Device
	geometry    jbod.Geometry
	signer      jbod.Signer
	maxTransfer int
}

// MakeBuilder creates a builder that creates a default jbod.Bank for each
// Array.
func MakeBuilder() Builder {
	return Builder{
		geometry:    jbod.DefaultGeometry(),
		signer:      jbod.XXHashSigner{},
		maxTransfer: MaxTransfer,
	}
}

// WithDevice makes the Array use an existing device instead of creating a
// bank. The geometry is then taken from the device.
func (b Builder) WithDevice(d Device) Builder {
	b.device = d
	return b
}

// WithGeometry sets the geometry of the bank created for the Array.
func (b Builder) WithGeometry(g jbod.Geometry) Builder {
	b.geometry = g
	return b
}

// WithSigner sets the signer of the bank created for the Array.
func (b Builder) WithSigner(s jbod.Signer) Builder {
	b.signer = s
	return b
}

// WithMaxTransfer sets the largest length accepted by Read and Write.
func (b Builder) WithMaxTransfer(n int) Builder {
	b.maxTransfer = n
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.maxTransfer <= 0 {
		log.Panicf("max transfer must be positive, got %d", b.maxTransfer)
	}
}

// Build creates an unmounted Array.
func (b Builder) Build(name string) *Array {
	b.parametersMustBeValid()

	device := b.device
	if device == nil {
		device = jbod.MakeBuilder().
			WithGeometry(b.geometry).
			WithSigner(b.signer).
			Build(name + ".Bank")
	}

	g := device.Geometry()
	if g.Capacity() > maxCapacity {
		log.Panicf("capacity %d does not fit 32-bit addresses", g.Capacity())
	}

	return &Array{
		HookableBase: sim.NewHookableBase(),
		NamedBase:    sim.MakeNamedBase(name),
		device:       device,
		geometry:     g,
		maxTransfer:  b.maxTransfer,
		scratch:      make([]byte, g.BlockSize),
	}
}

// Device returns the device that the array runs on.
func (a *Array) Device() Device {
	return a.device
}
