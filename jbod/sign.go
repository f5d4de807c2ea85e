package jbod

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/minio/highwayhash"
)

// SignatureSize is the number of bytes SIGN_BLOCK writes into the buffer.
const SignatureSize = 8

// A Signer computes the signature of a block for SIGN_BLOCK.
type Signer interface {
	Sign(block []byte) uint64
}

// XXHashSigner signs blocks with xxHash64.
type XXHashSigner struct{}

// Sign returns the xxHash64 digest of the block.
func (XXHashSigner) Sign(block []byte) uint64 {
	return xxhash.Sum64(block)
}

// HighwayHashSigner signs blocks with a keyed HighwayHash-64.
type HighwayHashSigner struct {
	key []byte
}

// NewHighwayHashSigner creates a keyed signer. The key must be 32 bytes long.
func NewHighwayHashSigner(key []byte) (*HighwayHashSigner, error) {
	if len(key) != highwayhash.Size {
		return nil, fmt.Errorf("highwayhash key must be %d bytes, got %d",
			highwayhash.Size, len(key))
	}

	return &HighwayHashSigner{key: append([]byte(nil), key...)}, nil
}

// Sign returns the HighwayHash-64 digest of the block.
func (s *HighwayHashSigner) Sign(block []byte) uint64 {
	return highwayhash.Sum64(block, s.key)
}
