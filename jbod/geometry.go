package jbod

import "fmt"

// The default geometry. It matches the disk bank that the operation word
// encoding was designed for.
const (
	DefaultNumDisks      = 16
	DefaultBlocksPerDisk = 256
	DefaultBlockSize     = 256
	DefaultDiskSize      = DefaultBlocksPerDisk * DefaultBlockSize
)

// maxID is the largest disk or block id that fits into an operation word.
const maxID = 0xff

// Geometry describes the shape of a disk bank.
type Geometry struct {
	NumDisks      int
	BlocksPerDisk int
	BlockSize     int
}

// DefaultGeometry returns 16 disks of 256 blocks of 256 bytes.
func DefaultGeometry() Geometry {
	return Geometry{
		NumDisks:      DefaultNumDisks,
		BlocksPerDisk: DefaultBlocksPerDisk,
		BlockSize:     DefaultBlockSize,
	}
}

// DiskSize returns the number of bytes on one disk.
func (g Geometry) DiskSize() uint64 {
	return uint64(g.BlocksPerDisk) * uint64(g.BlockSize)
}

// Capacity returns the number of addressable bytes across all disks.
func (g Geometry) Capacity() uint64 {
	return uint64(g.NumDisks) * g.DiskSize()
}

// Validate checks that every disk and block can be addressed by an operation
// word.
func (g Geometry) Validate() error {
	switch {
	case g.NumDisks < 1 || g.NumDisks > maxID+1:
		return fmt.Errorf("number of disks must be in [1, %d], got %d",
			maxID+1, g.NumDisks)
	case g.BlocksPerDisk < 1 || g.BlocksPerDisk > maxID+1:
		return fmt.Errorf("blocks per disk must be in [1, %d], got %d",
			maxID+1, g.BlocksPerDisk)
	case g.BlockSize < 1:
		return fmt.Errorf("block size must be positive, got %d", g.BlockSize)
	}

	return nil
}

func (g Geometry) String() string {
	return fmt.Sprintf("%d disks x %d blocks x %d bytes",
		g.NumDisks, g.BlocksPerDisk, g.BlockSize)
}
