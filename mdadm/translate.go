package mdadm

import "github.com/sarchlab/jbodsim/jbod"

// A Chunk is the part of a transfer that falls into one block.
type Chunk struct {
	Disk      int
	Block     int
	Offset    int // offset inside the block
	Length    int
	BufOffset int // offset inside the caller's buffer
}

// Locate maps a linear address to the disk, the block within the disk and the
// offset within the block.
func Locate(g jbod.Geometry, addr uint64) (disk, block, offset int) {
	diskSize := g.DiskSize()
	blockSize := uint64(g.BlockSize)

	disk = int(addr / diskSize)
	block = int(addr % diskSize / blockSize)
	offset = int(addr % blockSize)

	return disk, block, offset
}

// Plan splits [addr, addr+length) into chunks that never cross a block
// boundary. The range is not validated.
func Plan(g jbod.Geometry, addr uint64, length int) []Chunk {
	chunks := make([]Chunk, 0, length/g.BlockSize+2)

	curr := addr
	done := 0
	for done < length {
		disk, block, offset := Locate(g, curr)

		n := g.BlockSize - offset
		if remaining := length - done; remaining < n {
			n = remaining
		}

		chunks = append(chunks, Chunk{
			Disk:      disk,
			Block:     block,
			Offset:    offset,
			Length:    n,
			BufOffset: done,
		})

		done += n
		curr += uint64(n)
	}

	return chunks
}
