package jbod

// Fill bytes written to the disks on every mount.
const (
	PatternDisk0 byte = 0xaa
	PatternDisk1 byte = 0xbb
	PatternMid   byte = 0xcc
	PatternEven  byte = 0xee
	PatternOdd   byte = 0xff
)

// lastMidDisk is the last disk filled with PatternMid.
const lastMidDisk = 14

// PatternFor returns the byte that a disk is filled with after mounting.
func PatternFor(disk int) byte {
	switch {
	case disk == 0:
		return PatternDisk0
	case disk == 1:
		return PatternDisk1
	case disk <= lastMidDisk:
		return PatternMid
	case disk%2 == 0:
		return PatternEven
	default:
		return PatternOdd
	}
}

// fill overwrites every disk with its pattern.
func (b *Bank) fill() {
	for i, disk := range b.disks {
		p := PatternFor(i)
		for j := range disk {
			disk[j] = p
		}
	}
}
