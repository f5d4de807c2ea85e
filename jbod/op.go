package jbod

import "fmt"

// Bit layout of an operation word.
const (
	cmdShift   = 24
	diskShift  = 16
	blockShift = 8
	fieldMask  = 0xff
)

// Op is the decoded form of an operation word. Only the bank boundary deals
// with the packed representation.
type Op struct {
	Cmd     Command
	DiskID  uint8
	BlockID uint8
	Length  uint8
}

// NewOp creates an Op for the given command, without length or flags.
func NewOp(cmd Command, diskID, blockID uint8) Op {
	return Op{Cmd: cmd, DiskID: diskID, BlockID: blockID}
}

// Encode packs the op into bits [31:24]=command, [23:16]=disk,
// [15:8]=block and [7:0]=length.
func (o Op) Encode() uint32 {
	return uint32(o.Cmd)<<cmdShift |
		uint32(o.DiskID)<<diskShift |
		uint32(o.BlockID)<<blockShift |
		uint32(o.Length)
}

// Decode unpacks an operation word.
func Decode(word uint32) Op {
	return Op{
		Cmd:     Command(word >> cmdShift & fieldMask),
		DiskID:  uint8(word >> diskShift & fieldMask),
		BlockID: uint8(word >> blockShift & fieldMask),
		Length:  uint8(word & fieldMask),
	}
}

func (o Op) String() string {
	return fmt.Sprintf("%s disk=%d block=%d len=%d",
		o.Cmd, o.DiskID, o.BlockID, o.Length)
}
