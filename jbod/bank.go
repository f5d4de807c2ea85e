package jbod

import (
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/jbodsim/sim"
)

// HookPosBeforeOp is triggered before a Bank executes an operation. The hook
// item is the decoded Op.
var HookPosBeforeOp = &sim.HookPos{Name: "BeforeOp"}

// HookPosAfterOp is triggered after a Bank executes an operation. The hook
// item is the decoded Op and the detail is the resulting Kind.
var HookPosAfterOp = &sim.HookPos{Name: "AfterOp"}

// A Bank is a set of simulated disks that executes one operation word at a
// time. It is not safe for concurrent use.
type Bank struct {
	*sim.HookableBase
	sim.NamedBase

	geometry Geometry
	signer   Signer
	disks    [][]byte

	mounted        bool
	writePermitted bool
	currDisk       int
	currBlock      int
	lastErr        Kind
}

// Geometry returns the shape of the bank.
func (b *Bank) Geometry() Geometry {
	return b.geometry
}

// Mounted tells if the bank is mounted.
func (b *Bank) Mounted() bool {
	return b.mounted
}

// WritePermitted tells if WRITE_BLOCK is currently allowed.
func (b *Bank) WritePermitted() bool {
	return b.writePermitted
}

// Position returns the disk and block that the next block operation targets.
func (b *Bank) Position() (disk, block int) {
	return b.currDisk, b.currBlock
}

// LastError returns the kind of failure of the most recent operation, or
// NoError if it succeeded.
func (b *Bank) LastError() Kind {
	return b.lastErr
}

// Execute decodes an operation word and runs it. Block-level commands use
// block as the source or destination and require it to hold at least one
// block.
func (b *Bank) Execute(word uint32, block []byte) error {
	op := Decode(word)

	b.InvokeHook(sim.HookCtx{
		Domain: b,
		Pos:    HookPosBeforeOp,
		Item:   op,
	})

	kind := b.execute(op, block)
	b.lastErr = kind

	b.InvokeHook(sim.HookCtx{
		Domain: b,
		Pos:    HookPosAfterOp,
		Item:   op,
		Detail: kind,
	})

	if kind != NoError {
		return newError(kind, op)
	}

	return nil
}

// Peek returns a copy of a block regardless of the mount state. It is meant
// for inspection and does not move the seek position.
func (b *Bank) Peek(disk, block int) ([]byte, error) {
	if disk < 0 || disk >= b.geometry.NumDisks {
		return nil, newError(BadDiskNumber, NewOp(CmdReadBlock, 0, 0))
	}

	if block < 0 || block >= b.geometry.BlocksPerDisk {
		return nil, newError(BadBlockNumber, NewOp(CmdReadBlock, 0, 0))
	}

	return append([]byte(nil), b.blockAt(disk, block)...), nil
}

func (b *Bank) execute(op Op, block []byte) Kind {
	if !op.Cmd.Valid() {
		return BadCommand
	}

	switch op.Cmd {
	case CmdMount:
		return b.mount()
	case CmdUnmount:
		return b.unmount()
	}

	if !b.mounted {
		return Unmounted
	}

	switch op.Cmd {
	case CmdSeekToDisk:
		return b.seekToDisk(int(op.DiskID))
	case CmdSeekToBlock:
		return b.seekToBlock(int(op.BlockID))
	case CmdReadBlock:
		return b.readBlock(block)
	case CmdWriteBlock:
		return b.writeBlock(block)
	case CmdWritePermission:
		return b.grantWritePermission()
	case CmdRevokeWritePermission:
		return b.revokeWritePermission()
	case CmdSignBlock:
		return b.signBlock(block)
	default:
		panic(fmt.Sprintf("command %s not handled", op.Cmd))
	}
}

func (b *Bank) mount() Kind {
	if b.mounted {
		return AlreadyMounted
	}

	b.mounted = true
	b.currDisk = 0
	b.currBlock = 0
	b.fill()

	return NoError
}

func (b *Bank) unmount() Kind {
	if !b.mounted {
		return AlreadyUnmounted
	}

	b.mounted = false
	b.writePermitted = false

	return NoError
}

func (b *Bank) seekToDisk(disk int) Kind {
	if disk >= b.geometry.NumDisks {
		return BadDiskNumber
	}

	b.currDisk = disk
	b.currBlock = 0

	return NoError
}

func (b *Bank) seekToBlock(block int) Kind {
	if block >= b.geometry.BlocksPerDisk {
		return BadBlockNumber
	}

	b.currBlock = block

	return NoError
}

func (b *Bank) readBlock(buf []byte) Kind {
	if len(buf) < b.geometry.BlockSize {
		return BadRead
	}

	if !b.positionValid() {
		return BadBlockNumber
	}

	copy(buf, b.blockAt(b.currDisk, b.currBlock))
	b.advance()

	return NoError
}

func (b *Bank) writeBlock(buf []byte) Kind {
	if !b.writePermitted || len(buf) < b.geometry.BlockSize {
		return BadWrite
	}

	if !b.positionValid() {
		return BadBlockNumber
	}

	copy(b.blockAt(b.currDisk, b.currBlock), buf)
	b.advance()

	return NoError
}

func (b *Bank) grantWritePermission() Kind {
	if b.writePermitted {
		return WritePermissionAlreadyGranted
	}

	b.writePermitted = true

	return NoError
}

func (b *Bank) revokeWritePermission() Kind {
	if !b.writePermitted {
		return WritePermissionAlreadyRevoked
	}

	b.writePermitted = false

	return NoError
}

func (b *Bank) signBlock(buf []byte) Kind {
	if len(buf) < SignatureSize {
		return BadRead
	}

	if !b.positionValid() {
		return BadBlockNumber
	}

	sig := b.signer.Sign(b.blockAt(b.currDisk, b.currBlock))
	binary.LittleEndian.PutUint64(buf, sig)

	return NoError
}

// advance moves the position to the next block, continuing on the next disk
// after the last block of a disk.
func (b *Bank) advance() {
	b.currBlock++
	if b.currBlock == b.geometry.BlocksPerDisk {
		b.currBlock = 0
		b.currDisk++
	}
}

func (b *Bank) positionValid() bool {
	return b.currDisk < b.geometry.NumDisks
}

func (b *Bank) blockAt(disk, block int) []byte {
	offset := block * b.geometry.BlockSize
	return b.disks[disk][offset : offset+b.geometry.BlockSize]
}
