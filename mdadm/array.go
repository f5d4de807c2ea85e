package mdadm

import (
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/jbodsim/jbod"
	"github.com/sarchlab/jbodsim/sim"
)

// MaxTransfer is the largest number of bytes a single Read or Write may move.
const MaxTransfer = 1024

// HookPosSession is triggered after every session operation. The item is the
// SessionEvent and the detail is the returned error.
var HookPosSession = &sim.HookPos{Name: "Session"}

// HookPosTransfer is triggered after every Read and Write that passed the
// precondition checks. The item is a Transfer and the detail is the returned
// error.
var HookPosTransfer = &sim.HookPos{Name: "Transfer"}

// SessionEvent names a session operation.
type SessionEvent string

// The session operations of an Array.
const (
	EventMount   SessionEvent = "mount"
	EventUnmount SessionEvent = "unmount"
	EventGrant   SessionEvent = "grant_write_permission"
	EventRevoke  SessionEvent = "revoke_write_permission"
)

// TransferKind tells reads and writes apart.
type TransferKind string

// The kinds of transfers.
const (
	TransferRead  TransferKind = "read"
	TransferWrite TransferKind = "write"
)

// Transfer describes one Read or Write as it was decomposed into blocks.
type Transfer struct {
	Kind   TransferKind
	Addr   uint32
	Length uint32
	Chunks []Chunk
}

// A Device executes operation words. jbod.Bank is the usual implementation.
type Device interface {
	Execute(word uint32, block []byte) error
	Geometry() jbod.Geometry
}

type position struct {
	disk  int
	block int
	valid bool
}

// An Array presents the disks of a Device as one linear byte range and
// guards access with a mount and write permission session. It is not safe for
// concurrent use, see SyncArray.
type Array struct {
	*sim.HookableBase
	sim.NamedBase

	device      Device
	geometry    jbod.Geometry
	maxTransfer int
	scratch     []byte

	mounted        bool
	writePermitted bool
	pos            position
}

// Geometry returns the geometry of the underlying device.
func (a *Array) Geometry() jbod.Geometry {
	return a.geometry
}

// Capacity returns the number of addressable bytes.
func (a *Array) Capacity() uint64 {
	return a.geometry.Capacity()
}

// MaxTransfer returns the largest length accepted by Read and Write.
func (a *Array) MaxTransfer() int {
	return a.maxTransfer
}

// Mounted tells if the array is mounted.
func (a *Array) Mounted() bool {
	return a.mounted
}

// WritePermitted tells if write permission is held.
func (a *Array) WritePermitted() bool {
	return a.writePermitted
}

// Mount mounts the device, which refills every disk with its pattern.
func (a *Array) Mount() (err error) {
	defer a.sessionDone(EventMount, &err)

	if a.mounted {
		return ErrAlreadyMounted
	}

	err = a.exec(jbod.NewOp(jbod.CmdMount, 0, 0), nil)
	if err != nil {
		return err
	}

	a.mounted = true
	a.pos = position{}

	if a.writePermitted {
		// A failed grant leaves the array mounted but read-only.
		grantErr := a.exec(jbod.NewOp(jbod.CmdWritePermission, 0, 0), nil)
		if grantErr != nil {
			a.writePermitted = false
		}
	}

	return nil
}

// Unmount unmounts the device. Write permission is revoked as well, so a new
// mount always starts without it.
func (a *Array) Unmount() (err error) {
	defer a.sessionDone(EventUnmount, &err)

	if !a.mounted {
		return ErrAlreadyUnmounted
	}

	err = a.exec(jbod.NewOp(jbod.CmdUnmount, 0, 0), nil)
	if err != nil {
		return err
	}

	a.mounted = false
	a.writePermitted = false

	return nil
}

// GrantWritePermission allows Write. While unmounted only the session flag is
// set and the device is told on the next Mount.
func (a *Array) GrantWritePermission() (err error) {
	defer a.sessionDone(EventGrant, &err)

	if a.writePermitted {
		return ErrPermissionAlreadyGranted
	}

	if a.mounted {
		err = a.exec(jbod.NewOp(jbod.CmdWritePermission, 0, 0), nil)
		if err != nil {
			return err
		}
	}

	a.writePermitted = true

	return nil
}

// RevokeWritePermission disallows Write.
func (a *Array) RevokeWritePermission() (err error) {
	defer a.sessionDone(EventRevoke, &err)

	if !a.writePermitted {
		return ErrPermissionAlreadyRevoked
	}

	if a.mounted {
		err = a.exec(jbod.NewOp(jbod.CmdRevokeWritePermission, 0, 0), nil)
		if err != nil {
			return err
		}
	}

	a.writePermitted = false

	return nil
}

// Read copies length bytes starting at addr into buf and returns the number
// of bytes read. A zero length always succeeds, even for an address past the
// end of the array.
func (a *Array) Read(addr, length uint32, buf []byte) (int, error) {
	if !a.mounted {
		return 0, ErrUnmounted
	}

	if length == 0 {
		return 0, nil
	}

	if err := a.validate(addr, length, buf); err != nil {
		return 0, err
	}

	return a.transfer(TransferRead, addr, length, buf)
}

// Write copies length bytes from buf to the array starting at addr and
// returns the number of bytes written. If a disk operation fails part way,
// the blocks before it keep the new data.
func (a *Array) Write(addr, length uint32, buf []byte) (int, error) {
	if !a.mounted {
		return 0, ErrUnmounted
	}

	if !a.writePermitted {
		return 0, ErrNoPermission
	}

	if length == 0 {
		return 0, nil
	}

	if err := a.validate(addr, length, buf); err != nil {
		return 0, err
	}

	return a.transfer(TransferWrite, addr, length, buf)
}

// Signature returns the SIGN_BLOCK signature of the block that holds addr.
func (a *Array) Signature(addr uint32) (uint64, error) {
	if !a.mounted {
		return 0, ErrUnmounted
	}

	if uint64(addr) >= a.Capacity() {
		return 0, ErrOutOfRange
	}

	disk, block, _ := Locate(a.geometry, uint64(addr))
	if err := a.seek(disk, block); err != nil {
		return 0, err
	}

	sig := make([]byte, jbod.SignatureSize)
	err := a.exec(jbod.NewOp(jbod.CmdSignBlock, 0, 0), sig)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(sig), nil
}

func (a *Array) validate(addr, length uint32, buf []byte) error {
	if buf == nil {
		return ErrBadBuffer
	}

	if int(length) > a.maxTransfer {
		return ErrLengthTooLarge
	}

	if uint64(addr)+uint64(length) > a.Capacity() {
		return ErrOutOfRange
	}

	if len(buf) < int(length) {
		return ErrBadBuffer
	}

	return nil
}

func (a *Array) transfer(
	kind TransferKind,
	addr, length uint32,
	buf []byte,
) (done int, err error) {
	t := Transfer{
		Kind:   kind,
		Addr:   addr,
		Length: length,
		Chunks: Plan(a.geometry, uint64(addr), int(length)),
	}

	defer func() {
		a.InvokeHook(sim.HookCtx{
			Domain: a,
			Pos:    HookPosTransfer,
			Item:   t,
			Detail: err,
		})
	}()

	for _, c := range t.Chunks {
		data := buf[c.BufOffset : c.BufOffset+c.Length]

		if kind == TransferRead {
			err = a.readChunk(c, data)
		} else {
			err = a.writeChunk(c, data)
		}

		if err != nil {
			return done, err
		}

		done += c.Length
	}

	return done, nil
}

func (a *Array) readChunk(c Chunk, data []byte) error {
	if err := a.readBlock(c.Disk, c.Block); err != nil {
		return err
	}

	copy(data, a.scratch[c.Offset:c.Offset+c.Length])

	return nil
}

// writeChunk merges data into the block. A chunk that covers a whole block
// does not need the old content.
func (a *Array) writeChunk(c Chunk, data []byte) error {
	if c.Length < a.geometry.BlockSize {
		if err := a.readBlock(c.Disk, c.Block); err != nil {
			return err
		}
	}

	copy(a.scratch[c.Offset:c.Offset+c.Length], data)

	return a.writeBlock(c.Disk, c.Block)
}

func (a *Array) readBlock(disk, block int) error {
	if err := a.seek(disk, block); err != nil {
		return err
	}

	err := a.exec(jbod.NewOp(jbod.CmdReadBlock, 0, 0), a.scratch)
	if err != nil {
		return err
	}

	a.advance()

	return nil
}

func (a *Array) writeBlock(disk, block int) error {
	if err := a.seek(disk, block); err != nil {
		return err
	}

	err := a.exec(jbod.NewOp(jbod.CmdWriteBlock, 0, 0), a.scratch)
	if err != nil {
		return err
	}

	a.advance()

	return nil
}

// seek moves the device to the block, skipping the seeks that the device
// position already satisfies.
func (a *Array) seek(disk, block int) error {
	if !a.pos.valid || a.pos.disk != disk {
		err := a.exec(jbod.NewOp(jbod.CmdSeekToDisk, uint8(disk), 0), nil)
		if err != nil {
			return err
		}

		a.pos = position{disk: disk, block: 0, valid: true}
	}

	if a.pos.block != block {
		err := a.exec(jbod.NewOp(jbod.CmdSeekToBlock, 0, uint8(block)), nil)
		if err != nil {
			return err
		}

		a.pos.block = block
	}

	return nil
}

// advance follows the device, which moves to the next block after every
// block read or write.
func (a *Array) advance() {
	a.pos.block++
	if a.pos.block == a.geometry.BlocksPerDisk {
		a.pos.block = 0
		a.pos.disk++
	}
}

func (a *Array) exec(op jbod.Op, block []byte) error {
	err := a.device.Execute(op.Encode(), block)
	if err != nil {
		a.pos.valid = false
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	return nil
}

func (a *Array) sessionDone(event SessionEvent, err *error) {
	a.InvokeHook(sim.HookCtx{
		Domain: a,
		Pos:    HookPosSession,
		Item:   event,
		Detail: *err,
	})
}
