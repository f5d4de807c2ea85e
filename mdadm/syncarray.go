package mdadm

import (
	"sync"

	"github.com/sarchlab/jbodsim/jbod"
)

// SyncArray serializes every operation on an Array with one mutex.
type SyncArray struct {
	lock  sync.Mutex
	array *Array
}

// NewSyncArray wraps an Array. The Array must not be used directly afterward.
func NewSyncArray(a *Array) *SyncArray {
	return &SyncArray{array: a}
}

// Name returns the name of the array.
func (s *SyncArray) Name() string {
	return s.array.Name()
}

// Geometry returns the geometry of the array.
func (s *SyncArray) Geometry() jbod.Geometry {
	return s.array.Geometry()
}

// MaxTransfer returns the largest length accepted by Read and Write.
func (s *SyncArray) MaxTransfer() int {
	return s.array.MaxTransfer()
}

// Do runs f with exclusive access to the array.
func (s *SyncArray) Do(f func(a *Array)) {
	s.lock.Lock()
	defer s.lock.Unlock()

	f(s.array)
}

// State returns the mount and write permission flags.
func (s *SyncArray) State() (mounted, writePermitted bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.array.Mounted(), s.array.WritePermitted()
}

// Mount calls Array.Mount.
func (s *SyncArray) Mount() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.array.Mount()
}

// Unmount calls Array.Unmount.
func (s *SyncArray) Unmount() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.array.Unmount()
}

// GrantWritePermission calls Array.GrantWritePermission.
func (s *SyncArray) GrantWritePermission() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.array.GrantWritePermission()
}

// RevokeWritePermission calls Array.RevokeWritePermission.
func (s *SyncArray) RevokeWritePermission() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.array.RevokeWritePermission()
}

// Read calls Array.Read.
func (s *SyncArray) Read(addr, length uint32, buf []byte) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.array.Read(addr, length, buf)
}

// Write calls Array.Write.
func (s *SyncArray) Write(addr, length uint32, buf []byte) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.array.Write(addr, length, buf)
}

// Signature calls Array.Signature.
func (s *SyncArray) Signature(addr uint32) (uint64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.array.Signature(addr)
}
