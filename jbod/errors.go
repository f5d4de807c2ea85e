package jbod

import (
	"errors"
	"fmt"

	"github.com/zeebo/errs"
)

// Class wraps every error returned by a Bank.
var Class = errs.Class("jbod")

// Kind identifies why a Bank rejected an operation. The values are shared
// with the operation word protocol and must not change.
type Kind uint8

// The error kinds reported by a Bank.
const (
	NoError Kind = iota
	Unmounted
	AlreadyMounted
	AlreadyUnmounted
	BadCommand
	BadDiskNumber
	BadBlockNumber
	BadRead
	BadWrite
	WritePermissionAlreadyGranted
	WritePermissionAlreadyRevoked
	numKinds
)

var kindMessages = [...]string{
	NoError:                       "no error",
	Unmounted:                     "jbod is unmounted",
	AlreadyMounted:                "jbod is already mounted",
	AlreadyUnmounted:              "jbod is already unmounted",
	BadCommand:                    "invalid command",
	BadDiskNumber:                 "invalid disk number",
	BadBlockNumber:                "invalid block number",
	BadRead:                       "read failed",
	BadWrite:                      "write failed",
	WritePermissionAlreadyGranted: "write permission already granted",
	WritePermissionAlreadyRevoked: "write permission already revoked",
}

func (k Kind) String() string {
	if k >= numKinds {
		return fmt.Sprintf("unknown error %d", uint8(k))
	}

	return kindMessages[k]
}

// Error is the failure of one operation.
type Error struct {
	Kind Kind
	Op   Op
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Op.Cmd, e.Kind)
}

func newError(kind Kind, op Op) error {
	return Class.Wrap(&Error{Kind: kind, Op: op})
}

// KindOf extracts the kind of a Bank error. It returns NoError for nil and
// BadCommand for errors that did not come from a Bank.
func KindOf(err error) Kind {
	if err == nil {
		return NoError
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return BadCommand
}
