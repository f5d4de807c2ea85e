package mdadm

import "errors"

// Errors returned by an Array. Transfer errors are checked in the order they
// are listed in Read and Write.
var (
	ErrUnmounted                = errors.New("array is unmounted")
	ErrAlreadyMounted           = errors.New("array is already mounted")
	ErrAlreadyUnmounted         = errors.New("array is already unmounted")
	ErrPermissionAlreadyGranted = errors.New("write permission already granted")
	ErrPermissionAlreadyRevoked = errors.New("write permission already revoked")
	ErrNoPermission             = errors.New("write permission not granted")
	ErrBadBuffer                = errors.New("buffer is nil or too short")
	ErrLengthTooLarge           = errors.New("transfer length too large")
	ErrOutOfRange               = errors.New("address range out of bounds")
	ErrIO                       = errors.New("disk operation failed")
)

// Legacy return codes of the array manager interface.
const (
	CodeOutOfRange     = -1
	CodeLengthTooLarge = -2
	CodeUnmounted      = -3
	CodeBadBuffer      = -4
	CodeNoPermission   = -5
	CodeIO             = -6
	CodeSessionFailed  = -1
	CodeSessionOK      = 1
)

// Code maps a Read or Write error to the legacy negative return code. It
// returns 0 for nil.
func Code(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrOutOfRange):
		return CodeOutOfRange
	case errors.Is(err, ErrLengthTooLarge):
		return CodeLengthTooLarge
	case errors.Is(err, ErrUnmounted):
		return CodeUnmounted
	case errors.Is(err, ErrBadBuffer):
		return CodeBadBuffer
	case errors.Is(err, ErrNoPermission):
		return CodeNoPermission
	case errors.Is(err, ErrIO):
		return CodeIO
	default:
		return CodeSessionFailed
	}
}

// SessionCode maps the error of Mount, Unmount, GrantWritePermission or
// RevokeWritePermission to the legacy return code, 1 on success and -1 on
// failure.
func SessionCode(err error) int {
	if err != nil {
		return CodeSessionFailed
	}

	return CodeSessionOK
}
