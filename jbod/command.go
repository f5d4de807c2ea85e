package jbod

import "fmt"

// Command is the kind of operation carried by an operation word.
type Command uint8

// The commands understood by a Bank. The values are part of the operation
// word encoding and must not change.
const (
	CmdMount Command = iota
	CmdUnmount
	CmdSeekToDisk
	CmdSeekToBlock
	CmdReadBlock
	CmdWritePermission
	CmdRevokeWritePermission
	CmdWriteBlock
	CmdSignBlock
	numCommands
)

var commandNames = [...]string{
	CmdMount:                 "MOUNT",
	CmdUnmount:               "UNMOUNT",
	CmdSeekToDisk:            "SEEK_TO_DISK",
	CmdSeekToBlock:           "SEEK_TO_BLOCK",
	CmdReadBlock:             "READ_BLOCK",
	CmdWritePermission:       "WRITE_PERMISSION",
	CmdRevokeWritePermission: "REVOKE_WRITE_PERMISSION",
	CmdWriteBlock:            "WRITE_BLOCK",
	CmdSignBlock:             "SIGN_BLOCK",
}

// Valid tells if the command is one that a Bank can execute.
func (c Command) Valid() bool {
	return c < numCommands
}

func (c Command) String() string {
	if !c.Valid() {
		return fmt.Sprintf("UNKNOWN(%d)", uint8(c))
	}

	return commandNames[c]
}
