package tracing

import (
	"sort"
	"sync"

	"github.com/sarchlab/jbodsim/jbod"
	"github.com/sarchlab/jbodsim/sim"
)

// OpCounter counts the operations executed by a bank, per command and per
// error kind. It is safe to read the counts while the bank is in use.
type OpCounter struct {
	lock     sync.Mutex
	commands map[jbod.Command]uint64
	failures map[jbod.Kind]uint64
}

// NewOpCounter creates a new OpCounter
func NewOpCounter() *OpCounter {
	return &OpCounter{
		commands: make(map[jbod.Command]uint64),
		failures: make(map[jbod.Kind]uint64),
	}
}

// Func counts an executed operation.
func (c *OpCounter) Func(ctx sim.HookCtx) {
	if ctx.Pos != jbod.HookPosAfterOp {
		return
	}

	op := ctx.Item.(jbod.Op)
	kind := ctx.Detail.(jbod.Kind)

	c.lock.Lock()
	defer c.lock.Unlock()

	c.commands[op.Cmd]++
	if kind != jbod.NoError {
		c.failures[kind]++
	}
}

// Count returns the number of times a command was executed.
func (c *OpCounter) Count(cmd jbod.Command) uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.commands[cmd]
}

// Failures returns the number of operations that failed with the kind.
func (c *OpCounter) Failures(kind jbod.Kind) uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.failures[kind]
}

// Snapshot returns the counts keyed by command name.
func (c *OpCounter) Snapshot() map[string]uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	s := make(map[string]uint64, len(c.commands))
	for cmd, n := range c.commands {
		s[cmd.String()] = n
	}

	return s
}

// Commands returns the names of the commands seen so far, sorted.
func (c *OpCounter) Commands() []string {
	s := c.Snapshot()

	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
