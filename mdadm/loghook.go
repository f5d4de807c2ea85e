package mdadm

import (
	"log"

	"github.com/sarchlab/jbodsim/sim"
)

// LogHook logs session operations and transfers of an Array.
type LogHook struct {
	sim.LogHookBase
}

// NewLogHook creates a LogHook. A nil logger logs to the standard logger.
func NewLogHook(logger *log.Logger) *LogHook {
	return &LogHook{LogHookBase: sim.NewLogHookBase(logger)}
}

// Func logs the hook context.
func (h *LogHook) Func(ctx sim.HookCtx) {
	name := ""
	if named, ok := ctx.Domain.(sim.Named); ok {
		name = named.Name()
	}

	switch ctx.Pos {
	case HookPosSession:
		event := ctx.Item.(SessionEvent)
		if err, _ := ctx.Detail.(error); err != nil {
			h.Printf("%s: %s failed: %v", name, event, err)
			return
		}

		h.Printf("%s: %s", name, event)
	case HookPosTransfer:
		t := ctx.Item.(Transfer)
		if err, _ := ctx.Detail.(error); err != nil {
			h.Printf("%s: %s addr=%d len=%d failed: %v",
				name, t.Kind, t.Addr, t.Length, err)
			return
		}

		h.Printf("%s: %s addr=%d len=%d blocks=%d",
			name, t.Kind, t.Addr, t.Length, len(t.Chunks))
	}
}
