package tracing

import (
	"time"

	"github.com/sarchlab/jbodsim/datarecording"
	"github.com/sarchlab/jbodsim/jbod"
	"github.com/sarchlab/jbodsim/mdadm"
	"github.com/sarchlab/jbodsim/sim"
)

// Table names used by DBTracer.
const (
	OpTable       = "jbod_op"
	TransferTable = "mdadm_transfer"
	SessionTable  = "mdadm_session"
)

// OpEntry is one executed operation word.
type OpEntry struct {
	ID         string
	Seq        uint64
	Location   string
	Command    string
	Word       uint32
	Disk       uint8
	Block      uint8
	Status     string
	DurationNS int64
}

// TransferEntry is one Read or Write of an array.
type TransferEntry struct {
	ID        string
	Seq       uint64
	Location  string
	Kind      string
	Addr      uint32
	Length    uint32
	NumBlocks int
	Error     string
}

// SessionEntry is one session operation of an array.
type SessionEntry struct {
	ID       string
	Seq      uint64
	Location string
	Event    string
	Error    string
}

// DBTracer is a hook that records bank operations and array transfers into a
// DataRecorder. It can be attached to both jbod.Bank and mdadm.Array.
type DBTracer struct {
	recorder datarecording.DataRecorder
	idGen    sim.IDGenerator
	seq      uint64
	opStart  time.Time
}

// NewDBTracer creates a DBTracer and the tables it writes to.
func NewDBTracer(
	recorder datarecording.DataRecorder,
	idGen sim.IDGenerator,
) *DBTracer {
	t := &DBTracer{
		recorder: recorder,
		idGen:    idGen,
	}

	recorder.CreateTable(OpTable, OpEntry{})
	recorder.CreateTable(TransferTable, TransferEntry{})
	recorder.CreateTable(SessionTable, SessionEntry{})

	return t
}

// Func records the hook context.
func (t *DBTracer) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case jbod.HookPosBeforeOp:
		t.opStart = time.Now()
	case jbod.HookPosAfterOp:
		t.recordOp(ctx)
	case mdadm.HookPosTransfer:
		t.recordTransfer(ctx)
	case mdadm.HookPosSession:
		t.recordSession(ctx)
	}
}

// Flush writes buffered entries to the database.
func (t *DBTracer) Flush() {
	t.recorder.Flush()
}

func (t *DBTracer) recordOp(ctx sim.HookCtx) {
	op := ctx.Item.(jbod.Op)
	kind := ctx.Detail.(jbod.Kind)

	var duration int64
	if !t.opStart.IsZero() {
		duration = time.Since(t.opStart).Nanoseconds()
		t.opStart = time.Time{}
	}

	t.seq++
	t.recorder.InsertData(OpTable, OpEntry{
		ID:         t.idGen.Generate(),
		Seq:        t.seq,
		Location:   location(ctx),
		Command:    op.Cmd.String(),
		Word:       op.Encode(),
		Disk:       op.DiskID,
		Block:      op.BlockID,
		Status:     kind.String(),
		DurationNS: duration,
	})
}

func (t *DBTracer) recordTransfer(ctx sim.HookCtx) {
	tr := ctx.Item.(mdadm.Transfer)

	t.seq++
	t.recorder.InsertData(TransferTable, TransferEntry{
		ID:        t.idGen.Generate(),
		Seq:       t.seq,
		Location:  location(ctx),
		Kind:      string(tr.Kind),
		Addr:      tr.Addr,
		Length:    tr.Length,
		NumBlocks: len(tr.Chunks),
		Error:     errString(ctx.Detail),
	})
}

func (t *DBTracer) recordSession(ctx sim.HookCtx) {
	event := ctx.Item.(mdadm.SessionEvent)

	t.seq++
	t.recorder.InsertData(SessionTable, SessionEntry{
		ID:       t.idGen.Generate(),
		Seq:      t.seq,
		Location: location(ctx),
		Event:    string(event),
		Error:    errString(ctx.Detail),
	})
}

func location(ctx sim.HookCtx) string {
	if named, ok := ctx.Domain.(sim.Named); ok {
		return named.Name()
	}

	return ""
}

func errString(detail interface{}) string {
	if err, ok := detail.(error); ok && err != nil {
		return err.Error()
	}

	return ""
}
