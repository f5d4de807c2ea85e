package tracing

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/jbodsim/jbod"
	"github.com/sarchlab/jbodsim/mdadm"
	"github.com/sarchlab/jbodsim/sim"
)

// JSONRecord is one element of the array written by a JSONTracer.
type JSONRecord struct {
	Seq      uint64 `json:"seq"`
	Location string `json:"location"`
	Type     string `json:"type"`

	Command string `json:"command,omitempty"`
	Word    string `json:"word,omitempty"`
	Status  string `json:"status,omitempty"`

	Event  string `json:"event,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Addr   uint32 `json:"addr,omitempty"`
	Length uint32 `json:"length,omitempty"`
	Blocks int    `json:"blocks,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Record types.
const (
	RecordOp       = "op"
	RecordTransfer = "transfer"
	RecordSession  = "session"
)

// JSONTracer writes bank operations, transfers and session events into a
// JSON array.
type JSONTracer struct {
	w      io.Writer
	lock   sync.Mutex
	first  bool
	seq    uint64
	closed bool
}

// NewJSONTracer creates a JSONTracer that writes to w. Close must be called
// to terminate the array.
func NewJSONTracer(w io.Writer) *JSONTracer {
	_, err := w.Write([]byte("[\n"))
	if err != nil {
		panic(err)
	}

	return &JSONTracer{w: w, first: true}
}

// NewJSONFileTracer creates a JSONTracer that writes into a file. An empty
// path picks a unique name. The file is closed at exit.
func NewJSONFileTracer(path string) *JSONTracer {
	if path == "" {
		path = xid.New().String() + ".json"
	}

	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}

	fmt.Fprintf(os.Stderr, "Recording operations in %s\n", path)

	t := NewJSONTracer(f)

	atexit.Register(func() {
		t.Close()
		f.Close()
	})

	return t
}

// Func records the hook context.
func (t *JSONTracer) Func(ctx sim.HookCtx) {
	var r JSONRecord

	switch ctx.Pos {
	case jbod.HookPosAfterOp:
		op := ctx.Item.(jbod.Op)
		r = JSONRecord{
			Type:    RecordOp,
			Command: op.Cmd.String(),
			Word:    fmt.Sprintf("0x%08x", op.Encode()),
			Status:  ctx.Detail.(jbod.Kind).String(),
		}
	case mdadm.HookPosTransfer:
		tr := ctx.Item.(mdadm.Transfer)
		r = JSONRecord{
			Type:   RecordTransfer,
			Kind:   string(tr.Kind),
			Addr:   tr.Addr,
			Length: tr.Length,
			Blocks: len(tr.Chunks),
			Error:  errString(ctx.Detail),
		}
	case mdadm.HookPosSession:
		r = JSONRecord{
			Type:  RecordSession,
			Event: string(ctx.Item.(mdadm.SessionEvent)),
			Error: errString(ctx.Detail),
		}
	default:
		return
	}

	r.Location = location(ctx)

	t.write(r)
}

func (t *JSONTracer) write(r JSONRecord) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.closed {
		return
	}

	t.seq++
	r.Seq = t.seq

	if t.first {
		t.first = false
	} else {
		_, err := t.w.Write([]byte(",\n"))
		if err != nil {
			panic(err)
		}
	}

	b, err := json.Marshal(r)
	if err != nil {
		panic(err)
	}

	_, err = t.w.Write(b)
	if err != nil {
		panic(err)
	}
}

// Close terminates the JSON array. Records arriving later are dropped.
func (t *JSONTracer) Close() {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.closed {
		return
	}

	t.closed = true

	_, err := t.w.Write([]byte("\n]\n"))
	if err != nil {
		panic(err)
	}
}
