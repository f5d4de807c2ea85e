package script

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/sarchlab/jbodsim/mdadm"
)

// Target is the array a script runs against. Both mdadm.Array and
// mdadm.SyncArray satisfy it.
type Target interface {
	Mount() error
	Unmount() error
	GrantWritePermission() error
	RevokeWritePermission() error
	Read(addr, length uint32, buf []byte) (int, error)
	Write(addr, length uint32, buf []byte) (int, error)
	Signature(addr uint32) (uint64, error)
	MaxTransfer() int
}

// Result is the outcome of one step.
type Result struct {
	Step Step
	Code int
	Data []byte
	Err  error
}

// Run executes the steps in order and writes one line per step to out.
// Failing array operations do not stop the script. Run stops at the first
// step whose Expect or Code does not match.
func Run(t Target, s *Script, out io.Writer) ([]Result, error) {
	results := make([]Result, 0, len(s.Steps))

	for i, step := range s.Steps {
		r := runStep(t, step)
		results = append(results, r)

		fmt.Fprintf(out, "step %d: %s\n", i+1, r)

		if err := r.check(); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	return results, nil
}

func runStep(t Target, step Step) Result {
	r := Result{Step: step}

	switch step.Op {
	case OpMount:
		r.Err = t.Mount()
		r.Code = mdadm.SessionCode(r.Err)
	case OpUnmount:
		r.Err = t.Unmount()
		r.Code = mdadm.SessionCode(r.Err)
	case OpGrant:
		r.Err = t.GrantWritePermission()
		r.Code = mdadm.SessionCode(r.Err)
	case OpRevoke:
		r.Err = t.RevokeWritePermission()
		r.Code = mdadm.SessionCode(r.Err)
	case OpRead:
		buf := []byte{}
		if int64(step.Len) <= int64(t.MaxTransfer()) {
			buf = make([]byte, step.Len)
		}

		n, err := t.Read(step.Addr, step.Len, buf)
		r.Data = buf[:n]
		r.Err = err
		r.Code = transferCode(n, err)
	case OpWrite:
		data, length := step.payload(t.MaxTransfer())
		n, err := t.Write(step.Addr, length, data)
		r.Err = err
		r.Code = transferCode(n, err)
	case OpSign:
		sig, err := t.Signature(step.Addr)
		r.Err = err
		r.Code = mdadm.SessionCode(err)
		if err == nil {
			r.Data = binary.LittleEndian.AppendUint64(nil, sig)
		}
	}

	return r
}

func transferCode(n int, err error) int {
	if err != nil {
		return mdadm.Code(err)
	}

	return n
}

func (r Result) check() error {
	if r.Step.Code != nil && *r.Step.Code != r.Code {
		return fmt.Errorf("expected code %d, got %d", *r.Step.Code, r.Code)
	}

	if r.Step.Expect == "" {
		return nil
	}

	if !bytes.Equal(r.Step.expect, r.Data) {
		return fmt.Errorf("expected data %x, got %x", r.Step.expect, r.Data)
	}

	return nil
}

func (r Result) String() string {
	s := r.Step.Op

	switch r.Step.Op {
	case OpRead, OpWrite, OpSign:
		s += fmt.Sprintf(" addr=%d", r.Step.Addr)
	}

	s += fmt.Sprintf(" -> %d", r.Code)

	if r.Err != nil {
		return s + " (" + r.Err.Error() + ")"
	}

	switch r.Step.Op {
	case OpRead, OpSign:
		s += " " + hex.EncodeToString(r.Data)
	}

	return s
}
