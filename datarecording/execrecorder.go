package datarecording

import (
	"os"
	"strings"
	"time"
)

// ExecTable is the table that an ExecRecorder writes to.
const ExecTable = "exec_info"

const execTimeFormat = "2006-01-02 15:04:05.000000000"

// ExecInfo is one property of a program execution.
type ExecInfo struct {
	Property string
	Value    string
}

// ExecRecorder records how and when the program was run, next to the data
// recorded by tracers.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
}

// NewExecRecorder creates an ExecRecorder and its table.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	recorder.CreateTable(ExecTable, ExecInfo{})

	return &ExecRecorder{recorder: recorder}
}

// Start records the start time, the command line and the working directory.
func (e *ExecRecorder) Start() {
	e.Record("Start Time", time.Now().Format(execTimeFormat))
	e.Record("Command", strings.Join(os.Args, " "))

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	e.Record("Working Directory", cwd)
}

// Record adds a property. Properties are written when End is called.
func (e *ExecRecorder) Record(property, value string) {
	e.entries = append(e.entries, ExecInfo{Property: property, Value: value})
}

// End writes the recorded properties together with the end time.
func (e *ExecRecorder) End() {
	e.Record("End Time", time.Now().Format(execTimeFormat))

	for _, entry := range e.entries {
		e.recorder.InsertData(ExecTable, entry)
	}

	e.entries = nil

	e.recorder.Flush()
}
