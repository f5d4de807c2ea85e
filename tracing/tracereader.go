package tracing

import (
	"fmt"

	"github.com/sarchlab/jbodsim/datarecording"
)

// Tables lists the tables written by DBTracer.
var Tables = []string{OpTable, TransferTable, SessionTable}

// MapTables binds the DBTracer tables of a reader to their entry types.
func MapTables(reader datarecording.DataReader) {
	reader.MapTable(OpTable, OpEntry{})
	reader.MapTable(TransferTable, TransferEntry{})
	reader.MapTable(SessionTable, SessionEntry{})
}

// OpenTrace opens a database written by DBTracer with every table mapped.
func OpenTrace(path string) (datarecording.DataReader, error) {
	reader, err := datarecording.NewReader(path)
	if err != nil {
		return nil, err
	}

	MapTables(reader)

	return reader, nil
}

func (e OpEntry) String() string {
	return fmt.Sprintf("%6d %s %-24s disk=%d block=%d word=%08x %s %dns",
		e.Seq, e.Location, e.Command, e.Disk, e.Block, e.Word,
		e.Status, e.DurationNS)
}

func (e TransferEntry) String() string {
	s := fmt.Sprintf("%6d %s %-5s addr=%d len=%d blocks=%d",
		e.Seq, e.Location, e.Kind, e.Addr, e.Length, e.NumBlocks)

	if e.Error != "" {
		s += " error=" + e.Error
	}

	return s
}

func (e SessionEntry) String() string {
	s := fmt.Sprintf("%6d %s %s", e.Seq, e.Location, e.Event)

	if e.Error != "" {
		s += " error=" + e.Error
	}

	return s
}
