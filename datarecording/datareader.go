package datarecording

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"strings"
)

// QueryParams selects and pages the rows of one table.
type QueryParams struct {
	// Where is a condition without the WHERE keyword, such as "Disk = ?".
	Where string

	// Args fill the placeholders of Where.
	Args []any

	// Limit caps the number of rows. Zero means no limit.
	Limit int

	// Offset skips rows. It only applies together with Limit.
	Offset int

	// OrderBy is a sort clause without ORDER BY, such as "Seq DESC".
	OrderBy string
}

// DataReader reads the tables written by a DataRecorder back into structs.
type DataReader interface {
	// MapTable binds a table to the struct type of sampleEntry. Columns are
	// matched to fields by name.
	MapTable(tableName string, sampleEntry any)

	// ListTables returns the mapped tables.
	ListTables() []string

	// Query returns pointers to the mapped struct type, plus the number of
	// rows that match Where regardless of Limit and Offset.
	Query(ctx context.Context, tableName string, params QueryParams) (
		results []any,
		totalCount int,
		err error,
	)

	// Close closes the database.
	Close() error
}

type mapping struct {
	structType reflect.Type
	fields     map[string]int
}

type sqliteReader struct {
	*sql.DB

	tables map[string]mapping
}

// NewReader opens a recorded database for reading. It fails if the file does
// not exist instead of creating an empty database.
func NewReader(dbFilename string) (DataReader, error) {
	if _, err := os.Stat(dbFilename); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", "file:"+dbFilename+"?mode=ro")
	if err != nil {
		return nil, err
	}

	return NewReaderWithDB(db), nil
}

// NewReaderWithDB creates a DataReader over an open database.
func NewReaderWithDB(db *sql.DB) DataReader {
	return &sqliteReader{
		DB:     db,
		tables: make(map[string]mapping),
	}
}

func (r *sqliteReader) MapTable(tableName string, sampleEntry any) {
	t := reflect.TypeOf(sampleEntry)

	m := mapping{structType: t, fields: make(map[string]int)}
	for i := 0; i < t.NumField(); i++ {
		m.fields[t.Field(i).Name] = i
	}

	r.tables[tableName] = m
}

func (r *sqliteReader) ListTables() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}

	return names
}

func (r *sqliteReader) Query(
	ctx context.Context,
	tableName string,
	params QueryParams,
) ([]any, int, error) {
	m, ok := r.tables[tableName]
	if !ok {
		return nil, 0, fmt.Errorf("table %s is not mapped", tableName)
	}

	var total int

	err := r.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+tableName+whereClause(params),
		params.Args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.QueryContext(ctx, selectSQL(tableName, params),
		params.Args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results, err := m.scan(rows)
	if err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

func whereClause(params QueryParams) string {
	if params.Where == "" {
		return ""
	}

	return " WHERE " + params.Where
}

func selectSQL(tableName string, params QueryParams) string {
	var b strings.Builder

	b.WriteString("SELECT * FROM " + tableName + whereClause(params))

	if params.OrderBy != "" {
		b.WriteString(" ORDER BY " + params.OrderBy)
	}

	if params.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", params.Limit)

		if params.Offset > 0 {
			fmt.Fprintf(&b, " OFFSET %d", params.Offset)
		}
	}

	return b.String()
}

// scan reads every row into a new struct. Columns without a matching field
// are dropped.
func (m mapping) scan(rows *sql.Rows) ([]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []any

	for rows.Next() {
		entry := reflect.New(m.structType)
		targets := make([]any, len(columns))

		for i, col := range columns {
			idx, ok := m.fields[col]
			if !ok {
				targets[i] = new(any)
				continue
			}

			targets[i] = entry.Elem().Field(idx).Addr().Interface()
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		results = append(results, entry.Interface())
	}

	return results, rows.Err()
}

func (r *sqliteReader) Close() error {
	return r.DB.Close()
}
