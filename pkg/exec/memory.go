package exec

import (
	"database/sql"
	"errors"
	"fmt"
	"reflect"
)

// MemoryResultSet is a ResultSet over rows held in memory. Data sources use
// it for results the driver does not expose as a cursor, such as generated
// keys reported through sql.Result.
type MemoryResultSet struct {
	stmt    Statement
	columns []ColumnInfo
	rows    [][]any
	pos     int
	closed  bool
}

// NewMemoryResultSet creates a result set over rows. The rows are not copied.
func NewMemoryResultSet(stmt Statement, columns []ColumnInfo, rows [][]any) *MemoryResultSet {
	return &MemoryResultSet{stmt: stmt, columns: columns, rows: rows, pos: -1}
}

// Statement returns the owning statement.
func (m *MemoryResultSet) Statement() Statement {
	return m.stmt
}

// Columns returns the column descriptions.
func (m *MemoryResultSet) Columns() []ColumnInfo {
	out := make([]ColumnInfo, len(m.columns))
	copy(out, m.columns)
	return out
}

// Next advances to the next row.
func (m *MemoryResultSet) Next() bool {
	if m.closed || m.pos+1 >= len(m.rows) {
		return false
	}
	m.pos++
	return true
}

// Values returns a copy of the current row.
func (m *MemoryResultSet) Values() []any {
	if m.pos < 0 || m.pos >= len(m.rows) {
		return nil
	}
	out := make([]any, len(m.rows[m.pos]))
	copy(out, m.rows[m.pos])
	return out
}

// Scan copies the current row into dest.
func (m *MemoryResultSet) Scan(dest ...any) error {
	row := m.Values()
	if row == nil {
		return errors.New("scan called without a current row")
	}
	if len(dest) != len(row) {
		return fmt.Errorf("expected %d destination arguments in Scan, not %d", len(row), len(dest))
	}
	for i, d := range dest {
		if err := assign(d, row[i]); err != nil {
			return fmt.Errorf("scan column %d: %w", i, err)
		}
	}
	return nil
}

// Err always returns nil.
func (m *MemoryResultSet) Err() error {
	return nil
}

// Close marks the result set closed.
func (m *MemoryResultSet) Close() error {
	m.closed = true
	return nil
}

// assign stores src into the pointer dest, converting between compatible
// kinds. sql.Scanner destinations receive src unchanged.
func assign(dest, src any) error {
	if s, ok := dest.(sql.Scanner); ok {
		return s.Scan(src)
	}
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return errors.New("destination is not a non-nil pointer")
	}
	target := dv.Elem()
	if src == nil {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}
	if b, ok := src.([]byte); ok && target.Kind() == reflect.String {
		target.SetString(string(b))
		return nil
	}
	sv := reflect.ValueOf(src)
	switch {
	case sv.Type().AssignableTo(target.Type()):
		target.Set(sv)
	case sv.Type().ConvertibleTo(target.Type()) && sv.Kind() != reflect.String && target.Kind() != reflect.String:
		target.Set(sv.Convert(target.Type()))
	case target.Kind() == reflect.String:
		target.SetString(fmt.Sprint(src))
	default:
		return fmt.Errorf("cannot assign %T to %s", src, target.Type())
	}
	return nil
}
