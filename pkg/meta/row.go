package meta

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/exec"
)

// Row is one catalog row keyed by upper-cased column name.
//
// Accessors never fail: a missing column or a NULL reads as the zero value.
// Catalog queries differ between server versions, so loaders must not
// depend on every column being present.
type Row map[string]any

// NewRow builds a Row from parallel column and value slices.
func NewRow(columns []string, values []any) Row {
	r := make(Row, len(columns))
	for i, c := range columns {
		if i < len(values) {
			r[strings.ToUpper(c)] = values[i]
		}
	}
	return r
}

// Has reports whether the row carries a non-NULL value for name.
func (r Row) Has(name string) bool {
	v, ok := r[strings.ToUpper(name)]
	return ok && v != nil
}

// Value returns the raw value for name.
func (r Row) Value(name string) any {
	return r[strings.ToUpper(name)]
}

// String returns the value as a string.
func (r Row) String(name string) string {
	switch v := r.Value(name).(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// Int64 returns the value as an int64. Floats are truncated and unparsable
// text reads as zero.
func (r Row) Int64(name string) int64 {
	n, _ := r.Int64OK(name)
	return n
}

// Int64OK is Int64 that also reports whether a number could be read.
func (r Row) Int64OK(name string) (int64, bool) {
	switch v := r.Value(name).(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int16:
		return int64(v), true
	case int8:
		return int64(v), true
	case uint64:
		return int64(v), true //nolint:gosec // catalog sizes fit in int64
	case uint32:
		return int64(v), true
	case uint:
		return int64(v), true //nolint:gosec // catalog sizes fit in int64
	case float64:
		return int64(v), true
	case float32:
		return int64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		return parseInt(v)
	case []byte:
		return parseInt(string(v))
	default:
		return 0, false
	}
}

func parseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}

// Int returns the value as an int.
func (r Row) Int(name string) int {
	return int(r.Int64(name))
}

// Bool returns the value as a bool. Text values YES, Y, TRUE, T and 1 are
// true, case-insensitively.
func (r Row) Bool(name string) bool {
	switch v := r.Value(name).(type) {
	case bool:
		return v
	case string, []byte:
		switch strings.ToUpper(strings.TrimSpace(r.String(name))) {
		case "YES", "Y", "TRUE", "T", "1":
			return true
		}
		return false
	default:
		n, ok := r.Int64OK(name)
		return ok && n != 0
	}
}

// ReadRows drains a result set into rows. The result set is not closed.
func ReadRows(rs exec.ResultSet) ([]Row, error) {
	cols := rs.Columns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}

	var out []Row
	for rs.Next() {
		out = append(out, NewRow(names, rs.Values()))
	}
	if err := rs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ScanSQLRows drains and closes rows.
func ScanSQLRows(rows *sql.Rows) ([]Row, error) {
	defer func() { _ = rows.Close() }()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		out = append(out, NewRow(names, values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog rows: %w", err)
	}
	return out, nil
}
