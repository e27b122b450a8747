package sqlexec

import (
	"database/sql"
	"errors"

	"github.com/leapstack-labs/leapdb/pkg/exec"
)

var errResultSetDetached = errors.New("result set is no longer current")

// resultSet is a cursor over the statement's current native result set.
// When the row window could not be pushed into SQL it is applied here.
type resultSet struct {
	stmt    *Statement
	rows    *sql.Rows
	columns []exec.ColumnInfo

	offset  int64
	limit   int64
	skipped bool
	fetched int64

	values   []any
	err      error
	detached bool
	closed   bool
}

func newResultSet(stmt *Statement, rows *sql.Rows, offset, limit int64) *resultSet {
	return &resultSet{
		stmt:    stmt,
		rows:    rows,
		columns: describeColumns(rows),
		offset:  offset,
		limit:   limit,
	}
}

func describeColumns(rows *sql.Rows) []exec.ColumnInfo {
	types, err := rows.ColumnTypes()
	if err != nil {
		names, _ := rows.Columns()
		cols := make([]exec.ColumnInfo, len(names))
		for i, n := range names {
			cols[i] = exec.ColumnInfo{Name: n}
		}
		return cols
	}
	cols := make([]exec.ColumnInfo, len(types))
	for i, ct := range types {
		nullable, _ := ct.Nullable()
		cols[i] = exec.ColumnInfo{Name: ct.Name(), TypeName: ct.DatabaseTypeName(), Nullable: nullable}
	}
	return cols
}

func (r *resultSet) Statement() exec.Statement {
	return r.stmt
}

func (r *resultSet) Columns() []exec.ColumnInfo {
	out := make([]exec.ColumnInfo, len(r.columns))
	copy(out, r.columns)
	return out
}

func (r *resultSet) Next() bool {
	if r.closed || r.detached || r.err != nil {
		return false
	}
	if !r.skipped {
		r.skipped = true
		for i := int64(0); i < r.offset; i++ {
			if !r.rows.Next() {
				return false
			}
		}
	}
	if r.limit > 0 && r.fetched >= r.limit {
		return false
	}
	if !r.rows.Next() {
		return false
	}

	values := make([]any, len(r.columns))
	ptrs := make([]any, len(values))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		r.err = &exec.ExecError{Op: "fetch", Query: r.stmt.currentQuery(), Err: err}
		return false
	}
	r.values = values
	r.fetched++
	return true
}

func (r *resultSet) Values() []any {
	if r.values == nil {
		return nil
	}
	out := make([]any, len(r.values))
	copy(out, r.values)
	return out
}

func (r *resultSet) Scan(dest ...any) error {
	if r.detached {
		return errResultSetDetached
	}
	if r.values == nil {
		return errors.New("scan called without a current row")
	}
	return r.rows.Scan(dest...)
}

func (r *resultSet) Err() error {
	if r.err != nil {
		return r.err
	}
	if r.detached {
		return nil
	}
	if err := r.rows.Err(); err != nil {
		return &exec.ExecError{Op: "fetch", Query: r.stmt.currentQuery(), Err: err}
	}
	return nil
}

// Close ends this cursor. The native rows belong to the statement, so
// further results stay reachable through NextResults.
func (r *resultSet) Close() error {
	r.closed = true
	r.values = nil
	return nil
}

// detach invalidates the cursor once the statement moves past its result set.
func (r *resultSet) detach() {
	r.detached = true
	r.values = nil
}
