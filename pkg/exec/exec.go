// Package exec defines the execution contract shared by every data source:
// sessions create statements, statements execute and expose their results
// as forward-only cursors, and statements can be cancelled from another
// goroutine while they block.
//
// The contract is caller-goroutine bound. A Session and its Statements are
// used by one goroutine at a time; Cancel is the only method that may be
// called concurrently. The database/sql implementation lives in
// pkg/exec/sqlexec.
package exec

import (
	"context"

	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

// Session is a live, connection-scoped execution context.
// It owns the statements it prepares and closes them when it is closed.
type Session interface {
	// Prepare creates a statement for the query. Nothing is sent to the
	// server until the statement is executed.
	Prepare(query string, opts ...StatementOption) (Statement, error)

	// Dialect returns the dialect of the underlying data source.
	Dialect() *dialect.Dialect

	// Close closes every open statement and releases the connection.
	Close() error
}

// Blocking is implemented by objects whose in-flight call can be
// interrupted from another goroutine.
type Blocking interface {
	// IsBlocking reports whether a call is currently in flight.
	IsBlocking() bool

	// Cancel interrupts the in-flight call. The interrupted call returns an
	// error matching ErrCancelled. Cancel is a no-op when nothing blocks.
	Cancel() error
}

// Statement is one SQL execution unit and its result lifecycle.
type Statement interface {
	Blocking

	Session() Session
	Query() string
	Description() string

	// Source is an opaque back-reference to whatever produced the statement
	// (a table, an editor). The statement never owns it.
	Source() any
	SetSource(src any)

	// Bind sets the parameters for the next Execute.
	Bind(args ...any)

	// SetLimit restricts the rows returned by the next execution to the
	// absolute window [offset, offset+limit). A zero limit means unbounded.
	SetLimit(offset, limit int64) error

	// Execute runs the statement. It reports true when the first result is
	// a result set and false when it is an update count.
	Execute(ctx context.Context) (bool, error)

	// AddToBatch queues one set of parameters for ExecuteBatch.
	AddToBatch(args ...any) error

	// ExecuteBatch runs every queued entry in submission order and returns
	// one count per entry. See CountUnknown and CountFailed.
	ExecuteBatch(ctx context.Context) ([]int64, error)

	// OpenResultSet returns the current result set, or nil when the
	// current result is an update count.
	OpenResultSet() (ResultSet, error)

	// OpenGeneratedKeys returns the keys generated by the current update,
	// or nil when the driver reports none.
	OpenGeneratedKeys() (ResultSet, error)

	// UpdateRowCount returns the current update count, or -1 when the
	// current result is a result set.
	UpdateRowCount() (int64, error)

	// HasResultSet reports whether the current result is a result set.
	HasResultSet() bool

	// NextResults advances to the next result set or update count and
	// reports false once no further results are pending.
	NextResults(ctx context.Context) (bool, error)

	// Close releases the statement and every result set it opened.
	// It never fails; close errors are logged.
	Close()
}

// ColumnInfo describes one column of a result set.
type ColumnInfo struct {
	Name     string
	TypeName string
	Nullable bool
}

// ResultSet is a forward-only cursor owned by a Statement.
type ResultSet interface {
	Statement() Statement
	Columns() []ColumnInfo

	// Next advances to the next row.
	Next() bool

	// Values returns the current row. Byte slices are copied.
	Values() []any

	// Scan copies the current row into dest, like sql.Rows.Scan.
	Scan(dest ...any) error

	// Err returns the error, if any, that ended iteration.
	Err() error

	// Close ends the cursor. Further results of the statement stay
	// reachable through NextResults.
	Close() error
}

// StatementOptions holds optional statement attributes.
type StatementOptions struct {
	Description string
	Source      any
}

// StatementOption configures a statement at prepare time.
type StatementOption func(*StatementOptions)

// WithDescription sets a human readable statement description.
func WithDescription(desc string) StatementOption {
	return func(o *StatementOptions) {
		o.Description = desc
	}
}

// WithSource sets the statement source.
func WithSource(src any) StatementOption {
	return func(o *StatementOptions) {
		o.Source = src
	}
}

// ApplyOptions folds options into a StatementOptions value.
func ApplyOptions(opts ...StatementOption) StatementOptions {
	var o StatementOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
