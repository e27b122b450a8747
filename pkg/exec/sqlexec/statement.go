package sqlexec

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/leapstack-labs/leapdb/pkg/dialect"
	"github.com/leapstack-labs/leapdb/pkg/exec"
)

type resultKind int

const (
	resultNone resultKind = iota
	resultRows
	resultUpdate
)

// generatedKeyColumn names the single column of key result sets built from
// sql.Result.LastInsertId.
const generatedKeyColumn = "GENERATED_KEY"

// Statement is an exec.Statement running on a Session connection.
type Statement struct {
	session *Session
	query   string
	opts    exec.StatementOptions
	logger  *slog.Logger

	args   []any
	offset int64
	limit  int64
	batch  [][]any

	pieces   []string
	pos      int
	pushed   bool
	executed bool

	kind    resultKind
	rows    *sql.Rows
	result  sql.Result
	count   int64
	current *resultSet
	open    []exec.ResultSet

	closed      bool
	closeErrors int

	// mu guards the fields shared with Cancel.
	mu        sync.Mutex
	runCtx    context.Context
	stop      context.CancelFunc
	blocking  bool
	cancelled bool
}

var _ exec.Statement = (*Statement)(nil)

func (s *Statement) Session() exec.Session {
	return s.session
}

func (s *Statement) Query() string {
	return s.query
}

func (s *Statement) Description() string {
	return s.opts.Description
}

func (s *Statement) Source() any {
	return s.opts.Source
}

func (s *Statement) SetSource(src any) {
	s.opts.Source = src
}

func (s *Statement) Bind(args ...any) {
	s.args = args
}

// SetLimit sets the row window of the next execution. When the dialect can
// express the window it is rendered into the SQL, otherwise rows outside
// the window are skipped while fetching.
func (s *Statement) SetLimit(offset, limit int64) error {
	if offset < 0 || limit < 0 {
		return fmt.Errorf("invalid row window: offset %d, limit %d", offset, limit)
	}
	s.offset, s.limit = offset, limit
	return nil
}

// IsBlocking reports whether a server call is in flight.
func (s *Statement) IsBlocking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocking
}

// Cancel interrupts the in-flight call by cancelling its context. It may be
// called from any goroutine.
func (s *Statement) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.blocking || s.stop == nil {
		return nil
	}
	s.cancelled = true
	s.stop()
	s.logger.Debug("statement cancel requested", "query", s.query)
	return nil
}

// Execute runs the statement. Scripts with several statements produce one
// result per statement; the first is current when Execute returns.
func (s *Statement) Execute(ctx context.Context) (bool, error) {
	if s.closed {
		return false, exec.ErrClosed
	}
	s.release()

	pieces := SplitScript(s.query)
	if len(pieces) == 0 {
		return false, errEmptyQuery
	}
	if len(s.args) > 0 && len(pieces) > 1 {
		return false, errors.New("parameters cannot be bound to a multi-statement script")
	}

	d := s.session.dialect
	s.pushed = false
	if s.hasWindow() && len(pieces) == 1 && isWindowable(pieces[0]) {
		if q, ok := d.ApplyLimit(pieces[0], s.offset, s.limit); ok {
			pieces[0] = q
			s.pushed = true
		}
	}
	s.pieces = pieces
	s.pos = 0
	s.start(ctx)

	if err := s.run(exec.EventExecute, s.args); err != nil {
		return false, err
	}
	s.executed = true
	return s.kind == resultRows, nil
}

// AddToBatch queues one parameter set.
func (s *Statement) AddToBatch(args ...any) error {
	if s.closed {
		return exec.ErrClosed
	}
	s.batch = append(s.batch, args)
	return nil
}

// ExecuteBatch runs the queued entries in order. The batch is cleared
// whatever the outcome. On failure the returned counts end with
// exec.CountFailed at the failing entry and the error is an
// *exec.BatchError.
func (s *Statement) ExecuteBatch(ctx context.Context) ([]int64, error) {
	if s.closed {
		return nil, exec.ErrClosed
	}
	entries := s.batch
	s.batch = nil
	if !s.session.dialect.SupportsBatch() {
		return nil, exec.ErrBatchNotSupported
	}
	s.release()

	pieces := SplitScript(s.query)
	if len(pieces) != 1 {
		return nil, fmt.Errorf("batch requires exactly one statement, got %d", len(pieces))
	}
	s.pieces = pieces
	s.pos = 0
	s.start(ctx)

	counts := make([]int64, 0, len(entries))
	if len(entries) == 0 {
		s.executed = true
		return counts, nil
	}

	conn, err := s.session.acquire(s.ctx())
	if err != nil {
		return nil, err
	}

	started := time.Now()
	for i, args := range entries {
		s.begin()
		res, err := conn.ExecContext(s.ctx(), pieces[0], args...)
		cancelled := s.end()
		if err == nil && cancelled {
			err = context.Canceled
		}
		if err != nil {
			cancelled = s.interrupted(cancelled, err)
			counts = append(counts, exec.CountFailed)
			execErr := &exec.ExecError{Op: string(exec.EventBatch), Query: pieces[0], Err: err, Cancelled: cancelled}
			if cancelled {
				s.session.revalidate()
			}
			s.kind = resultNone
			s.result = nil
			s.session.notify(s.event(exec.EventBatch, started, i+1, execErr))
			return counts, &exec.BatchError{Index: i, Counts: counts, Err: execErr}
		}
		s.result = res
		counts = append(counts, rowsAffected(res))
	}

	s.kind = resultUpdate
	s.count = counts[len(counts)-1]
	s.executed = true
	s.session.notify(s.event(exec.EventBatch, started, len(entries), nil))
	return counts, nil
}

// OpenResultSet returns the current result set. Calling it twice returns
// the same cursor.
func (s *Statement) OpenResultSet() (exec.ResultSet, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if s.kind != resultRows || s.rows == nil {
		return nil, nil
	}
	if s.current == nil {
		offset, limit := s.offset, s.limit
		if s.pushed {
			offset, limit = 0, 0
		}
		s.current = newResultSet(s, s.rows, offset, limit)
		s.open = append(s.open, s.current)
	}
	return s.current, nil
}

// OpenGeneratedKeys returns the keys of the current update. Drivers that
// report LastInsertId yield a one-row result set; RETURNING inserts yield
// their own result set.
func (s *Statement) OpenGeneratedKeys() (exec.ResultSet, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	switch s.kind {
	case resultRows:
		if isModification(s.currentQuery()) {
			return s.OpenResultSet()
		}
		return nil, nil
	case resultUpdate:
		if s.result == nil || !isInsert(s.currentQuery()) {
			return nil, nil
		}
		id, err := s.result.LastInsertId()
		if err != nil {
			s.logger.Debug("driver reports no generated keys", "error", err)
			return nil, nil
		}
		rs := exec.NewMemoryResultSet(s,
			[]exec.ColumnInfo{{Name: generatedKeyColumn, TypeName: "BIGINT"}},
			[][]any{{id}},
		)
		s.open = append(s.open, rs)
		return rs, nil
	}
	return nil, nil
}

// UpdateRowCount returns the current update count, -1 for result sets, or
// exec.CountUnknown when the driver did not report one.
func (s *Statement) UpdateRowCount() (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	if s.kind != resultUpdate {
		return -1, nil
	}
	return s.count, nil
}

func (s *Statement) HasResultSet() bool {
	return !s.closed && s.executed && s.kind == resultRows
}

// NextResults moves to the next result. Additional result sets of the
// current statement come first, then the remaining script statements run
// one at a time.
func (s *Statement) NextResults(ctx context.Context) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	if s.kind == resultNone {
		return false, nil
	}
	unlink := context.AfterFunc(ctx, s.cancelRun)
	defer unlink()

	if s.kind == resultRows && s.rows != nil {
		started := time.Now()
		s.begin()
		more := s.rows.NextResultSet()
		cancelled := s.end()
		if more && !cancelled {
			s.detachCurrent()
			s.session.notify(s.event(exec.EventNext, started, 0, nil))
			return true, nil
		}
		if err := s.rows.Err(); err != nil || cancelled {
			cancelled = s.interrupted(cancelled, err)
			if err == nil {
				err = context.Canceled
			}
			s.closeCurrent()
			s.kind = resultNone
			if cancelled {
				s.session.revalidate()
			}
			return false, &exec.ExecError{Op: string(exec.EventNext), Query: s.currentQuery(), Err: err, Cancelled: cancelled}
		}
	}

	s.closeCurrent()
	if s.pos+1 >= len(s.pieces) {
		s.kind = resultNone
		s.result = nil
		return false, nil
	}
	s.pos++
	if err := s.run(exec.EventNext, nil); err != nil {
		return false, err
	}
	return true, nil
}

// Close releases every result set and the native cursor. Failures are
// logged and counted, never returned.
func (s *Statement) Close() {
	if s.closed {
		return
	}
	s.closed = true
	defer s.session.forget(s)
	defer func() {
		// a panicking driver must not escape Close
		if r := recover(); r != nil {
			s.closeFailed("statement", fmt.Errorf("panic during close: %v", r))
		}
	}()
	s.release()
}

// CloseErrors returns how many resources failed to close so far.
func (s *Statement) CloseErrors() int {
	return s.closeErrors
}

// run executes the current script piece and makes its outcome the
// current result.
func (s *Statement) run(kind exec.EventKind, args []any) error {
	piece := s.pieces[s.pos]
	started := time.Now()

	conn, err := s.session.acquire(s.ctx())
	if err != nil {
		return err
	}

	returnsRows := s.session.dialect.ReturnsRows(piece)
	var (
		rows *sql.Rows
		res  sql.Result
	)
	s.begin()
	if returnsRows {
		rows, err = conn.QueryContext(s.ctx(), piece, args...)
	} else {
		res, err = conn.ExecContext(s.ctx(), piece, args...)
	}
	cancelled := s.end()

	if err == nil && cancelled {
		if rows != nil {
			if cerr := rows.Close(); cerr != nil {
				s.closeFailed("rows", cerr)
			}
		}
		err = context.Canceled
	}
	if err != nil {
		cancelled = s.interrupted(cancelled, err)
		execErr := &exec.ExecError{Op: string(kind), Query: piece, Err: err, Cancelled: cancelled}
		s.kind = resultNone
		if cancelled {
			s.logger.Info("statement cancelled", "query", piece)
			s.session.revalidate()
		}
		s.session.notify(s.event(kind, started, 0, execErr))
		return execErr
	}

	switch {
	case rows != nil && hasColumns(rows):
		s.kind = resultRows
		s.rows = rows
		s.count = -1
	case rows != nil:
		// a procedure call that produced no result set
		if cerr := rows.Close(); cerr != nil {
			s.closeFailed("rows", cerr)
		}
		s.kind = resultUpdate
		s.count = exec.CountUnknown
	default:
		s.kind = resultUpdate
		s.result = res
		s.count = rowsAffected(res)
	}
	s.session.notify(s.event(kind, started, 0, nil))
	return nil
}

func (s *Statement) event(kind exec.EventKind, started time.Time, batchSize int, err error) exec.Event {
	ev := exec.Event{
		Kind:        kind,
		Query:       s.currentQuery(),
		Description: s.opts.Description,
		Source:      s.opts.Source,
		StartedAt:   started,
		Duration:    time.Since(started),
		BatchSize:   batchSize,
		UpdateCount: -1,
		Err:         err,
		Cancelled:   exec.IsCancelled(err),
	}
	if err == nil {
		ev.HasResultSet = s.kind == resultRows
		if s.kind == resultUpdate {
			ev.UpdateCount = s.count
		}
	}
	return ev
}

func (s *Statement) ready() error {
	if s.closed {
		return exec.ErrClosed
	}
	if !s.executed {
		return exec.ErrNotExecuted
	}
	return nil
}

func (s *Statement) hasWindow() bool {
	return s.offset > 0 || s.limit > 0
}

func (s *Statement) currentQuery() string {
	if s.pos < len(s.pieces) {
		return s.pieces[s.pos]
	}
	return s.query
}

// interrupted reports whether a failed call was cancelled, either through
// Cancel or through the caller's context. Deadlines do not count.
func (s *Statement) interrupted(flagged bool, err error) bool {
	if flagged || errors.Is(err, context.Canceled) {
		return true
	}
	ctx := s.ctx()
	return ctx != nil && errors.Is(ctx.Err(), context.Canceled)
}

// start derives the run context for a new execution.
func (s *Statement) start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runCtx, s.stop = context.WithCancel(ctx)
}

func (s *Statement) ctx() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runCtx
}

func (s *Statement) begin() {
	s.mu.Lock()
	s.blocking = true
	s.cancelled = false
	s.mu.Unlock()
}

func (s *Statement) end() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocking = false
	cancelled := s.cancelled
	s.cancelled = false
	return cancelled
}

// cancelRun cancels the run context when the caller's context of a
// NextResults call is done.
func (s *Statement) cancelRun() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blocking {
		s.cancelled = true
	}
	if s.stop != nil {
		s.stop()
	}
}

// detachCurrent invalidates the cursor of the previous result set when
// the native rows advance to the next one.
func (s *Statement) detachCurrent() {
	if s.current != nil {
		s.current.detach()
		s.current = nil
	}
}

func (s *Statement) closeCurrent() {
	s.detachCurrent()
	if s.rows != nil {
		if err := s.rows.Close(); err != nil {
			s.closeFailed("rows", err)
		}
		s.rows = nil
	}
	s.result = nil
}

// release drops everything left from the previous execution.
func (s *Statement) release() {
	for _, rs := range s.open {
		if err := rs.Close(); err != nil {
			s.closeFailed("result set", err)
		}
	}
	s.open = nil
	s.closeCurrent()

	s.mu.Lock()
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	s.mu.Unlock()

	s.kind = resultNone
	s.executed = false
	s.pieces = nil
	s.pos = 0
}

func (s *Statement) closeFailed(what string, err error) {
	s.closeErrors++
	s.logger.Warn("failed to close statement resource",
		"resource", what,
		"query", s.query,
		"error", err)
}

// hasColumns skips leading column-less results, which drivers report for
// the status of a CALL, and reports whether a result set remains.
func hasColumns(rows *sql.Rows) bool {
	for {
		if cols, err := rows.Columns(); err != nil || len(cols) > 0 {
			return true
		}
		if !rows.NextResultSet() {
			return false
		}
	}
}

func rowsAffected(res sql.Result) int64 {
	n, err := res.RowsAffected()
	if err != nil {
		return exec.CountUnknown
	}
	return n
}

func isInsert(query string) bool {
	switch dialect.LeadingKeyword(query) {
	case "INSERT", "REPLACE":
		return true
	}
	return false
}

func isModification(query string) bool {
	switch dialect.LeadingKeyword(query) {
	case "INSERT", "REPLACE", "UPDATE", "DELETE", "MERGE":
		return true
	}
	return false
}

// isWindowable reports whether a query can be wrapped in a derived table.
func isWindowable(query string) bool {
	switch dialect.LeadingKeyword(query) {
	case "SELECT", "WITH", "VALUES":
		return true
	}
	return false
}
