// Package sqlexec implements the exec contract on top of database/sql.
//
// A Session pins one *sql.Conn so that session state (temporary tables,
// SET commands, transactions) survives between statements. Statements run
// scripts piece by piece: each top-level statement of the script is one
// result, either a result set or an update count.
package sqlexec

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/leapstack-labs/leapdb/pkg/dialect"
	"github.com/leapstack-labs/leapdb/pkg/exec"
)

// revalidateTimeout bounds the ping that checks a connection after a cancel.
const revalidateTimeout = 5 * time.Second

var errEmptyQuery = errors.New("query is empty")

// Session is an exec.Session bound to a single pooled connection.
type Session struct {
	db        *sql.DB
	dialect   *dialect.Dialect
	logger    *slog.Logger
	listeners []exec.Listener

	mu     sync.Mutex
	conn   *sql.Conn
	stmts  map[*Statement]struct{}
	closed bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. Statements log close failures and
// cancellations through it.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithListeners registers listeners notified after every execution.
func WithListeners(listeners ...exec.Listener) Option {
	return func(s *Session) {
		for _, l := range listeners {
			if l != nil {
				s.listeners = append(s.listeners, l)
			}
		}
	}
}

// Open acquires a connection from db and returns a session on it.
func Open(ctx context.Context, db *sql.DB, d *dialect.Dialect, opts ...Option) (*Session, error) {
	if d == nil {
		return nil, dialect.ErrDialectRequired
	}
	s := &Session{
		db:      db,
		dialect: d,
		logger:  slog.New(slog.DiscardHandler),
		stmts:   make(map[*Statement]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	s.conn = conn
	return s, nil
}

// Dialect returns the session dialect.
func (s *Session) Dialect() *dialect.Dialect {
	return s.dialect
}

// Prepare creates a statement. Nothing is sent to the server.
func (s *Session) Prepare(query string, opts ...exec.StatementOption) (exec.Statement, error) {
	return s.PrepareStatement(query, opts...)
}

// PrepareStatement is Prepare returning the concrete type.
func (s *Session) PrepareStatement(query string, opts ...exec.StatementOption) (*Statement, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errEmptyQuery
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, exec.ErrClosed
	}

	stmt := &Statement{
		session: s,
		query:   query,
		opts:    exec.ApplyOptions(opts...),
		logger:  s.logger.With("dialect", s.dialect.Name),
	}
	s.stmts[stmt] = struct{}{}
	return stmt, nil
}

// Close closes every open statement and returns the connection to the pool.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	stmts := make([]*Statement, 0, len(s.stmts))
	for stmt := range s.stmts {
		stmts = append(stmts, stmt)
	}
	s.mu.Unlock()

	for _, stmt := range stmts {
		stmt.Close()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	if err != nil {
		return fmt.Errorf("failed to release connection: %w", err)
	}
	return nil
}

// acquire returns the session connection, reconnecting when an earlier
// revalidation dropped it.
func (s *Session) acquire(ctx context.Context) (*sql.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, exec.ErrClosed
	}
	if s.conn == nil {
		conn, err := s.db.Conn(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire connection: %w", err)
		}
		s.conn = conn
	}
	return s.conn, nil
}

// revalidate checks the connection after a cancelled call. A connection
// that no longer answers is discarded and replaced.
func (s *Session) revalidate() {
	ctx, cancel := context.WithTimeout(context.Background(), revalidateTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.conn == nil {
		return
	}
	err := s.conn.PingContext(ctx)
	if err == nil {
		return
	}

	s.logger.Warn("connection unusable after cancel, reconnecting", "error", err)
	if cerr := s.conn.Close(); cerr != nil {
		s.logger.Debug("failed to close stale connection", "error", cerr)
	}
	s.conn = nil

	conn, err := s.db.Conn(ctx)
	if err != nil {
		s.logger.Error("failed to reconnect after cancel", "error", err)
		return
	}
	s.conn = conn
}

func (s *Session) forget(stmt *Statement) {
	s.mu.Lock()
	delete(s.stmts, stmt)
	s.mu.Unlock()
}

func (s *Session) notify(ev exec.Event) {
	ev.Dialect = s.dialect.Name
	for _, l := range s.listeners {
		l.StatementExecuted(ev)
	}
}
