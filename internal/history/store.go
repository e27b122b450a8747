// Package history keeps a local record of executed statements.
//
// Every statement event emitted by an execution session can be recorded
// through the listener returned by Store.Listener. Entries live in a SQLite
// database whose schema is managed with embedded goose migrations.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register "sqlite" driver

	"github.com/leapstack-labs/leapdb/pkg/exec"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("history store is closed")

// Entry is one recorded statement execution.
type Entry struct {
	ID           string
	Connection   string
	Dialect      string
	Kind         exec.EventKind
	Query        string
	Description  string
	StartedAt    time.Time
	Duration     time.Duration
	HasResultSet bool
	UpdateCount  int64
	BatchSize    int
	Error        string
	Cancelled    bool
}

// Failed reports whether the execution ended with an error.
func (e *Entry) Failed() bool {
	return e.Error != ""
}

// Store implements the statement history on SQLite.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens the history database at path, creating its directory and
// applying pending migrations. Use ":memory:" for an in-memory database.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	dsn := ":memory:"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create history directory: %w", err)
			}
		}
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would see its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("history store opened", slog.String("path", path))
	return &Store{db: db, path: path, logger: logger}, nil
}

// Path returns the database path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Close closes the history database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Record stores one statement event for connection.
func (s *Store) Record(ctx context.Context, connection string, ev exec.Event) (*Entry, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	e := &Entry{
		ID:           uuid.New().String(),
		Connection:   connection,
		Dialect:      ev.Dialect,
		Kind:         ev.Kind,
		Query:        ev.Query,
		Description:  ev.Description,
		StartedAt:    ev.StartedAt.UTC(),
		Duration:     ev.Duration,
		HasResultSet: ev.HasResultSet,
		UpdateCount:  ev.UpdateCount,
		BatchSize:    ev.BatchSize,
		Cancelled:    ev.Cancelled,
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now().UTC()
	}
	var errMsg sql.NullString
	if ev.Err != nil {
		e.Error = ev.Err.Error()
		errMsg = sql.NullString{String: e.Error, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO statements (id, connection, dialect, kind, query, description, started_at,
			duration_ns, has_results, update_count, batch_size, error, cancelled)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Connection, e.Dialect, string(e.Kind), e.Query, e.Description, e.StartedAt.UnixNano(),
		int64(e.Duration), e.HasResultSet, e.UpdateCount, e.BatchSize, errMsg, e.Cancelled,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record statement: %w", err)
	}
	return e, nil
}

// Listener returns an exec listener recording events under connection.
// Recording failures are logged and never reach the statement.
func (s *Store) Listener(connection string) exec.Listener {
	return exec.ListenerFunc(func(ev exec.Event) {
		if _, err := s.Record(context.Background(), connection, ev); err != nil {
			s.logger.Warn("failed to record history",
				slog.String("connection", connection),
				slog.String("error", err.Error()))
		}
	})
}

// List returns the most recent entries, newest first. A limit of zero or
// less returns every entry.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	return s.list(ctx, "", limit)
}

// ListConnection is List restricted to one connection.
func (s *Store) ListConnection(ctx context.Context, connection string, limit int) ([]Entry, error) {
	return s.list(ctx, connection, limit)
}

func (s *Store) list(ctx context.Context, connection string, limit int) ([]Entry, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	query := `SELECT id, connection, dialect, kind, query, description, started_at, duration_ns,
		has_results, update_count, batch_size, error, cancelled FROM statements`
	var args []any
	if connection != "" {
		query += ` WHERE connection = ?`
		args = append(args, connection)
	}
	query += ` ORDER BY started_at DESC, rowid DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			kind      string
			startedAt int64
			duration  int64
			errMsg    sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Connection, &e.Dialect, &kind, &e.Query, &e.Description,
			&startedAt, &duration, &e.HasResultSet, &e.UpdateCount, &e.BatchSize, &errMsg, &e.Cancelled); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.Kind = exec.EventKind(kind)
		e.StartedAt = time.Unix(0, startedAt).UTC()
		e.Duration = time.Duration(duration)
		e.Error = errMsg.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return entries, nil
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, ErrClosed
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM statements`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return res.RowsAffected()
}
