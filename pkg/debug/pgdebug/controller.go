// Package pgdebug controls PL/pgSQL debugging through the pldbgapi
// extension.
package pgdebug

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/leapdb/pkg/debug"
)

func init() {
	debug.Register("postgres", New)
}

// ErrExtensionMissing is returned by Attach when pldbgapi is not installed.
var ErrExtensionMissing = errors.New("pldbgapi extension is not installed")

// ErrNotAttached is returned by Detach without a prior Attach.
var ErrNotAttached = errors.New("debug session is not attached")

// Controller is a pldbgapi debug session. Debug sessions live on one
// server connection, so the controller pins a connection from Attach until
// Detach.
type Controller struct {
	db     *sql.DB
	logger *slog.Logger

	mu      sync.Mutex
	conn    *sql.Conn
	session int
}

// New creates a controller. It satisfies debug.Factory.
func New(db *sql.DB, logger *slog.Logger) (debug.Controller, error) {
	if db == nil {
		return nil, errors.New("pgdebug: nil database")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{db: db, logger: logger.With("component", "pgdebug")}, nil
}

// Attach checks for the extension and creates a debug listener.
func (c *Controller) Attach(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return c.session, nil
	}

	conn, err := c.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to acquire connection: %w", err)
	}

	var version sql.NullString
	err = conn.QueryRowContext(ctx,
		"SELECT extversion FROM pg_extension WHERE extname = 'pldbgapi'").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		_ = conn.Close()
		return 0, ErrExtensionMissing
	}
	if err != nil {
		_ = conn.Close()
		return 0, fmt.Errorf("failed to check pldbgapi: %w", err)
	}

	var session int
	if err := conn.QueryRowContext(ctx, "SELECT pldbg_create_listener()").Scan(&session); err != nil {
		_ = conn.Close()
		return 0, fmt.Errorf("failed to create debug listener: %w", err)
	}

	c.conn = conn
	c.session = session
	c.logger.Debug("debug session attached", "session", session, "pldbgapi", version.String)
	return session, nil
}

// Detach aborts the debug target and releases the pinned connection. The
// connection is released even when the abort fails.
func (c *Controller) Detach(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotAttached
	}

	_, abortErr := c.conn.ExecContext(ctx, "SELECT pldbg_abort_target($1)", c.session)
	closeErr := c.conn.Close()
	c.logger.Debug("debug session detached", "session", c.session)
	c.conn = nil
	c.session = 0

	if abortErr != nil {
		return fmt.Errorf("failed to abort debug target: %w", abortErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to release connection: %w", closeErr)
	}
	return nil
}

// Session returns the id of the attached session, or zero.
func (c *Controller) Session() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}
