// Package sqlite provides a SQLite data source for leapdb, backed by the
// pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"sync/atomic"

	_ "modernc.org/sqlite" // register "sqlite" driver

	"github.com/leapstack-labs/leapdb/pkg/adapter"
	lite "github.com/leapstack-labs/leapdb/pkg/dialects/sqlite"
)

// memoryDatabases numbers in-memory databases so that every adapter gets
// its own shared-cache database.
var memoryDatabases atomic.Int64

// defaultPragmas are applied to every connection unless overridden by an
// option of the same name.
var defaultPragmas = map[string]string{
	"busy_timeout": "5000",
	"foreign_keys": "1",
}

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{
			Logger:     logger,
			SQLDialect: lite.SQLite,
			Flavor:     lite.Metadata,
		},
	}
}

// Connect opens the database file named by Path (falling back to
// Database). An empty path or ":memory:" opens a private in-memory
// database that lives as long as the adapter.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := buildSQLiteDSN(cfg)
	a.Logger.Debug("connecting to sqlite", slog.String("dsn", dsn))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if isMemory(cfg) {
		// The database disappears with its last connection.
		db.SetConnMaxIdleTime(0)
		db.SetConnMaxLifetime(0)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := a.Attach(ctx, db, cfg); err != nil {
		_ = db.Close()
		a.DB = nil
		return fmt.Errorf("failed to read sqlite settings: %w", err)
	}
	return nil
}

func databasePath(cfg adapter.Config) string {
	if cfg.Path != "" {
		return cfg.Path
	}
	return cfg.Database
}

func isMemory(cfg adapter.Config) bool {
	p := databasePath(cfg)
	return p == "" || p == ":memory:"
}

// buildSQLiteDSN renders a modernc DSN. Options become _pragma
// parameters in key order, after the defaults they override.
func buildSQLiteDSN(cfg adapter.Config) string {
	pragmas := make(map[string]string, len(defaultPragmas)+len(cfg.Options))
	for k, v := range defaultPragmas {
		pragmas[k] = v
	}
	for k, v := range cfg.Options {
		pragmas[k] = v
	}
	keys := make([]string, 0, len(pragmas))
	for k := range pragmas {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	q := url.Values{}
	for _, k := range keys {
		q.Add("_pragma", fmt.Sprintf("%s(%s)", k, pragmas[k]))
	}

	path := databasePath(cfg)
	if isMemory(cfg) {
		path = fmt.Sprintf("file:leapdb-mem-%d", memoryDatabases.Add(1))
		q.Set("mode", "memory")
		q.Set("cache", "shared")
	}
	return path + "?" + q.Encode()
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
