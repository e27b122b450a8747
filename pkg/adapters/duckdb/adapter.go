// Package duckdb provides a DuckDB data source for leapdb.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/marcboeker/go-duckdb" // register "duckdb" driver

	"github.com/leapstack-labs/leapdb/pkg/adapter"
	ddb "github.com/leapstack-labs/leapdb/pkg/dialects/duckdb"
)

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{
			Logger:     logger,
			SQLDialect: ddb.DuckDB,
			Flavor:     ddb.Metadata,
		},
	}
}

// Connect opens the database file (or an in-memory database when the path
// is empty or ":memory:"), applies the adapter params and reads the driver
// settings.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := parseParams(cfg.Params)
	if err != nil {
		return err
	}

	path := cfg.Path
	if path == ":memory:" {
		path = ""
	}
	a.Logger.Debug("connecting to duckdb", slog.String("path", cfg.Path))

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	if err := a.applyParams(ctx, db, params); err != nil {
		_ = db.Close()
		return err
	}
	if err := a.Attach(ctx, db, cfg); err != nil {
		_ = db.Close()
		a.DB = nil
		return fmt.Errorf("failed to read duckdb settings: %w", err)
	}
	return nil
}

// applyParams installs extensions, applies settings and creates secrets,
// in that order so that secrets can rely on extension types.
func (a *Adapter) applyParams(ctx context.Context, db *sql.DB, params *Params) error {
	for _, ext := range params.Extensions {
		a.Logger.Debug("loading extension", slog.String("extension", ext))
		if _, err := db.ExecContext(ctx, fmt.Sprintf("INSTALL %s", ext)); err != nil {
			return fmt.Errorf("failed to install extension %s: %w", ext, err)
		}
		if _, err := db.ExecContext(ctx, fmt.Sprintf("LOAD %s", ext)); err != nil {
			return fmt.Errorf("failed to load extension %s: %w", ext, err)
		}
	}

	for name, value := range params.Settings {
		stmt := fmt.Sprintf("SET %s = '%s'", name, escapeString(value))
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply setting %s: %w", name, err)
		}
	}

	for i, secret := range params.Secrets {
		if _, err := db.ExecContext(ctx, buildCreateSecretSQL(secret)); err != nil {
			return fmt.Errorf("failed to create %s secret #%d: %w", secret.Type, i, err)
		}
	}
	return nil
}

// buildCreateSecretSQL renders a CREATE SECRET statement.
// Keyword values (type, provider, use_ssl) are unquoted; the rest are
// string literals.
func buildCreateSecretSQL(cfg SecretConfig) string {
	opts := []string{"TYPE " + cfg.Type}
	if cfg.Provider != "" {
		opts = append(opts, "PROVIDER "+cfg.Provider)
	}
	if cfg.Region != "" {
		opts = append(opts, "REGION "+quoteString(cfg.Region))
	}
	if scope := formatScope(cfg.Scope); scope != "" {
		opts = append(opts, "SCOPE "+scope)
	}
	if cfg.KeyID != "" {
		opts = append(opts, "KEY_ID "+quoteString(cfg.KeyID))
	}
	if cfg.Secret != "" {
		opts = append(opts, "SECRET "+quoteString(cfg.Secret))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, "ENDPOINT "+quoteString(cfg.Endpoint))
	}
	if cfg.URLStyle != "" {
		opts = append(opts, "URL_STYLE "+quoteString(cfg.URLStyle))
	}
	if cfg.UseSSL != nil {
		opts = append(opts, fmt.Sprintf("USE_SSL %t", *cfg.UseSSL))
	}
	return "CREATE SECRET (\n    " + strings.Join(opts, ",\n    ") + "\n)"
}

// formatScope renders a single scope as a literal and several as a
// parenthesized list.
func formatScope(scope any) string {
	var scopes []string
	switch s := scope.(type) {
	case nil:
		return ""
	case string:
		return quoteString(s)
	case []string:
		scopes = s
	case []any:
		for _, v := range s {
			scopes = append(scopes, fmt.Sprint(v))
		}
	default:
		return quoteString(fmt.Sprint(s))
	}
	if len(scopes) == 0 {
		return ""
	}
	quoted := make([]string, len(scopes))
	for i, s := range scopes {
		quoted[i] = quoteString(s)
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}

func quoteString(s string) string {
	return "'" + escapeString(s) + "'"
}

func escapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
