// Package mysql provides a MySQL data source for leapdb.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	driver "github.com/go-sql-driver/mysql"

	"github.com/leapstack-labs/leapdb/pkg/adapter"
	my "github.com/leapstack-labs/leapdb/pkg/dialects/mysql"
)

// Adapter implements the adapter.Adapter interface for MySQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new MySQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{
			Logger:     logger,
			SQLDialect: my.MySQL,
			Flavor:     my.Metadata,
		},
	}
}

// Connect establishes a connection to MySQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn, err := buildMySQLDSN(cfg)
	if err != nil {
		return err
	}

	a.Logger.Debug("connecting to mysql", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open mysql connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping mysql: %w", err)
	}
	return a.attach(ctx, db, cfg)
}

func (a *Adapter) attach(ctx context.Context, db *sql.DB, cfg adapter.Config) error {
	if err := a.Attach(ctx, db, cfg); err != nil {
		_ = db.Close()
		a.DB = nil
		return fmt.Errorf("failed to read mysql settings: %w", err)
	}
	return nil
}

// buildMySQLDSN renders a go-sql-driver DSN. Options are passed through as
// connection parameters (system variables such as sql_mode).
func buildMySQLDSN(cfg adapter.Config) (string, error) {
	params, err := parseParams(cfg.Params)
	if err != nil {
		return "", err
	}

	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	c := driver.NewConfig()
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	c.User = cfg.Username
	c.Passwd = cfg.Password
	c.DBName = cfg.Database
	c.ParseTime = true
	c.Timeout = params.Timeout
	c.ReadTimeout = params.ReadTimeout
	c.WriteTimeout = params.WriteTimeout
	c.TLSConfig = params.TLS
	if params.Collation != "" {
		c.Collation = params.Collation
	}

	c.Loc = time.UTC
	if params.Location != "" {
		loc, err := time.LoadLocation(params.Location)
		if err != nil {
			return "", fmt.Errorf("invalid mysql location: %w", err)
		}
		c.Loc = loc
	}

	if len(cfg.Options) > 0 || params.Charset != "" {
		c.Params = make(map[string]string, len(cfg.Options)+1)
		for k, v := range cfg.Options {
			c.Params[k] = v
		}
		if params.Charset != "" {
			c.Params["charset"] = params.Charset
		}
	}
	return c.FormatDSN(), nil
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
