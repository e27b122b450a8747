package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"sync"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
	"github.com/leapstack-labs/leapdb/pkg/exec"
	"github.com/leapstack-labs/leapdb/pkg/exec/sqlexec"
	"github.com/leapstack-labs/leapdb/pkg/meta"
)

// ErrNotConnected is returned when an operation needs an open connection.
var ErrNotConnected = errors.New("database connection not established")

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations and call Attach
// from Connect.
type BaseSQLAdapter struct {
	DB         *sql.DB
	Cfg        core.AdapterConfig
	Logger     *slog.Logger
	SQLDialect *dialect.Dialect
	Flavor     *meta.Flavor

	initOnce sync.Once
	initErr  error
	info     core.DriverInfo

	catalogMu sync.Mutex
	catalog   *meta.MemoryCatalog
}

// Attach adopts an opened database and runs the dialect's driver-settings
// hook. The hook runs at most once per adapter; a failed hook fails every
// later Attach as well.
func (b *BaseSQLAdapter) Attach(ctx context.Context, db *sql.DB, cfg core.AdapterConfig) error {
	if b.SQLDialect == nil {
		return dialect.ErrDialectRequired
	}
	b.DB = db
	b.Cfg = cfg
	b.initOnce.Do(func() {
		b.initErr = b.SQLDialect.InitDriverSettings(ctx, db, &b.info)
		if b.initErr == nil {
			b.logger().Debug("driver settings loaded",
				slog.String("dialect", b.info.Dialect),
				slog.String("version", b.info.ServerVersion),
				slog.Int("settings", len(b.info.Settings)))
		}
	})
	return b.initErr
}

func (b *BaseSQLAdapter) logger() *slog.Logger {
	if b.Logger == nil {
		b.Logger = slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		b.logger().Debug("closing database connection")
		err := b.DB.Close()
		b.DB = nil
		return err
	}
	return nil
}

// Handle returns the underlying connection pool, or nil when not connected.
func (b *BaseSQLAdapter) Handle() *sql.DB {
	return b.DB
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// Dialect returns the adapter's dialect.
func (b *BaseSQLAdapter) Dialect() *dialect.Dialect {
	return b.SQLDialect
}

// Metadata returns the adapter's catalog flavor.
func (b *BaseSQLAdapter) Metadata() *meta.Flavor {
	return b.Flavor
}

// DriverInfo returns a copy of the discovered driver settings.
func (b *BaseSQLAdapter) DriverInfo() core.DriverInfo {
	info := b.info
	info.Settings = maps.Clone(b.info.Settings)
	return info
}

// OpenSession opens a session logging through the adapter logger.
func (b *BaseSQLAdapter) OpenSession(ctx context.Context, opts ...sqlexec.Option) (exec.Session, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	all := append([]sqlexec.Option{sqlexec.WithLogger(b.logger())}, opts...)
	return sqlexec.Open(ctx, b.DB, b.SQLDialect, all...)
}

// Catalog loads the type and collation catalog on first use.
func (b *BaseSQLAdapter) Catalog(ctx context.Context) (meta.Catalog, error) {
	cat, err := b.memoryCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func (b *BaseSQLAdapter) memoryCatalog(ctx context.Context) (*meta.MemoryCatalog, error) {
	b.catalogMu.Lock()
	defer b.catalogMu.Unlock()
	if b.catalog != nil {
		return b.catalog, nil
	}

	sess, err := b.OpenSession(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = sess.Close() }()

	cat, err := meta.LoadCatalog(ctx, sess, b.Flavor, b.logger())
	if err != nil {
		return nil, err
	}
	b.catalog = cat
	return cat, nil
}

// Loader returns a metadata loader bound to the cached catalog.
func (b *BaseSQLAdapter) Loader(ctx context.Context) (*meta.Loader, error) {
	if b.Flavor == nil {
		return nil, fmt.Errorf("%s adapter has no catalog flavor", b.SQLDialect.Name)
	}
	cat, err := b.memoryCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return meta.NewLoader(b.Flavor, cat, b.logger()), nil
}

// TableColumns reads the columns of table through the flavor's column query.
func (b *BaseSQLAdapter) TableColumns(ctx context.Context, table meta.TableRef) ([]*meta.TableColumn, error) {
	loader, err := b.Loader(ctx)
	if err != nil {
		return nil, err
	}
	sess, err := b.OpenSession(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = sess.Close() }()
	return loader.ReadTableColumns(ctx, sess, table)
}

// Routines lists the routines of schema.
func (b *BaseSQLAdapter) Routines(ctx context.Context, schema string) ([]*meta.Routine, error) {
	loader, err := b.Loader(ctx)
	if err != nil {
		return nil, err
	}
	sess, err := b.OpenSession(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = sess.Close() }()
	return loader.ReadRoutines(ctx, sess, schema)
}

// ParseQualifiedName splits a table reference into schema and name.
// Quoted parts are unquoted with the dialect's rules; a missing schema is
// left empty so that the flavor's default applies.
func ParseQualifiedName(table string, d *dialect.Dialect) meta.TableRef {
	if i := splitQualified(table, d); i >= 0 {
		return meta.TableRef{
			Schema: d.UnquoteIdentifier(table[:i]),
			Name:   d.UnquoteIdentifier(table[i+1:]),
		}
	}
	return meta.TableRef{Name: d.UnquoteIdentifier(table)}
}

// splitQualified returns the index of the last dot outside identifier
// quotes, or -1.
func splitQualified(s string, d *dialect.Dialect) int {
	pairs := d.IdentifierQuoteStrings()
	last := -1
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			last = i
			continue
		}
		for _, q := range pairs {
			if strings.HasPrefix(s[i:], q[0]) {
				end := strings.Index(s[i+len(q[0]):], q[1])
				if end < 0 {
					return last
				}
				i += len(q[0]) + end + len(q[1]) - 1
				break
			}
		}
	}
	return last
}
