// Package adapter provides the data source contract that concrete database
// adapters implement.
//
// An adapter owns a *sql.DB for one data source, runs the dialect's
// driver-settings hook once after connecting, caches the data source's type
// and collation catalog, and opens execution sessions.
// Concrete adapter implementations are in pkg/adapters/ subdirectories.
package adapter

import (
	"context"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
	"github.com/leapstack-labs/leapdb/pkg/exec"
	"github.com/leapstack-labs/leapdb/pkg/exec/sqlexec"
	"github.com/leapstack-labs/leapdb/pkg/meta"
)

// Config is an alias for core.AdapterConfig.
type Config = core.AdapterConfig

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database using the provided
	// config and reads the driver settings.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// OpenSession opens an execution session on a dedicated connection.
	OpenSession(ctx context.Context, opts ...sqlexec.Option) (exec.Session, error)

	// Dialect returns the SQL dialect of the data source.
	Dialect() *dialect.Dialect

	// Metadata returns the catalog flavor used to read metadata.
	Metadata() *meta.Flavor

	// DriverInfo returns what the driver-settings hook discovered.
	DriverInfo() core.DriverInfo

	// Catalog returns the data source's type and collation catalog. It is
	// loaded on first use and cached.
	Catalog(ctx context.Context) (meta.Catalog, error)

	// TableColumns reads the columns of a table.
	TableColumns(ctx context.Context, table meta.TableRef) ([]*meta.TableColumn, error)

	// Routines lists the stored routines of a schema. An empty schema
	// means the default one.
	Routines(ctx context.Context, schema string) ([]*meta.Routine, error)
}
