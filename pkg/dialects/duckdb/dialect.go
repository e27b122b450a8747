// Package duckdb provides the DuckDB SQL dialect definition.
// This package is pure Go with no database driver dependencies,
// making it suitable for tools that need dialect information without
// the overhead of database connections.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

func init() {
	dialect.Register(DuckDB)
}

var duckDBReservedWords = []string{
	"all", "analyse", "analyze", "and", "any", "array", "as", "asc", "asymmetric",
	"both", "case", "cast", "check", "collate", "column", "constraint", "create",
	"default", "deferrable", "desc", "describe", "distinct", "do", "else", "end",
	"except", "false", "fetch", "for", "foreign", "from", "grant", "group",
	"having", "in", "initially", "intersect", "into", "lateral", "leading",
	"limit", "not", "null", "offset", "on", "only", "or", "order", "pivot",
	"pivot_longer", "pivot_wider", "placing", "primary", "qualify", "references",
	"returning", "select", "show", "some", "summarize", "symmetric", "table",
	"then", "to", "trailing", "true", "union", "unique", "unpivot", "using",
	"variadic", "when", "where", "window", "with",
}

// DuckDB is the DuckDB dialect.
var DuckDB = dialect.New(Config).
	WithReservedWords(duckDBReservedWords...).
	InitHook(readSettings).
	Build()

var settings = []string{"threads", "memory_limit", "TimeZone"}

func readSettings(ctx context.Context, db *sql.DB, info *core.DriverInfo) error {
	for _, name := range settings {
		var value sql.NullString
		if err := db.QueryRowContext(ctx, "SELECT current_setting(?)", name).Scan(&value); err != nil {
			return fmt.Errorf("failed to read setting %s: %w", name, err)
		}
		info.SetSetting(name, value.String)
	}
	return nil
}
