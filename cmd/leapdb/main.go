// Package main provides the leapdb command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/leapdb/internal/cli"

	// Register adapters, dialects and debuggers.
	_ "github.com/leapstack-labs/leapdb/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapdb/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/leapdb/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapdb/pkg/adapters/sqlite"
	_ "github.com/leapstack-labs/leapdb/pkg/debug/pgdebug"
	_ "github.com/leapstack-labs/leapdb/pkg/dialects/db2"
	_ "github.com/leapstack-labs/leapdb/pkg/dialects/mssql"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
