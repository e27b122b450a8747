// Package duckdb provides the DuckDB SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package duckdb

import "github.com/leapstack-labs/leapdb/pkg/core"

// Config is the DuckDB dialect configuration.
var Config = &core.DialectConfig{
	Name:          "duckdb",
	DefaultSchema: "main",
	Placeholder:   core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormCaseInsensitive,
	},

	SupportsAliasInSelect: true,
	SupportsBatch:         true,
	SupportsReturning:     true,
	// Constraints can only be declared in CREATE TABLE.
	SupportsAlterTableConstraint: false,

	Limit: core.LimitOffset,

	// FROM-first queries and the summary statements return rows too.
	QueryKeywords: []string{
		"SELECT", "WITH", "VALUES", "TABLE", "FROM", "SHOW", "DESCRIBE",
		"SUMMARIZE", "EXPLAIN", "PIVOT", "UNPIVOT", "PRAGMA", "CALL",
	},
	VersionQuery: "SELECT version()",

	Keywords:  duckDBKeywords,
	DataTypes: duckDBTypes,
}

var duckDBKeywords = []string{
	"SELECT", "FROM", "WHERE", "GROUP", "BY", "ALL", "HAVING", "QUALIFY", "ORDER",
	"LIMIT", "OFFSET", "INSERT", "INTO", "VALUES", "UPDATE", "SET", "DELETE",
	"RETURNING", "CREATE", "OR", "REPLACE", "ALTER", "DROP", "TABLE", "VIEW",
	"MACRO", "SEQUENCE", "SCHEMA", "TYPE", "JOIN", "ASOF", "POSITIONAL", "SEMI",
	"ANTI", "LEFT", "RIGHT", "FULL", "INNER", "OUTER", "CROSS", "ON", "USING",
	"PIVOT", "UNPIVOT", "EXCLUDE", "COLUMNS", "ILIKE", "SUMMARIZE", "DESCRIBE",
	"ATTACH", "DETACH", "INSTALL", "LOAD", "COPY", "EXPORT", "IMPORT",
}

var duckDBTypes = []string{
	"BOOLEAN", "TINYINT", "SMALLINT", "INTEGER", "BIGINT", "HUGEINT",
	"UTINYINT", "USMALLINT", "UINTEGER", "UBIGINT", "UHUGEINT",
	"FLOAT", "DOUBLE", "DECIMAL", "VARCHAR", "BLOB", "BIT", "UUID", "JSON",
	"DATE", "TIME", "TIMESTAMP", "TIMESTAMPTZ", "INTERVAL",
	"ENUM", "LIST", "STRUCT", "MAP", "UNION", "ARRAY",
}
