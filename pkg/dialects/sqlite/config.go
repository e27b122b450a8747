// Package sqlite provides the SQLite SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package sqlite

import "github.com/leapstack-labs/leapdb/pkg/core"

// Config is the SQLite dialect configuration.
var Config = &core.DialectConfig{
	Name:          "sqlite",
	DefaultSchema: "main",
	Placeholder:   core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormCaseInsensitive,
	},
	QuoteStrings: core.DefaultQuoteStrings,

	SupportsAliasInSelect: true,
	SupportsBatch:         true,
	SupportsReturning:     true, // 3.35+
	// ALTER TABLE only supports RENAME, ADD COLUMN, and DROP COLUMN.
	SupportsAlterTableConstraint: false,

	Limit:          core.LimitOffset,
	UnboundedLimit: "-1",

	QueryKeywords: []string{"SELECT", "WITH", "VALUES", "EXPLAIN", "PRAGMA"},
	VersionQuery:  "SELECT sqlite_version()",

	Keywords: []string{
		"SELECT", "FROM", "WHERE", "GROUP", "BY", "HAVING", "ORDER", "LIMIT", "OFFSET",
		"INSERT", "INTO", "VALUES", "UPDATE", "SET", "DELETE", "REPLACE", "RETURNING",
		"CREATE", "ALTER", "DROP", "TABLE", "VIEW", "INDEX", "TRIGGER", "VIRTUAL",
		"JOIN", "LEFT", "INNER", "CROSS", "ON", "USING", "UNION", "EXCEPT", "INTERSECT",
		"WITH", "RECURSIVE", "PRAGMA", "ATTACH", "DETACH", "VACUUM", "ANALYZE",
		"AUTOINCREMENT", "WITHOUT", "ROWID", "STRICT", "CONFLICT", "UPSERT",
	},
	DataTypes: []string{"INTEGER", "REAL", "TEXT", "BLOB", "NUMERIC", "BOOLEAN", "DATE", "DATETIME", "VARCHAR"},
}
