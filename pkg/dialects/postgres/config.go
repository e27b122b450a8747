// Package postgres provides the PostgreSQL SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package postgres

import "github.com/leapstack-labs/leapdb/pkg/core"

// Config is the PostgreSQL dialect configuration.
// This is pure data - read by the Builder and by SQL generation.
var Config = &core.DialectConfig{
	Name:          "postgres",
	DefaultSchema: "public",
	Placeholder:   core.PlaceholderDollar,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormLowercase, // Postgres normalizes unquoted to lowercase
	},

	SupportsAliasInSelect:        true,
	SupportsAlterTableConstraint: true,
	SupportsBatch:                true,
	SupportsReturning:            true,

	// OFFSET without LIMIT is valid, so no unbounded value is needed.
	Limit: core.LimitOffset,

	QueryKeywords: []string{"SELECT", "WITH", "VALUES", "TABLE", "SHOW", "EXPLAIN", "FETCH", "CALL"},
	VersionQuery:  "SHOW server_version",

	Keywords: []string{
		"SELECT", "FROM", "WHERE", "GROUP", "BY", "HAVING", "ORDER", "LIMIT", "OFFSET",
		"INSERT", "INTO", "VALUES", "UPDATE", "SET", "DELETE", "RETURNING",
		"CREATE", "ALTER", "DROP", "TABLE", "VIEW", "INDEX", "SEQUENCE", "SCHEMA",
		"FUNCTION", "PROCEDURE", "TRIGGER", "EXTENSION", "MATERIALIZED",
		"JOIN", "LEFT", "RIGHT", "FULL", "INNER", "OUTER", "CROSS", "LATERAL", "ON", "USING",
		"WITH", "RECURSIVE", "UNION", "INTERSECT", "EXCEPT", "DISTINCT",
		"ILIKE", "SIMILAR", "CONFLICT", "DO", "NOTHING", "COPY", "VACUUM", "ANALYZE",
		"BEGIN", "COMMIT", "ROLLBACK", "SAVEPOINT",
	},
	DataTypes: []string{
		"smallint", "integer", "bigint", "numeric", "real", "double precision",
		"smallserial", "serial", "bigserial", "money",
		"varchar", "char", "text", "bytea", "boolean",
		"date", "time", "timetz", "timestamp", "timestamptz", "interval",
		"uuid", "json", "jsonb", "xml", "inet", "cidr", "macaddr",
		"tsvector", "tsquery", "int4range", "int8range", "numrange", "tstzrange", "daterange",
	},
}
