// Package db2 provides the IBM Db2 SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package db2

import "github.com/leapstack-labs/leapdb/pkg/core"

// Config is the Db2 dialect configuration.
var Config = &core.DialectConfig{
	Name:        "db2",
	Placeholder: core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormUppercase, // Db2 folds unquoted names to upper case
	},

	SupportsAliasInSelect:        true,
	SupportsAlterTableConstraint: true,
	SupportsBatch:                true,

	Limit: core.LimitOffset,

	QueryKeywords: []string{"SELECT", "WITH", "VALUES", "CALL"},
	VersionQuery:  "SELECT SERVICE_LEVEL FROM SYSIBMADM.ENV_INST_INFO",

	Keywords: []string{
		"SELECT", "FROM", "WHERE", "GROUP", "BY", "HAVING", "ORDER", "FETCH", "FIRST",
		"ROWS", "ONLY", "LIMIT", "OFFSET", "INSERT", "INTO", "VALUES", "UPDATE", "SET",
		"DELETE", "MERGE", "CREATE", "ALTER", "DROP", "TABLE", "VIEW", "INDEX",
		"PROCEDURE", "FUNCTION", "METHOD", "TRIGGER", "SCHEMA", "NICKNAME", "ALIAS",
		"JOIN", "LEFT", "RIGHT", "FULL", "INNER", "OUTER", "CROSS", "ON", "UNION",
		"EXCEPT", "INTERSECT", "CALL", "WITH", "UR", "CS", "RS", "RR",
	},
	DataTypes: []string{
		"SMALLINT", "INTEGER", "BIGINT", "DECIMAL", "DECFLOAT", "REAL", "DOUBLE",
		"CHARACTER", "VARCHAR", "CLOB", "GRAPHIC", "VARGRAPHIC", "DBCLOB",
		"BINARY", "VARBINARY", "BLOB", "DATE", "TIME", "TIMESTAMP", "XML", "BOOLEAN",
	},
}
