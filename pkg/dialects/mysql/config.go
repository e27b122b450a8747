// Package mysql provides the MySQL SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package mysql

import "github.com/leapstack-labs/leapdb/pkg/core"

// Config is the MySQL dialect configuration.
var Config = &core.DialectConfig{
	Name:        "mysql",
	Placeholder: core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         "`",
		QuoteEnd:      "`",
		Escape:        "``",
		Normalization: core.NormCaseSensitive, // depends on lower_case_table_names
	},

	SupportsAliasInSelect:        true,
	SupportsAlterTableConstraint: true,
	SupportsBatch:                true,

	// MySQL needs a LIMIT for OFFSET; the documented idiom is the largest BIGINT UNSIGNED.
	Limit:          core.LimitOffset,
	UnboundedLimit: "18446744073709551615",

	QueryKeywords: []string{"SELECT", "WITH", "VALUES", "TABLE", "SHOW", "EXPLAIN", "DESCRIBE", "DESC", "CALL"},
	VersionQuery:  "SELECT VERSION()",

	Keywords: []string{
		"SELECT", "FROM", "WHERE", "GROUP", "BY", "HAVING", "ORDER", "LIMIT", "OFFSET",
		"INSERT", "INTO", "VALUES", "UPDATE", "SET", "DELETE", "REPLACE", "IGNORE",
		"DUPLICATE", "KEY", "CREATE", "ALTER", "DROP", "TABLE", "VIEW", "INDEX",
		"PROCEDURE", "FUNCTION", "TRIGGER", "EVENT", "DATABASE", "SCHEMA",
		"JOIN", "STRAIGHT_JOIN", "LEFT", "RIGHT", "INNER", "OUTER", "CROSS", "ON", "USING",
		"UNION", "DISTINCT", "ENGINE", "CHARSET", "COLLATE", "AUTO_INCREMENT",
		"SHOW", "DESCRIBE", "EXPLAIN", "USE", "LOCK", "UNLOCK", "TABLES",
	},
	DataTypes: []string{
		"tinyint", "smallint", "mediumint", "int", "bigint", "decimal", "float", "double", "bit",
		"char", "varchar", "tinytext", "text", "mediumtext", "longtext",
		"binary", "varbinary", "tinyblob", "blob", "mediumblob", "longblob",
		"date", "time", "datetime", "timestamp", "year", "enum", "set", "json",
		"geometry", "point", "linestring", "polygon",
	},
}
