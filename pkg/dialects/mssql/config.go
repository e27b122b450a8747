// Package mssql provides the Microsoft SQL Server dialect definition.
// This package is pure Go with no database driver dependencies.
package mssql

import "github.com/leapstack-labs/leapdb/pkg/core"

// Config is the SQL Server dialect configuration.
var Config = &core.DialectConfig{
	Name:          "mssql",
	DefaultSchema: "dbo",
	Placeholder:   core.PlaceholderAt,
	Identifiers: core.IdentifierConfig{
		Quote:         "[",
		QuoteEnd:      "]",
		Escape:        "]]",
		Normalization: core.NormCaseInsensitive,
	},
	// Double quotes are identifiers while QUOTED_IDENTIFIER is ON, the default.
	QuoteStrings: [][2]string{{"[", "]"}, {`"`, `"`}},

	SupportsAliasInSelect:        true,
	SupportsAlterTableConstraint: true,
	SupportsBatch:                true,

	Limit: core.LimitFetch,

	QueryKeywords: []string{"SELECT", "WITH", "EXEC", "EXECUTE"},
	VersionQuery:  "SELECT CAST(SERVERPROPERTY('ProductVersion') AS nvarchar(128))",

	Keywords: []string{
		"SELECT", "TOP", "FROM", "WHERE", "GROUP", "BY", "HAVING", "ORDER", "OFFSET",
		"FETCH", "NEXT", "ROWS", "ONLY", "INSERT", "INTO", "VALUES", "UPDATE", "SET",
		"DELETE", "MERGE", "OUTPUT", "CREATE", "ALTER", "DROP", "TABLE", "VIEW",
		"INDEX", "PROCEDURE", "FUNCTION", "TRIGGER", "SCHEMA", "JOIN", "LEFT",
		"RIGHT", "FULL", "INNER", "OUTER", "CROSS", "APPLY", "ON", "UNION",
		"EXCEPT", "INTERSECT", "EXEC", "EXECUTE", "DECLARE", "BEGIN", "END",
		"TRY", "CATCH", "GO", "USE", "IDENTITY", "NOLOCK",
	},
	DataTypes: []string{
		"bit", "tinyint", "smallint", "int", "bigint", "decimal", "numeric",
		"money", "smallmoney", "float", "real", "char", "varchar", "text",
		"nchar", "nvarchar", "ntext", "binary", "varbinary", "image",
		"date", "time", "datetime", "datetime2", "datetimeoffset", "smalldatetime",
		"uniqueidentifier", "xml", "sql_variant", "hierarchyid", "geography", "geometry",
	},
}
