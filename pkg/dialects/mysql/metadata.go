package mysql

import (
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/meta"
)

// An empty schema argument means the connection's current database.
const columnsQuery = `SELECT COLUMN_NAME, ORDINAL_POSITION, DATA_TYPE, COLUMN_KEY,
	CHARACTER_MAXIMUM_LENGTH, IS_NULLABLE, NUMERIC_SCALE, NUMERIC_PRECISION,
	COLUMN_DEFAULT, COLLATION_NAME, EXTRA AS COLUMN_EXTRA, COLUMN_TYPE, COLUMN_COMMENT
FROM information_schema.COLUMNS
WHERE TABLE_SCHEMA = COALESCE(NULLIF(?, ''), DATABASE()) AND TABLE_NAME = ?
ORDER BY ORDINAL_POSITION`

const routinesQuery = `SELECT ROUTINE_SCHEMA, ROUTINE_NAME, SPECIFIC_NAME, ROUTINE_TYPE,
	EXTERNAL_LANGUAGE AS ROUTINE_LANGUAGE, ROUTINE_COMMENT
FROM information_schema.ROUTINES
WHERE ROUTINE_SCHEMA = COALESCE(NULLIF(?, ''), DATABASE())
ORDER BY ROUTINE_NAME`

const charsetsQuery = `SELECT CHARACTER_SET_NAME, DESCRIPTION, MAXLEN
FROM information_schema.CHARACTER_SETS
ORDER BY CHARACTER_SET_NAME`

const collationsQuery = `SELECT COLLATION_NAME, CHARACTER_SET_NAME, ID, IS_DEFAULT, IS_COMPILED, SORTLEN
FROM information_schema.COLLATIONS
ORDER BY CHARACTER_SET_NAME, ID`

// Metadata is the MySQL catalog flavor.
var Metadata = &meta.Flavor{
	Name:               Config.Name,
	ColumnsQuery:       columnsQuery,
	RoutinesQuery:      routinesQuery,
	CharsetsQuery:      charsetsQuery,
	CollationsQuery:    collationsQuery,
	AutoIncrementToken: "auto_increment",
	EnumerableTypes:    []string{"enum", "set"},
	EnumParser:         meta.ParseEscapedEnumLiterals,
	DataTypes: []core.DataType{
		{Name: "tinyint", ValueType: core.ValueInteger, Precision: 3},
		{Name: "smallint", ValueType: core.ValueInteger, Precision: 5},
		{Name: "mediumint", ValueType: core.ValueInteger, Precision: 7},
		{Name: "int", ValueType: core.ValueInteger, Precision: 10},
		{Name: "bigint", ValueType: core.ValueInteger, Precision: 19},
		{Name: "decimal", ValueType: core.ValueNumeric, Precision: 65},
		{Name: "float", ValueType: core.ValueNumeric, Precision: 12},
		{Name: "double", ValueType: core.ValueNumeric, Precision: 22},
		{Name: "bit", ValueType: core.ValueBinary, Precision: 64},
		{Name: "char", ValueType: core.ValueString, Precision: 255},
		{Name: "varchar", ValueType: core.ValueString, Precision: 65535},
		{Name: "tinytext", ValueType: core.ValueString, Precision: 255},
		{Name: "text", ValueType: core.ValueString, Precision: 65535},
		{Name: "mediumtext", ValueType: core.ValueString, Precision: 16777215},
		{Name: "longtext", ValueType: core.ValueString, Precision: 4294967295},
		{Name: "binary", ValueType: core.ValueBinary, Precision: 255},
		{Name: "varbinary", ValueType: core.ValueBinary, Precision: 65535},
		{Name: "blob", ValueType: core.ValueBinary, Precision: 65535},
		{Name: "longblob", ValueType: core.ValueBinary, Precision: 4294967295},
		{Name: "date", ValueType: core.ValueDate, Precision: 10},
		{Name: "time", ValueType: core.ValueTime, Precision: 10},
		{Name: "datetime", ValueType: core.ValueTimestamp, Precision: 19},
		{Name: "timestamp", ValueType: core.ValueTimestamp, Precision: 19},
		{Name: "year", ValueType: core.ValueInteger, Precision: 4},
		{Name: "enum", ValueType: core.ValueEnum, Precision: 65535},
		{Name: "set", ValueType: core.ValueSet, Precision: 64},
		{Name: "json", ValueType: core.ValueJSON},
	},
	ValueTypes: map[string]core.ValueType{
		"tinyint":    core.ValueInteger,
		"smallint":   core.ValueInteger,
		"mediumint":  core.ValueInteger,
		"int":        core.ValueInteger,
		"integer":    core.ValueInteger,
		"bigint":     core.ValueInteger,
		"year":       core.ValueInteger,
		"decimal":    core.ValueNumeric,
		"float":      core.ValueNumeric,
		"double":     core.ValueNumeric,
		"bit":        core.ValueBinary,
		"char":       core.ValueString,
		"varchar":    core.ValueString,
		"tinytext":   core.ValueString,
		"text":       core.ValueString,
		"mediumtext": core.ValueString,
		"longtext":   core.ValueString,
		"binary":     core.ValueBinary,
		"varbinary":  core.ValueBinary,
		"tinyblob":   core.ValueBinary,
		"blob":       core.ValueBinary,
		"mediumblob": core.ValueBinary,
		"longblob":   core.ValueBinary,
		"date":       core.ValueDate,
		"time":       core.ValueTime,
		"datetime":   core.ValueTimestamp,
		"timestamp":  core.ValueTimestamp,
		"enum":       core.ValueEnum,
		"set":        core.ValueSet,
		"json":       core.ValueJSON,
	},
}
