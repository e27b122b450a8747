package duckdb

import (
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/meta"
)

// duckdb_columns reports ENUM types with their literals in data_type, so
// the same text serves as the full type.
const columnsQuery = `SELECT c.column_name,
	c.column_index AS ordinal_position,
	c.data_type,
	CASE
		WHEN list_contains(pk.cols, c.column_name) THEN 'PRI'
		WHEN list_contains(uk.cols, c.column_name) THEN 'UNI'
		WHEN list_contains(fk.cols, c.column_name) THEN 'MUL'
		ELSE '' END AS column_key,
	c.character_maximum_length,
	CASE WHEN c.is_nullable THEN 'YES' ELSE 'NO' END AS is_nullable,
	c.numeric_scale,
	c.numeric_precision,
	c.column_default,
	CASE WHEN c.column_default LIKE 'nextval(%' THEN 'auto_increment' ELSE '' END AS column_extra,
	c.data_type AS column_type,
	c.comment AS column_comment
FROM duckdb_columns() c
LEFT JOIN (SELECT schema_name, table_name, flatten(list(constraint_column_names)) AS cols
	FROM duckdb_constraints() WHERE constraint_type = 'PRIMARY KEY' GROUP BY ALL) pk
	USING (schema_name, table_name)
LEFT JOIN (SELECT schema_name, table_name, flatten(list(constraint_column_names)) AS cols
	FROM duckdb_constraints() WHERE constraint_type = 'UNIQUE' GROUP BY ALL) uk
	USING (schema_name, table_name)
LEFT JOIN (SELECT schema_name, table_name, flatten(list(constraint_column_names)) AS cols
	FROM duckdb_constraints() WHERE constraint_type = 'FOREIGN KEY' GROUP BY ALL) fk
	USING (schema_name, table_name)
WHERE c.schema_name = ? AND c.table_name = ?
ORDER BY c.column_index`

// Built-in functions are excluded; macros and user functions remain.
const routinesQuery = `SELECT schema_name AS routine_schema,
	function_name AS routine_name,
	function_name || '_' || function_oid AS specific_name,
	function_type AS routine_type,
	'SQL' AS routine_language,
	comment AS routine_comment
FROM duckdb_functions()
WHERE schema_name = ? AND NOT internal
ORDER BY function_name`

const collationsQuery = `SELECT collname AS collation_name,
	'UTF-8' AS character_set_name,
	0 AS id,
	'' AS is_default,
	'Yes' AS is_compiled,
	0 AS sortlen
FROM pragma_collations()`

// Metadata is the DuckDB catalog flavor.
var Metadata = &meta.Flavor{
	Name:               Config.Name,
	ColumnsQuery:       columnsQuery,
	RoutinesQuery:      routinesQuery,
	CollationsQuery:    collationsQuery,
	AutoIncrementToken: "auto_increment",
	EnumerableTypes:    []string{"enum"},
	DefaultSchema:      Config.DefaultSchema,
	RoutineTypes: map[string]core.RoutineType{
		"SCALAR":      core.RoutineFunction,
		"AGGREGATE":   core.RoutineFunction,
		"MACRO":       core.RoutineFunction,
		"TABLE":       core.RoutineFunction,
		"TABLE_MACRO": core.RoutineFunction,
		"PRAGMA":      core.RoutineProcedure,
	},
	DataTypes: []core.DataType{
		{Name: "boolean", ValueType: core.ValueBoolean, Precision: 1},
		{Name: "tinyint", ValueType: core.ValueInteger, Precision: 3},
		{Name: "smallint", ValueType: core.ValueInteger, Precision: 5},
		{Name: "integer", ValueType: core.ValueInteger, Precision: 10},
		{Name: "bigint", ValueType: core.ValueInteger, Precision: 19},
		{Name: "hugeint", ValueType: core.ValueInteger, Precision: 39},
		{Name: "float", ValueType: core.ValueNumeric, Precision: 7},
		{Name: "double", ValueType: core.ValueNumeric, Precision: 15},
		{Name: "decimal", ValueType: core.ValueNumeric, Precision: 38},
		{Name: "varchar", ValueType: core.ValueString},
		{Name: "blob", ValueType: core.ValueBinary},
		{Name: "date", ValueType: core.ValueDate, Precision: 10},
		{Name: "time", ValueType: core.ValueTime, Precision: 15},
		{Name: "timestamp", ValueType: core.ValueTimestamp, Precision: 26},
		{Name: "timestamp with time zone", ValueType: core.ValueTimestamp, Precision: 32},
		{Name: "interval", ValueType: core.ValueInterval},
		{Name: "uuid", ValueType: core.ValueUUID, Precision: 36},
		{Name: "json", ValueType: core.ValueJSON},
		{Name: "enum", ValueType: core.ValueEnum},
	},
	ValueTypes: map[string]core.ValueType{
		"boolean":                  core.ValueBoolean,
		"tinyint":                  core.ValueInteger,
		"smallint":                 core.ValueInteger,
		"integer":                  core.ValueInteger,
		"bigint":                   core.ValueInteger,
		"hugeint":                  core.ValueInteger,
		"utinyint":                 core.ValueInteger,
		"usmallint":                core.ValueInteger,
		"uinteger":                 core.ValueInteger,
		"ubigint":                  core.ValueInteger,
		"float":                    core.ValueNumeric,
		"double":                   core.ValueNumeric,
		"decimal":                  core.ValueNumeric,
		"varchar":                  core.ValueString,
		"blob":                     core.ValueBinary,
		"date":                     core.ValueDate,
		"time":                     core.ValueTime,
		"timestamp":                core.ValueTimestamp,
		"timestamp with time zone": core.ValueTimestamp,
		"interval":                 core.ValueInterval,
		"uuid":                     core.ValueUUID,
		"json":                     core.ValueJSON,
		"enum":                     core.ValueEnum,
	},
}
