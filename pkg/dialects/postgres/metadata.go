package postgres

import (
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/meta"
)

// Key codes are derived from table constraints; identity and serial
// columns report auto_increment in the extra column.
const columnsQuery = `SELECT c.column_name,
	c.ordinal_position,
	c.udt_name AS data_type,
	COALESCE((
		SELECT CASE tc.constraint_type
			WHEN 'PRIMARY KEY' THEN 'PRI'
			WHEN 'UNIQUE' THEN 'UNI'
			ELSE 'MUL' END
		FROM information_schema.key_column_usage k
		JOIN information_schema.table_constraints tc
			ON tc.constraint_schema = k.constraint_schema
			AND tc.constraint_name = k.constraint_name
		WHERE k.table_schema = c.table_schema
			AND k.table_name = c.table_name
			AND k.column_name = c.column_name
		ORDER BY CASE tc.constraint_type
			WHEN 'PRIMARY KEY' THEN 0
			WHEN 'UNIQUE' THEN 1
			ELSE 2 END
		LIMIT 1), '') AS column_key,
	c.character_maximum_length,
	c.is_nullable,
	c.numeric_scale,
	c.numeric_precision,
	c.column_default,
	c.collation_name,
	CASE WHEN c.is_identity = 'YES' OR c.column_default LIKE 'nextval(%'
		THEN 'auto_increment' ELSE '' END AS column_extra,
	c.data_type AS column_type,
	col_description(format('%I.%I', c.table_schema, c.table_name)::regclass, c.ordinal_position::int) AS column_comment
FROM information_schema.columns c
WHERE c.table_schema = $1 AND c.table_name = $2
ORDER BY c.ordinal_position`

const routinesQuery = `SELECT r.routine_schema,
	r.routine_name,
	r.specific_name,
	r.routine_type,
	r.external_language AS routine_language,
	obj_description(p.oid, 'pg_proc') AS routine_comment
FROM information_schema.routines r
JOIN pg_catalog.pg_proc p
	ON r.specific_name = p.proname || '_' || p.oid
WHERE r.routine_schema = $1
ORDER BY r.routine_name`

const charsetsQuery = `SELECT pg_encoding_to_char(encoding) AS character_set_name,
	'database encoding' AS description,
	pg_encoding_max_length(encoding) AS maxlen
FROM pg_database
WHERE datname = current_database()`

// Collations usable with any encoding are attached to the database encoding.
const collationsQuery = `SELECT c.collname AS collation_name,
	COALESCE(NULLIF(pg_encoding_to_char(c.collencoding), ''), current_setting('server_encoding')) AS character_set_name,
	c.oid::int AS id,
	CASE WHEN c.collname = 'default' THEN 'Yes' ELSE '' END AS is_default,
	'Yes' AS is_compiled,
	0 AS sortlen
FROM pg_catalog.pg_collation c
ORDER BY c.collname`

// Metadata is the PostgreSQL catalog flavor.
var Metadata = &meta.Flavor{
	Name:               Config.Name,
	ColumnsQuery:       columnsQuery,
	RoutinesQuery:      routinesQuery,
	CharsetsQuery:      charsetsQuery,
	CollationsQuery:    collationsQuery,
	AutoIncrementToken: "auto_increment",
	DefaultSchema:      Config.DefaultSchema,
	DataTypes: []core.DataType{
		{Name: "int2", ValueType: core.ValueInteger, Precision: 5},
		{Name: "int4", ValueType: core.ValueInteger, Precision: 10},
		{Name: "int8", ValueType: core.ValueInteger, Precision: 19},
		{Name: "float4", ValueType: core.ValueNumeric, Precision: 6},
		{Name: "float8", ValueType: core.ValueNumeric, Precision: 15},
		{Name: "numeric", ValueType: core.ValueNumeric, Precision: 1000},
		{Name: "bool", ValueType: core.ValueBoolean, Precision: 1},
		{Name: "varchar", ValueType: core.ValueString, Precision: 10485760},
		{Name: "bpchar", ValueType: core.ValueString, Precision: 10485760},
		{Name: "text", ValueType: core.ValueString, Precision: 1073741823},
		{Name: "bytea", ValueType: core.ValueBinary, Precision: 1073741823},
		{Name: "date", ValueType: core.ValueDate, Precision: 13},
		{Name: "time", ValueType: core.ValueTime, Precision: 15},
		{Name: "timestamp", ValueType: core.ValueTimestamp, Precision: 29},
		{Name: "timestamptz", ValueType: core.ValueTimestamp, Precision: 35},
		{Name: "interval", ValueType: core.ValueInterval, Precision: 49},
		{Name: "uuid", ValueType: core.ValueUUID, Precision: 36},
		{Name: "json", ValueType: core.ValueJSON},
		{Name: "jsonb", ValueType: core.ValueJSON},
	},
	ValueTypes: map[string]core.ValueType{
		"int2":        core.ValueInteger,
		"int4":        core.ValueInteger,
		"int8":        core.ValueInteger,
		"float4":      core.ValueNumeric,
		"float8":      core.ValueNumeric,
		"numeric":     core.ValueNumeric,
		"money":       core.ValueNumeric,
		"bool":        core.ValueBoolean,
		"varchar":     core.ValueString,
		"bpchar":      core.ValueString,
		"text":        core.ValueString,
		"name":        core.ValueString,
		"bytea":       core.ValueBinary,
		"date":        core.ValueDate,
		"time":        core.ValueTime,
		"timetz":      core.ValueTime,
		"timestamp":   core.ValueTimestamp,
		"timestamptz": core.ValueTimestamp,
		"interval":    core.ValueInterval,
		"uuid":        core.ValueUUID,
		"json":        core.ValueJSON,
		"jsonb":       core.ValueJSON,
	},
}
