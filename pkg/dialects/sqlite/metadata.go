package sqlite

import (
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/meta"
)

// pragma_table_info takes the table first and the schema second. An
// INTEGER PRIMARY KEY aliases the rowid and is generated on insert.
const columnsQuery = `SELECT name AS column_name,
	cid + 1 AS ordinal_position,
	type AS data_type,
	CASE WHEN pk > 0 THEN 'PRI' ELSE '' END AS column_key,
	CASE WHEN "notnull" = 0 AND pk = 0 THEN 'YES' ELSE 'NO' END AS is_nullable,
	dflt_value AS column_default,
	CASE WHEN pk = 1 AND upper(type) = 'INTEGER' THEN 'autoincrement' ELSE '' END AS column_extra,
	type AS column_type
FROM pragma_table_info(?, ?)
ORDER BY cid`

// Metadata is the SQLite catalog flavor. SQLite has no stored routines and
// no charset catalog.
var Metadata = &meta.Flavor{
	Name:               Config.Name,
	ColumnsQuery:       columnsQuery,
	AutoIncrementToken: "autoincrement",
	DefaultSchema:      Config.DefaultSchema,
	ColumnArgs: func(t meta.TableRef) []any {
		schema := t.Schema
		if schema == "" {
			schema = Config.DefaultSchema
		}
		return []any{t.Name, schema}
	},
	DataTypes: []core.DataType{
		{Name: "integer", ValueType: core.ValueInteger, Precision: 19},
		{Name: "real", ValueType: core.ValueNumeric, Precision: 15},
		{Name: "numeric", ValueType: core.ValueNumeric, Precision: 15},
		{Name: "text", ValueType: core.ValueString, Precision: 1000000000},
		{Name: "blob", ValueType: core.ValueBinary, Precision: 1000000000},
	},
	ValueTypes: map[string]core.ValueType{
		"integer":  core.ValueInteger,
		"int":      core.ValueInteger,
		"bigint":   core.ValueInteger,
		"real":     core.ValueNumeric,
		"double":   core.ValueNumeric,
		"float":    core.ValueNumeric,
		"numeric":  core.ValueNumeric,
		"decimal":  core.ValueNumeric,
		"boolean":  core.ValueBoolean,
		"text":     core.ValueString,
		"varchar":  core.ValueString,
		"char":     core.ValueString,
		"clob":     core.ValueString,
		"blob":     core.ValueBinary,
		"date":     core.ValueDate,
		"datetime": core.ValueTimestamp,
		"json":     core.ValueJSON,
	},
}
