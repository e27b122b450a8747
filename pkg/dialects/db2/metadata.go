package db2

import (
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/meta"
)

// SYSCAT reports primary key membership through KEYSEQ and identity
// columns through IDENTITY = 'Y'. An empty schema means CURRENT SCHEMA.
const columnsQuery = `SELECT COLNAME,
	COLNO + 1 AS COLNO,
	TYPENAME,
	CASE WHEN KEYSEQ IS NOT NULL THEN 'P' ELSE '' END AS KEYCODE,
	CASE WHEN TYPENAME IN ('CHARACTER', 'VARCHAR', 'CLOB', 'GRAPHIC', 'VARGRAPHIC', 'DBCLOB', 'BINARY', 'VARBINARY', 'BLOB')
		THEN LENGTH END AS CHARLEN,
	NULLS,
	SCALE,
	CASE WHEN TYPENAME IN ('DECIMAL', 'DECFLOAT') THEN LENGTH END AS PRECISION,
	DEFAULT,
	COLLATIONNAME,
	IDENTITY,
	TYPENAME AS FULLTYPE,
	REMARKS
FROM SYSCAT.COLUMNS
WHERE TABSCHEMA = COALESCE(NULLIF(CAST(? AS VARCHAR(128)), ''), CURRENT SCHEMA) AND TABNAME = ?
ORDER BY COLNO`

const routinesQuery = `SELECT ROUTINESCHEMA, ROUTINENAME, SPECIFICNAME, ROUTINETYPE, LANGUAGE, REMARKS
FROM SYSCAT.ROUTINES
WHERE ROUTINESCHEMA = COALESCE(NULLIF(CAST(? AS VARCHAR(128)), ''), CURRENT SCHEMA)
ORDER BY ROUTINENAME`

// Metadata is the Db2 catalog flavor. SYSCAT uses its own column names and
// single-letter codes.
var Metadata = &meta.Flavor{
	Name:               Config.Name,
	ColumnsQuery:       columnsQuery,
	RoutinesQuery:      routinesQuery,
	NullableMarker:     "Y",
	AutoIncrementToken: "Y",
	KeyTypes: map[string]core.KeyType{
		"P": core.KeyPrimary,
	},
	Columns: meta.ColumnNames{
		Name:       "COLNAME",
		Ordinal:    "COLNO",
		DataType:   "TYPENAME",
		Key:        "KEYCODE",
		CharLength: "CHARLEN",
		Nullable:   "NULLS",
		Scale:      "SCALE",
		Precision:  "PRECISION",
		Default:    "DEFAULT",
		Collation:  "COLLATIONNAME",
		Extra:      "IDENTITY",
		FullType:   "FULLTYPE",
		Comment:    "REMARKS",
	},
	Routines: meta.RoutineNames{
		Schema:       "ROUTINESCHEMA",
		Name:         "ROUTINENAME",
		SpecificName: "SPECIFICNAME",
		Type:         "ROUTINETYPE",
		Language:     "LANGUAGE",
		Comment:      "REMARKS",
	},
	DataTypes: []core.DataType{
		{Name: "smallint", ValueType: core.ValueInteger, Precision: 5},
		{Name: "integer", ValueType: core.ValueInteger, Precision: 10},
		{Name: "bigint", ValueType: core.ValueInteger, Precision: 19},
		{Name: "decimal", ValueType: core.ValueNumeric, Precision: 31},
		{Name: "decfloat", ValueType: core.ValueNumeric, Precision: 34},
		{Name: "double", ValueType: core.ValueNumeric, Precision: 15},
		{Name: "character", ValueType: core.ValueString, Precision: 255},
		{Name: "varchar", ValueType: core.ValueString, Precision: 32672},
		{Name: "clob", ValueType: core.ValueString, Precision: 2147483647},
		{Name: "blob", ValueType: core.ValueBinary, Precision: 2147483647},
		{Name: "date", ValueType: core.ValueDate, Precision: 10},
		{Name: "time", ValueType: core.ValueTime, Precision: 8},
		{Name: "timestamp", ValueType: core.ValueTimestamp, Precision: 26},
	},
	ValueTypes: map[string]core.ValueType{
		"smallint":   core.ValueInteger,
		"integer":    core.ValueInteger,
		"bigint":     core.ValueInteger,
		"decimal":    core.ValueNumeric,
		"decfloat":   core.ValueNumeric,
		"real":       core.ValueNumeric,
		"double":     core.ValueNumeric,
		"character":  core.ValueString,
		"varchar":    core.ValueString,
		"clob":       core.ValueString,
		"graphic":    core.ValueString,
		"vargraphic": core.ValueString,
		"dbclob":     core.ValueString,
		"binary":     core.ValueBinary,
		"varbinary":  core.ValueBinary,
		"blob":       core.ValueBinary,
		"date":       core.ValueDate,
		"time":       core.ValueTime,
		"timestamp":  core.ValueTimestamp,
		"xml":        core.ValueString,
		"boolean":    core.ValueBoolean,
	},
}
