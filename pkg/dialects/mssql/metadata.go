package mssql

import (
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/meta"
)

const columnsQuery = `SELECT c.COLUMN_NAME,
	c.ORDINAL_POSITION,
	c.DATA_TYPE,
	COALESCE((
		SELECT TOP 1 CASE tc.CONSTRAINT_TYPE
			WHEN 'PRIMARY KEY' THEN 'PRI'
			WHEN 'UNIQUE' THEN 'UNI'
			ELSE 'MUL' END
		FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE k
		JOIN INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
			ON tc.CONSTRAINT_SCHEMA = k.CONSTRAINT_SCHEMA
			AND tc.CONSTRAINT_NAME = k.CONSTRAINT_NAME
		WHERE k.TABLE_SCHEMA = c.TABLE_SCHEMA
			AND k.TABLE_NAME = c.TABLE_NAME
			AND k.COLUMN_NAME = c.COLUMN_NAME
		ORDER BY CASE tc.CONSTRAINT_TYPE WHEN 'PRIMARY KEY' THEN 0 WHEN 'UNIQUE' THEN 1 ELSE 2 END), '') AS COLUMN_KEY,
	c.CHARACTER_MAXIMUM_LENGTH,
	c.IS_NULLABLE,
	c.NUMERIC_SCALE,
	c.NUMERIC_PRECISION,
	c.COLUMN_DEFAULT,
	c.COLLATION_NAME,
	CASE WHEN COLUMNPROPERTY(OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME)), c.COLUMN_NAME, 'IsIdentity') = 1
		THEN 'identity' ELSE '' END AS COLUMN_EXTRA,
	c.DATA_TYPE AS COLUMN_TYPE,
	CAST(ep.value AS nvarchar(4000)) AS COLUMN_COMMENT
FROM INFORMATION_SCHEMA.COLUMNS c
LEFT JOIN sys.extended_properties ep
	ON ep.major_id = OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME))
	AND ep.minor_id = c.ORDINAL_POSITION
	AND ep.name = 'MS_Description'
WHERE c.TABLE_SCHEMA = @p1 AND c.TABLE_NAME = @p2
ORDER BY c.ORDINAL_POSITION`

const routinesQuery = `SELECT ROUTINE_SCHEMA, ROUTINE_NAME, SPECIFIC_NAME, ROUTINE_TYPE,
	ROUTINE_BODY AS ROUTINE_LANGUAGE, NULL AS ROUTINE_COMMENT
FROM INFORMATION_SCHEMA.ROUTINES
WHERE ROUTINE_SCHEMA = @p1
ORDER BY ROUTINE_NAME`

// Collations are grouped by code page, which stands in for a charset.
const charsetsQuery = `SELECT DISTINCT CAST(COLLATIONPROPERTY(name, 'CodePage') AS varchar(10)) AS CHARACTER_SET_NAME,
	'code page' AS DESCRIPTION,
	CASE WHEN CAST(COLLATIONPROPERTY(name, 'CodePage') AS int) = 65001 THEN 4 ELSE 2 END AS MAXLEN
FROM sys.fn_helpcollations()`

const collationsQuery = `SELECT name AS COLLATION_NAME,
	CAST(COLLATIONPROPERTY(name, 'CodePage') AS varchar(10)) AS CHARACTER_SET_NAME,
	CAST(COLLATIONPROPERTY(name, 'LCID') AS int) AS ID,
	CASE WHEN name = CAST(SERVERPROPERTY('Collation') AS nvarchar(128)) THEN 'Yes' ELSE '' END AS IS_DEFAULT,
	'Yes' AS IS_COMPILED,
	0 AS SORTLEN
FROM sys.fn_helpcollations()`

// Metadata is the SQL Server catalog flavor.
var Metadata = &meta.Flavor{
	Name:               Config.Name,
	ColumnsQuery:       columnsQuery,
	RoutinesQuery:      routinesQuery,
	CharsetsQuery:      charsetsQuery,
	CollationsQuery:    collationsQuery,
	AutoIncrementToken: "identity",
	DefaultSchema:      Config.DefaultSchema,
	DataTypes: []core.DataType{
		{Name: "bit", ValueType: core.ValueBoolean, Precision: 1},
		{Name: "tinyint", ValueType: core.ValueInteger, Precision: 3},
		{Name: "smallint", ValueType: core.ValueInteger, Precision: 5},
		{Name: "int", ValueType: core.ValueInteger, Precision: 10},
		{Name: "bigint", ValueType: core.ValueInteger, Precision: 19},
		{Name: "decimal", ValueType: core.ValueNumeric, Precision: 38},
		{Name: "money", ValueType: core.ValueNumeric, Precision: 19, Scale: 4},
		{Name: "float", ValueType: core.ValueNumeric, Precision: 53},
		{Name: "varchar", ValueType: core.ValueString, Precision: 8000},
		{Name: "nvarchar", ValueType: core.ValueString, Precision: 4000},
		{Name: "varbinary", ValueType: core.ValueBinary, Precision: 8000},
		{Name: "date", ValueType: core.ValueDate, Precision: 10},
		{Name: "time", ValueType: core.ValueTime, Precision: 16},
		{Name: "datetime2", ValueType: core.ValueTimestamp, Precision: 27},
		{Name: "uniqueidentifier", ValueType: core.ValueUUID, Precision: 36},
	},
	ValueTypes: map[string]core.ValueType{
		"bit":              core.ValueBoolean,
		"tinyint":          core.ValueInteger,
		"smallint":         core.ValueInteger,
		"int":              core.ValueInteger,
		"bigint":           core.ValueInteger,
		"decimal":          core.ValueNumeric,
		"numeric":          core.ValueNumeric,
		"money":            core.ValueNumeric,
		"smallmoney":       core.ValueNumeric,
		"float":            core.ValueNumeric,
		"real":             core.ValueNumeric,
		"char":             core.ValueString,
		"varchar":          core.ValueString,
		"text":             core.ValueString,
		"nchar":            core.ValueString,
		"nvarchar":         core.ValueString,
		"ntext":            core.ValueString,
		"binary":           core.ValueBinary,
		"varbinary":        core.ValueBinary,
		"image":            core.ValueBinary,
		"date":             core.ValueDate,
		"time":             core.ValueTime,
		"datetime":         core.ValueTimestamp,
		"datetime2":        core.ValueTimestamp,
		"smalldatetime":    core.ValueTimestamp,
		"datetimeoffset":   core.ValueTimestamp,
		"uniqueidentifier": core.ValueUUID,
	},
}
