package meta

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// ColumnNames maps loader fields to the column names of a vendor's catalog
// query.
type ColumnNames struct {
	Name       string
	Ordinal    string
	DataType   string
	Key        string
	CharLength string
	Nullable   string
	Scale      string
	Precision  string
	Default    string
	Collation  string
	Extra      string
	FullType   string
	Comment    string
}

// DefaultColumnNames follows INFORMATION_SCHEMA.COLUMNS.
var DefaultColumnNames = ColumnNames{
	Name:       "COLUMN_NAME",
	Ordinal:    "ORDINAL_POSITION",
	DataType:   "DATA_TYPE",
	Key:        "COLUMN_KEY",
	CharLength: "CHARACTER_MAXIMUM_LENGTH",
	Nullable:   "IS_NULLABLE",
	Scale:      "NUMERIC_SCALE",
	Precision:  "NUMERIC_PRECISION",
	Default:    "COLUMN_DEFAULT",
	Collation:  "COLLATION_NAME",
	Extra:      "COLUMN_EXTRA",
	FullType:   "COLUMN_TYPE",
	Comment:    "COLUMN_COMMENT",
}

// RoutineNames maps routine fields to catalog column names.
type RoutineNames struct {
	Schema       string
	Name         string
	SpecificName string
	Type         string
	Language     string
	Comment      string
}

// DefaultRoutineNames follows INFORMATION_SCHEMA.ROUTINES.
var DefaultRoutineNames = RoutineNames{
	Schema:       "ROUTINE_SCHEMA",
	Name:         "ROUTINE_NAME",
	SpecificName: "SPECIFIC_NAME",
	Type:         "ROUTINE_TYPE",
	Language:     "ROUTINE_LANGUAGE",
	Comment:      "ROUTINE_COMMENT",
}

// Flavor is the vendor-specific data the metadata loader runs on.
// Zero fields fall back to INFORMATION_SCHEMA conventions.
type Flavor struct {
	Name string

	// ColumnsQuery returns one row per column of a table. Its parameters
	// come from ColumnArgs, by default (schema, table).
	ColumnsQuery string
	ColumnArgs   func(table TableRef) []any

	// RoutinesQuery returns one row per routine of a schema.
	RoutinesQuery string

	// CharsetsQuery and CollationsQuery feed LoadCatalog. Either may be empty.
	CharsetsQuery   string
	CollationsQuery string

	// DataTypes seeds the type catalog with intrinsic precisions.
	DataTypes []core.DataType

	// ValueTypes maps lower-case declared type names to value types.
	ValueTypes map[string]core.ValueType

	// KeyTypes maps key-type codes. Nil means PRI, UNI, MUL.
	KeyTypes map[string]core.KeyType

	// RoutineTypes maps vendor routine codes not understood by
	// core.ParseRoutineType.
	RoutineTypes map[string]core.RoutineType

	// AutoIncrementToken marks auto-generated columns in the Extra column.
	AutoIncrementToken string

	// EnumerableTypes lists the type families whose full type text carries
	// literal values, such as enum and set.
	EnumerableTypes []string

	// NullableMarker is the Nullable column value of nullable columns.
	NullableMarker string

	DefaultSchema string

	Columns  ColumnNames
	Routines RoutineNames

	// EnumParser extracts literals from a full type text. Nil means
	// ParseEnumLiterals.
	EnumParser func(fullType string) []string
}

// normalized returns a copy of f with defaults filled in.
func (f *Flavor) normalized() *Flavor {
	out := *f
	if out.Columns == (ColumnNames{}) {
		out.Columns = DefaultColumnNames
	}
	if out.Routines == (RoutineNames{}) {
		out.Routines = DefaultRoutineNames
	}
	if out.NullableMarker == "" {
		out.NullableMarker = "YES"
	}
	if out.EnumParser == nil {
		out.EnumParser = ParseEnumLiterals
	}
	if out.ColumnArgs == nil {
		out.ColumnArgs = func(t TableRef) []any {
			schema := t.Schema
			if schema == "" {
				schema = out.DefaultSchema
			}
			return []any{schema, t.Name}
		}
	}
	return &out
}

// ValueType resolves a declared type name. Length suffixes and modifiers
// such as "(255)" or "unsigned" are ignored.
func (f *Flavor) ValueType(typeName string) core.ValueType {
	name := baseTypeName(typeName)
	if vt, ok := f.ValueTypes[name]; ok {
		return vt
	}
	if vt, ok := f.ValueTypes[strings.ToLower(strings.TrimSpace(typeName))]; ok {
		return vt
	}
	return core.ValueUnknown
}

// KeyType resolves a key-type code.
func (f *Flavor) KeyType(code string) (core.KeyType, bool) {
	if f.KeyTypes == nil {
		return core.ParseKeyType(code)
	}
	kt, ok := f.KeyTypes[code]
	return kt, ok
}

// RoutineType resolves a routine code.
func (f *Flavor) RoutineType(code string) (core.RoutineType, bool) {
	if rt, ok := f.RoutineTypes[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return rt, true
	}
	return core.ParseRoutineType(code)
}

// IsEnumerable reports whether typeName belongs to an enumerable family.
func (f *Flavor) IsEnumerable(typeName string) bool {
	name := baseTypeName(typeName)
	for _, t := range f.EnumerableTypes {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	return false
}

// baseTypeName lower-cases a declared type and strips arguments and
// trailing modifiers: "VARCHAR(20)" is "varchar", "int unsigned" is "int".
func baseTypeName(typeName string) string {
	name := strings.ToLower(strings.TrimSpace(typeName))
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	for _, mod := range []string{" unsigned", " zerofill", " signed"} {
		name = strings.TrimSuffix(name, mod)
	}
	return name
}

var enumLiteral = regexp.MustCompile(`'([^']*)'`)

// ParseEnumLiterals extracts every single-quoted token of a full type text
// in order, keeping duplicates: enum('a','b') yields [a b].
func ParseEnumLiterals(fullType string) []string {
	matches := enumLiteral.FindAllStringSubmatch(fullType, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

var escapedLiteral = regexp.MustCompile(`'((?:[^']|'')*)'`)

// ParseEscapedEnumLiterals is ParseEnumLiterals for servers that escape a
// quote inside a literal by doubling it, as MySQL does in COLUMN_TYPE.
func ParseEscapedEnumLiterals(fullType string) []string {
	matches := escapedLiteral.FindAllStringSubmatch(fullType, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.ReplaceAll(m[1], "''", "'"))
	}
	return out
}
