package meta

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapdb/internal/testutil"
	"github.com/leapstack-labs/leapdb/pkg/core"
)

func testFlavor() *Flavor {
	return &Flavor{
		Name:          "test",
		ColumnsQuery:  "SELECT * FROM information_schema.columns WHERE table_schema = ? AND table_name = ?",
		RoutinesQuery: "SELECT * FROM information_schema.routines WHERE routine_schema = ?",
		DataTypes: []core.DataType{
			{Name: "int", ValueType: core.ValueInteger, Precision: 10},
			{Name: "varchar", ValueType: core.ValueString, Precision: 65535},
			{Name: "enum", ValueType: core.ValueEnum, Precision: 65535},
			{Name: "set", ValueType: core.ValueSet, Precision: 64},
		},
		ValueTypes: map[string]core.ValueType{
			"int":     core.ValueInteger,
			"varchar": core.ValueString,
			"enum":    core.ValueEnum,
			"set":     core.ValueSet,
		},
		AutoIncrementToken: "auto_increment",
		EnumerableTypes:    []string{"enum", "set"},
	}
}

func testCatalog() *MemoryCatalog {
	cat := NewMemoryCatalog()
	for _, dt := range testFlavor().DataTypes {
		cat.AddDataType(dt)
	}
	cat.AddCollation("utf8mb4", &core.Collation{Name: "utf8mb4_general_ci", IsDefault: true})
	cat.AddCollation("utf8mb4", &core.Collation{Name: "utf8mb4_bin"})
	cat.AddCollation("latin1", &core.Collation{Name: "latin1_swedish_ci", IsDefault: true})
	cat.AddCollation("latin1", &core.Collation{Name: "latin1_bin"})
	return cat
}

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	return NewLoader(testFlavor(), testCatalog(), testutil.NewTestLogger(t))
}

var users = TableRef{Schema: "app", Name: "users"}

func TestLoadColumn_AllFields(t *testing.T) {
	l := newTestLoader(t)
	row := Row{
		"COLUMN_NAME":              "id",
		"ORDINAL_POSITION":         int64(1),
		"DATA_TYPE":                "int",
		"COLUMN_KEY":               "PRI",
		"CHARACTER_MAXIMUM_LENGTH": nil,
		"IS_NULLABLE":              "NO",
		"NUMERIC_SCALE":            int64(0),
		"NUMERIC_PRECISION":        int64(10),
		"COLUMN_DEFAULT":           nil,
		"COLLATION_NAME":           nil,
		"COLUMN_EXTRA":             "auto_increment",
		"COLUMN_TYPE":              "int unsigned",
		"COLUMN_COMMENT":           "primary id",
	}

	c := l.LoadColumn(users, row)
	assert.Equal(t, "id", c.Name())
	assert.Equal(t, 1, c.Ordinal())
	assert.Equal(t, "int", c.TypeName())
	assert.Equal(t, core.ValueInteger, c.ValueType())
	assert.Equal(t, core.KeyPrimary, c.KeyType())
	assert.True(t, c.Required())
	assert.True(t, c.AutoGenerated())
	assert.Equal(t, 10, c.Precision())
	assert.Equal(t, "primary id", c.Comment())
	assert.Equal(t, users, c.Table())
	assert.Nil(t, c.Collation())
	assert.Nil(t, c.Charset())

	_, ok := c.EnumValues()
	assert.False(t, ok, "int is not enumerable")
}

func TestLoadColumn_MaxLength(t *testing.T) {
	l := newTestLoader(t)

	tests := []struct {
		name     string
		typeName string
		length   any
		want     int64
		wantOK   bool
	}{
		{"positive length wins", "varchar", int64(255), 255, true},
		{"positive length as text", "varchar", []byte("42"), 42, true},
		{"zero falls back to precision", "varchar", int64(0), 65535, true},
		{"negative falls back to precision", "int", int64(-1), 10, true},
		{"absent falls back to precision", "int", nil, 10, true},
		{"unknown type stays unset", "geometry", nil, 0, false},
		{"unknown type keeps positive length", "geometry", int64(7), 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := Row{"COLUMN_NAME": "c", "DATA_TYPE": tt.typeName}
			if tt.length != nil {
				row["CHARACTER_MAXIMUM_LENGTH"] = tt.length
			}
			got, ok := l.LoadColumn(users, row).MaxLength()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadColumn_KeyTypes(t *testing.T) {
	l := newTestLoader(t)

	tests := []struct {
		code       string
		want       core.KeyType
		unique     bool
		references bool
	}{
		{"PRI", core.KeyPrimary, true, false},
		{"UNI", core.KeyUnique, true, false},
		{"MUL", core.KeyMultiple, false, true},
		{"FOREIGN", core.KeyNone, false, false},
		{"pri", core.KeyNone, false, false},
		{"", core.KeyNone, false, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("code %q", tt.code), func(t *testing.T) {
			var c *TableColumn
			require.NotPanics(t, func() {
				c = l.LoadColumn(users, Row{"COLUMN_NAME": "c", "COLUMN_KEY": tt.code})
			})
			assert.Equal(t, tt.want, c.KeyType())
			assert.Equal(t, tt.unique, c.KeyType().InUniqueKey())
			assert.Equal(t, tt.references, c.KeyType().InReferenceKey())
		})
	}
}

func TestLoadColumn_EnumValues(t *testing.T) {
	l := newTestLoader(t)

	tests := []struct {
		name     string
		typeName string
		fullType string
		want     []string
		wantOK   bool
	}{
		{"enum", "enum", "enum('a','b','c')", []string{"a", "b", "c"}, true},
		{"set keeps duplicates", "set", "set('x','y','x')", []string{"x", "y", "x"}, true},
		{"upper case family", "ENUM", "ENUM('on','off')", []string{"on", "off"}, true},
		{"empty literal", "enum", "enum('','z')", []string{"", "z"}, true},
		{"enumerable without literals", "enum", "enum()", []string{}, true},
		{"not enumerable", "varchar", "enum('a','b')", nil, false},
		{"missing full type", "enum", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := l.LoadColumn(users, Row{"COLUMN_NAME": "c", "DATA_TYPE": tt.typeName, "COLUMN_TYPE": tt.fullType})
			got, ok := c.EnumValues()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadColumn_EnumValuesAreCopies(t *testing.T) {
	l := newTestLoader(t)
	c := l.LoadColumn(users, Row{"DATA_TYPE": "enum", "COLUMN_TYPE": "enum('a','b')"})

	got, _ := c.EnumValues()
	got[0] = "mutated"
	again, _ := c.EnumValues()
	assert.Equal(t, []string{"a", "b"}, again)
}

func TestLoadColumn_MissingColumns(t *testing.T) {
	l := newTestLoader(t)

	var c *TableColumn
	require.NotPanics(t, func() { c = l.LoadColumn(users, Row{}) })
	assert.Empty(t, c.Name())
	assert.Zero(t, c.Ordinal())
	assert.Equal(t, core.KeyNone, c.KeyType())
	assert.Equal(t, core.ValueUnknown, c.ValueType())
	assert.False(t, c.AutoGenerated())
	_, ok := c.MaxLength()
	assert.False(t, ok)
}

func TestLoadColumn_Collation(t *testing.T) {
	l := newTestLoader(t)

	c := l.LoadColumn(users, Row{"COLUMN_NAME": "name", "DATA_TYPE": "varchar", "COLLATION_NAME": "utf8mb4_bin"})
	require.NotNil(t, c.Collation())
	assert.Equal(t, "utf8mb4_bin", c.Collation().Name)
	assert.Equal(t, "utf8mb4", c.Charset().Name)

	c = l.LoadColumn(users, Row{"COLUMN_NAME": "name", "COLLATION_NAME": "klingon_ci"})
	assert.Nil(t, c.Collation(), "unknown collation is unset, not an error")
}

func TestTableColumn_SetCharsetResetsCollation(t *testing.T) {
	cat := testCatalog()
	l := NewLoader(testFlavor(), cat, nil)
	c := l.LoadColumn(users, Row{"COLUMN_NAME": "name", "COLLATION_NAME": "utf8mb4_bin"})
	require.Equal(t, "utf8mb4_bin", c.Collation().Name)

	c.SetCharset(cat.Charset("latin1"))
	assert.Equal(t, "latin1_swedish_ci", c.Collation().Name)
	assert.Equal(t, "latin1", c.Charset().Name)

	c.SetCharset(cat.Charset("utf8mb4"))
	assert.Equal(t, "utf8mb4_general_ci", c.Collation().Name, "the previous specific collation is discarded")

	c.SetCharset(nil)
	assert.Nil(t, c.Collation())
}

func TestLoadColumns_OrdersByOrdinal(t *testing.T) {
	l := NewLoader(testFlavor(), testCatalog(), nil, WithWorkers(4))
	var rows []Row
	for i := 20; i >= 1; i-- {
		rows = append(rows, Row{"COLUMN_NAME": fmt.Sprintf("c%d", i), "ORDINAL_POSITION": i, "DATA_TYPE": "int"})
	}

	cols, err := l.LoadColumns(context.Background(), users, rows)
	require.NoError(t, err)
	require.Len(t, cols, 20)
	for i, c := range cols {
		assert.Equal(t, i+1, c.Ordinal())
		assert.Equal(t, fmt.Sprintf("c%d", i+1), c.Name())
	}
}

func TestLoadColumns_CancelledContext(t *testing.T) {
	l := newTestLoader(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.LoadColumns(ctx, users, []Row{{"COLUMN_NAME": "a"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadRoutine(t *testing.T) {
	l := newTestLoader(t)

	tests := []struct {
		code string
		want core.RoutineType
		proc core.ProcedureType
	}{
		{"F", core.RoutineFunction, core.ProcedureFunction},
		{"M", core.RoutineMethod, core.ProcedureProcedure},
		{"P", core.RoutineProcedure, core.ProcedureProcedure},
		{"FUNCTION", core.RoutineFunction, core.ProcedureFunction},
		{"X", core.RoutineUnset, core.ProcedureUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			r := l.LoadRoutine(Row{"ROUTINE_NAME": "calc", "ROUTINE_TYPE": tt.code, "ROUTINE_SCHEMA": "app"})
			assert.Equal(t, "calc", r.Name)
			assert.Equal(t, "app", r.Schema)
			assert.Equal(t, tt.want, r.Type)
			assert.Equal(t, tt.proc, r.ProcedureType())
		})
	}
}

func TestFlavor_Overrides(t *testing.T) {
	f := &Flavor{
		Columns:            ColumnNames{Name: "COLNAME", DataType: "TYPENAME", Nullable: "NULLS", Extra: "IDENTITY", Key: "KEYCODE"},
		NullableMarker:     "Y",
		AutoIncrementToken: "Y",
		KeyTypes:           map[string]core.KeyType{"P": core.KeyPrimary},
		RoutineTypes:       map[string]core.RoutineType{"MACRO": core.RoutineFunction},
	}
	l := NewLoader(f, nil, nil)

	c := l.LoadColumn(users, Row{"COLNAME": "ID", "TYPENAME": "INTEGER", "NULLS": "N", "IDENTITY": "Y", "KEYCODE": "P"})
	assert.Equal(t, "ID", c.Name())
	assert.True(t, c.Required())
	assert.True(t, c.AutoGenerated())
	assert.Equal(t, core.KeyPrimary, c.KeyType())

	c = l.LoadColumn(users, Row{"COLNAME": "X", "NULLS": "Y", "KEYCODE": "PRI"})
	assert.False(t, c.Required())
	assert.Equal(t, core.KeyNone, c.KeyType(), "custom key codes replace the defaults")

	rt, ok := l.Flavor().RoutineType("macro")
	assert.True(t, ok)
	assert.Equal(t, core.RoutineFunction, rt)
}

func TestParseEnumLiterals(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, ParseEnumLiterals("enum('a','b','c')"))
	assert.Equal(t, []string{"it", "s"}, ParseEnumLiterals("enum('it''s')"))
	assert.Equal(t, []string{"it's", "x"}, ParseEscapedEnumLiterals("enum('it''s','x')"))
	assert.Empty(t, ParseEnumLiterals("varchar(20)"))
}

func TestFlavor_ValueType(t *testing.T) {
	f := testFlavor()
	assert.Equal(t, core.ValueString, f.ValueType("VARCHAR(20)"))
	assert.Equal(t, core.ValueInteger, f.ValueType("int unsigned"))
	assert.Equal(t, core.ValueUnknown, f.ValueType("geometry"))
	assert.True(t, f.IsEnumerable("Enum('a')"))
	assert.False(t, f.IsEnumerable("enumeration"))
}
