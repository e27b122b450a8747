package meta

import (
	"slices"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// TableRef identifies the table owning a column.
type TableRef struct {
	Schema string
	Name   string
}

func (t TableRef) String() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// TableColumn is a column loaded from a vendor catalog row.
//
// Columns are built once by Loader.LoadColumn. Only the explicit setters
// mutate them afterwards, and a column must not be set from two
// goroutines at once.
type TableColumn struct {
	table   TableRef
	catalog Catalog

	name      string
	ordinal   int
	typeName  string
	valueType core.ValueType
	dataType  *core.DataType

	charLength   int64
	maxLength    int64
	hasMaxLength bool

	required      bool
	autoGenerated bool
	scale         int
	precision     int
	defaultValue  string
	comment       string
	keyType       core.KeyType

	// enumValues is nil for non-enumerable types.
	enumValues []string
	collation  *core.Collation
}

func (c *TableColumn) Table() TableRef {
	return c.table
}

func (c *TableColumn) Catalog() Catalog {
	return c.catalog
}

func (c *TableColumn) Name() string {
	return c.name
}

func (c *TableColumn) Ordinal() int {
	return c.ordinal
}

func (c *TableColumn) TypeName() string {
	return c.typeName
}

func (c *TableColumn) ValueType() core.ValueType {
	return c.valueType
}

func (c *TableColumn) DataType() *core.DataType {
	return c.dataType
}

func (c *TableColumn) CharLength() int64 {
	return c.charLength
}

func (c *TableColumn) Required() bool {
	return c.required
}

func (c *TableColumn) AutoGenerated() bool {
	return c.autoGenerated
}

func (c *TableColumn) Scale() int {
	return c.scale
}

func (c *TableColumn) Precision() int {
	return c.precision
}

func (c *TableColumn) DefaultValue() string {
	return c.defaultValue
}

func (c *TableColumn) Comment() string {
	return c.comment
}

func (c *TableColumn) KeyType() core.KeyType {
	return c.keyType
}

func (c *TableColumn) Collation() *core.Collation {
	return c.collation
}

// MaxLength returns the maximum length and whether it is known. It is the
// catalog character length when positive, otherwise the data type's
// precision.
func (c *TableColumn) MaxLength() (int64, bool) {
	return c.maxLength, c.hasMaxLength
}

// EnumValues returns a copy of the enumerated literals. ok is false for
// columns whose type is not enumerable.
func (c *TableColumn) EnumValues() (values []string, ok bool) {
	if c.enumValues == nil {
		return nil, false
	}
	return slices.Clone(c.enumValues), true
}

// Charset returns the charset of the column's collation.
func (c *TableColumn) Charset() *core.Charset {
	if c.collation == nil {
		return nil
	}
	return c.collation.Charset
}

// SetCharset switches the column to the default collation of cs,
// replacing any more specific collation. A nil charset clears the
// collation.
func (c *TableColumn) SetCharset(cs *core.Charset) {
	c.collation = cs.DefaultCollation()
}

func (c *TableColumn) SetCollation(col *core.Collation) {
	c.collation = col
}

func (c *TableColumn) SetComment(comment string) {
	c.comment = comment
}

func (c *TableColumn) SetTypeName(name string) {
	c.typeName = name
}

// SetMaxLength sets an explicit maximum length.
func (c *TableColumn) SetMaxLength(n int64) {
	c.maxLength, c.hasMaxLength = n, true
}

func (c *TableColumn) SetRequired(required bool) {
	c.required = required
}

func (c *TableColumn) SetAutoGenerated(auto bool) {
	c.autoGenerated = auto
}

func (c *TableColumn) SetDefaultValue(expr string) {
	c.defaultValue = expr
}
