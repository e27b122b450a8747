// Package sqlgen renders SQL text from metadata objects, consulting the
// dialect for what the target database accepts.
package sqlgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
	"github.com/leapstack-labs/leapdb/pkg/meta"
)

// SelectItem is one entry of a select list.
type SelectItem struct {
	Expr  string
	Alias string
}

// SelectList renders items separated by commas. Aliases are dropped when
// the dialect does not accept them in select lists.
func SelectList(d *dialect.Dialect, items []SelectItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		if it.Alias != "" && d.SupportsAliasInSelect() {
			parts[i] = it.Expr + " AS " + d.QuoteIdentifierIfNeeded(it.Alias)
		} else {
			parts[i] = it.Expr
		}
	}
	return strings.Join(parts, ", ")
}

// QualifiedName renders schema.table, omitting an empty schema.
func QualifiedName(d *dialect.Dialect, t meta.TableRef) string {
	name := d.QuoteIdentifierIfNeeded(t.Name)
	if t.Schema == "" {
		return name
	}
	return d.QuoteIdentifierIfNeeded(t.Schema) + "." + name
}

// ColumnType renders the declared type of c. A length is appended to
// character and binary types whose type name carries none.
func ColumnType(c *meta.TableColumn) string {
	name := c.TypeName()
	if strings.ContainsRune(name, '(') {
		return name
	}
	switch c.ValueType() {
	case core.ValueString, core.ValueBinary:
		if n := c.CharLength(); n > 0 {
			return name + "(" + strconv.FormatInt(n, 10) + ")"
		}
	case core.ValueNumeric:
		if p := c.Precision(); p > 0 && c.Scale() > 0 {
			return fmt.Sprintf("%s(%d,%d)", name, p, c.Scale())
		}
	}
	return name
}

// ColumnDefinition renders one column of a CREATE TABLE or ADD COLUMN.
func ColumnDefinition(d *dialect.Dialect, c *meta.TableColumn) string {
	var b strings.Builder
	b.WriteString(d.QuoteIdentifierIfNeeded(c.Name()))
	b.WriteString(" ")
	b.WriteString(ColumnType(c))
	if col := c.Collation(); col != nil {
		b.WriteString(" COLLATE ")
		b.WriteString(col.Name)
	}
	if c.Required() {
		b.WriteString(" NOT NULL")
	}
	if def := c.DefaultValue(); def != "" && !c.AutoGenerated() {
		b.WriteString(" DEFAULT ")
		b.WriteString(def)
	}
	return b.String()
}

// CreateTable renders a CREATE TABLE statement. Columns in the primary key
// produce a table-level PRIMARY KEY clause.
func CreateTable(d *dialect.Dialect, t meta.TableRef, cols []*meta.TableColumn) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(QualifiedName(d, t))
	b.WriteString(" (\n")

	var pk []string
	for i, c := range cols {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("  ")
		b.WriteString(ColumnDefinition(d, c))
		if c.KeyType() == core.KeyPrimary {
			pk = append(pk, d.QuoteIdentifierIfNeeded(c.Name()))
		}
	}
	if len(pk) > 0 {
		b.WriteString(",\n  PRIMARY KEY (")
		b.WriteString(strings.Join(pk, ", "))
		b.WriteString(")")
	}
	b.WriteString("\n)")
	return b.String()
}

// ConstraintKind is the type of a table constraint.
type ConstraintKind int

const (
	PrimaryKey ConstraintKind = iota
	Unique
)

// String returns the SQL keyword of the constraint kind.
func (k ConstraintKind) String() string {
	if k == Unique {
		return "UNIQUE"
	}
	return "PRIMARY KEY"
}

// Constraint is a named key constraint over columns of one table.
type Constraint struct {
	Name    string
	Kind    ConstraintKind
	Columns []string
}

// AddConstraint renders ALTER TABLE ... ADD CONSTRAINT. It fails with
// dialect.ErrUnsupported when the dialect can only declare constraints at
// table creation.
func AddConstraint(d *dialect.Dialect, t meta.TableRef, c Constraint) (string, error) {
	if !d.SupportsAlterTableConstraint() {
		return "", fmt.Errorf("add constraint on %s: %w", d.Name, dialect.ErrUnsupported)
	}
	if len(c.Columns) == 0 {
		return "", fmt.Errorf("constraint %q has no columns", c.Name)
	}
	cols := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		cols[i] = d.QuoteIdentifierIfNeeded(col)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ALTER TABLE %s ADD ", QualifiedName(d, t))
	if c.Name != "" {
		fmt.Fprintf(&b, "CONSTRAINT %s ", d.QuoteIdentifierIfNeeded(c.Name))
	}
	fmt.Fprintf(&b, "%s (%s)", c.Kind, strings.Join(cols, ", "))
	return b.String(), nil
}

// Insert renders a parameterized INSERT for columns. When returning is not
// empty and the dialect supports it, a RETURNING clause is added so the
// generated values come back as a result set.
func Insert(d *dialect.Dialect, t meta.TableRef, columns []string, returning ...string) string {
	names := make([]string, len(columns))
	params := make([]string, len(columns))
	for i, col := range columns {
		names[i] = d.QuoteIdentifierIfNeeded(col)
		params[i] = d.FormatPlaceholder(i + 1)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES (%s)",
		QualifiedName(d, t), strings.Join(names, ", "), strings.Join(params, ", "))
	if len(returning) > 0 && d.SupportsReturning() {
		ret := make([]string, len(returning))
		for i, col := range returning {
			ret[i] = d.QuoteIdentifierIfNeeded(col)
		}
		b.WriteString(" RETURNING ")
		b.WriteString(strings.Join(ret, ", "))
	}
	return b.String()
}
