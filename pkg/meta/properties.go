package meta

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/props"
)

// Column property ids.
const (
	PropTypeName      = "typeName"
	PropMaxLength     = "maxLength"
	PropRequired      = "required"
	PropAutoGenerated = "autoGenerated"
	PropDefault       = "defaultValue"
	PropKeyType       = "keyType"
	PropCharset       = "charset"
	PropCollation     = "collation"
	PropComment       = "comment"
)

var columnProperties = props.NewRegistry(
	props.Property[*TableColumn]{
		ID: PropTypeName, Label: "Data Type", Order: 20, Viewable: true, AllowCustom: true,
		Get: func(c *TableColumn) any { return c.TypeName() },
		Set: func(c *TableColumn, v any) error {
			c.SetTypeName(fmt.Sprint(v))
			return nil
		},
		Options: func(c *TableColumn) []string {
			types := c.Catalog().DataTypes()
			out := make([]string, len(types))
			for i, dt := range types {
				out[i] = dt.Name
			}
			return out
		},
	},
	props.Property[*TableColumn]{
		ID: PropMaxLength, Label: "Length", Order: 40, Viewable: true,
		Get: func(c *TableColumn) any {
			if n, ok := c.MaxLength(); ok {
				return n
			}
			return nil
		},
		Set: func(c *TableColumn, v any) error {
			n, err := toInt64(v)
			if err != nil {
				return err
			}
			c.SetMaxLength(n)
			return nil
		},
	},
	props.Property[*TableColumn]{
		ID: PropRequired, Label: "Not Null", Order: 50, Viewable: true,
		Get: func(c *TableColumn) any { return c.Required() },
		Set: func(c *TableColumn, v any) error {
			b, err := toBool(v)
			if err != nil {
				return err
			}
			c.SetRequired(b)
			return nil
		},
	},
	props.Property[*TableColumn]{
		ID: PropAutoGenerated, Label: "Auto Generated", Order: 51, Viewable: true,
		Get: func(c *TableColumn) any { return c.AutoGenerated() },
		Set: func(c *TableColumn, v any) error {
			b, err := toBool(v)
			if err != nil {
				return err
			}
			c.SetAutoGenerated(b)
			return nil
		},
	},
	props.Property[*TableColumn]{
		ID: PropDefault, Label: "Default", Order: 70, Viewable: true,
		Get: func(c *TableColumn) any { return c.DefaultValue() },
		Set: func(c *TableColumn, v any) error {
			c.SetDefaultValue(fmt.Sprint(v))
			return nil
		},
	},
	props.Property[*TableColumn]{
		ID: PropKeyType, Label: "Key", Order: 80, Viewable: true,
		Get: func(c *TableColumn) any { return c.KeyType().String() },
	},
	props.Property[*TableColumn]{
		ID: PropCharset, Label: "Charset", Order: 81,
		Get: func(c *TableColumn) any { return charsetName(c.Charset()) },
		Set: func(c *TableColumn, v any) error {
			c.SetCharset(findCharset(c.Catalog(), v))
			return nil
		},
		Options: func(c *TableColumn) []string {
			var out []string
			for _, cs := range c.Catalog().Charsets() {
				out = append(out, cs.Name)
			}
			return out
		},
	},
	props.Property[*TableColumn]{
		ID: PropCollation, Label: "Collation", Order: 82,
		Get: func(c *TableColumn) any { return collationName(c.Collation()) },
		Set: func(c *TableColumn, v any) error {
			if v == nil {
				c.SetCollation(nil)
				return nil
			}
			c.SetCollation(c.Catalog().Collation(fmt.Sprint(v)))
			return nil
		},
		Options: func(c *TableColumn) []string {
			cs := c.Charset()
			if cs == nil {
				return nil
			}
			var out []string
			for _, col := range cs.Collations() {
				out = append(out, col.Name)
			}
			return out
		},
	},
	props.Property[*TableColumn]{
		ID: PropComment, Label: "Comment", Order: 100, Viewable: true,
		Get: func(c *TableColumn) any { return c.Comment() },
		Set: func(c *TableColumn, v any) error {
			c.SetComment(fmt.Sprint(v))
			return nil
		},
	},
)

// ColumnProperties returns the property registry of table columns.
func ColumnProperties() *props.Registry[*TableColumn] {
	return columnProperties
}

func charsetName(cs *core.Charset) string {
	if cs == nil {
		return ""
	}
	return cs.Name
}

func collationName(col *core.Collation) string {
	if col == nil {
		return ""
	}
	return col.Name
}

func findCharset(cat Catalog, v any) *core.Charset {
	if v == nil {
		return nil
	}
	name := fmt.Sprint(v)
	for _, cs := range cat.Charsets() {
		if cs.Name == name {
			return cs
		}
	}
	return nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("cannot use %T as a length", v)
	}
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		return strconv.ParseBool(b)
	default:
		return false, fmt.Errorf("cannot use %T as a flag", v)
	}
}
