package core

// Charset is a character set owned by a data source catalog.
type Charset struct {
	Name        string
	Description string
	MaxLength   int

	collations []*Collation
}

// AddCollation attaches a collation to the charset and sets its back-reference.
func (c *Charset) AddCollation(col *Collation) {
	col.Charset = c
	c.collations = append(c.collations, col)
}

// Collations returns the charset's collations in catalog order.
func (c *Charset) Collations() []*Collation {
	out := make([]*Collation, len(c.collations))
	copy(out, c.collations)
	return out
}

// DefaultCollation returns the collation flagged as default, falling back to
// the first one. Nil when the charset has no collations.
func (c *Charset) DefaultCollation() *Collation {
	if c == nil {
		return nil
	}
	for _, col := range c.collations {
		if col.IsDefault {
			return col
		}
	}
	if len(c.collations) > 0 {
		return c.collations[0]
	}
	return nil
}

// String returns the charset name.
func (c *Charset) String() string {
	return c.Name
}

// Collation is a sort/compare rule owned by a data source catalog.
type Collation struct {
	Name       string
	Charset    *Charset
	ID         int
	IsDefault  bool
	IsCompiled bool
	SortLength int
}

// String returns the collation name.
func (c *Collation) String() string {
	return c.Name
}
