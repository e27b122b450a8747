package meta

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/exec"
)

// Catalog is the data source's type and collation store consulted while
// loading columns. Lookups return nil when the name is unknown.
type Catalog interface {
	DataType(name string) *core.DataType
	DataTypes() []*core.DataType
	Collation(name string) *core.Collation
	Charsets() []*core.Charset
}

// MemoryCatalog is a Catalog held in memory. It is safe for concurrent
// reads once loaded.
type MemoryCatalog struct {
	mu         sync.RWMutex
	types      map[string]*core.DataType
	charsets   []*core.Charset
	charsetIdx map[string]*core.Charset
	collations map[string]*core.Collation
}

// NewMemoryCatalog creates an empty catalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		types:      make(map[string]*core.DataType),
		charsetIdx: make(map[string]*core.Charset),
		collations: make(map[string]*core.Collation),
	}
}

// AddDataType registers a data type under its case-insensitive name.
func (c *MemoryCatalog) AddDataType(dt core.DataType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types[strings.ToLower(dt.Name)] = &dt
}

// AddCharset registers a charset and its collations.
func (c *MemoryCatalog) AddCharset(cs *core.Charset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := strings.ToLower(cs.Name)
	if _, ok := c.charsetIdx[key]; !ok {
		c.charsets = append(c.charsets, cs)
	}
	c.charsetIdx[key] = cs
	for _, col := range cs.Collations() {
		c.collations[strings.ToLower(col.Name)] = col
	}
}

// AddCollation attaches a collation to its charset, creating the charset
// when it is unknown.
func (c *MemoryCatalog) AddCollation(charset string, col *core.Collation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := strings.ToLower(charset)
	cs, ok := c.charsetIdx[key]
	if !ok {
		cs = &core.Charset{Name: charset}
		c.charsetIdx[key] = cs
		c.charsets = append(c.charsets, cs)
	}
	cs.AddCollation(col)
	c.collations[strings.ToLower(col.Name)] = col
}

// DataType returns the type registered under name. Arguments such as
// "(10)" are ignored when the full name is unknown.
func (c *MemoryCatalog) DataType(name string) *core.DataType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if dt, ok := c.types[strings.ToLower(strings.TrimSpace(name))]; ok {
		return dt
	}
	return c.types[baseTypeName(name)]
}

// DataTypes returns the registered types sorted by name.
func (c *MemoryCatalog) DataTypes() []*core.DataType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*core.DataType, 0, len(c.types))
	for _, dt := range c.types {
		out = append(out, dt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Collation returns the collation registered under name.
func (c *MemoryCatalog) Collation(name string) *core.Collation {
	if name == "" {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.collations[strings.ToLower(name)]
}

// Charset returns the charset registered under name.
func (c *MemoryCatalog) Charset(name string) *core.Charset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.charsetIdx[strings.ToLower(name)]
}

// Charsets returns the charsets in registration order.
func (c *MemoryCatalog) Charsets() []*core.Charset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*core.Charset, len(c.charsets))
	copy(out, c.charsets)
	return out
}

// LoadCatalog builds a catalog from the flavor's static data types and its
// charset and collation queries.
func LoadCatalog(ctx context.Context, sess exec.Session, f *Flavor, logger *slog.Logger) (*MemoryCatalog, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cat := NewMemoryCatalog()
	for _, dt := range f.DataTypes {
		cat.AddDataType(dt)
	}

	if f.CharsetsQuery != "" {
		rows, err := QueryRows(ctx, sess, f.CharsetsQuery)
		if err != nil {
			return nil, fmt.Errorf("failed to load charsets: %w", err)
		}
		for _, r := range rows {
			cat.AddCharset(&core.Charset{
				Name:        r.String("CHARACTER_SET_NAME"),
				Description: r.String("DESCRIPTION"),
				MaxLength:   r.Int("MAXLEN"),
			})
		}
	}

	if f.CollationsQuery != "" {
		rows, err := QueryRows(ctx, sess, f.CollationsQuery)
		if err != nil {
			return nil, fmt.Errorf("failed to load collations: %w", err)
		}
		for _, r := range rows {
			charset := r.String("CHARACTER_SET_NAME")
			if charset == "" {
				logger.Debug("collation without charset", "collation", r.String("COLLATION_NAME"))
				continue
			}
			cat.AddCollation(charset, &core.Collation{
				Name:       r.String("COLLATION_NAME"),
				ID:         r.Int("ID"),
				IsDefault:  r.Bool("IS_DEFAULT"),
				IsCompiled: r.Bool("IS_COMPILED"),
				SortLength: r.Int("SORTLEN"),
			})
		}
	}

	logger.Debug("catalog loaded",
		"flavor", f.Name,
		"data_types", len(f.DataTypes),
		"charsets", len(cat.Charsets()))
	return cat, nil
}

// QueryRows runs a catalog query on a session and returns its first
// result set as rows.
func QueryRows(ctx context.Context, sess exec.Session, query string, args ...any) ([]Row, error) {
	stmt, err := sess.Prepare(query, exec.WithDescription("catalog query"))
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	stmt.Bind(args...)
	isRows, err := stmt.Execute(ctx)
	if err != nil {
		return nil, err
	}
	if !isRows {
		return nil, fmt.Errorf("catalog query returned no result set")
	}
	rs, err := stmt.OpenResultSet()
	if err != nil {
		return nil, err
	}
	return ReadRows(rs)
}
