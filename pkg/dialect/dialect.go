// Package dialect provides SQL dialect configuration and capability queries.
//
// This package contains the public contract for dialect definitions used by
// statement execution, metadata loading, and SQL generation. Concrete dialect
// implementations are registered from pkg/dialects/*/ packages.
package dialect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// ErrUnsupported is returned when SQL generation needs a capability the dialect lacks.
var ErrUnsupported = errors.New("not supported by dialect")

// limitAlias names the derived table used when a row window is pushed down.
const limitAlias = "leapdb_window"

// defaultQueryKeywords start statements that return rows in most dialects.
var defaultQueryKeywords = []string{"SELECT", "WITH", "VALUES", "SHOW", "EXPLAIN", "TABLE"}

// InitHook reads driver settings once per data source, right after connecting.
type InitHook func(ctx context.Context, db *sql.DB, info *core.DriverInfo) error

// Dialect represents a SQL dialect configuration.
// A built Dialect is immutable and safe for concurrent use.
type Dialect struct {
	Name        string
	Identifiers core.IdentifierConfig

	// Database-specific settings
	DefaultSchema string                // Default schema name ("main" for SQLite, "public" for Postgres)
	Placeholder   core.PlaceholderStyle // How to format query parameters

	cfg           core.DialectConfig
	quoteStrings  [][2]string
	queryKeywords map[string]struct{}
	keywords      map[string]struct{}
	reservedWords map[string]struct{} // All keywords that need quoting as identifiers
	dataTypes     []string
	initHook      InitHook
}

// Config returns a copy of the pure data configuration for this dialect.
func (d *Dialect) Config() *core.DialectConfig {
	cfg := d.cfg
	cfg.Name = d.Name
	cfg.Identifiers = d.Identifiers
	cfg.DefaultSchema = d.DefaultSchema
	cfg.Placeholder = d.Placeholder
	cfg.QuoteStrings = d.IdentifierQuoteStrings()
	cfg.Keywords = d.Keywords()
	cfg.DataTypes = d.DataTypes()
	return &cfg
}

// GetName returns the dialect name.
func (d *Dialect) GetName() string {
	return d.Name
}

// SupportsAliasInSelect reports whether select-list items may carry aliases.
func (d *Dialect) SupportsAliasInSelect() bool {
	return d.cfg.SupportsAliasInSelect
}

// SupportsAlterTableConstraint reports whether constraints can be added to
// existing tables with ALTER TABLE.
func (d *Dialect) SupportsAlterTableConstraint() bool {
	return d.cfg.SupportsAlterTableConstraint
}

// SupportsBatch reports whether statements can be queued and executed as a batch.
func (d *Dialect) SupportsBatch() bool {
	return d.cfg.SupportsBatch
}

// SupportsReturning reports whether DML may return rows via RETURNING.
func (d *Dialect) SupportsReturning() bool {
	return d.cfg.SupportsReturning
}

// LimitStyle returns how row windows are rendered into SQL.
func (d *Dialect) LimitStyle() core.LimitStyle {
	return d.cfg.Limit
}

// IdentifierQuoteStrings returns the accepted identifier quote pairs,
// preferred pair first.
func (d *Dialect) IdentifierQuoteStrings() [][2]string {
	out := make([][2]string, len(d.quoteStrings))
	copy(out, d.quoteStrings)
	return out
}

// NormalizeName normalizes an identifier according to dialect rules.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Identifiers.Normalization {
	case core.NormUppercase:
		return strings.ToUpper(name)
	case core.NormLowercase, core.NormCaseInsensitive:
		return strings.ToLower(name)
	default: // NormCaseSensitive
		return name
	}
}

// Keywords returns all registered keywords.
func (d *Dialect) Keywords() []string {
	kws := make([]string, 0, len(d.keywords))
	for kw := range d.keywords {
		kws = append(kws, kw)
	}
	return kws
}

// DataTypes returns all supported data types.
func (d *Dialect) DataTypes() []string {
	out := make([]string, len(d.dataTypes))
	copy(out, d.dataTypes)
	return out
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
// Returns "?" for PlaceholderQuestion style, "$1", "$2" etc. for PlaceholderDollar style.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	case core.PlaceholderAt:
		return "@p" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// IsReservedWord returns true if the word needs quoting when used as an identifier.
func (d *Dialect) IsReservedWord(word string) bool {
	_, ok := d.reservedWords[strings.ToLower(word)]
	return ok
}

// QuoteIdentifier quotes an identifier using the dialect's preferred quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., ] -> ]])
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// QuoteIdentifierIfNeeded quotes an identifier only if it's a reserved word
// or is not a plain identifier.
func (d *Dialect) QuoteIdentifierIfNeeded(name string) string {
	if d.IsReservedWord(name) || !isPlainIdentifier(name) {
		return d.QuoteIdentifier(name)
	}
	return name
}

// UnquoteIdentifier strips any accepted quote pair from an identifier and
// resolves doubled end quotes. Unquoted names are normalized.
func (d *Dialect) UnquoteIdentifier(name string) string {
	for _, q := range d.quoteStrings {
		if len(name) >= len(q[0])+len(q[1]) && strings.HasPrefix(name, q[0]) && strings.HasSuffix(name, q[1]) {
			inner := name[len(q[0]) : len(name)-len(q[1])]
			return strings.ReplaceAll(inner, q[1]+q[1], q[1])
		}
	}
	return d.NormalizeName(name)
}

func isPlainIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// ReturnsRows reports whether a single SQL statement produces a result set,
// judging by its leading keyword. DML with RETURNING counts when supported.
func (d *Dialect) ReturnsRows(query string) bool {
	kw := LeadingKeyword(query)
	if kw == "" {
		return false
	}
	if _, ok := d.queryKeywords[kw]; ok {
		return true
	}
	if d.cfg.SupportsReturning {
		switch kw {
		case "INSERT", "UPDATE", "DELETE":
			return containsWord(query, "RETURNING")
		}
	}
	return false
}

// LeadingKeyword returns the first keyword of a statement in upper case,
// skipping whitespace, comments, and opening parentheses.
func LeadingKeyword(query string) string {
	i := 0
	for i < len(query) {
		switch c := query[i]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '(':
			i++
		case strings.HasPrefix(query[i:], "--"):
			nl := strings.IndexByte(query[i:], '\n')
			if nl < 0 {
				return ""
			}
			i += nl + 1
		case strings.HasPrefix(query[i:], "/*"):
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				return ""
			}
			i += end + 4
		default:
			j := i
			for j < len(query) && isWordByte(query[j]) {
				j++
			}
			return strings.ToUpper(query[i:j])
		}
	}
	return ""
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// containsWord reports whether word appears in s as a whole word, case-insensitively.
func containsWord(s, word string) bool {
	upper := strings.ToUpper(s)
	for from := 0; ; {
		idx := strings.Index(upper[from:], word)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(word)
		if (start == 0 || !isWordByte(upper[start-1])) && (end == len(upper) || !isWordByte(upper[end])) {
			return true
		}
		from = end
	}
}

// ApplyLimit wraps a row-returning query so that the server only returns the
// requested window. A zero limit means no upper bound. It returns false when
// the dialect cannot push the window down.
func (d *Dialect) ApplyLimit(query string, offset, limit int64) (string, bool) {
	if offset <= 0 && limit <= 0 {
		return query, true
	}
	q := strings.TrimRight(strings.TrimSpace(query), "; \t\n")
	if lineCommentTail(q) {
		// the closing parenthesis must not end up inside the comment
		q += "\n"
	}

	var b strings.Builder
	switch d.cfg.Limit {
	case core.LimitOffset:
		fmt.Fprintf(&b, "SELECT * FROM (%s) AS %s", q, limitAlias)
		switch {
		case limit > 0:
			fmt.Fprintf(&b, " LIMIT %d", limit)
		case d.cfg.UnboundedLimit != "":
			b.WriteString(" LIMIT " + d.cfg.UnboundedLimit)
		}
		if offset > 0 {
			fmt.Fprintf(&b, " OFFSET %d", offset)
		}
	case core.LimitFetch:
		fmt.Fprintf(&b, "SELECT * FROM (%s) AS %s ORDER BY (SELECT NULL) OFFSET %d ROWS", q, limitAlias, max(offset, 0))
		if limit > 0 {
			fmt.Fprintf(&b, " FETCH NEXT %d ROWS ONLY", limit)
		}
	default:
		return query, false
	}
	return b.String(), true
}

// lineCommentTail reports whether the last line of q may end in a line
// comment.
func lineCommentTail(q string) bool {
	last := q[strings.LastIndexByte(q, '\n')+1:]
	return strings.Contains(last, "--")
}

// InitDriverSettings reads the server version and runs the dialect's init
// hook. Adapters call it once per data source after connecting.
func (d *Dialect) InitDriverSettings(ctx context.Context, db *sql.DB, info *core.DriverInfo) error {
	info.Dialect = d.Name
	if d.cfg.VersionQuery != "" {
		var version sql.NullString
		if err := db.QueryRowContext(ctx, d.cfg.VersionQuery).Scan(&version); err != nil {
			return fmt.Errorf("failed to read server version: %w", err)
		}
		info.ServerVersion = version.String
	}
	if d.initHook != nil {
		if err := d.initHook(ctx, db, info); err != nil {
			return fmt.Errorf("failed to initialize %s driver settings: %w", d.Name, err)
		}
	}
	return nil
}

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// NewDialect creates a new dialect builder with the given name and ANSI defaults.
func NewDialect(name string) *Builder {
	return New(&core.DialectConfig{
		Name: name,
		Identifiers: core.IdentifierConfig{
			Quote:         `"`,
			QuoteEnd:      `"`,
			Escape:        `""`,
			Normalization: core.NormLowercase,
		},
	})
}

// New creates a dialect builder from a DialectConfig.
// This is the preferred constructor for vendor dialects.
func New(cfg *core.DialectConfig) *Builder {
	d := &Dialect{
		Name:          cfg.Name,
		Identifiers:   cfg.Identifiers,
		DefaultSchema: cfg.DefaultSchema,
		Placeholder:   cfg.Placeholder,
		cfg:           *cfg,
		queryKeywords: make(map[string]struct{}),
		keywords:      make(map[string]struct{}),
		reservedWords: make(map[string]struct{}),
	}
	d.cfg.QuoteStrings = nil
	d.cfg.Keywords = nil
	d.cfg.DataTypes = nil
	d.cfg.QueryKeywords = nil

	b := &Builder{dialect: d}
	b.QuoteStrings(cfg.QuoteStrings...)
	if len(cfg.QueryKeywords) > 0 {
		b.QueryKeywords(cfg.QueryKeywords...)
	} else {
		b.QueryKeywords(defaultQueryKeywords...)
	}
	b.WithKeywords(cfg.Keywords...)
	b.WithDataTypes(cfg.DataTypes...)
	return b
}

// Identifiers configures identifier quoting and normalization.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm core.NormalizationStrategy) *Builder {
	b.dialect.Identifiers = core.IdentifierConfig{
		Quote:         quote,
		QuoteEnd:      quoteEnd,
		Escape:        escape,
		Normalization: norm,
	}
	return b
}

// QuoteStrings sets the accepted identifier quote pairs.
func (b *Builder) QuoteStrings(pairs ...[2]string) *Builder {
	b.dialect.quoteStrings = append([][2]string(nil), pairs...)
	return b
}

// AliasInSelect sets select-list alias support.
func (b *Builder) AliasInSelect(v bool) *Builder {
	b.dialect.cfg.SupportsAliasInSelect = v
	return b
}

// AlterTableConstraint sets ALTER TABLE ... ADD CONSTRAINT support.
func (b *Builder) AlterTableConstraint(v bool) *Builder {
	b.dialect.cfg.SupportsAlterTableConstraint = v
	return b
}

// Batch sets batch execution support.
func (b *Builder) Batch(v bool) *Builder {
	b.dialect.cfg.SupportsBatch = v
	return b
}

// Returning sets RETURNING clause support.
func (b *Builder) Returning(v bool) *Builder {
	b.dialect.cfg.SupportsReturning = v
	return b
}

// Limit sets the row-window style and the LIMIT value used for offset-only windows.
func (b *Builder) Limit(style core.LimitStyle, unbounded string) *Builder {
	b.dialect.cfg.Limit = style
	b.dialect.cfg.UnboundedLimit = unbounded
	return b
}

// QueryKeywords registers leading keywords of row-returning statements.
func (b *Builder) QueryKeywords(kws ...string) *Builder {
	for _, kw := range kws {
		b.dialect.queryKeywords[strings.ToUpper(kw)] = struct{}{}
	}
	return b
}

// VersionQuery sets the query that returns the server version.
func (b *Builder) VersionQuery(q string) *Builder {
	b.dialect.cfg.VersionQuery = q
	return b
}

// WithKeywords registers keywords for completion/highlighting.
func (b *Builder) WithKeywords(kws ...string) *Builder {
	for _, kw := range kws {
		b.dialect.keywords[strings.ToUpper(kw)] = struct{}{}
	}
	return b
}

// WithDataTypes registers supported data types.
func (b *Builder) WithDataTypes(types ...string) *Builder {
	b.dialect.dataTypes = append(b.dialect.dataTypes, types...)
	return b
}

// DefaultSchema sets the default schema name.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.dialect.DefaultSchema = schema
	return b
}

// PlaceholderStyle sets how query parameters are formatted.
func (b *Builder) PlaceholderStyle(style core.PlaceholderStyle) *Builder {
	b.dialect.Placeholder = style
	return b
}

// WithReservedWords registers words that need quoting when used as identifiers.
func (b *Builder) WithReservedWords(words ...string) *Builder {
	for _, w := range words {
		b.dialect.reservedWords[strings.ToLower(w)] = struct{}{}
	}
	return b
}

// InitHook sets the driver-settings hook run once per data source.
func (b *Builder) InitHook(fn InitHook) *Builder {
	b.dialect.initHook = fn
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	d := b.dialect
	if len(d.quoteStrings) == 0 {
		d.quoteStrings = [][2]string{{d.Identifiers.Quote, d.Identifiers.QuoteEnd}}
	}
	b.dialect = nil
	return d
}
