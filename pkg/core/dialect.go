package core

// DialectConfig holds the static configuration for a SQL dialect.
// Plain data only, no handler functions.
//
// The runtime behavior (init hook, limit rendering, statement classification)
// lives in pkg/dialect.Dialect, which is built from this config.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "sqlite", "postgres")
	Name string

	// Identifiers defines quoting and normalization rules
	Identifiers IdentifierConfig

	// QuoteStrings lists every accepted identifier quote pair.
	// Empty means only the Identifiers quote pair.
	QuoteStrings [][2]string

	// DefaultSchema is the default schema name ("main" for SQLite, "public" for Postgres)
	DefaultSchema string

	// Placeholder defines how query parameters are formatted
	Placeholder PlaceholderStyle

	// Capability flags consulted by SQL generation
	SupportsAliasInSelect        bool
	SupportsAlterTableConstraint bool
	SupportsBatch                bool
	SupportsReturning            bool

	// Row-window rendering
	Limit LimitStyle
	// UnboundedLimit is the LIMIT value used when only an offset is set.
	// Empty means the dialect accepts OFFSET without LIMIT.
	UnboundedLimit string

	// QueryKeywords are the leading keywords of statements that return rows.
	QueryKeywords []string

	// VersionQuery returns the server version as a single value.
	VersionQuery string

	// Keywords for completion/highlighting
	Keywords  []string
	DataTypes []string
}

// NormalizationStrategy defines how unquoted identifiers are normalized.
type NormalizationStrategy int

const (
	// NormLowercase normalizes unquoted identifiers to lowercase (default SQL behavior).
	NormLowercase NormalizationStrategy = iota
	// NormUppercase normalizes unquoted identifiers to uppercase (DB2, Oracle).
	NormUppercase
	// NormCaseSensitive preserves identifier case exactly (MySQL).
	NormCaseSensitive
	// NormCaseInsensitive normalizes to lowercase for comparison (SQLite, DuckDB, MSSQL).
	NormCaseInsensitive
)

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, MySQL, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
	// PlaceholderAt uses @p1, @p2, etc. for parameters (MSSQL).
	PlaceholderAt
)

// LimitStyle defines how a row window is pushed into a query.
type LimitStyle int

const (
	// LimitNone means the window is enforced while fetching.
	LimitNone LimitStyle = iota
	// LimitOffset renders LIMIT n OFFSET m.
	LimitOffset
	// LimitFetch renders OFFSET m ROWS FETCH NEXT n ROWS ONLY.
	LimitFetch
)

// String returns the string representation of LimitStyle.
func (s LimitStyle) String() string {
	switch s {
	case LimitOffset:
		return "limit-offset"
	case LimitFetch:
		return "offset-fetch"
	default:
		return "none"
	}
}

// IdentifierConfig defines how identifiers are quoted and normalized.
type IdentifierConfig struct {
	Quote         string                // Quote character: ", `, [
	QuoteEnd      string                // End quote character (usually same as Quote, ] for [)
	Escape        string                // Escape sequence: "", ``, ]]
	Normalization NormalizationStrategy // How to normalize unquoted identifiers
}

// DefaultQuoteStrings is the identifier quote pair used by ANSI dialects.
var DefaultQuoteStrings = [][2]string{{`"`, `"`}}
