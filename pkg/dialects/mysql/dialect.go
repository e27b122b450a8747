// Package mysql provides the MySQL SQL dialect definition.
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

func init() {
	dialect.Register(MySQL)
}

var mysqlReservedWords = []string{
	"accessible", "add", "all", "alter", "analyze", "and", "as", "asc", "before",
	"between", "by", "call", "cascade", "case", "change", "check", "collate",
	"column", "condition", "constraint", "create", "cross", "database", "default",
	"delete", "desc", "describe", "distinct", "div", "drop", "else", "exists",
	"explain", "false", "fetch", "for", "force", "foreign", "from", "fulltext",
	"grant", "group", "having", "if", "ignore", "in", "index", "inner", "insert",
	"interval", "into", "is", "join", "key", "keys", "kill", "leading", "left",
	"like", "limit", "lines", "load", "lock", "match", "mod", "natural", "not",
	"null", "on", "option", "or", "order", "outer", "partition", "primary",
	"procedure", "range", "read", "references", "regexp", "rename", "replace",
	"require", "restrict", "return", "revoke", "right", "rlike", "schema",
	"select", "set", "show", "table", "then", "to", "trigger", "true", "union",
	"unique", "unlock", "update", "usage", "use", "using", "values", "when",
	"where", "while", "with", "write", "xor",
}

// MySQL is the MySQL dialect.
var MySQL = dialect.New(Config).
	WithReservedWords(mysqlReservedWords...).
	InitHook(readSettings).
	Build()

// readSettings records the server variables that change how SQL text is
// interpreted: ANSI_QUOTES in sql_mode and identifier case folding.
func readSettings(ctx context.Context, db *sql.DB, info *core.DriverInfo) error {
	var sqlMode, lowerCase, charset, collation sql.NullString
	err := db.QueryRowContext(ctx,
		"SELECT @@sql_mode, @@lower_case_table_names, @@character_set_server, @@collation_server").
		Scan(&sqlMode, &lowerCase, &charset, &collation)
	if err != nil {
		return fmt.Errorf("failed to read server variables: %w", err)
	}
	info.SetSetting("sql_mode", sqlMode.String)
	info.SetSetting("lower_case_table_names", lowerCase.String)
	info.SetSetting("character_set_server", charset.String)
	info.SetSetting("collation_server", collation.String)
	return nil
}
