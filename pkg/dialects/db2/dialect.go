// Package db2 provides the IBM Db2 SQL dialect definition.
//
// No Db2 driver is linked into leapdb; the dialect serves SQL generation
// and catalog queries for data sources opened elsewhere.
package db2

import (
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

func init() {
	dialect.Register(DB2)
}

var db2ReservedWords = []string{
	"all", "alter", "and", "any", "as", "asc", "between", "by", "call", "case",
	"cast", "check", "column", "commit", "constraint", "create", "cross",
	"current", "current_date", "current_schema", "current_time",
	"current_timestamp", "current_user", "cursor", "declare", "default",
	"delete", "desc", "distinct", "drop", "else", "end", "except", "exists",
	"fetch", "for", "foreign", "from", "full", "function", "grant", "group",
	"having", "in", "index", "inner", "insert", "intersect", "into", "is",
	"join", "key", "left", "like", "limit", "merge", "not", "null", "of",
	"offset", "on", "only", "or", "order", "outer", "primary", "procedure",
	"references", "right", "rollback", "row", "rows", "select", "set", "some",
	"table", "then", "to", "union", "unique", "update", "user", "using",
	"values", "view", "when", "where", "with",
}

// DB2 is the Db2 dialect.
var DB2 = dialect.New(Config).
	WithReservedWords(db2ReservedWords...).
	Build()
