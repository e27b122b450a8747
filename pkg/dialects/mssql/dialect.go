// Package mssql provides the Microsoft SQL Server dialect definition.
//
// No SQL Server driver is linked into leapdb; the dialect serves SQL
// generation and catalog queries for data sources opened elsewhere.
package mssql

import (
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

func init() {
	dialect.Register(MSSQL)
}

var mssqlReservedWords = []string{
	"add", "all", "alter", "and", "any", "as", "asc", "authorization", "backup",
	"begin", "between", "break", "browse", "bulk", "by", "cascade", "case",
	"check", "checkpoint", "close", "clustered", "coalesce", "collate", "column",
	"commit", "compute", "constraint", "contains", "continue", "convert",
	"create", "cross", "current", "cursor", "database", "dbcc", "deallocate",
	"declare", "default", "delete", "deny", "desc", "disk", "distinct",
	"distributed", "double", "drop", "dump", "else", "end", "errlvl", "escape",
	"except", "exec", "execute", "exists", "exit", "external", "fetch", "file",
	"fillfactor", "for", "foreign", "freetext", "from", "full", "function",
	"goto", "grant", "group", "having", "holdlock", "identity", "if", "in",
	"index", "inner", "insert", "intersect", "into", "is", "join", "key",
	"kill", "left", "like", "lineno", "merge", "national", "nocheck",
	"nonclustered", "not", "null", "nullif", "of", "off", "offsets", "on",
	"open", "option", "or", "order", "outer", "over", "percent", "pivot",
	"plan", "primary", "print", "proc", "procedure", "public", "raiserror",
	"read", "reconfigure", "references", "replication", "restore", "restrict",
	"return", "revert", "revoke", "right", "rollback", "rowcount", "rule",
	"save", "schema", "select", "session_user", "set", "setuser", "shutdown",
	"some", "statistics", "system_user", "table", "tablesample", "then", "to",
	"top", "tran", "transaction", "trigger", "truncate", "union", "unique",
	"unpivot", "update", "use", "user", "values", "varying", "view", "waitfor",
	"when", "where", "while", "with",
}

// MSSQL is the SQL Server dialect.
var MSSQL = dialect.New(Config).
	WithReservedWords(mssqlReservedWords...).
	Build()
