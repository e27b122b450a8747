package sqlexec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitScript(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{"single", "SELECT 1", []string{"SELECT 1"}},
		{"trailing semicolon", "SELECT 1;", []string{"SELECT 1"}},
		{"two statements", "SELECT 1; SELECT 2", []string{"SELECT 1", "SELECT 2"}},
		{"empty pieces dropped", ";; SELECT 1 ;\n ;", []string{"SELECT 1"}},
		{"semicolon in string", "SELECT 'a;b'; SELECT 2", []string{"SELECT 'a;b'", "SELECT 2"}},
		{"escaped quote", "SELECT 'it''s;'; SELECT 2", []string{"SELECT 'it''s;'", "SELECT 2"}},
		{"quoted identifier", `SELECT "a;b" FROM t`, []string{`SELECT "a;b" FROM t`}},
		{"backticks", "SELECT `a;b` FROM t", []string{"SELECT `a;b` FROM t"}},
		{"brackets", "SELECT [a;b] FROM t", []string{"SELECT [a;b] FROM t"}},
		{"line comment", "SELECT 1 -- x;y\n; SELECT 2", []string{"SELECT 1 -- x;y", "SELECT 2"}},
		{"comment only piece", "SELECT 1; -- done", []string{"SELECT 1"}},
		{"block comment", "SELECT /* ; */ 1", []string{"SELECT /* ; */ 1"}},
		{
			"dollar quoted body",
			"CREATE FUNCTION f() RETURNS int AS $$ SELECT 1; $$ LANGUAGE sql; SELECT f()",
			[]string{"CREATE FUNCTION f() RETURNS int AS $$ SELECT 1; $$ LANGUAGE sql", "SELECT f()"},
		},
		{
			"tagged dollar quote",
			"DO $body$ BEGIN PERFORM 1; END $body$; SELECT 2",
			[]string{"DO $body$ BEGIN PERFORM 1; END $body$", "SELECT 2"},
		},
		{
			"trigger body",
			"CREATE TRIGGER trg AFTER INSERT ON a BEGIN INSERT INTO b VALUES (new.x); END; SELECT 1",
			[]string{"CREATE TRIGGER trg AFTER INSERT ON a BEGIN INSERT INTO b VALUES (new.x); END", "SELECT 1"},
		},
		{
			"procedure with nested blocks",
			"CREATE PROCEDURE p() BEGIN IF x THEN SET y = CASE WHEN z THEN 1 ELSE 2 END; END IF; BEGIN SELECT 1; END; END; CALL p()",
			[]string{"CREATE PROCEDURE p() BEGIN IF x THEN SET y = CASE WHEN z THEN 1 ELSE 2 END; END IF; BEGIN SELECT 1; END; END", "CALL p()"},
		},
		{
			"transaction inside procedure",
			"CREATE PROCEDURE p AS BEGIN BEGIN TRANSACTION; DELETE FROM t; COMMIT; END; SELECT 2",
			[]string{"CREATE PROCEDURE p AS BEGIN BEGIN TRANSACTION; DELETE FROM t; COMMIT; END", "SELECT 2"},
		},
		{
			"begin transaction script",
			"BEGIN; UPDATE t SET a = 1; END;",
			[]string{"BEGIN", "UPDATE t SET a = 1", "END"},
		},
		{
			"table with begin column",
			"CREATE TABLE ev (event TEXT, begin INT); SELECT 1",
			[]string{"CREATE TABLE ev (event TEXT, begin INT)", "SELECT 1"},
		},
		{"positional parameter", "SELECT $1; SELECT $2", []string{"SELECT $1", "SELECT $2"}},
		{"whitespace only", " \n\t ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitScript(tt.script))
		})
	}
}
