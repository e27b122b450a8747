package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapdb/internal/cli/output"
	"github.com/leapstack-labs/leapdb/internal/history"
	"github.com/leapstack-labs/leapdb/internal/testutil"
	"github.com/leapstack-labs/leapdb/pkg/exec"
	"github.com/leapstack-labs/leapdb/pkg/exec/sqlexec"

	_ "github.com/leapstack-labs/leapdb/pkg/adapters/sqlite"
	sqlitedialect "github.com/leapstack-labs/leapdb/pkg/dialects/sqlite"
)

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		name  string
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{"exec", NewExecCommand(), "exec [SQL]", []string{"input", "batch", "param", "limit", "offset", "keys"}},
		{"describe", NewDescribeCommand(), "describe <table>", []string{"ddl"}},
		{"routines", NewRoutinesCommand(), "routines [schema]", nil},
		{"collations", NewCollationsCommand(), "collations", []string{"charset"}},
		{"info", NewInfoCommand(), "info", nil},
		{"dialects", NewDialectsCommand(), "dialects", nil},
		{"formats", NewFormatsCommand(), "formats", nil},
		{"history", NewHistoryCommand(), "history", []string{"limit", "for", "failed", "clear"}},
		{"debug", NewDebugCommand(), "debug", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestNewDescribeCommand_Alias(t *testing.T) {
	cmd := NewDescribeCommand()
	assert.Equal(t, []string{"desc"}, cmd.Aliases)
}

func TestParamValues(t *testing.T) {
	values := paramValues([]string{"42", "NULL", "text"})
	assert.Equal(t, []any{"42", nil, "text"}, values)
	assert.Empty(t, paramValues(nil))
}

func TestBatchCount(t *testing.T) {
	assert.Equal(t, "unknown", batchCount(exec.CountUnknown))
	assert.Equal(t, "failed", batchCount(exec.CountFailed))
	assert.Equal(t, int64(3), batchCount(3))
}

func TestReadBatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,alice\n2,\"b,ob\"\n3\n"), 0600))

	records, err := readBatchFile(path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "alice"}, {"2", "b,ob"}, {"3"}}, records)

	_, err = readBatchFile(filepath.Join(dir, "missing.csv"))
	assert.ErrorContains(t, err, "failed to open batch file")
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "row", plural(1, "row", "rows"))
	assert.Equal(t, "rows", plural(0, "row", "rows"))
	assert.Equal(t, "rows", plural(2, "row", "rows"))
}

func TestEntryResult(t *testing.T) {
	tests := []struct {
		name  string
		entry history.Entry
		want  string
	}{
		{"cancelled", history.Entry{Cancelled: true, Error: "canceled"}, "cancelled"},
		{"failed", history.Entry{Error: "no such\ntable"}, "error: no such table"},
		{"rows", history.Entry{HasResultSet: true, UpdateCount: -1}, "rows"},
		{"update", history.Entry{UpdateCount: 4}, "4 affected"},
		{"unknown", history.Entry{UpdateCount: exec.CountUnknown}, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entryResult(&tt.entry))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "SELECT 1 FROM t", oneLine("SELECT 1\n\tFROM   t"))
}

func TestFormatProperties(t *testing.T) {
	assert.Equal(t, "a=1 b=2", formatProperties(map[string]string{"b": "2", "a": "1"}))
	assert.Empty(t, formatProperties(nil))
}

func TestCollect(t *testing.T) {
	rs := exec.NewMemoryResultSet(nil,
		[]exec.ColumnInfo{{Name: "id"}, {Name: "name"}},
		[][]any{{int64(1), "alice"}, {int64(2), nil}},
	)
	tbl, err := collect(rs)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, tbl.Columns)
	assert.Equal(t, [][]any{{int64(1), "alice"}, {int64(2), nil}}, tbl.Rows)
}

func newRunner(t *testing.T, format string, opts *ExecOptions) (*statementRunner, sqlmock.Sqlmock, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sess, err := sqlexec.Open(context.Background(), db, sqlitedialect.SQLite,
		sqlexec.WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	return &statementRunner{
		sess:     sess,
		renderer: output.NewRenderer(stdout, stderr, format, nil),
		logger:   testutil.NewTestLogger(t),
		opts:     opts,
	}, mock, stdout, stderr
}

func TestStatementRunner_Script(t *testing.T) {
	r, mock, stdout, stderr := newRunner(t, output.FormatCSV, &ExecOptions{})
	mock.ExpectExec("UPDATE users SET active = 1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery("SELECT id, name FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "alice").AddRow(2, "bob"))

	err := r.run(context.Background(), "UPDATE users SET active = 1; SELECT id, name FROM users")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Contains(t, stderr.String(), "3 rows affected")
	assert.Contains(t, stdout.String(), "id,name")
	assert.Contains(t, stdout.String(), "1,alice")
	assert.Contains(t, stdout.String(), "2,bob")
}

func TestStatementRunner_Params(t *testing.T) {
	r, mock, stdout, _ := newRunner(t, output.FormatCSV, &ExecOptions{Params: []string{"7", "NULL"}})
	mock.ExpectQuery("SELECT name FROM users WHERE id = ? OR name IS ?").
		WithArgs("7", nil).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("carol"))

	require.NoError(t, r.run(context.Background(), "SELECT name FROM users WHERE id = ? OR name IS ?"))
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, stdout.String(), "carol")
}

func TestStatementRunner_Error(t *testing.T) {
	r, mock, _, _ := newRunner(t, output.FormatTable, &ExecOptions{})
	mock.ExpectExec("DELETE FROM ghost").WillReturnError(errors.New("no such table: ghost"))

	err := r.run(context.Background(), "DELETE FROM ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such table")
}

func TestStatementRunner_Batch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,alice\n2,bob\n"), 0600))

	r, mock, stdout, stderr := newRunner(t, output.FormatCSV, &ExecOptions{Batch: path})
	query := "INSERT INTO users (id, name) VALUES (?, ?)"
	mock.ExpectExec(query).WithArgs("1", "alice").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(query).WithArgs("2", "bob").WillReturnResult(sqlmock.NewResult(2, 1))

	require.NoError(t, r.runBatch(context.Background(), query))
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, stdout.String(), "entry,count")
	assert.Contains(t, stdout.String(), "2,1")
	assert.Contains(t, stderr.String(), "2 entries, 2 rows affected")
}

func TestStatementRunner_BatchEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	r, _, _, _ := newRunner(t, output.FormatTable, &ExecOptions{Batch: path})
	err := r.runBatch(context.Background(), "INSERT INTO users (id) VALUES (?)")
	assert.ErrorContains(t, err, "is empty")
}
