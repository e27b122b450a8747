// Package main provides end-to-end tests for the leapdb CLI.
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapdb/internal/cli"
	"github.com/leapstack-labs/leapdb/internal/cli/config"
)

// testDB holds the paths of one test's database and history store.
type testDB struct {
	dir     string
	db      string
	history string
}

func newTestDB(t *testing.T) *testDB {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return &testDB{
		dir:     dir,
		db:      filepath.Join(dir, "test.db"),
		history: filepath.Join(dir, "history.db"),
	}
}

// run executes the root command against the test database and returns
// stdout and stderr.
func (d *testDB) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(new(bytes.Buffer))
	cmd.SetArgs(append(args, "--database", d.db, "--history", d.history))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (d *testDB) mustRun(t *testing.T, args ...string) (string, string) {
	t.Helper()
	stdout, stderr, err := d.run(t, args...)
	require.NoError(t, err, "stderr: %s", stderr)
	return stdout, stderr
}

func (d *testDB) seed(t *testing.T) {
	t.Helper()
	d.mustRun(t, "exec", `CREATE TABLE users (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT DEFAULT 'none'
	);
	INSERT INTO users (name) VALUES ('alice'), ('bob')`)
}

func TestVersionCommand(t *testing.T) {
	d := newTestDB(t)
	stdout, _ := d.mustRun(t, "version")
	assert.Contains(t, stdout, "leapdb v")
	for _, name := range []string{"duckdb", "mysql", "postgres", "sqlite"} {
		assert.Contains(t, stdout, name)
	}
}

func TestHelpCommand(t *testing.T) {
	d := newTestDB(t)
	stdout, _ := d.mustRun(t, "--help")
	for _, expected := range []string{"exec", "describe", "routines", "collations", "dialects", "formats", "history", "info"} {
		assert.Contains(t, stdout, expected)
	}
}

func TestExecScript(t *testing.T) {
	d := newTestDB(t)
	_, stderr := d.mustRun(t, "exec", `CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);
		INSERT INTO users (name) VALUES ('alice'), ('bob');
		SELECT id, name FROM users ORDER BY id`)
	assert.Contains(t, stderr, "2 rows affected")

	stdout, _ := d.mustRun(t, "exec", "SELECT id, name FROM users ORDER BY id")
	assert.Contains(t, stdout, "alice")
	assert.Contains(t, stdout, "bob")
	assert.Contains(t, stdout, "(2 rows)")
}

func TestExecJSON(t *testing.T) {
	d := newTestDB(t)
	d.seed(t)

	stdout, _ := d.mustRun(t, "exec", "-o", "json", "SELECT id, name FROM users ORDER BY id")
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows), stdout)
	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[0]["name"])
	assert.InDelta(t, 2, rows[1]["id"], 0)
}

func TestExecParams(t *testing.T) {
	d := newTestDB(t)
	d.seed(t)

	stdout, _ := d.mustRun(t, "exec", "SELECT name FROM users WHERE id = ?", "-p", "2")
	assert.Contains(t, stdout, "bob")
	assert.NotContains(t, stdout, "alice")
}

func TestExecLimit(t *testing.T) {
	d := newTestDB(t)
	d.seed(t)

	stdout, stderr := d.mustRun(t, "exec", "--limit", "1", "SELECT name FROM users ORDER BY id")
	assert.Contains(t, stdout, "alice")
	assert.NotContains(t, stdout, "bob")
	assert.Contains(t, stderr, "output limited to 1 rows")

	stdout, _ = d.mustRun(t, "exec", "--limit", "1", "--offset", "1", "SELECT name FROM users ORDER BY id")
	assert.Contains(t, stdout, "bob")
	assert.NotContains(t, stdout, "alice")
}

func TestExecBatch(t *testing.T) {
	d := newTestDB(t)
	d.seed(t)

	batch := filepath.Join(d.dir, "users.csv")
	require.NoError(t, os.WriteFile(batch, []byte("carol\ndave\nerin\n"), 0600))

	stdout, stderr := d.mustRun(t, "exec", "--batch", batch, "INSERT INTO users (name) VALUES (?)")
	assert.Contains(t, stdout, "entry")
	assert.Contains(t, stderr, "3 entries, 3 rows affected")

	stdout, _ = d.mustRun(t, "exec", "-o", "csv", "SELECT count(*) AS n FROM users")
	assert.Contains(t, stdout, "5")
}

func TestExecGeneratedKeys(t *testing.T) {
	d := newTestDB(t)
	d.seed(t)

	stdout, _ := d.mustRun(t, "exec", "--keys", "INSERT INTO users (name) VALUES ('frank')")
	assert.Contains(t, stdout, "Generated keys")
	assert.Contains(t, stdout, "3")
}

func TestExecErrors(t *testing.T) {
	d := newTestDB(t)

	_, _, err := d.run(t, "exec", "SELECT * FROM missing_table")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing_table")

	_, _, err = d.run(t, "exec", "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no SQL to execute")

	_, _, err = d.run(t, "exec", "--limit", "-1", "SELECT 1")
	require.Error(t, err)
}

func TestExecWithoutConnection(t *testing.T) {
	t.Chdir(t.TempDir())
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"exec", "SELECT 1", "--history", ""})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no connections configured")
}

func TestExecConfigConnection(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cfg := `history_path: ""
default_connection: local
connections:
  local:
    type: sqlite
    database: data/local.db
`
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leapdb.yaml"), []byte(cfg), 0600))

	cmd := cli.NewRootCmd()
	stdout := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"exec", "-o", "csv", "SELECT 40 + 2 AS answer"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "answer")
	assert.Contains(t, stdout.String(), "42")
	assert.FileExists(t, filepath.Join(dir, "data", "local.db"))
}

func TestDescribeCommand(t *testing.T) {
	d := newTestDB(t)
	d.seed(t)

	stdout, _ := d.mustRun(t, "describe", "users")
	assert.Contains(t, stdout, "id")
	assert.Contains(t, stdout, "name")
	assert.Contains(t, stdout, "email")
	assert.Contains(t, stdout, "'none'")

	stdout, _ = d.mustRun(t, "describe", "--ddl", "main.users")
	assert.Contains(t, stdout, "CREATE TABLE")
	assert.Contains(t, stdout, "users")

	_, _, err := d.run(t, "describe", "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestInfoCommand(t *testing.T) {
	d := newTestDB(t)
	stdout, _ := d.mustRun(t, "info")
	assert.Contains(t, stdout, "sqlite")
	assert.Contains(t, stdout, "server_version")
}

func TestRoutinesCommand(t *testing.T) {
	d := newTestDB(t)
	stdout, _ := d.mustRun(t, "routines")
	assert.Contains(t, stdout, "(0 rows)")
}

func TestDialectsCommand(t *testing.T) {
	d := newTestDB(t)
	stdout, _ := d.mustRun(t, "dialects")
	for _, name := range []string{"db2", "duckdb", "mssql", "mysql", "postgres", "sqlite"} {
		assert.Contains(t, stdout, name)
	}
}

func TestFormatsCommand(t *testing.T) {
	d := newTestDB(t)
	stdout, _ := d.mustRun(t, "formats")
	for _, title := range []string{"Date", "Time", "Timestamp", "Number"} {
		assert.Contains(t, stdout, title)
	}

	stdout, _ = d.mustRun(t, "formats", "--locale", "de-DE", "-o", "json")
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows), stdout)
	assert.Len(t, rows, 4)
}

func TestHistoryCommand(t *testing.T) {
	d := newTestDB(t)

	stdout, stderr := d.mustRun(t, "history")
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "no history yet")

	d.seed(t)
	_, _, err := d.run(t, "exec", "SELECT * FROM missing_table")
	require.Error(t, err)

	stdout, _ = d.mustRun(t, "history", "-o", "json")
	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &entries), stdout)
	require.Len(t, entries, 3)
	assert.Contains(t, entries[0]["query"], "missing_table")
	assert.Equal(t, config.AdHocConnection, entries[0]["connection"])

	stdout, _ = d.mustRun(t, "history", "--failed", "-o", "json")
	entries = nil
	require.NoError(t, json.Unmarshal([]byte(stdout), &entries), stdout)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0]["result"], "error")

	_, stderr = d.mustRun(t, "history", "--clear")
	assert.Contains(t, stderr, "3 entries deleted")
}

func TestMetricsFile(t *testing.T) {
	d := newTestDB(t)
	metricsPath := filepath.Join(d.dir, "leapdb.prom")

	d.mustRun(t, "exec", "--metrics", metricsPath, "SELECT 1")

	content, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `leapdb_statements_total{dialect="sqlite",kind="execute",status="ok"} 1`)
}

func TestCompletionCommand(t *testing.T) {
	d := newTestDB(t)
	stdout, _ := d.mustRun(t, "completion", "bash")
	assert.Contains(t, stdout, "leapdb")
}
