package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapdb/internal/testutil"
	"github.com/leapstack-labs/leapdb/pkg/adapter"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/exec"
	"github.com/leapstack-labs/leapdb/pkg/meta"
)

func connect(t *testing.T, cfg core.AdapterConfig) *Adapter {
	t.Helper()
	adp := New(testutil.NewTestLogger(t))
	require.NoError(t, adp.Connect(context.Background(), cfg))
	t.Cleanup(func() { _ = adp.Close() })
	return adp
}

// run executes script on its own session and drains every result.
func run(t *testing.T, adp *Adapter, script string) {
	t.Helper()
	ctx := context.Background()
	sess, err := adp.OpenSession(ctx)
	require.NoError(t, err)
	defer func() { _ = sess.Close() }()

	stmt, err := sess.Prepare(script)
	require.NoError(t, err)
	defer stmt.Close()
	_, err = stmt.Execute(ctx)
	require.NoError(t, err)
	for {
		more, err := stmt.NextResults(ctx)
		require.NoError(t, err)
		if !more {
			return
		}
	}
}

func TestBuildSQLiteDSN(t *testing.T) {
	tests := []struct {
		name   string
		config adapter.Config
		want   string
	}{
		{
			name:   "file path",
			config: adapter.Config{Path: "app.db"},
			want:   "app.db?_pragma=busy_timeout%285000%29&_pragma=foreign_keys%281%29",
		},
		{
			name:   "database used when path is empty",
			config: adapter.Config{Database: "data/app.db"},
			want:   "data/app.db?_pragma=busy_timeout%285000%29&_pragma=foreign_keys%281%29",
		},
		{
			name: "options override defaults",
			config: adapter.Config{
				Path:    "app.db",
				Options: map[string]string{"foreign_keys": "0", "journal_mode": "wal"},
			},
			want: "app.db?_pragma=busy_timeout%285000%29&_pragma=foreign_keys%280%29&_pragma=journal_mode%28wal%29",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildSQLiteDSN(tt.config))
		})
	}
}

func TestBuildSQLiteDSN_Memory(t *testing.T) {
	first := buildSQLiteDSN(adapter.Config{Path: ":memory:"})
	second := buildSQLiteDSN(adapter.Config{})

	assert.Contains(t, first, "mode=memory")
	assert.Contains(t, first, "cache=shared")
	assert.NotEqual(t, first, second, "every in-memory database is private")
}

func TestAdapter_Connect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	adp := connect(t, core.AdapterConfig{Path: path})

	_, err := os.Stat(path)
	require.NoError(t, err, "database file was created")

	info := adp.DriverInfo()
	assert.Equal(t, "sqlite", info.Dialect)
	assert.NotEmpty(t, info.ServerVersion)
	fk, ok := info.Setting("foreign_keys")
	require.True(t, ok)
	assert.Equal(t, "1", fk)
	enc, _ := info.Setting("encoding")
	assert.Equal(t, "UTF-8", enc)
}

func TestAdapter_MemoryIsSharedAcrossSessions(t *testing.T) {
	adp := connect(t, core.AdapterConfig{Path: ":memory:"})
	run(t, adp, `CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT NOT NULL);
		INSERT INTO notes (body) VALUES ('a'), ('b');`)

	ctx := context.Background()
	sess, err := adp.OpenSession(ctx)
	require.NoError(t, err)
	defer func() { _ = sess.Close() }()

	rows, err := meta.QueryRows(ctx, sess, "SELECT count(*) AS n FROM notes")
	require.NoError(t, err)
	assert.Equal(t, 2, rows[0].Int("n"))

	other := connect(t, core.AdapterConfig{})
	otherSess, err := other.OpenSession(ctx)
	require.NoError(t, err)
	defer func() { _ = otherSess.Close() }()
	_, err = meta.QueryRows(ctx, otherSess, "SELECT count(*) AS n FROM notes")
	require.Error(t, err, "a second in-memory adapter sees its own database")
}

func TestAdapter_TableColumns(t *testing.T) {
	adp := connect(t, core.AdapterConfig{Path: ":memory:"})
	run(t, adp, `CREATE TABLE orders (
		id INTEGER PRIMARY KEY,
		customer VARCHAR(40) NOT NULL,
		total NUMERIC DEFAULT 0,
		placed_at DATETIME
	)`)

	cols, err := adp.TableColumns(context.Background(), adapter.ParseQualifiedName(`main."orders"`, adp.Dialect()))
	require.NoError(t, err)
	require.Len(t, cols, 4)

	assert.Equal(t, "id", cols[0].Name())
	assert.Equal(t, core.KeyPrimary, cols[0].KeyType())
	assert.True(t, cols[0].AutoGenerated())
	assert.True(t, cols[0].Required())

	assert.Equal(t, core.ValueString, cols[1].ValueType())
	assert.True(t, cols[1].Required())

	assert.Equal(t, "0", cols[2].DefaultValue())
	assert.False(t, cols[2].Required())

	assert.Equal(t, core.ValueTimestamp, cols[3].ValueType())

	_, err = adp.TableColumns(context.Background(), meta.TableRef{Name: "missing"})
	assert.ErrorContains(t, err, "not found")
}

func TestAdapter_NoRoutines(t *testing.T) {
	adp := connect(t, core.AdapterConfig{Path: ":memory:"})
	routines, err := adp.Routines(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, routines)
}

func TestAdapter_GeneratedKeys(t *testing.T) {
	adp := connect(t, core.AdapterConfig{Path: ":memory:"})
	run(t, adp, `CREATE TABLE tags (id INTEGER PRIMARY KEY, label TEXT)`)

	ctx := context.Background()
	sess, err := adp.OpenSession(ctx)
	require.NoError(t, err)
	defer func() { _ = sess.Close() }()

	stmt, err := sess.Prepare("INSERT INTO tags (label) VALUES (?)")
	require.NoError(t, err)
	defer stmt.Close()

	stmt.Bind("go")
	isRows, err := stmt.Execute(ctx)
	require.NoError(t, err)
	assert.False(t, isRows)

	count, err := stmt.UpdateRowCount()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	keys, err := stmt.OpenGeneratedKeys()
	require.NoError(t, err)
	require.NotNil(t, keys)
	require.True(t, keys.Next())
	var id int64
	require.NoError(t, keys.Scan(&id))
	assert.Equal(t, int64(1), id)
}

func TestAdapter_Batch(t *testing.T) {
	adp := connect(t, core.AdapterConfig{Path: ":memory:"})
	run(t, adp, `CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)`)

	ctx := context.Background()
	sess, err := adp.OpenSession(ctx)
	require.NoError(t, err)
	defer func() { _ = sess.Close() }()

	stmt, err := sess.Prepare("INSERT INTO kv (k, v) VALUES (?, ?)")
	require.NoError(t, err)
	defer stmt.Close()

	require.NoError(t, stmt.AddToBatch("a", "1"))
	require.NoError(t, stmt.AddToBatch("b", "2"))
	require.NoError(t, stmt.AddToBatch("a", "3"))
	require.NoError(t, stmt.AddToBatch("c", "4"))

	counts, err := stmt.ExecuteBatch(ctx)
	var batchErr *exec.BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 2, batchErr.Index)
	assert.Equal(t, []int64{1, 1, exec.CountFailed}, counts)
}

func TestAdapter_TriggerScript(t *testing.T) {
	adp := connect(t, core.AdapterConfig{Path: ":memory:"})
	run(t, adp, `CREATE TABLE a (x INTEGER);
CREATE TABLE b (x INTEGER);
CREATE TRIGGER copy_a AFTER INSERT ON a BEGIN
	INSERT INTO b VALUES (new.x);
	INSERT INTO b VALUES (new.x * 10);
END;
INSERT INTO a VALUES (4);`)

	ctx := context.Background()
	sess, err := adp.OpenSession(ctx)
	require.NoError(t, err)
	defer func() { _ = sess.Close() }()

	stmt, err := sess.Prepare("SELECT x FROM b ORDER BY x -- copied rows")
	require.NoError(t, err)
	defer stmt.Close()
	require.NoError(t, stmt.SetLimit(0, 10))
	isRows, err := stmt.Execute(ctx)
	require.NoError(t, err)
	require.True(t, isRows)

	rs, err := stmt.OpenResultSet()
	require.NoError(t, err)
	var got []int64
	for rs.Next() {
		var x int64
		require.NoError(t, rs.Scan(&x))
		got = append(got, x)
	}
	require.NoError(t, rs.Err())
	assert.Equal(t, []int64{4, 40}, got)
}

func TestAdapter_Registered(t *testing.T) {
	adp, err := adapter.Open(context.Background(), core.AdapterConfig{Type: "sqlite"}, nil)
	require.NoError(t, err)
	defer func() { _ = adp.Close() }()
	assert.Equal(t, "sqlite", adp.Dialect().Name)
}
