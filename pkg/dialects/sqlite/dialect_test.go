package sqlite

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
	"github.com/leapstack-labs/leapdb/pkg/meta"
)

func TestBuild(t *testing.T) {
	d := SQLite

	require.NotNil(t, d)
	assert.Equal(t, "sqlite", d.Name)
	assert.Equal(t, "main", d.DefaultSchema)

	assert.True(t, d.SupportsAliasInSelect())
	assert.False(t, d.SupportsAlterTableConstraint())
	assert.True(t, d.SupportsBatch())
	assert.Equal(t, [][2]string{{`"`, `"`}}, d.IdentifierQuoteStrings())
}

func TestDialectRegistration(t *testing.T) {
	d, ok := dialect.Get("sqlite")
	require.True(t, ok)
	assert.Same(t, SQLite, d)
}

func TestUnquoteIdentifier(t *testing.T) {
	d := SQLite

	assert.Equal(t, "My Table", d.UnquoteIdentifier("[My Table]"))
	assert.Equal(t, "My Table", d.UnquoteIdentifier("`My Table`"))
	assert.Equal(t, `a"b`, d.UnquoteIdentifier(`"a""b"`))
	assert.Equal(t, "users", d.UnquoteIdentifier("Users"))
}

func TestApplyLimit(t *testing.T) {
	sql, ok := SQLite.ApplyLimit("SELECT * FROM t", 20, 0)
	require.True(t, ok)
	assert.Equal(t, "SELECT * FROM (SELECT * FROM t) AS leapdb_window LIMIT -1 OFFSET 20", sql)

	sql, ok = SQLite.ApplyLimit("SELECT * FROM t", 0, 5)
	require.True(t, ok)
	assert.Equal(t, "SELECT * FROM (SELECT * FROM t) AS leapdb_window LIMIT 5", sql)
}

func TestReturnsRows(t *testing.T) {
	assert.True(t, SQLite.ReturnsRows("PRAGMA table_info(users)"))
	assert.True(t, SQLite.ReturnsRows("DELETE FROM t WHERE id = 1 RETURNING id"))
	assert.False(t, SQLite.ReturnsRows("VACUUM"))
}

func TestInitDriverSettings(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT sqlite_version()").
		WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow("3.46.0"))
	mock.ExpectQuery("PRAGMA encoding").WillReturnRows(sqlmock.NewRows([]string{"encoding"}).AddRow("UTF-8"))
	mock.ExpectQuery("PRAGMA foreign_keys").WillReturnRows(sqlmock.NewRows([]string{"foreign_keys"}).AddRow(1))
	mock.ExpectQuery("PRAGMA journal_mode").WillReturnRows(sqlmock.NewRows([]string{"journal_mode"}).AddRow("wal"))

	var info core.DriverInfo
	require.NoError(t, SQLite.InitDriverSettings(context.Background(), db, &info))
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, "3.46.0", info.ServerVersion)
	fk, _ := info.Setting("foreign_keys")
	assert.Equal(t, "1", fk)
}

func TestMetadata(t *testing.T) {
	assert.Equal(t, []any{"users", "main"}, Metadata.ColumnArgs(meta.TableRef{Name: "users"}))
	assert.Equal(t, []any{"users", "aux"}, Metadata.ColumnArgs(meta.TableRef{Schema: "aux", Name: "users"}))
	assert.Empty(t, Metadata.RoutinesQuery)

	l := meta.NewLoader(Metadata, nil, nil)
	c := l.LoadColumn(meta.TableRef{Name: "users"}, meta.Row{
		"COLUMN_NAME":  "id",
		"DATA_TYPE":    "INTEGER",
		"COLUMN_KEY":   "PRI",
		"IS_NULLABLE":  "NO",
		"COLUMN_EXTRA": "autoincrement",
	})
	assert.True(t, c.AutoGenerated())
	assert.True(t, c.Required())
	assert.Equal(t, core.ValueInteger, c.ValueType())
	require.NotNil(t, c.DataType())
	assert.Equal(t, "integer", c.DataType().Name)
}
