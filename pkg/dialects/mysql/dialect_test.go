package mysql

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
	d := MySQL

	require.NotNil(t, d)
	assert.Equal(t, "mysql", d.Name)
	assert.Equal(t, "`order`", d.QuoteIdentifier("order"))
	assert.Equal(t, "`a``b`", d.QuoteIdentifier("a`b"))
	assert.Equal(t, "?", d.FormatPlaceholder(3))

	assert.True(t, d.SupportsAliasInSelect())
	assert.True(t, d.SupportsBatch())
	assert.False(t, d.SupportsReturning())
	assert.Equal(t, [][2]string{{"`", "`"}}, d.IdentifierQuoteStrings())
	assert.Equal(t, "MyTable", d.NormalizeName("MyTable"))
}

func TestDialectRegistration(t *testing.T) {
	d, ok := dialect.Get("MySQL")
	require.True(t, ok)
	assert.Same(t, MySQL, d)
}

func TestApplyLimit_OffsetOnly(t *testing.T) {
	sql, ok := MySQL.ApplyLimit("SELECT id FROM t", 5, 0)
	require.True(t, ok)
	assert.Equal(t, "SELECT * FROM (SELECT id FROM t) AS leapdb_window LIMIT 18446744073709551615 OFFSET 5", sql)
}

func TestReturnsRows(t *testing.T) {
	assert.True(t, MySQL.ReturnsRows("DESCRIBE users"))
	assert.True(t, MySQL.ReturnsRows("show tables"))
	assert.True(t, MySQL.ReturnsRows("CALL report(1)"))
	assert.False(t, MySQL.ReturnsRows("INSERT INTO t VALUES (1) RETURNING id"), "no RETURNING support")
}

func TestInitDriverSettings(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT VERSION()").
		WillReturnRows(sqlmock.NewRows([]string{"VERSION()"}).AddRow("8.0.36"))
	mock.ExpectQuery("SELECT @@sql_mode, @@lower_case_table_names, @@character_set_server, @@collation_server").
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d"}).
			AddRow("ANSI_QUOTES,STRICT_TRANS_TABLES", "0", "utf8mb4", "utf8mb4_0900_ai_ci"))

	var info core.DriverInfo
	require.NoError(t, MySQL.InitDriverSettings(context.Background(), db, &info))
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, "8.0.36", info.ServerVersion)
	mode, ok := info.Setting("SQL_MODE")
	require.True(t, ok)
	assert.Contains(t, mode, "ANSI_QUOTES")
}

func TestInitDriverSettings_Error(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT VERSION()").WillReturnError(assert.AnError)

	var info core.DriverInfo
	err = MySQL.InitDriverSettings(context.Background(), db, &info)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestMetadata_EnumColumn(t *testing.T) {
	l := meta.NewLoader(Metadata, nil, nil)

	c := l.LoadColumn(meta.TableRef{Schema: "shop", Name: "orders"}, meta.Row{
		"COLUMN_NAME":  "state",
		"DATA_TYPE":    "enum",
		"COLUMN_TYPE":  "enum('new','it''s paid')",
		"IS_NULLABLE":  "YES",
		"COLUMN_EXTRA": "",
	})

	values, ok := c.EnumValues()
	require.True(t, ok)
	assert.Equal(t, []string{"new", "it's paid"}, values)
	assert.Equal(t, core.ValueEnum, c.ValueType())
	assert.False(t, c.Required())

	id := l.LoadColumn(meta.TableRef{Name: "orders"}, meta.Row{
		"COLUMN_NAME":  "id",
		"DATA_TYPE":    "int",
		"COLUMN_EXTRA": "auto_increment",
		"COLUMN_KEY":   "PRI",
	})
	assert.True(t, id.AutoGenerated())
	assert.Equal(t, core.KeyPrimary, id.KeyType())
	n, ok := id.MaxLength()
	assert.True(t, ok)
	assert.Equal(t, int64(10), n, "falls back to the type precision")
}
