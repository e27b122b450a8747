package meta

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapdb/internal/testutil"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
	"github.com/leapstack-labs/leapdb/pkg/exec/sqlexec"
)

func mockSession(t *testing.T) (*sqlexec.Session, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sess, err := sqlexec.Open(context.Background(), db, dialect.NewDialect("test").Build(),
		sqlexec.WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })
	return sess, mock
}

func TestLoadCatalog(t *testing.T) {
	sess, mock := mockSession(t)
	f := testFlavor()
	f.CharsetsQuery = "SELECT * FROM information_schema.character_sets"
	f.CollationsQuery = "SELECT * FROM information_schema.collations"

	mock.ExpectQuery(f.CharsetsQuery).WillReturnRows(
		sqlmock.NewRows([]string{"CHARACTER_SET_NAME", "DEFAULT_COLLATE_NAME", "DESCRIPTION", "MAXLEN"}).
			AddRow("latin1", "latin1_swedish_ci", "cp1252 West European", 1).
			AddRow("utf8mb4", "utf8mb4_0900_ai_ci", "UTF-8 Unicode", 4))
	mock.ExpectQuery(f.CollationsQuery).WillReturnRows(
		sqlmock.NewRows([]string{"COLLATION_NAME", "CHARACTER_SET_NAME", "ID", "IS_DEFAULT", "IS_COMPILED", "SORTLEN"}).
			AddRow("latin1_bin", "latin1", 47, "", "Yes", 1).
			AddRow("latin1_swedish_ci", "latin1", 8, "Yes", "Yes", 1).
			AddRow("utf8mb4_0900_ai_ci", "utf8mb4", 255, "Yes", "Yes", 0).
			AddRow("orphan_ci", nil, 999, "", "", 0))

	cat, err := LoadCatalog(context.Background(), sess, f, testutil.NewTestLogger(t))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	charsets := cat.Charsets()
	require.Len(t, charsets, 2)
	assert.Equal(t, "latin1", charsets[0].Name)
	assert.Equal(t, 1, charsets[0].MaxLength)
	assert.Equal(t, "cp1252 West European", charsets[0].Description)

	latin1 := cat.Charset("LATIN1")
	require.NotNil(t, latin1)
	assert.Len(t, latin1.Collations(), 2)
	assert.Equal(t, "latin1_swedish_ci", latin1.DefaultCollation().Name)

	col := cat.Collation("latin1_bin")
	require.NotNil(t, col)
	assert.Equal(t, 47, col.ID)
	assert.False(t, col.IsDefault)
	assert.True(t, col.IsCompiled)
	assert.Same(t, latin1, col.Charset)

	assert.Nil(t, cat.Collation("orphan_ci"))
	assert.NotNil(t, cat.DataType("VARCHAR"))
	assert.Equal(t, int64(10), cat.DataType("int(11)").Precision)
}

func TestLoader_ReadTableColumns(t *testing.T) {
	sess, mock := mockSession(t)
	l := NewLoader(testFlavor(), testCatalog(), testutil.NewTestLogger(t))

	mock.ExpectQuery(testFlavor().ColumnsQuery).
		WithArgs("app", "users").
		WillReturnRows(sqlmock.NewRows([]string{
			"column_name", "ordinal_position", "data_type", "column_key",
			"character_maximum_length", "is_nullable", "column_type",
		}).
			AddRow("status", 2, "enum", "", nil, "YES", "enum('active','banned')").
			AddRow("id", 1, "int", "PRI", nil, "NO", "int"))

	cols, err := l.ReadTableColumns(context.Background(), sess, users)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, cols, 2)

	assert.Equal(t, "id", cols[0].Name())
	assert.Equal(t, core.KeyPrimary, cols[0].KeyType())
	assert.Equal(t, "status", cols[1].Name())
	values, ok := cols[1].EnumValues()
	require.True(t, ok)
	assert.Equal(t, []string{"active", "banned"}, values)
	assert.False(t, cols[1].Required())
}

func TestLoader_ReadTableColumns_NotFound(t *testing.T) {
	sess, mock := mockSession(t)
	l := NewLoader(testFlavor(), nil, nil)
	mock.ExpectQuery(testFlavor().ColumnsQuery).
		WithArgs("app", "ghost").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}))

	_, err := l.ReadTableColumns(context.Background(), sess, TableRef{Schema: "app", Name: "ghost"})
	assert.ErrorContains(t, err, "not found")
}

func TestLoader_ReadRoutines(t *testing.T) {
	sess, mock := mockSession(t)
	f := testFlavor()
	f.DefaultSchema = "app"
	l := NewLoader(f, nil, nil)

	mock.ExpectQuery(f.RoutinesQuery).
		WithArgs("app").
		WillReturnRows(sqlmock.NewRows([]string{"ROUTINE_SCHEMA", "ROUTINE_NAME", "ROUTINE_TYPE"}).
			AddRow("app", "total", "FUNCTION").
			AddRow("app", "cleanup", "PROCEDURE"))

	routines, err := l.ReadRoutines(context.Background(), sess, "")
	require.NoError(t, err)
	require.Len(t, routines, 2)
	assert.Equal(t, core.ProcedureFunction, routines[0].ProcedureType())
	assert.Equal(t, core.ProcedureProcedure, routines[1].ProcedureType())

	none, err := NewLoader(&Flavor{}, nil, nil).ReadRoutines(context.Background(), sess, "app")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRow_Accessors(t *testing.T) {
	r := NewRow(
		[]string{"name", "Count", "ratio", "flag", "text_num", "blob", "empty"},
		[]any{[]byte("alice"), int32(3), 2.9, "Yes", " 12 ", []byte("7"), nil},
	)

	assert.Equal(t, "alice", r.String("NAME"))
	assert.Equal(t, 3, r.Int("count"))
	assert.Equal(t, int64(2), r.Int64("ratio"))
	assert.True(t, r.Bool("flag"))
	assert.Equal(t, int64(12), r.Int64("text_num"))
	assert.Equal(t, 7, r.Int("blob"))

	assert.True(t, r.Has("name"))
	assert.False(t, r.Has("empty"))
	assert.False(t, r.Has("missing"))
	assert.Equal(t, "", r.String("missing"))
	assert.Zero(t, r.Int("missing"))
	assert.False(t, r.Bool("missing"))

	_, ok := r.Int64OK("name")
	assert.False(t, ok)
}
