package sql

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crossdb"
	"github.com/syssam/crossdb/dialect"
)

func TestDriverDialect(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, dialect.Postgres, OpenDB(dialect.Postgres, db).Dialect())
	// Suffixed names used by instrumentation wrappers resolve to the base
	// dialect.
	assert.Equal(t, dialect.Postgres, OpenDB("postgres+trace", db).Dialect())
	assert.Equal(t, "unknown", OpenDB("unknown", db).Dialect())
}

func TestConnExec(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.MySQL, db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM users").WillReturnResult(sqlmock.NewResult(0, 2))
	var res Result
	require.NoError(t, drv.Exec(ctx, "DELETE FROM users", []any{}, &res))
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	mock.ExpectExec("DELETE FROM users").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, drv.Exec(ctx, "DELETE FROM users", []any{}, nil))

	// Destination and argument types are checked up front.
	err = drv.Exec(ctx, "DELETE FROM users", []any{}, "bad dest")
	require.Error(t, err)
	err = drv.Exec(ctx, "DELETE FROM users", "bad args", nil)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConnQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.MySQL, db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT id FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	var rows Rows
	require.NoError(t, drv.Query(ctx, "SELECT id FROM users", []any{}, &rows))
	out, err := ScanRows(rows)
	require.NoError(t, err)
	require.NoError(t, rows.Close())
	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0]["id"])

	err = drv.Query(ctx, "SELECT 1", []any{}, "bad dest")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScanRowsCopiesBytes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.SQLite, db)

	mock.ExpectQuery("SELECT payload FROM blobs").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte{0x01, 0x02}))
	var rows Rows
	require.NoError(t, drv.Query(context.Background(), "SELECT payload FROM blobs", []any{}, &rows))
	out, err := ScanRows(rows)
	require.NoError(t, err)
	require.NoError(t, rows.Close())
	require.Len(t, out, 1)
	assert.Equal(t, []byte{0x01, 0x02}, out[0]["payload"])
}

func TestDriverClose(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	drv := OpenDB(dialect.Postgres, db)
	ctx := context.Background()

	require.NoError(t, drv.Ping(ctx))
	mock.ExpectClose()
	require.NoError(t, drv.Close())

	assert.ErrorIs(t, drv.Ping(ctx), crossdb.ErrNotConnected)
	_, err = drv.Tx(ctx)
	assert.ErrorIs(t, err, crossdb.ErrNotConnected)
}

func TestTxLifecycle(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.Postgres, db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectRollback()
	tx, err := drv.Tx(ctx)
	require.NoError(t, err)
	vtx, ok := tx.(*Tx)
	require.True(t, ok)
	assert.True(t, vtx.IsActive())
	require.NoError(t, tx.Rollback())
	assert.False(t, vtx.IsActive())
	assert.ErrorIs(t, tx.Rollback(), crossdb.ErrTxDone)
	assert.ErrorIs(t, tx.Commit(), crossdb.ErrTxDone)
	require.NoError(t, mock.ExpectationsWereMet())
}
