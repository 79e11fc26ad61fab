package sql

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crossdb"
	"github.com/syssam/crossdb/dialect"
)

func TestOpenConfig(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	r := dialect.NewRegistry()
	r.Register(dialect.SQLite, func(dsn string) (dialect.Driver, error) {
		return OpenDB(dialect.SQLite, db), nil
	})

	orm, err := OpenConfig(r, &crossdb.Config{
		Dialect:      dialect.SQLite,
		DSN:          "file:app.db",
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		PrimaryKey:   "uid",
	})
	require.NoError(t, err)
	assert.Equal(t, dialect.SQLite, orm.Dialect())

	// PrimaryKey from the config drives the insert lookup column.
	mock.ExpectExec(`INSERT INTO "events" ("kind") VALUES (?)`).
		WithArgs("login").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery(`SELECT * FROM "events" WHERE "uid" = ?`).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"uid", "kind"}).AddRow(9, "login"))

	res, err := orm.InsertOne(context.Background(), "events", map[string]any{"kind": "login"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, int64(9), res.LastInsertID)
}

func TestOpenConfigSlowThresholdWrapsStats(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := dialect.NewRegistry()
	r.Register(dialect.Postgres, func(dsn string) (dialect.Driver, error) {
		return OpenDB(dialect.Postgres, db), nil
	})

	orm, err := OpenConfig(r, &crossdb.Config{
		Dialect:            dialect.Postgres,
		DSN:                "postgres://x",
		SlowQueryThreshold: 250 * time.Millisecond,
	})
	require.NoError(t, err)
	_, ok := orm.Driver().(*StatsDriver)
	assert.True(t, ok, "a positive slow threshold wraps the driver in a StatsDriver")
	assert.Equal(t, dialect.Postgres, orm.Dialect())
}

func TestOpenConfigErrors(t *testing.T) {
	r := dialect.NewRegistry()

	// Invalid config fails before the registry is consulted.
	_, err := OpenConfig(r, &crossdb.Config{Dialect: "mongodb", DSN: "x"})
	assert.ErrorIs(t, err, crossdb.ErrUnsupportedDialect)

	// A valid dialect with no registered driver fails at the registry.
	_, err = OpenConfig(r, &crossdb.Config{Dialect: dialect.Postgres, DSN: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no driver registered")
}
