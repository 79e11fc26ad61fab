package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/syssam/crossdb"
	"github.com/syssam/crossdb/dialect"
)

// Driver is a dialect.Driver implementation over database/sql. It owns the
// live pool; the compilation core treats it as opaque and only issues
// compiled statements through Exec and Query.
type Driver struct {
	Conn
	dialect string
	closed  atomic.Bool
}

// NewDriver creates a new Driver with the given Conn and dialect.
func NewDriver(dialect string, c Conn) *Driver {
	return &Driver{dialect: dialect, Conn: c}
}

// Open opens a database/sql pool for the dialect and wraps it in a Driver.
// The registered database/sql driver name is derived from the dialect
// (MariaDB shares the mysql driver).
func Open(name, dsn string) (*Driver, error) {
	db, err := sql.Open(driverName(name), dsn)
	if err != nil {
		return nil, err
	}
	return NewDriver(name, Conn{db}), nil
}

// OpenDB wraps an existing database/sql pool with a Driver.
func OpenDB(name string, db *sql.DB) *Driver {
	return NewDriver(name, Conn{db})
}

// driverName maps a dialect identifier to the database/sql driver name it
// is served by.
func driverName(name string) string {
	if name == dialect.MariaDB {
		return "mysql"
	}
	return name
}

// DB returns the underlying *sql.DB instance.
func (d *Driver) DB() *sql.DB {
	return d.ExecQuerier.(*sql.DB)
}

// Dialect implements the dialect.Driver method. Suffixed names used by
// instrumentation wrappers (e.g. "postgres+trace") resolve to their base
// dialect.
func (d *Driver) Dialect() string {
	for _, name := range dialect.All() {
		if strings.HasPrefix(d.dialect, name) {
			return name
		}
	}
	return d.dialect
}

// Tx starts and returns a transaction.
func (d *Driver) Tx(ctx context.Context) (dialect.Tx, error) {
	return d.BeginTx(ctx, nil)
}

// BeginTx starts a transaction with options.
func (d *Driver) BeginTx(ctx context.Context, opts *TxOptions) (dialect.Tx, error) {
	if d.closed.Load() {
		return nil, crossdb.ErrNotConnected
	}
	tx, err := d.DB().BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{Conn: Conn{tx}, tx: tx}, nil
}

// Ping probes connectivity. It implements dialect.Pinger.
func (d *Driver) Ping(ctx context.Context) error {
	if d.closed.Load() {
		return crossdb.ErrNotConnected
	}
	return d.DB().PingContext(ctx)
}

// Close closes the underlying pool. Further operations fail with a
// not-connected condition.
func (d *Driver) Close() error {
	d.closed.Store(true)
	return d.DB().Close()
}

// Tx is a transaction handle. Exactly one of Commit or Rollback may
// succeed; finishing an already-finished transaction returns
// crossdb.ErrTxDone instead of silently succeeding.
type Tx struct {
	Conn
	tx   *sql.Tx
	done atomic.Bool
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	if !t.done.CompareAndSwap(false, true) {
		return crossdb.ErrTxDone
	}
	return t.tx.Commit()
}

// Rollback rolls the transaction back.
func (t *Tx) Rollback() error {
	if !t.done.CompareAndSwap(false, true) {
		return crossdb.ErrTxDone
	}
	return t.tx.Rollback()
}

// IsActive reports whether the transaction can still commit or roll back.
func (t *Tx) IsActive() bool { return !t.done.Load() }

// ExecQuerier wraps the standard Exec and Query methods.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Conn implements dialect.ExecQuerier given an ExecQuerier.
type Conn struct {
	ExecQuerier
}

// Exec implements the dialect.ExecQuerier method.
func (c Conn) Exec(ctx context.Context, query string, args, v any) error {
	argv, ok := args.([]any)
	if !ok {
		return fmt.Errorf("dialect/sql: invalid type %T. expect []any for args", args)
	}
	switch v := v.(type) {
	case nil:
		if _, err := c.ExecContext(ctx, query, argv...); err != nil {
			return err
		}
	case *sql.Result:
		res, err := c.ExecContext(ctx, query, argv...)
		if err != nil {
			return err
		}
		*v = res
	default:
		return fmt.Errorf("dialect/sql: invalid type %T. expect *sql.Result", v)
	}
	return nil
}

// Query implements the dialect.ExecQuerier method.
func (c Conn) Query(ctx context.Context, query string, args, v any) error {
	vr, ok := v.(*Rows)
	if !ok {
		return fmt.Errorf("dialect/sql: invalid type %T. expect *sql.Rows", v)
	}
	argv, ok := args.([]any)
	if !ok {
		return fmt.Errorf("dialect/sql: invalid type %T. expect []any for args", args)
	}
	rows, err := c.QueryContext(ctx, query, argv...)
	if err != nil {
		return err
	}
	*vr = Rows{rows}
	return nil
}

var _ dialect.Driver = (*Driver)(nil)

type (
	// Rows wraps the sql.Rows to avoid locks copy.
	Rows struct{ ColumnScanner }
	// Result is an alias to sql.Result.
	Result = sql.Result
	// NullBool is an alias to sql.NullBool.
	NullBool = sql.NullBool
	// NullInt64 is an alias to sql.NullInt64.
	NullInt64 = sql.NullInt64
	// NullString is an alias to sql.NullString.
	NullString = sql.NullString
	// NullFloat64 is an alias to sql.NullFloat64.
	NullFloat64 = sql.NullFloat64
	// NullTime represents a time.Time that may be null.
	NullTime = sql.NullTime
	// TxOptions holds the transaction options to be used in DB.BeginTx.
	TxOptions = sql.TxOptions
)

// ColumnScanner is the interface that wraps the standard sql.Rows methods
// used for scanning database rows.
type ColumnScanner interface {
	Close() error
	ColumnTypes() ([]*sql.ColumnType, error)
	Columns() ([]string, error)
	Err() error
	Next() bool
	NextResultSet() bool
	Scan(dest ...any) error
}
