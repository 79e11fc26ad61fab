package dialect

import (
	"context"
)

// Supported dialect identifiers.
//
// Each constant names one concrete backing engine. The identifier selects
// the quoting, placeholder, type-mapping and insert-retrieval rules applied
// by the dialect/sql package.
const (
	// Postgres is the PostgreSQL dialect.
	Postgres = "postgres"
	// MySQL is the MySQL dialect.
	MySQL = "mysql"
	// MariaDB is the MariaDB dialect. It shares the MySQL wire driver but
	// is tracked separately because its capabilities diverge over time.
	MariaDB = "mariadb"
	// SQLite is the SQLite dialect.
	SQLite = "sqlite"
	// Oracle is the Oracle Database dialect.
	Oracle = "oracle"
	// SQLServer is the Microsoft SQL Server dialect.
	SQLServer = "sqlserver"
)

// All returns the identifiers of every dialect known to this package,
// in a stable order.
func All() []string {
	return []string{Postgres, MySQL, MariaDB, SQLite, Oracle, SQLServer}
}

// Valid reports whether name is a known dialect identifier.
func Valid(name string) bool {
	switch name {
	case Postgres, MySQL, MariaDB, SQLite, Oracle, SQLServer:
		return true
	}
	return false
}

// ExecQuerier wraps the two database operations the core layer needs from
// a driver: executing a statement and querying rows. Both take the compiled
// statement text and the ordered parameter list as an []any.
type ExecQuerier interface {
	// Exec executes a query that does not return rows. The v argument may be
	// nil, or a *sql.Result to receive the driver result.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a query that returns rows. The v argument must be a
	// *sql.Rows-compatible destination provided by the driver package.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the contract between the dialect-independent core and a live
// database connection. The core never inspects the connection itself; it
// issues compiled statements and reads back rows, affected counts and
// generated ids.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction handle.
	Tx(ctx context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect identifier of the driver.
	Dialect() string
}

// Tx is a transaction handle. Exactly one of Commit or Rollback may
// succeed; calling either after the transaction finished returns an error.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}

// Pinger is implemented by drivers that can probe connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
