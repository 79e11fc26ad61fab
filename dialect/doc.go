// Package dialect provides database dialect abstraction for crossdb.
//
// It defines the dialect identifiers, the per-dialect feature table, and the
// interfaces that connect the dialect-independent compilation core to a live
// database driver.
//
// # Supported Dialects
//
// Each dialect is identified by a constant string:
//
//	dialect.Postgres  = "postgres"
//	dialect.MySQL     = "mysql"
//	dialect.MariaDB   = "mariadb"
//	dialect.SQLite    = "sqlite"
//	dialect.Oracle    = "oracle"
//	dialect.SQLServer = "sqlserver"
//
// # Feature Table
//
// FeaturesFor returns the strategy record of a dialect: identifier quoting,
// parameter placeholder syntax, insert-result retrieval, auto-increment
// idiom, and capability flags. The record is selected once per adapter
// instance:
//
//	f := dialect.FeaturesFor(dialect.Postgres)
//	f.Quote("users")          // "users"
//	f.PlaceholderToken(2)     // $2
//
// # Driver Interface
//
// The Driver interface is the only seam to a live connection:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// # Registration
//
// Which dialects are available is decided by the hosting application, not by
// probing the environment. Importing a driver subpackage registers its
// dialect in the default registry:
//
//	import (
//	    "github.com/syssam/crossdb/dialect"
//	    _ "github.com/syssam/crossdb/driver/postgres"
//	)
//
//	drv, err := dialect.Open(dialect.Postgres, "postgres://...")
//
// Applications that want full control construct their own Registry and pass
// it to whatever builds adapters.
package dialect
