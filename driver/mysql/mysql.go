// Package mysql registers the MySQL and MariaDB dialects in the default
// registry. Both ride on the same database/sql driver; they differ only in
// the feature set selected at statement-compilation time.
//
//	import _ "github.com/syssam/crossdb/driver/mysql"
package mysql

import (
	_ "github.com/go-sql-driver/mysql"

	"github.com/syssam/crossdb/dialect"
	"github.com/syssam/crossdb/dialect/sql"
)

func init() {
	for _, name := range []string{dialect.MySQL, dialect.MariaDB} {
		name := name
		dialect.Register(name, func(dsn string) (dialect.Driver, error) {
			return sql.Open(name, dsn)
		})
	}
}
