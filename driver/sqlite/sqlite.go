// Package sqlite registers the SQLite dialect in the default registry,
// backed by the pure-Go modernc.org/sqlite driver.
//
//	import _ "github.com/syssam/crossdb/driver/sqlite"
package sqlite

import (
	_ "modernc.org/sqlite"

	"github.com/syssam/crossdb/dialect"
	"github.com/syssam/crossdb/dialect/sql"
)

func init() {
	dialect.Register(dialect.SQLite, func(dsn string) (dialect.Driver, error) {
		return sql.Open(dialect.SQLite, dsn)
	})
}
