// Package postgres registers the PostgreSQL dialect in the default
// registry. Importing it for side effects is enough:
//
//	import _ "github.com/syssam/crossdb/driver/postgres"
package postgres

import (
	_ "github.com/lib/pq"

	"github.com/syssam/crossdb/dialect"
	"github.com/syssam/crossdb/dialect/sql"
)

func init() {
	dialect.Register(dialect.Postgres, func(dsn string) (dialect.Driver, error) {
		return sql.Open(dialect.Postgres, dsn)
	})
}
