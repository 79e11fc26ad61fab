// Package sqlserver registers the SQL Server dialect in the default
// registry, backed by the microsoft/go-mssqldb driver.
//
//	import _ "github.com/syssam/crossdb/driver/sqlserver"
package sqlserver

import (
	_ "github.com/microsoft/go-mssqldb"

	"github.com/syssam/crossdb/dialect"
	"github.com/syssam/crossdb/dialect/sql"
)

func init() {
	dialect.Register(dialect.SQLServer, func(dsn string) (dialect.Driver, error) {
		return sql.Open(dialect.SQLServer, dsn)
	})
}
