// Package sql implements the dialect-aware statement layer: filter
// compilation into parameterized WHERE clauses, DDL construction from
// schema definitions, value coercion into driver-friendly forms, and the
// Database orchestrator that runs CRUD operations through a
// dialect.Driver.
//
// Statements are compiled deterministically. Map-shaped inputs (filters,
// insert and update value sets) are walked in sorted key order so the same
// logical request always produces byte-identical SQL, which keeps
// statement text usable as a cache key and keeps tests stable.
//
// Nothing in this package connects to a database by itself. A driver is
// obtained from a dialect.Registry, normally populated by blank imports of
// the driver subpackages:
//
//	import (
//		"github.com/syssam/crossdb"
//		"github.com/syssam/crossdb/dialect/sql"
//		_ "github.com/syssam/crossdb/driver/postgres"
//	)
//
//	cfg, err := crossdb.LoadConfig("db.yaml")
//	...
//	db, err := sql.OpenDefault(cfg)
package sql
