package sql

import (
	"database/sql"

	"github.com/syssam/crossdb"
	"github.com/syssam/crossdb/dialect"
)

// OpenConfig opens a database from a validated configuration using the
// registry's driver openers. Pool limits are applied when the opened driver
// exposes its *sql.DB, and a positive slow-query threshold wraps the driver
// in a StatsDriver with slow-statement logging.
func OpenConfig(r *dialect.Registry, cfg *crossdb.Config, opts ...DatabaseOption) (*Database, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	drv, err := r.Open(cfg.Dialect, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if pooled, ok := drv.(interface{ DB() *sql.DB }); ok {
		db := pooled.DB()
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}
	if cfg.SlowQueryThreshold > 0 {
		drv = NewStatsDriver(drv, WithSlowThreshold(cfg.SlowQueryThreshold), WithSlowLog())
	}
	if cfg.PrimaryKey != "" {
		opts = append([]DatabaseOption{WithPrimaryKey(cfg.PrimaryKey)}, opts...)
	}
	return NewDatabase(drv, opts...), nil
}

// OpenDefault is OpenConfig against the default registry.
func OpenDefault(cfg *crossdb.Config, opts ...DatabaseOption) (*Database, error) {
	return OpenConfig(dialect.DefaultRegistry(), cfg, opts...)
}
