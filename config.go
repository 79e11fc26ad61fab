package crossdb

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes one database connection. It is typically loaded from a
// YAML document:
//
//	dialect: postgres
//	dsn: postgres://app:secret@db:5432/app?sslmode=disable
//	maxOpenConns: 20
//	maxIdleConns: 5
//	connMaxLifetime: 30m
//	primaryKey: id
//	slowQueryThreshold: 250ms
type Config struct {
	// Dialect is the dialect identifier (postgres, mysql, mariadb, sqlite,
	// oracle, sqlserver).
	Dialect string `yaml:"dialect"`
	// DSN is the driver data source name, passed through untouched.
	DSN string `yaml:"dsn"`
	// MaxOpenConns and MaxIdleConns tune the pool. Zero keeps the driver
	// default.
	MaxOpenConns int `yaml:"maxOpenConns"`
	MaxIdleConns int `yaml:"maxIdleConns"`
	// ConnMaxLifetime bounds connection reuse. Zero keeps connections
	// forever.
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
	// PrimaryKey is the column used for insert-result re-query on dialects
	// without a returning clause. Defaults to "id".
	PrimaryKey string `yaml:"primaryKey"`
	// SlowQueryThreshold enables slow-query logging when positive.
	SlowQueryThreshold time.Duration `yaml:"slowQueryThreshold"`
}

// known dialect names; kept here instead of importing dialect to keep the
// root package dependency-free within the module.
var knownDialects = map[string]bool{
	"postgres":  true,
	"mysql":     true,
	"mariadb":   true,
	"sqlite":    true,
	"oracle":    true,
	"sqlserver": true,
}

// Validate checks the config for missing or unknown values.
func (c *Config) Validate() error {
	if c.Dialect == "" {
		return fmt.Errorf("%w: dialect is empty", ErrUnsupportedDialect)
	}
	if !knownDialects[c.Dialect] {
		return fmt.Errorf("%w: %q", ErrUnsupportedDialect, c.Dialect)
	}
	if c.DSN == "" {
		return fmt.Errorf("crossdb: config: dsn is empty")
	}
	if c.MaxIdleConns > c.MaxOpenConns && c.MaxOpenConns > 0 {
		return fmt.Errorf("crossdb: config: maxIdleConns %d exceeds maxOpenConns %d", c.MaxIdleConns, c.MaxOpenConns)
	}
	return nil
}

// ParseConfig parses a YAML config document and validates it.
func ParseConfig(data []byte) (*Config, error) {
	c := &Config{PrimaryKey: "id"}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("crossdb: config: %w", err)
	}
	if c.PrimaryKey == "" {
		c.PrimaryKey = "id"
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("crossdb: config: %w", err)
	}
	return ParseConfig(data)
}
