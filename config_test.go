package crossdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
dialect: postgres
dsn: postgres://app:secret@db:5432/app?sslmode=disable
maxOpenConns: 20
maxIdleConns: 5
connMaxLifetime: 30m
slowQueryThreshold: 250ms
`))
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, 20, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxLifetime)
	assert.Equal(t, 250*time.Millisecond, cfg.SlowQueryThreshold)
	assert.Equal(t, "id", cfg.PrimaryKey, "primary key defaults to id")
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing dialect", `dsn: "file::memory:"`, "dialect is empty"},
		{"unknown dialect", "dialect: mongodb\ndsn: x", `"mongodb"`},
		{"missing dsn", "dialect: sqlite", "dsn is empty"},
		{"idle above open", "dialect: sqlite\ndsn: x\nmaxOpenConns: 2\nmaxIdleConns: 5", "exceeds maxOpenConns"},
		{"bad yaml", "dialect: [", "config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseConfigUnsupportedDialectSentinel(t *testing.T) {
	_, err := ParseConfig([]byte("dialect: mongodb\ndsn: x"))
	assert.ErrorIs(t, err, ErrUnsupportedDialect)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dialect: sqlite\ndsn: file:app.db\nprimaryKey: uid\n"), 0o600))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Dialect)
	assert.Equal(t, "uid", cfg.PrimaryKey)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateAllDialects(t *testing.T) {
	for _, d := range []string{"postgres", "mysql", "mariadb", "sqlite", "oracle", "sqlserver"} {
		cfg := &Config{Dialect: d, DSN: "dsn"}
		assert.NoError(t, cfg.Validate(), d)
	}
}
