package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDriver struct {
	Driver
	name string
}

func (d fakeDriver) Dialect() string { return d.name }

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Supports(SQLite))
	assert.Empty(t, r.Dialects())

	r.Register(SQLite, func(dsn string) (Driver, error) {
		return fakeDriver{name: SQLite}, nil
	})
	r.Register(Postgres, func(dsn string) (Driver, error) {
		return fakeDriver{name: Postgres}, nil
	})
	assert.True(t, r.Supports(SQLite))
	assert.Equal(t, []string{Postgres, SQLite}, r.Dialects())

	drv, err := r.Open(SQLite, "file::memory:")
	require.NoError(t, err)
	assert.Equal(t, SQLite, drv.Dialect())
}

func TestRegistryOpenUnregistered(t *testing.T) {
	r := NewRegistry()
	_, err := r.Open(Oracle, "oracle://x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no driver registered")
	assert.Contains(t, err.Error(), Oracle)
}

func TestRegistryReplace(t *testing.T) {
	r := NewRegistry()
	r.Register(MySQL, func(dsn string) (Driver, error) {
		return fakeDriver{name: "first"}, nil
	})
	r.Register(MySQL, func(dsn string) (Driver, error) {
		return fakeDriver{name: "second"}, nil
	})
	drv, err := r.Open(MySQL, "dsn")
	require.NoError(t, err)
	assert.Equal(t, "second", drv.Dialect())
	assert.Len(t, r.Dialects(), 1)
}

func TestValid(t *testing.T) {
	for _, name := range All() {
		assert.True(t, Valid(name), name)
	}
	assert.False(t, Valid("mongodb"))
	assert.False(t, Valid(""))
}
