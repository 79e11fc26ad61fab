package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/crossdb/dialect"
)

func TestRegistersSQLite(t *testing.T) {
	assert.True(t, dialect.Supports(dialect.SQLite))
}
