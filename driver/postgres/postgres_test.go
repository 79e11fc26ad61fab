package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/crossdb/dialect"
)

func TestRegistersPostgres(t *testing.T) {
	assert.True(t, dialect.Supports(dialect.Postgres))
}
