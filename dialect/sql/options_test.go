package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crossdb/dialect"
)

func TestBuildSelectBare(t *testing.T) {
	stmt, args, err := BuildSelect(dialect.FeaturesFor(dialect.Postgres), "users", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users"`, stmt)
	assert.Empty(t, args)
}

func TestBuildSelectFilter(t *testing.T) {
	stmt, args, err := BuildSelect(dialect.FeaturesFor(dialect.Postgres), "users",
		Filter{"active": true}, nil)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "active" = $1`, stmt)
	assert.Equal(t, []any{true}, args)
}

func TestBuildSelectProjection(t *testing.T) {
	stmt, _, err := BuildSelect(dialect.FeaturesFor(dialect.MySQL), "users", nil, &Options{
		Select:   []string{"id", "name"},
		Distinct: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT DISTINCT `id`, `name` FROM `users`", stmt)
}

func TestBuildSelectOrderAndPaging(t *testing.T) {
	stmt, _, err := BuildSelect(dialect.FeaturesFor(dialect.Postgres), "users", nil, &Options{
		OrderBy: []Order{Asc("name"), Desc("created_at")},
		Limit:   10,
		Offset:  20,
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" ORDER BY "name", "created_at" DESC LIMIT 10 OFFSET 20`, stmt)
}

func TestBuildSelectOffsetFetch(t *testing.T) {
	stmt, _, err := BuildSelect(dialect.FeaturesFor(dialect.SQLServer), "users", nil, &Options{
		OrderBy: []Order{Asc("name")},
		Limit:   10,
		Offset:  20,
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM [users] ORDER BY [name] OFFSET 20 ROWS FETCH NEXT 10 ROWS ONLY", stmt)

	// OFFSET .. FETCH needs an ORDER BY; a constant one is synthesized.
	stmt, _, err = BuildSelect(dialect.FeaturesFor(dialect.Oracle), "users", nil, &Options{
		Limit: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" ORDER BY (SELECT NULL) OFFSET 0 ROWS FETCH NEXT 5 ROWS ONLY`, stmt)
}

func TestBuildSelectGroupHaving(t *testing.T) {
	stmt, args, err := BuildSelect(dialect.FeaturesFor(dialect.Postgres), "orders",
		Filter{"status": "paid"}, &Options{
			Select:  []string{"customer_id"},
			GroupBy: []string{"customer_id"},
			Having:  Filter{"customer_id": map[string]any{"$gt": 100}},
		})
	require.NoError(t, err)
	assert.Equal(t, `SELECT "customer_id" FROM "orders" WHERE "status" = $1 GROUP BY "customer_id" HAVING "customer_id" > $2`, stmt)
	assert.Equal(t, []any{"paid", 100}, args)
}

func TestBuildSelectHavingWithoutGroupBy(t *testing.T) {
	stmt, args, err := BuildSelect(dialect.FeaturesFor(dialect.Postgres), "orders",
		nil, &Options{
			Having: Filter{"total": map[string]any{"$gt": 100}},
		})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "orders" HAVING "total" > $1`, stmt)
	assert.Equal(t, []any{100}, args)
}

func TestBuildSelectFilterError(t *testing.T) {
	_, _, err := BuildSelect(dialect.FeaturesFor(dialect.Postgres), "users",
		Filter{"a": map[string]any{"$frob": 1}}, nil)
	assert.Error(t, err)
}
