package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		dialect string
		ident   string
		want    string
	}{
		{Postgres, "users", `"users"`},
		{Postgres, "public.users", `"public"."users"`},
		{Postgres, `"users"`, `"users"`},
		{Postgres, "*", "*"},
		{Postgres, "", ""},
		{MySQL, "users", "`users`"},
		{MySQL, "`users`", "`users`"},
		{MariaDB, "order", "`order`"},
		{SQLite, "users", `"users"`},
		{Oracle, "users", `"users"`},
		{SQLServer, "users", "[users]"},
		{SQLServer, "[users]", "[users]"},
		{SQLServer, "dbo.users", "[dbo].[users]"},
		// Close delimiter inside the identifier doubles.
		{SQLServer, "we]ird", "[we]]ird]"},
		{Postgres, `we"ird`, `"we""ird"`},
	}
	for _, tt := range tests {
		f := FeaturesFor(tt.dialect)
		assert.Equal(t, tt.want, f.Quote(tt.ident), "%s: %s", tt.dialect, tt.ident)
	}
}

func TestQuoteDeterministic(t *testing.T) {
	f := FeaturesFor(SQLServer)
	first := f.Quote("events")
	for i := 0; i < 100; i++ {
		require.Equal(t, first, f.Quote("events"))
	}
	// Re-quoting the quoted form does not double-wrap.
	require.Equal(t, first, f.Quote(first))
}

func TestQuoteAll(t *testing.T) {
	f := FeaturesFor(MySQL)
	assert.Equal(t, "`id`, `name`", f.QuoteAll([]string{"id", "name"}))
}

func TestPlaceholderToken(t *testing.T) {
	tests := []struct {
		dialect string
		n       int
		want    string
	}{
		{MySQL, 1, "?"},
		{MySQL, 7, "?"},
		{MariaDB, 3, "?"},
		{SQLite, 2, "?"},
		{Postgres, 1, "$1"},
		{Postgres, 12, "$12"},
		{Oracle, 4, ":4"},
		{SQLServer, 4, "@p4"},
	}
	for _, tt := range tests {
		f := FeaturesFor(tt.dialect)
		assert.Equal(t, tt.want, f.PlaceholderToken(tt.n), tt.dialect)
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "$3, $4, $5", FeaturesFor(Postgres).Placeholders(3, 3))
	assert.Equal(t, "?, ?, ?", FeaturesFor(MySQL).Placeholders(1, 3))
	assert.Equal(t, ":2, :3", FeaturesFor(Oracle).Placeholders(2, 2))
	assert.Equal(t, "", FeaturesFor(Postgres).Placeholders(1, 0))
}

func TestFeaturesForUnknown(t *testing.T) {
	f := FeaturesFor("cockroach")
	assert.Equal(t, "cockroach", f.Name)
	assert.Equal(t, `"`, f.QuoteOpen)
	assert.Equal(t, PlaceholderQuestion, f.Placeholder)
}

func TestFeaturesTable(t *testing.T) {
	for _, name := range All() {
		f := FeaturesFor(name)
		require.Equal(t, name, f.Name)
		require.NotEmpty(t, f.QuoteOpen)
		require.NotEmpty(t, f.QuoteClose)
	}
	assert.True(t, FeaturesFor(Postgres).NativeILike)
	assert.False(t, FeaturesFor(MySQL).NativeILike)
	assert.Equal(t, RegexUnsupported, FeaturesFor(SQLServer).Regex)
	assert.True(t, FeaturesFor(Oracle).TimeAsText)
	assert.True(t, FeaturesFor(SQLite).TimeAsText)
	assert.Equal(t, RetrievalReturning, FeaturesFor(SQLServer).InsertRetrieval)
	assert.Equal(t, RetrievalMaxRowID, FeaturesFor(Oracle).InsertRetrieval)
}
