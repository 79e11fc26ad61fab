package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOK(t *testing.T) {
	def := NewDefinition("users",
		BigInt("id").Primary().Auto(),
		String("name").MaxLen(100).NotNull(),
		Decimal("balance").Prec(12, 2),
		BigInt("team_id").Refs("teams", "id").OnDelete(SetNull),
	)
	r := def.Validate()
	assert.False(t, r.HasErrors())
	assert.NoError(t, r.Err())
	assert.Empty(t, r.Warnings)
	assert.Equal(t, "no issues found", r.String())
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		def  *Definition
		want string
	}{
		{
			name: "empty table name",
			def:  NewDefinition("", String("name")),
			want: "table name is empty",
		},
		{
			name: "no fields",
			def:  NewDefinition("users"),
			want: "definition has no fields",
		},
		{
			name: "empty field name",
			def:  NewDefinition("users", String("")),
			want: "field name is empty",
		},
		{
			name: "auto on string",
			def:  NewDefinition("users", String("id").Primary().Auto()),
			want: "auto-increment requires an integer type",
		},
		{
			name: "auto off the key",
			def:  NewDefinition("users", Int("seq").Auto(), BigInt("id").Primary()),
			want: "auto-increment requires the primary key",
		},
		{
			name: "two auto columns",
			def: NewDefinition("users",
				BigInt("id").Primary().Auto(),
				BigInt("id2").Primary().Auto(),
			),
			want: "at most one auto-increment column",
		},
		{
			name: "scale without precision",
			def:  NewDefinition("users", Decimal("price").Prec(0, 2)),
			want: "scale 2 without precision",
		},
		{
			name: "reference missing column",
			def:  NewDefinition("users", BigInt("team_id").Refs("teams", "")),
			want: "reference must name a table and a column",
		},
		{
			name: "bad on delete action",
			def: NewDefinition("users",
				BigInt("team_id").Refs("teams", "id").OnDelete("EXPLODE"),
			),
			want: `invalid ON DELETE action "EXPLODE"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.def.Validate()
			require.True(t, r.HasErrors())
			assert.Contains(t, r.Err().Error(), tt.want)
		})
	}
}

func TestValidateWarnings(t *testing.T) {
	def := NewDefinition("users",
		Int("age").MaxLen(3),
		String("nick").NotNull().Nillable(),
	)
	r := def.Validate()
	assert.False(t, r.HasErrors())
	require.Len(t, r.Warnings, 2)
	assert.Contains(t, r.Warnings[0].Error(), "length is ignored")
	assert.Contains(t, r.Warnings[1].Error(), "nullable wins")
	assert.Contains(t, r.String(), "warning: ")
}

func TestValidationErrorString(t *testing.T) {
	e := &ValidationError{Table: "users", Column: "id", Message: "boom"}
	assert.Equal(t, "users.id: boom", e.Error())
	e = &ValidationError{Table: "users", Message: "boom"}
	assert.Equal(t, "users: boom", e.Error())
}
