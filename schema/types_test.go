package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeString(t *testing.T) {
	assert.Equal(t, "bigint", TypeBigInt.String())
	assert.Equal(t, "datetime", TypeDateTime.String())
	assert.Equal(t, "invalid", TypeInvalid.String())
	assert.Equal(t, "invalid", Type(99).String())
	assert.Equal(t, "invalid", Type(-1).String())
}

func TestTypeValid(t *testing.T) {
	assert.False(t, TypeInvalid.Valid())
	assert.True(t, TypeString.Valid())
	assert.True(t, TypeBinary.Valid())
	assert.False(t, Type(99).Valid())
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, TypeInt.Numeric())
	assert.True(t, TypeDecimal.Numeric())
	assert.False(t, TypeString.Numeric())
	assert.True(t, TypeBigInt.Integer())
	assert.False(t, TypeFloat.Integer())
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"varchar", TypeString},
		{"VARCHAR", TypeString},
		{"  clob ", TypeText},
		{"integer", TypeInt},
		{"number", TypeInt},
		{"int64", TypeBigInt},
		{"double", TypeFloat},
		{"numeric", TypeDecimal},
		{"boolean", TypeBool},
		{"timestamp", TypeDateTime},
		{"jsonb", TypeJSON},
		{"guid", TypeUUID},
		{"blob", TypeBinary},
		{"frobnicator", TypeInvalid},
		{"", TypeInvalid},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseType(tt.in), tt.in)
	}
}
