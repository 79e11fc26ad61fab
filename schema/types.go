package schema

import "strings"

// Type is the abstract storage type of a field. It names the logical
// contract of a column; the dialect/sql package maps it to the native
// column type of each engine.
type Type int

const (
	// TypeInvalid is the zero value and any unrecognized free-form type.
	// It maps to each dialect's flexible text type instead of failing.
	TypeInvalid Type = iota
	// TypeString is a length-bounded character string.
	TypeString
	// TypeText is an unbounded character string (CLOB/TEXT equivalent).
	TypeText
	// TypeInt is a 32-bit integer.
	TypeInt
	// TypeBigInt is a 64-bit integer.
	TypeBigInt
	// TypeFloat is a double-precision floating point number.
	TypeFloat
	// TypeDecimal is a fixed-point number with precision and scale.
	TypeDecimal
	// TypeBool is a boolean. Engines without a native boolean store a
	// narrow integer.
	TypeBool
	// TypeDate is a calendar date without time of day.
	TypeDate
	// TypeDateTime is a date with time of day.
	TypeDateTime
	// TypeJSON is a structured document, stored natively where supported.
	TypeJSON
	// TypeUUID is a universally unique identifier.
	TypeUUID
	// TypeBinary is an opaque byte payload.
	TypeBinary
)

var typeNames = [...]string{
	TypeInvalid:  "invalid",
	TypeString:   "string",
	TypeText:     "text",
	TypeInt:      "int",
	TypeBigInt:   "bigint",
	TypeFloat:    "float",
	TypeDecimal:  "decimal",
	TypeBool:     "bool",
	TypeDate:     "date",
	TypeDateTime: "datetime",
	TypeJSON:     "json",
	TypeUUID:     "uuid",
	TypeBinary:   "binary",
}

// String returns the lower-case name of the type.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return typeNames[TypeInvalid]
	}
	return typeNames[t]
}

// Valid reports whether t is one of the supported abstract types.
func (t Type) Valid() bool {
	return t > TypeInvalid && int(t) < len(typeNames)
}

// Numeric reports whether t holds numbers. Precision and scale apply only
// to numeric types.
func (t Type) Numeric() bool {
	switch t {
	case TypeInt, TypeBigInt, TypeFloat, TypeDecimal:
		return true
	}
	return false
}

// Integer reports whether t is an integer type. Auto-increment is limited
// to integer columns.
func (t Type) Integer() bool {
	return t == TypeInt || t == TypeBigInt
}

// ParseType resolves a free-form type string to an abstract Type. Common
// aliases used by schema authors are accepted. Unknown strings resolve to
// TypeInvalid, which the type mapper turns into the dialect's flexible
// text type.
func ParseType(s string) Type {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string", "varchar", "char":
		return TypeString
	case "text", "clob", "longtext":
		return TypeText
	case "int", "integer", "number":
		return TypeInt
	case "bigint", "int64", "long":
		return TypeBigInt
	case "float", "double", "real":
		return TypeFloat
	case "decimal", "numeric":
		return TypeDecimal
	case "bool", "boolean":
		return TypeBool
	case "date":
		return TypeDate
	case "datetime", "timestamp", "time":
		return TypeDateTime
	case "json", "jsonb":
		return TypeJSON
	case "uuid", "guid":
		return TypeUUID
	case "binary", "blob", "bytes":
		return TypeBinary
	}
	return TypeInvalid
}
