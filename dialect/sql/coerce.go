package sql

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/syssam/crossdb/dialect"
)

// Coerce normalizes an application-level value into the representation the
// dialect's driver expects. It is applied to every written column value and
// every bound filter parameter:
//
//   - nil stays nil
//   - temporal values become ISO-8601 text on engines that bind time as
//     text; elsewhere the driver's own conversion is kept
//   - booleans stay native where the engine has a boolean type, else 1/0
//   - uuid values become their canonical string form
//   - structured (non-binary) maps, slices and structs become canonical
//     JSON text
//   - binary payloads pass through untouched
//
// Coerce never escapes string content: parameterized values are bound by
// the driver, and escaping them here would double-escape. EscapeLiteral
// exists for the few interpolated contexts (DDL defaults) only.
func Coerce(f dialect.Features, v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case time.Time:
		if f.TimeAsText {
			return v.UTC().Format(time.RFC3339Nano)
		}
		return v
	case *time.Time:
		if v == nil {
			return nil
		}
		return Coerce(f, *v)
	case bool:
		if f.NativeBool {
			return v
		}
		if v {
			return 1
		}
		return 0
	case uuid.UUID:
		return v.String()
	case []byte:
		return v
	case string, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return v
	case json.RawMessage:
		return string(v)
	}
	// Structured values (maps, slices, structs) travel as canonical JSON
	// text. Anything else is handed to the driver as-is.
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
		return v
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		return Coerce(f, rv.Elem().Interface())
	}
	return v
}

// CoerceAll coerces a parameter list in place-order and returns it.
func CoerceAll(f dialect.Features, args []any) []any {
	out := make([]any, len(args))
	for i, v := range args {
		out[i] = Coerce(f, v)
	}
	return out
}

// EscapeLiteral doubles embedded single quotes for string values that are
// interpolated into statement text, such as DDL defaults. It must not be
// applied to parameterized values.
func EscapeLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return s
	}
	return strings.ReplaceAll(s, "'", "''")
}
