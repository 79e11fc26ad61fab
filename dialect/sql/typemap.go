package sql

import (
	"fmt"

	"github.com/syssam/crossdb/dialect"
	"github.com/syssam/crossdb/schema"
)

// ColumnType maps a field's abstract type to the native column type of the
// dialect. It is pure and total: unknown abstract types fall back to the
// dialect's flexible text type instead of failing, since schema authors may
// use free-form type strings.
//
// When both precision and scale are declared they take priority over a
// plain length-based variant: any numeric field with a precision always
// yields a fixed-point type.
func ColumnType(d string, f schema.Field) string {
	if f.Precision > 0 && (f.Type.Numeric() || f.Type == schema.TypeInvalid) {
		return fixedPointType(d, f.Precision, f.Scale)
	}
	switch f.Type {
	case schema.TypeString:
		return stringType(d, f.Length)
	case schema.TypeText:
		return textType(d)
	case schema.TypeInt:
		switch d {
		case dialect.Oracle:
			return "number(10)"
		case dialect.MySQL, dialect.MariaDB:
			return "int"
		default:
			return "integer"
		}
	case schema.TypeBigInt:
		switch d {
		case dialect.Oracle:
			return "number(19)"
		case dialect.SQLite:
			return "integer"
		default:
			return "bigint"
		}
	case schema.TypeFloat:
		switch d {
		case dialect.Postgres:
			return "double precision"
		case dialect.MySQL, dialect.MariaDB:
			return "double"
		case dialect.Oracle:
			return "binary_double"
		case dialect.SQLServer:
			return "float"
		default:
			return "real"
		}
	case schema.TypeDecimal:
		p, s := f.Precision, f.Scale
		if p == 0 {
			p, s = 10, 0
		}
		return fixedPointType(d, p, s)
	case schema.TypeBool:
		switch d {
		case dialect.Postgres:
			return "boolean"
		case dialect.MySQL, dialect.MariaDB:
			return "tinyint(1)"
		case dialect.Oracle:
			return "number(1)"
		case dialect.SQLServer:
			return "bit"
		default:
			return "integer"
		}
	case schema.TypeDate:
		return "date"
	case schema.TypeDateTime:
		switch d {
		case dialect.Postgres, dialect.Oracle:
			return "timestamp"
		case dialect.SQLServer:
			return "datetime2"
		default:
			return "datetime"
		}
	case schema.TypeJSON:
		switch d {
		case dialect.Postgres:
			return "jsonb"
		case dialect.MySQL, dialect.MariaDB:
			return "json"
		case dialect.Oracle:
			return "clob"
		case dialect.SQLServer:
			return "nvarchar(max)"
		default:
			return "text"
		}
	case schema.TypeUUID:
		switch d {
		case dialect.Postgres:
			return "uuid"
		case dialect.Oracle:
			return "varchar2(36)"
		case dialect.SQLServer:
			return "uniqueidentifier"
		default:
			return "char(36)"
		}
	case schema.TypeBinary:
		switch d {
		case dialect.Postgres:
			return "bytea"
		case dialect.MySQL, dialect.MariaDB:
			if f.Length > 0 {
				return fmt.Sprintf("varbinary(%d)", f.Length)
			}
			return "blob"
		case dialect.SQLServer:
			if f.Length > 0 {
				return fmt.Sprintf("varbinary(%d)", f.Length)
			}
			return "varbinary(max)"
		default:
			return "blob"
		}
	}
	return textType(d)
}

func stringType(d string, length int) string {
	if length <= 0 {
		length = 255
	}
	switch d {
	case dialect.Oracle:
		return fmt.Sprintf("varchar2(%d)", length)
	case dialect.SQLServer:
		return fmt.Sprintf("nvarchar(%d)", length)
	default:
		return fmt.Sprintf("varchar(%d)", length)
	}
}

// textType is the flexible large-character type, also used as the fallback
// for unknown abstract types.
func textType(d string) string {
	switch d {
	case dialect.Oracle:
		return "clob"
	case dialect.SQLServer:
		return "nvarchar(max)"
	default:
		return "text"
	}
}

func fixedPointType(d string, precision, scale int) string {
	switch d {
	case dialect.Oracle:
		return fmt.Sprintf("number(%d,%d)", precision, scale)
	case dialect.MySQL, dialect.MariaDB, dialect.SQLServer:
		return fmt.Sprintf("decimal(%d,%d)", precision, scale)
	default:
		return fmt.Sprintf("numeric(%d,%d)", precision, scale)
	}
}
