package sql

import (
	"fmt"
	"strings"

	"github.com/syssam/crossdb"
	"github.com/syssam/crossdb/dialect"
	"github.com/syssam/crossdb/schema"
)

// BuildCreateTable compiles a table definition into the CREATE TABLE
// statement of the dialect, plus any auxiliary statements the dialect's
// auto-increment idiom requires. For Oracle an auto-increment column
// provisions a sequence and a before-insert trigger, so the returned slice
// carries three statements; every other dialect returns one.
//
// Column definitions follow the order: name, native type, PRIMARY KEY,
// NOT NULL, UNIQUE, DEFAULT. Foreign keys become table-level constraints.
func BuildCreateTable(f dialect.Features, def *schema.Definition) ([]string, error) {
	if res := def.Validate(); res.HasErrors() {
		return nil, crossdb.NewCompileError("invalid definition: %v", res.Err())
	}
	table := def.Table()
	cols := make([]string, 0, len(def.Fields()))
	for _, field := range def.Fields() {
		col, err := buildColumn(f, field)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	for _, fk := range def.ForeignKeys() {
		cols = append(cols, foreignKeyClause(f, fk))
	}
	stmts := []string{
		fmt.Sprintf("CREATE TABLE %s (%s)", f.Quote(table), strings.Join(cols, ", ")),
	}
	if auto, ok := autoIncrementField(def); ok && f.AutoIncrement == dialect.AutoIncrementSequence {
		stmts = append(stmts, sequenceStatements(f, table, auto.Name)...)
	}
	return stmts, nil
}

// autoIncrementField returns the auto-increment field of the definition.
func autoIncrementField(def *schema.Definition) (schema.Field, bool) {
	for _, field := range def.Fields() {
		if field.AutoIncrement {
			return field, true
		}
	}
	return schema.Field{}, false
}

// buildColumn renders one column definition.
func buildColumn(f dialect.Features, field schema.Field) (string, error) {
	var sb strings.Builder
	sb.WriteString(f.Quote(field.Name))
	sb.WriteString(" ")

	if field.AutoIncrement {
		sb.WriteString(autoIncrementColumn(f, field))
		return sb.String(), nil
	}

	sb.WriteString(ColumnType(f.Name, field))
	if field.PrimaryKey {
		sb.WriteString(" PRIMARY KEY")
	}
	if field.Required && !field.Nullable {
		sb.WriteString(" NOT NULL")
	}
	if field.Unique {
		sb.WriteString(" UNIQUE")
	}
	if field.HasDefault {
		literal, err := defaultLiteral(f, field.Default)
		if err != nil {
			return "", err
		}
		sb.WriteString(" DEFAULT ")
		sb.WriteString(literal)
	}
	return sb.String(), nil
}

// autoIncrementColumn renders the type and modifiers of a generated-id
// column. This is the most dialect-divergent feature and is special-cased
// per dialect rather than expressed as a generic flag.
func autoIncrementColumn(f dialect.Features, field schema.Field) string {
	switch f.AutoIncrement {
	case dialect.AutoIncrementSerial:
		if field.Type == schema.TypeBigInt {
			return "bigserial PRIMARY KEY"
		}
		return "serial PRIMARY KEY"
	case dialect.AutoIncrementIntegerPK:
		return "integer PRIMARY KEY AUTOINCREMENT"
	case dialect.AutoIncrementIdentity:
		return ColumnType(f.Name, field) + " IDENTITY(1,1) PRIMARY KEY"
	case dialect.AutoIncrementSequence:
		// The sequence and trigger are provisioned separately.
		return ColumnType(f.Name, field) + " PRIMARY KEY"
	default:
		return ColumnType(f.Name, field) + " PRIMARY KEY AUTO_INCREMENT"
	}
}

// sequenceStatements provisions the sequence object and the before-insert
// trigger that populates the column when null.
func sequenceStatements(f dialect.Features, table, column string) []string {
	seq := f.Quote(table + "_seq")
	trg := f.Quote(table + "_" + column + "_trg")
	return []string{
		fmt.Sprintf("CREATE SEQUENCE %s START WITH 1 INCREMENT BY 1", seq),
		fmt.Sprintf(
			"CREATE OR REPLACE TRIGGER %s BEFORE INSERT ON %s FOR EACH ROW WHEN (new.%s IS NULL) BEGIN SELECT %s.NEXTVAL INTO :new.%s FROM dual; END;",
			trg, f.Quote(table), f.Quote(column), seq, f.Quote(column),
		),
	}
}

// defaultLiteral renders a DEFAULT value into statement text. This is one
// of the few interpolated contexts, so string content passes through
// EscapeLiteral.
func defaultLiteral(f dialect.Features, v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return "'" + EscapeLiteral(v) + "'", nil
	case bool:
		if f.NativeBool {
			if v {
				return "TRUE", nil
			}
			return "FALSE", nil
		}
		if v {
			return "1", nil
		}
		return "0", nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), nil
	case float32, float64:
		return fmt.Sprintf("%v", v), nil
	}
	return "", crossdb.NewCompileError("unsupported default value %T", v)
}

// BuildAddColumn compiles an ALTER TABLE .. ADD statement for one column.
func BuildAddColumn(f dialect.Features, table string, field schema.Field) (string, error) {
	if field.AutoIncrement {
		return "", crossdb.NewCompileError("cannot add an auto-increment column to an existing table")
	}
	col, err := buildColumn(f, field)
	if err != nil {
		return "", err
	}
	keyword := "ADD COLUMN"
	if f.Name == dialect.Oracle || f.Name == dialect.SQLServer {
		keyword = "ADD"
	}
	stmt := fmt.Sprintf("ALTER TABLE %s %s %s", f.Quote(table), keyword, col)
	if field.References != nil {
		stmt += " " + foreignKeyActions(*field.References, referenceClause(f, *field.References))
	}
	return stmt, nil
}

// BuildDropTable compiles a DROP TABLE statement. IF EXISTS is emitted on
// dialects that accept it.
func BuildDropTable(f dialect.Features, table string, ifExists bool) string {
	if ifExists && f.Name != dialect.Oracle {
		return fmt.Sprintf("DROP TABLE IF EXISTS %s", f.Quote(table))
	}
	return fmt.Sprintf("DROP TABLE %s", f.Quote(table))
}

// BuildCreateIndex compiles a CREATE [UNIQUE] INDEX statement.
func BuildCreateIndex(f dialect.Features, table, name string, unique bool, columns ...string) string {
	kind := "INDEX"
	if unique {
		kind = "UNIQUE INDEX"
	}
	return fmt.Sprintf("CREATE %s %s ON %s (%s)", kind, f.Quote(name), f.Quote(table), f.QuoteAll(columns))
}

// BuildForeignKey compiles an ALTER TABLE .. ADD CONSTRAINT statement for
// a field carrying a reference.
func BuildForeignKey(f dialect.Features, table string, field schema.Field) (string, error) {
	if field.References == nil {
		return "", crossdb.NewCompileError("field %s has no reference", field.Name)
	}
	name := fmt.Sprintf("fk_%s_%s", table, field.Name)
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s %s",
		f.Quote(table), f.Quote(name), foreignKeyClause(f, field)), nil
}

// foreignKeyClause renders the table-level FOREIGN KEY constraint of a
// field.
func foreignKeyClause(f dialect.Features, field schema.Field) string {
	ref := *field.References
	clause := fmt.Sprintf("FOREIGN KEY (%s) %s", f.Quote(field.Name), referenceClause(f, ref))
	return foreignKeyActions(ref, clause)
}

func referenceClause(f dialect.Features, ref schema.Reference) string {
	return fmt.Sprintf("REFERENCES %s (%s)", f.Quote(ref.Table), f.Quote(ref.Column))
}

// foreignKeyActions appends the ON DELETE / ON UPDATE actions. Omission
// keeps the engine default.
func foreignKeyActions(ref schema.Reference, clause string) string {
	if ref.OnDelete != "" {
		clause += " ON DELETE " + string(ref.OnDelete)
	}
	if ref.OnUpdate != "" {
		clause += " ON UPDATE " + string(ref.OnUpdate)
	}
	return clause
}
