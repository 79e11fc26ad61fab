// Package schema defines the table and field descriptors consumed by the
// crossdb DDL builder and CRUD orchestrator.
//
// A Definition is an ordered set of fields describing one table. Fields are
// built with fluent value methods:
//
//	def := schema.NewDefinition("users",
//	    schema.BigInt("id").Primary().Auto(),
//	    schema.String("name").MaxLen(100).NotNull(),
//	    schema.String("email").UniqueIndex(),
//	    schema.Bool("active").WithDefault(true),
//	)
//
// Definitions are caller-constructed, read-only inputs: the core consumes
// them once per DDL operation and never mutates them.
package schema

// ReferenceAction is a foreign-key ON DELETE / ON UPDATE action. The empty
// value omits the clause and lets the engine default apply.
type ReferenceAction string

const (
	Cascade  ReferenceAction = "CASCADE"
	SetNull  ReferenceAction = "SET NULL"
	Restrict ReferenceAction = "RESTRICT"
	NoAction ReferenceAction = "NO ACTION"
)

// Valid reports whether a is one of the enumerated actions or empty.
func (a ReferenceAction) Valid() bool {
	switch a {
	case "", Cascade, SetNull, Restrict, NoAction:
		return true
	}
	return false
}

// Reference is a foreign-key target.
type Reference struct {
	// Table and Column name the referenced column.
	Table  string
	Column string
	// OnDelete and OnUpdate carry the referential actions. Empty means the
	// engine default.
	OnDelete ReferenceAction
	OnUpdate ReferenceAction
}

// Field describes one column's logical and physical contract. It is
// immutable once a table is created except via alter operations.
type Field struct {
	// Name is the column name.
	Name string
	// Type is the abstract field type.
	Type Type
	// Length bounds character and binary types. Zero means the dialect
	// default.
	Length int
	// Precision and Scale describe fixed-point numerics. When Precision is
	// set it takes priority over a plain length-based variant, even for a
	// generic integer type.
	Precision int
	Scale     int
	// Required marks the column NOT NULL.
	Required bool
	// Nullable explicitly allows NULL, overriding Required.
	Nullable bool
	// Unique adds a UNIQUE constraint.
	Unique bool
	// PrimaryKey marks the column as (part of) the primary key.
	PrimaryKey bool
	// AutoIncrement asks for the dialect's generated-id idiom. Only valid
	// on integer primary keys.
	AutoIncrement bool
	// Default is the column default. Strings are escaped before being
	// interpolated into DDL text.
	Default any
	// HasDefault distinguishes an explicit nil/zero default from no default.
	HasDefault bool
	// References is the optional foreign-key target.
	References *Reference
}

// Fluent field constructors, one per abstract type.

func String(name string) Field   { return Field{Name: name, Type: TypeString} }
func Text(name string) Field     { return Field{Name: name, Type: TypeText} }
func Int(name string) Field      { return Field{Name: name, Type: TypeInt} }
func BigInt(name string) Field   { return Field{Name: name, Type: TypeBigInt} }
func Float(name string) Field    { return Field{Name: name, Type: TypeFloat} }
func Decimal(name string) Field  { return Field{Name: name, Type: TypeDecimal} }
func Bool(name string) Field     { return Field{Name: name, Type: TypeBool} }
func Date(name string) Field     { return Field{Name: name, Type: TypeDate} }
func DateTime(name string) Field { return Field{Name: name, Type: TypeDateTime} }
func JSON(name string) Field     { return Field{Name: name, Type: TypeJSON} }
func UUID(name string) Field     { return Field{Name: name, Type: TypeUUID} }
func Binary(name string) Field   { return Field{Name: name, Type: TypeBinary} }

// Custom builds a field from a free-form type string. Unrecognized strings
// map to the dialect's flexible text type at DDL time.
func Custom(name, typ string) Field { return Field{Name: name, Type: ParseType(typ)} }

// MaxLen sets the length bound of character or binary types.
func (f Field) MaxLen(n int) Field { f.Length = n; return f }

// Prec sets precision and scale. On numeric types it always yields a
// fixed-point native type, regardless of the abstract type requested.
func (f Field) Prec(precision, scale int) Field {
	f.Precision, f.Scale = precision, scale
	return f
}

// NotNull marks the column NOT NULL.
func (f Field) NotNull() Field { f.Required = true; return f }

// Nillable allows NULL explicitly.
func (f Field) Nillable() Field { f.Nullable = true; return f }

// UniqueIndex adds a UNIQUE constraint.
func (f Field) UniqueIndex() Field { f.Unique = true; return f }

// Primary marks the column as primary key.
func (f Field) Primary() Field { f.PrimaryKey = true; return f }

// Auto asks for the dialect's auto-increment idiom.
func (f Field) Auto() Field { f.AutoIncrement = true; return f }

// WithDefault sets the column default.
func (f Field) WithDefault(v any) Field {
	f.Default, f.HasDefault = v, true
	return f
}

// Refs points the column at another table's column.
func (f Field) Refs(table, column string) Field {
	f.References = &Reference{Table: table, Column: column}
	return f
}

// OnDelete sets the referential delete action. It is a no-op without Refs.
func (f Field) OnDelete(a ReferenceAction) Field {
	if f.References != nil {
		r := *f.References
		r.OnDelete = a
		f.References = &r
	}
	return f
}

// OnUpdate sets the referential update action. It is a no-op without Refs.
func (f Field) OnUpdate(a ReferenceAction) Field {
	if f.References != nil {
		r := *f.References
		r.OnUpdate = a
		f.References = &r
	}
	return f
}

// Definition is an ordered mapping of field name to field descriptor for
// one table. Field order is preserved in generated DDL.
type Definition struct {
	table  string
	fields []Field
	index  map[string]int
}

// NewDefinition builds a table definition. Later fields with a duplicate
// name replace earlier ones, keeping the original position.
func NewDefinition(table string, fields ...Field) *Definition {
	d := &Definition{table: table, index: make(map[string]int, len(fields))}
	for _, f := range fields {
		d.add(f)
	}
	return d
}

func (d *Definition) add(f Field) {
	if i, ok := d.index[f.Name]; ok {
		d.fields[i] = f
		return
	}
	d.index[f.Name] = len(d.fields)
	d.fields = append(d.fields, f)
}

// Table returns the table name.
func (d *Definition) Table() string { return d.table }

// Fields returns the fields in declaration order. The returned slice is a
// copy; mutating it does not affect the definition.
func (d *Definition) Fields() []Field {
	out := make([]Field, len(d.fields))
	copy(out, d.fields)
	return out
}

// Field returns the named field.
func (d *Definition) Field(name string) (Field, bool) {
	i, ok := d.index[name]
	if !ok {
		return Field{}, false
	}
	return d.fields[i], true
}

// PrimaryKey returns the first primary-key field, or false when the table
// has none.
func (d *Definition) PrimaryKey() (Field, bool) {
	for _, f := range d.fields {
		if f.PrimaryKey {
			return f, true
		}
	}
	return Field{}, false
}

// ForeignKeys returns the fields that carry a reference, in declaration
// order.
func (d *Definition) ForeignKeys() []Field {
	var out []Field
	for _, f := range d.fields {
		if f.References != nil {
			out = append(out, f)
		}
	}
	return out
}
