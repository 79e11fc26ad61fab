package schema

import (
	"fmt"
	"strings"
)

// ValidationError describes one problem found in a table definition.
type ValidationError struct {
	Table   string
	Column  string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the outcome of validating a definition. Errors
// make the definition unusable for DDL; warnings flag suspicious but legal
// declarations.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors reports whether the definition is invalid.
func (r *ValidationResult) HasErrors() bool { return len(r.Errors) > 0 }

// Err returns the first error, or nil.
func (r *ValidationResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0]
}

// String returns a human-readable summary.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	for _, e := range r.Errors {
		sb.WriteString("error: ")
		sb.WriteString(e.Error())
		sb.WriteString("\n")
	}
	for _, w := range r.Warnings {
		sb.WriteString("warning: ")
		sb.WriteString(w.Error())
		sb.WriteString("\n")
	}
	if sb.Len() == 0 {
		return "no issues found"
	}
	return sb.String()
}

// Validate checks the definition for contradictions that would produce
// broken DDL: missing names, multiple auto-increment columns,
// auto-increment on non-integer or non-key columns, and malformed
// references.
func (d *Definition) Validate() *ValidationResult {
	r := &ValidationResult{}
	fail := func(column, format string, args ...any) {
		r.Errors = append(r.Errors, &ValidationError{Table: d.table, Column: column, Message: fmt.Sprintf(format, args...)})
	}
	warn := func(column, format string, args ...any) {
		r.Warnings = append(r.Warnings, &ValidationError{Table: d.table, Column: column, Message: fmt.Sprintf(format, args...)})
	}

	if d.table == "" {
		fail("", "table name is empty")
	}
	if len(d.fields) == 0 {
		fail("", "definition has no fields")
	}

	autoCount := 0
	for _, f := range d.fields {
		if f.Name == "" {
			fail("", "field name is empty")
			continue
		}
		if f.AutoIncrement {
			autoCount++
			if !f.Type.Integer() {
				fail(f.Name, "auto-increment requires an integer type, got %s", f.Type)
			}
			if !f.PrimaryKey {
				fail(f.Name, "auto-increment requires the primary key")
			}
		}
		if f.Precision == 0 && f.Scale > 0 {
			fail(f.Name, "scale %d without precision", f.Scale)
		}
		if f.Length > 0 && f.Type != TypeString && f.Type != TypeBinary {
			warn(f.Name, "length is ignored for type %s", f.Type)
		}
		if f.Required && f.Nullable {
			warn(f.Name, "both required and nullable; nullable wins")
		}
		if ref := f.References; ref != nil {
			if ref.Table == "" || ref.Column == "" {
				fail(f.Name, "reference must name a table and a column")
			}
			if !ref.OnDelete.Valid() {
				fail(f.Name, "invalid ON DELETE action %q", ref.OnDelete)
			}
			if !ref.OnUpdate.Valid() {
				fail(f.Name, "invalid ON UPDATE action %q", ref.OnUpdate)
			}
		}
	}
	if autoCount > 1 {
		fail("", "at most one auto-increment column is allowed, got %d", autoCount)
	}
	return r
}
