package sql

import (
	"reflect"
	"sort"
	"strings"

	"github.com/syssam/crossdb"
	"github.com/syssam/crossdb/dialect"
)

// Filter is a structured, operator-aware predicate. A field mapped to a
// bare value means equality; a field mapped to an operator map applies the
// named operators; the $and/$or/$not combinators nest filters:
//
//	sql.Filter{"name": "Ada"}
//	sql.Filter{"age": map[string]any{"$gte": 21, "$lt": 65}}
//	sql.Filter{"$or": []sql.Filter{{"role": "admin"}, {"role": "owner"}}}
//
// Field names are compiled deterministically (sorted), so the same filter
// always yields the same predicate text and parameter order.
type Filter map[string]any

// TruePredicate is the sentinel an empty filter compiles to. Statement
// builders compare against it to decide whether to emit a WHERE clause.
const TruePredicate = "1=1"

// Supported comparison operators.
const (
	OpEQ         = "$eq"
	OpNE         = "$ne"
	OpGT         = "$gt"
	OpGTE        = "$gte"
	OpLT         = "$lt"
	OpLTE        = "$lte"
	OpIn         = "$in"
	OpNotIn      = "$nin"
	OpLike       = "$like"
	OpILike      = "$ilike"
	OpRegex      = "$regex"
	OpBetween    = "$between"
	OpNotBetween = "$notBetween"
	OpExists     = "$exists"
)

// Boolean combinators.
const (
	OpAnd = "$and"
	OpOr  = "$or"
	OpNot = "$not"
)

// CompileFilter turns a filter into a SQL boolean predicate plus the
// ordered parameter list. Placeholder numbering starts at startIndex
// (1-based); an UPDATE whose SET clause bound k values compiles its WHERE
// filter with startIndex k+1 so sequential dialects keep one continuous
// sequence.
//
// An empty filter compiles to TruePredicate with zero parameters. An empty
// $in list compiles to an unconditionally false predicate, an empty $nin
// list to an unconditionally true one; `IN ()` is never emitted.
func CompileFilter(f dialect.Features, filter Filter, startIndex int) (string, []any, error) {
	if startIndex < 1 {
		startIndex = 1
	}
	if len(filter) == 0 {
		return TruePredicate, nil, nil
	}
	c := &filterCompiler{features: f, next: startIndex}
	pred, err := c.compile(filter)
	if err != nil {
		return "", nil, err
	}
	return pred, c.args, nil
}

type filterCompiler struct {
	features dialect.Features
	args     []any
	next     int
}

// bind coerces a value, appends it to the parameter list and returns its
// placeholder token.
func (c *filterCompiler) bind(v any) string {
	c.args = append(c.args, Coerce(c.features, v))
	token := c.features.PlaceholderToken(c.next)
	c.next++
	return token
}

func (c *filterCompiler) compile(filter Filter) (string, error) {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, key := range keys {
		value := filter[key]
		switch key {
		case OpAnd, OpOr:
			children, err := subFilters(key, value)
			if err != nil {
				return "", err
			}
			joined, err := c.compileJoin(children, key)
			if err != nil {
				return "", err
			}
			parts = append(parts, joined)
		case OpNot:
			child, err := oneFilter(key, value)
			if err != nil {
				return "", err
			}
			pred, err := c.compile(child)
			if err != nil {
				return "", err
			}
			parts = append(parts, "NOT ("+pred+")")
		default:
			if strings.HasPrefix(key, "$") {
				return "", crossdb.NewCompileError("unknown combinator %q", key)
			}
			pred, err := c.compileField(key, value)
			if err != nil {
				return "", err
			}
			parts = append(parts, pred)
		}
	}
	return strings.Join(parts, " AND "), nil
}

func (c *filterCompiler) compileJoin(children []Filter, op string) (string, error) {
	if len(children) == 0 {
		return TruePredicate, nil
	}
	joiner := " AND "
	if op == OpOr {
		joiner = " OR "
	}
	preds := make([]string, len(children))
	for i, child := range children {
		pred, err := c.compile(child)
		if err != nil {
			return "", err
		}
		preds[i] = "(" + pred + ")"
	}
	return "(" + strings.Join(preds, joiner) + ")", nil
}

func (c *filterCompiler) compileField(field string, value any) (string, error) {
	column := c.features.Quote(field)
	ops, ok := operatorMap(value)
	if !ok {
		// Bare value: equality, with nil meaning IS NULL.
		if value == nil {
			return column + " IS NULL", nil
		}
		return column + " = " + c.bind(value), nil
	}
	opNames := make([]string, 0, len(ops))
	for op := range ops {
		opNames = append(opNames, op)
	}
	sort.Strings(opNames)

	var parts []string
	for _, op := range opNames {
		pred, err := c.compileOperator(column, op, ops[op])
		if err != nil {
			return "", err
		}
		parts = append(parts, pred)
	}
	return strings.Join(parts, " AND "), nil
}

func (c *filterCompiler) compileOperator(column, op string, v any) (string, error) {
	switch op {
	case OpEQ:
		if v == nil {
			return column + " IS NULL", nil
		}
		return column + " = " + c.bind(v), nil
	case OpNE:
		if v == nil {
			return column + " IS NOT NULL", nil
		}
		return column + " <> " + c.bind(v), nil
	case OpGT:
		return column + " > " + c.bind(v), nil
	case OpGTE:
		return column + " >= " + c.bind(v), nil
	case OpLT:
		return column + " < " + c.bind(v), nil
	case OpLTE:
		return column + " <= " + c.bind(v), nil
	case OpIn, OpNotIn:
		return c.compileIn(column, op, v)
	case OpLike:
		return column + " LIKE " + c.bind(v), nil
	case OpILike:
		if c.features.NativeILike {
			return column + " ILIKE " + c.bind(v), nil
		}
		return "LOWER(" + column + ") LIKE LOWER(" + c.bind(v) + ")", nil
	case OpRegex:
		return c.compileRegex(column, v)
	case OpBetween, OpNotBetween:
		lo, hi, err := betweenBounds(op, v)
		if err != nil {
			return "", err
		}
		keyword := "BETWEEN"
		if op == OpNotBetween {
			keyword = "NOT BETWEEN"
		}
		return column + " " + keyword + " " + c.bind(lo) + " AND " + c.bind(hi), nil
	case OpExists:
		exists, ok := v.(bool)
		if !ok {
			return "", crossdb.NewCompileError("%s wants a boolean, got %T", OpExists, v)
		}
		if exists {
			return column + " IS NOT NULL", nil
		}
		return column + " IS NULL", nil
	}
	return "", crossdb.NewCompileError("unknown operator %q", op)
}

func (c *filterCompiler) compileIn(column, op string, v any) (string, error) {
	values, err := valueList(op, v)
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		// IN () is invalid SQL in several dialects. An empty $in matches
		// nothing, an empty $nin matches everything.
		if op == OpIn {
			return "1=0", nil
		}
		return TruePredicate, nil
	}
	tokens := make([]string, len(values))
	for i, value := range values {
		tokens[i] = c.bind(value)
	}
	keyword := "IN"
	if op == OpNotIn {
		keyword = "NOT IN"
	}
	return column + " " + keyword + " (" + strings.Join(tokens, ", ") + ")", nil
}

func (c *filterCompiler) compileRegex(column string, v any) (string, error) {
	switch c.features.Regex {
	case dialect.RegexTilde:
		return column + " ~ " + c.bind(v), nil
	case dialect.RegexKeyword:
		return column + " REGEXP " + c.bind(v), nil
	case dialect.RegexFunction:
		return "REGEXP_LIKE(" + column + ", " + c.bind(v) + ")", nil
	}
	return "", crossdb.NewCompileError("%s has no regex predicate", c.features.Name)
}

// operatorMap reports whether value is an operator map, i.e. a string map
// whose keys all start with '$'. Named map types count too, so nesting a
// Filter under a field name behaves the same as writing a plain map.
func operatorMap(value any) (map[string]any, bool) {
	var m map[string]any
	switch v := value.(type) {
	case map[string]any:
		m = v
	case Filter:
		m = v
	default:
		rv := reflect.ValueOf(value)
		if !rv.IsValid() || rv.Kind() != reflect.Map || !rv.Type().ConvertibleTo(anyMapType) {
			return nil, false
		}
		m = rv.Convert(anyMapType).Interface().(map[string]any)
	}
	if len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return m, true
}

var anyMapType = reflect.TypeOf(map[string]any(nil))

// subFilters normalizes the value of $and/$or into a filter list.
func subFilters(op string, value any) ([]Filter, error) {
	switch v := value.(type) {
	case []Filter:
		return v, nil
	case []map[string]any:
		out := make([]Filter, len(v))
		for i, m := range v {
			out[i] = Filter(m)
		}
		return out, nil
	case []any:
		out := make([]Filter, len(v))
		for i, e := range v {
			f, err := oneFilter(op, e)
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	}
	return nil, crossdb.NewCompileError("%s wants a list of filters, got %T", op, value)
}

func oneFilter(op string, value any) (Filter, error) {
	switch v := value.(type) {
	case Filter:
		return v, nil
	case map[string]any:
		return Filter(v), nil
	}
	return nil, crossdb.NewCompileError("%s wants a filter, got %T", op, value)
}

// valueList expands a slice of any element type into []any.
func valueList(op string, v any) ([]any, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, crossdb.NewCompileError("%s wants a list, got %T", op, v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func betweenBounds(op string, v any) (any, any, error) {
	values, err := valueList(op, v)
	if err != nil {
		return nil, nil, err
	}
	if len(values) != 2 {
		return nil, nil, crossdb.NewCompileError("%s wants exactly two bounds, got %d", op, len(values))
	}
	return values[0], values[1], nil
}
