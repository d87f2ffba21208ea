// Package patch compiles sparse update requests into single-row UPDATE
// statements.
package patch

import (
	"fmt"
	"reflect"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Policy decides whether a candidate value counts as supplied.
type Policy int

const (
	// Defined includes the column whenever the value is present, even if it
	// is the zero value. Used for nullable columns that may be cleared.
	Defined Policy = iota
	// Truthy includes the column only for present, non-zero values, so an
	// empty string or 0 means "not provided".
	Truthy
)

// Field is one mutable column and its candidate value. A nil Value, or a nil
// pointer, means the key was absent from the request.
type Field struct {
	Column string
	Value  any
	Policy Policy
}

func DefinedField(column string, value any) Field {
	return Field{Column: column, Value: value, Policy: Defined}
}

func TruthyField(column string, value any) Field {
	return Field{Column: column, Value: value, Policy: Truthy}
}

// Plan is the compiled form of an update. Clauses and Args line up one to
// one; the record id is the last entry of Args.
type Plan struct {
	Clauses       []string
	Args          []any
	IDPlaceholder int

	columns []string
	id      any
}

// Compile walks fields in declaration order and keeps the ones their policy
// accepts. The map order of the incoming request never matters.
func Compile(id any, fields ...Field) Plan {
	plan := Plan{id: id}
	for _, f := range fields {
		value, ok := resolve(f)
		if !ok {
			continue
		}
		plan.columns = append(plan.columns, f.Column)
		plan.Args = append(plan.Args, value)
		plan.Clauses = append(plan.Clauses, fmt.Sprintf("%s = $%d", f.Column, len(plan.Args)))
	}
	if len(plan.columns) == 0 {
		return plan
	}

	plan.Args = append(plan.Args, id)
	plan.IDPlaceholder = len(plan.Args)
	return plan
}

// Empty reports whether no column was supplied. Callers must not issue an
// UPDATE for an empty plan.
func (p Plan) Empty() bool {
	return len(p.columns) == 0
}

// Columns returns the included column names in statement order.
func (p Plan) Columns() []string {
	return append([]string(nil), p.columns...)
}

// Builder renders the plan as
// UPDATE <table> SET ... WHERE id = $n RETURNING <returning>.
func (p Plan) Builder(table string, returning ...string) sq.UpdateBuilder {
	b := sq.Update(table).PlaceholderFormat(sq.Dollar)
	for i, col := range p.columns {
		b = b.Set(col, p.Args[i])
	}
	b = b.Where(sq.Eq{"id": p.id})
	if len(returning) > 0 {
		b = b.Suffix("RETURNING " + strings.Join(returning, ", "))
	}
	return b
}

// nullable is implemented by Nullable for every type argument.
type nullable interface {
	candidate() (any, bool)
}

// resolve applies the field policy and dereferences pointer values so the
// driver only ever sees plain values.
func resolve(f Field) (any, bool) {
	if n, ok := f.Value.(nullable); ok {
		value, present := n.candidate()
		if !present {
			return nil, false
		}
		if value == nil {
			// explicit null: only a Defined column can be set to NULL
			return nil, f.Policy == Defined
		}
		f.Value = value
	}

	rv := reflect.ValueOf(f.Value)
	if !rv.IsValid() {
		return nil, false
	}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if f.Policy == Truthy && rv.IsZero() {
		return nil, false
	}
	return rv.Interface(), true
}
