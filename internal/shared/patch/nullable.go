package patch

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
)

// Nullable is a request field that tells an absent key apart from an
// explicit JSON null. The zero value is absent. Use it with DefinedField for
// nullable columns: null clears the column, absent leaves it alone.
type Nullable[T any] struct {
	Present bool
	Null    bool
	Val     T
}

// Some is a present, non-null value.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Present: true, Val: v}
}

// Null is a present key holding JSON null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Present: true, Null: true}
}

// UnmarshalJSON only runs when the key is present, null included.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	var zero T
	n.Present = true
	n.Val = zero
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Null = true
		return nil
	}
	n.Null = false
	return json.Unmarshal(data, &n.Val)
}

// Value makes validation rules see the underlying value, or nil when the key
// is absent or null.
func (n Nullable[T]) Value() (driver.Value, error) {
	if !n.Present || n.Null {
		return nil, nil
	}
	return n.Val, nil
}

// Ptr returns the value, or nil when absent or null.
func (n Nullable[T]) Ptr() *T {
	if !n.Present || n.Null {
		return nil
	}
	v := n.Val
	return &v
}

func (n Nullable[T]) candidate() (value any, present bool) {
	if !n.Present {
		return nil, false
	}
	if n.Null {
		return nil, true
	}
	return n.Val, true
}
