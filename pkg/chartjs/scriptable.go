package chartjs

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/chartwire/pkg/document"
)

// fnKey marks a function in JSON spec files: {"$fn": {"args": [...], "body": "..."}}.
const fnKey = "$fn"

// Scriptable holds either a plain value of T or a function computing it.
// The zero value is unset.
type Scriptable[T any] struct {
	val *T
	fn  *FunctionValue
}

// Val returns a Scriptable holding v.
func Val[T any](v T) Scriptable[T] {
	return Scriptable[T]{val: &v}
}

// Fn returns a Scriptable holding f. A nil or empty f is unset.
func Fn[T any](f *FunctionValue) Scriptable[T] {
	if f.IsEmpty() {
		return Scriptable[T]{}
	}
	return Scriptable[T]{fn: f}
}

// IsZero reports whether neither a value nor a function is set.
func (s Scriptable[T]) IsZero() bool {
	return s.val == nil && s.fn == nil
}

// Value returns the plain value, if that is what s holds.
func (s Scriptable[T]) Value() (T, bool) {
	if s.val == nil {
		var zero T
		return zero, false
	}
	return *s.val, true
}

// Func returns the function, if that is what s holds.
func (s Scriptable[T]) Func() (*FunctionValue, bool) {
	return s.fn, s.fn != nil
}

// DocumentValue implements document.Valuer.
func (s Scriptable[T]) DocumentValue() (document.Node, bool, error) {
	switch {
	case s.fn != nil:
		return s.fn.DocumentValue()
	case s.val != nil:
		n, err := document.FromValue(*s.val)
		return n, err == nil, err
	}
	return nil, false, nil
}

// MarshalJSON writes the plain value, or {"$fn": ...} for a function.
func (s Scriptable[T]) MarshalJSON() ([]byte, error) {
	switch {
	case s.fn != nil:
		return json.Marshal(map[string]*FunctionValue{fnKey: s.fn})
	case s.val != nil:
		return json.Marshal(*s.val)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts either form written by MarshalJSON.
func (s *Scriptable[T]) UnmarshalJSON(data []byte) error {
	*s = Scriptable[T]{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var wrapper map[string]json.RawMessage
	if json.Unmarshal(data, &wrapper) == nil && len(wrapper) == 1 {
		if raw, ok := wrapper[fnKey]; ok {
			f := NewFunction()
			if err := f.UnmarshalJSON(raw); err != nil {
				return err
			}
			s.fn = f
			return nil
		}
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.val = &v
	return nil
}
