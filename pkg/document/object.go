package document

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a set of named fields that remembers insertion order.
// Re-setting an existing key keeps its original position.
type Object struct {
	fields *orderedmap.OrderedMap[string, Node]
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{fields: orderedmap.New[string, Node]()}
}

// Kind implements Node.
func (*Object) Kind() Kind { return KindObject }

func (*Object) node() {}

// Set stores n under key. A nil node is stored as null.
func (o *Object) Set(key string, n Node) {
	if n == nil {
		n = Null{}
	}
	o.fields.Set(key, n)
}

// Get returns the node stored under key.
func (o *Object) Get(key string) (Node, bool) {
	return o.fields.Get(key)
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	_, ok := o.fields.Delete(key)
	return ok
}

// Len returns the number of fields.
func (o *Object) Len() int {
	return o.fields.Len()
}

// Keys returns the field names in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.fields.Len())
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Range calls fn for each field in insertion order until fn returns false.
func (o *Object) Range(fn func(key string, n Node) bool) {
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Clone returns a deep copy of the object.
func (o *Object) Clone() *Object {
	out := NewObject()
	o.Range(func(key string, n Node) bool {
		out.Set(key, Clone(n))
		return true
	})
	return out
}
