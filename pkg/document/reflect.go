package document

import (
	"encoding"
	"encoding/json"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	errs "github.com/matzehuels/chartwire/pkg/errors"
)

// Valuer is implemented by types that produce their own document node.
// present=false means the value is unset and its field is omitted.
type Valuer interface {
	DocumentValue() (n Node, present bool, err error)
}

var (
	valuerType   = reflect.TypeOf((*Valuer)(nil)).Elem()
	nodeType     = reflect.TypeOf((*Node)(nil)).Elem()
	textType     = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	numberType   = reflect.TypeOf(json.Number(""))
	rawType      = reflect.TypeOf(json.RawMessage(nil))
	fieldCacheMu sync.RWMutex
	fieldCache   = map[reflect.Type][]field{}
)

// FromValue converts v into a document node.
//
// Structs follow encoding/json conventions: exported fields in declaration
// order, named by their json tag, with "-" skipped, omitempty and omitzero
// honored and embedded structs inlined. Nil pointers, nil slices and nil maps
// are absent. Map keys are sorted. A value that is absent at the top level
// converts to null.
func FromValue(v any) (Node, error) {
	n, ok, err := fromReflect(reflect.ValueOf(v), "")
	if err != nil {
		return nil, err
	}
	if !ok {
		return Null{}, nil
	}
	return n, nil
}

// Value is like [FromValue] but panics on error. It is meant for literals in
// mutation hooks and tests:
//
//	doc.Set("options.plugins.legend.display", document.Value(false))
func Value(v any) Node {
	n, err := FromValue(v)
	if err != nil {
		panic(err)
	}
	return n
}

func fromReflect(rv reflect.Value, path string) (Node, bool, error) {
	if !rv.IsValid() {
		return nil, false, nil
	}
	t := rv.Type()

	if t.Implements(nodeType) {
		if isNilable(rv) && rv.IsNil() {
			return nil, false, nil
		}
		return rv.Interface().(Node), true, nil
	}
	if t.Implements(valuerType) {
		if isNilable(rv) && rv.IsNil() {
			return nil, false, nil
		}
		n, ok, err := rv.Interface().(Valuer).DocumentValue()
		if err != nil {
			return nil, false, errs.Annotate(err, errs.ErrCodeInvalidInput, "%s", displayPath(path))
		}
		return n, ok, nil
	}
	if rv.Kind() != reflect.Pointer && rv.CanAddr() && reflect.PointerTo(t).Implements(valuerType) {
		return fromReflect(rv.Addr(), path)
	}

	switch t {
	case numberType:
		s := rv.String()
		if s == "" {
			return nil, false, nil
		}
		return Number(s), true, nil
	case rawType:
		if rv.Len() == 0 {
			return nil, false, nil
		}
		n, err := ParseJSON(rv.Bytes())
		return n, err == nil, err
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, false, nil
		}
		return fromReflect(rv.Elem(), path)
	case reflect.Bool:
		return Bool(rv.Bool()), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), true, nil
	case reflect.Float32:
		// Round-trip through the 32-bit representation so 0.1 stays 0.1.
		f, _ := strconv.ParseFloat(strconv.FormatFloat(rv.Float(), 'g', -1, 32), 64)
		return Float(f), true, nil
	case reflect.Float64:
		return Float(rv.Float()), true, nil
	case reflect.String:
		return String(rv.String()), true, nil
	case reflect.Slice:
		if rv.IsNil() {
			return nil, false, nil
		}
		return arrayFrom(rv, path)
	case reflect.Array:
		return arrayFrom(rv, path)
	case reflect.Map:
		if rv.IsNil() {
			return nil, false, nil
		}
		return objectFromMap(rv, path)
	case reflect.Struct:
		return objectFromStruct(rv, path)
	}
	return nil, false, errs.New(errs.ErrCodeUnsupported, "%s: cannot convert %s to a document value", displayPath(path), t)
}

func isNilable(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

// arrayFrom keeps element positions: an absent element becomes null.
func arrayFrom(rv reflect.Value, path string) (Node, bool, error) {
	out := make(Array, rv.Len())
	for i := range out {
		n, ok, err := fromReflect(rv.Index(i), joinPath(path, strconv.Itoa(i)))
		if err != nil {
			return nil, false, err
		}
		if !ok {
			n = Null{}
		}
		out[i] = n
	}
	return out, true, nil
}

func objectFromMap(rv reflect.Value, path string) (Node, bool, error) {
	type entry struct {
		key string
		val reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, err := mapKey(iter.Key())
		if err != nil {
			return nil, false, errs.Wrap(errs.ErrCodeUnsupported, err, "%s", displayPath(path))
		}
		entries = append(entries, entry{key: key, val: iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	obj := NewObject()
	for _, e := range entries {
		n, ok, err := fromReflect(e.val, joinPath(path, e.key))
		if err != nil {
			return nil, false, err
		}
		if ok {
			obj.Set(e.key, n)
		}
	}
	return obj, true, nil
}

func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if k.Type().Implements(textType) {
		b, err := k.Interface().(encoding.TextMarshaler).MarshalText()
		return string(b), err
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", errs.New(errs.ErrCodeUnsupported, "unsupported map key type %s", k.Type())
}

func objectFromStruct(rv reflect.Value, path string) (Node, bool, error) {
	obj := NewObject()
	for _, f := range cachedFields(rv.Type()) {
		fv, ok := fieldByIndex(rv, f.index)
		if !ok {
			continue
		}
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		if f.omitZero && fv.IsZero() {
			continue
		}
		n, ok, err := fromReflect(fv, joinPath(path, f.name))
		if err != nil {
			return nil, false, err
		}
		if ok {
			obj.Set(f.name, n)
		}
	}
	return obj, true, nil
}

// fieldByIndex walks through embedded pointers, reporting false when one of
// them is nil.
func fieldByIndex(rv reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return reflect.Value{}, false
			}
			rv = rv.Elem()
		}
		rv = rv.Field(x)
	}
	return rv, true
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

type field struct {
	name      string
	index     []int
	depth     int
	omitEmpty bool
	omitZero  bool
}

func cachedFields(t reflect.Type) []field {
	fieldCacheMu.RLock()
	fields, ok := fieldCache[t]
	fieldCacheMu.RUnlock()
	if ok {
		return fields
	}
	fields = typeFields(t, nil, 0)
	fields = dominantFields(fields)
	fieldCacheMu.Lock()
	fieldCache[t] = fields
	fieldCacheMu.Unlock()
	return fields
}

func typeFields(t reflect.Type, parent []int, depth int) []field {
	var out []field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		index := append(append([]int(nil), parent...), i)

		if sf.Anonymous && name == "" {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct && !ft.Implements(valuerType) && !reflect.PointerTo(ft).Implements(valuerType) {
				out = append(out, typeFields(ft, index, depth+1)...)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		out = append(out, field{
			name:      name,
			index:     index,
			depth:     depth,
			omitEmpty: hasOption(opts, "omitempty"),
			omitZero:  hasOption(opts, "omitzero"),
		})
	}
	return out
}

// dominantFields drops fields shadowed by a shallower field of the same name.
// Declaration order of the survivors is kept.
func dominantFields(fields []field) []field {
	shallowest := map[string]int{}
	for _, f := range fields {
		if d, ok := shallowest[f.name]; !ok || f.depth < d {
			shallowest[f.name] = f.depth
		}
	}
	seen := map[string]bool{}
	out := fields[:0]
	for _, f := range fields {
		if f.depth != shallowest[f.name] || seen[f.name] {
			continue
		}
		seen[f.name] = true
		out = append(out, f)
	}
	return out
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var o string
		o, opts, _ = strings.Cut(opts, ",")
		if o == want {
			return true
		}
	}
	return false
}
