package document

import (
	"strconv"
	"strings"

	errs "github.com/matzehuels/chartwire/pkg/errors"
)

// splitPath breaks a dotted path into its segments. Numeric segments index
// arrays; every other segment names an object field.
func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, errs.New(errs.ErrCodeInvalidPath, "empty path")
	}
	segs := strings.Split(path, ".")
	for i, s := range segs {
		if s == "" {
			return nil, errs.New(errs.ErrCodeInvalidPath, "path %q has an empty segment at position %d", path, i)
		}
	}
	return segs, nil
}

// Get returns the node at path below n.
func Get(n Node, path string) (Node, bool) {
	segs, err := splitPath(path)
	if err != nil {
		return nil, false
	}
	cur := n
	for _, seg := range segs {
		switch v := cur.(type) {
		case *Object:
			next, ok := v.Get(seg)
			if !ok {
				return nil, false
			}
			cur = next
		case Array:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, false
			}
			cur = v[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// Set stores val at path below n and returns the updated tree. Missing
// object fields along the way are created as empty objects. An array index
// equal to the array length appends. Arrays are values, so callers must use
// the returned node.
func Set(n Node, path string, val Node) (Node, error) {
	segs, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	if val == nil {
		val = Null{}
	}
	return setIn(n, segs, val, "")
}

func setIn(cur Node, segs []string, val Node, at string) (Node, error) {
	if len(segs) == 0 {
		return val, nil
	}
	seg := segs[0]
	here := joinPath(at, seg)

	switch v := cur.(type) {
	case *Object:
		child, ok := v.Get(seg)
		if !ok && len(segs) > 1 {
			child = NewObject()
		}
		updated, err := setIn(child, segs[1:], val, here)
		if err != nil {
			return nil, err
		}
		v.Set(seg, updated)
		return v, nil
	case Array:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 || idx > len(v) {
			return nil, errs.New(errs.ErrCodeInvalidPath, "%s: index out of range for array of length %d", here, len(v))
		}
		if idx == len(v) {
			var child Node
			if len(segs) > 1 {
				child = NewObject()
			}
			v = append(v, child)
		}
		updated, err := setIn(v[idx], segs[1:], val, here)
		if err != nil {
			return nil, err
		}
		v[idx] = updated
		return v, nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidPath, "%s: cannot descend into %s", displayPath(at), kindOf(cur))
	}
}

// Delete removes the node at path below n. It returns the updated tree and
// whether anything was removed. Deleting an array element shifts the rest
// down.
func Delete(n Node, path string) (Node, bool, error) {
	segs, err := splitPath(path)
	if err != nil {
		return nil, false, err
	}
	return deleteIn(n, segs)
}

func deleteIn(cur Node, segs []string) (Node, bool, error) {
	seg := segs[0]
	last := len(segs) == 1

	switch v := cur.(type) {
	case *Object:
		if last {
			return v, v.Delete(seg), nil
		}
		child, ok := v.Get(seg)
		if !ok {
			return v, false, nil
		}
		updated, ok, err := deleteIn(child, segs[1:])
		if err != nil || !ok {
			return v, ok, err
		}
		v.Set(seg, updated)
		return v, true, nil
	case Array:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 || idx >= len(v) {
			return v, false, nil
		}
		if last {
			out := make(Array, 0, len(v)-1)
			out = append(out, v[:idx]...)
			return append(out, v[idx+1:]...), true, nil
		}
		updated, ok, err := deleteIn(v[idx], segs[1:])
		if err != nil || !ok {
			return v, ok, err
		}
		v[idx] = updated
		return v, true, nil
	default:
		return cur, false, nil
	}
}
