package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	errs "github.com/matzehuels/chartwire/pkg/errors"
)

// stringWriter is satisfied by *bytes.Buffer and *strings.Builder.
type stringWriter interface {
	io.Writer
	WriteString(s string) (int, error)
	WriteByte(c byte) error
}

// Encode writes n to w in compact form.
//
// Every function leaf is checked with [CheckBody] before anything is written;
// a body that cannot be embedded safely fails the whole call and w is left
// untouched.
func Encode(w io.Writer, n Node) error {
	return encode(w, n, "")
}

// EncodeIndent writes n to w with each nested level indented by indent.
func EncodeIndent(w io.Writer, n Node, indent string) error {
	if indent == "" {
		indent = "  "
	}
	return encode(w, n, indent)
}

// Marshal returns the compact encoding of n.
func Marshal(n Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(w io.Writer, n Node, indent string) error {
	if err := checkFunctions(n, ""); err != nil {
		return err
	}
	var buf bytes.Buffer
	e := &encoder{w: &buf, indent: indent}
	if err := e.node(n, 0); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Check validates every function leaf below n the same way Encode does,
// without writing anything.
func Check(n Node) error {
	return checkFunctions(n, "")
}

// checkFunctions validates every function leaf below n. path is the dotted
// location of n, used in error messages.
func checkFunctions(n Node, path string) error {
	switch v := n.(type) {
	case *Function:
		for _, a := range v.Args {
			if !IsIdentifier(a) {
				return errs.New(errs.ErrCodeInvalidArgumentName, "%s: invalid parameter name %q", displayPath(path), a)
			}
		}
		if err := CheckBody(v.Body); err != nil {
			return errs.Wrap(errs.ErrCodeEmbedding, err, "%s: function body cannot be embedded", displayPath(path))
		}
	case Array:
		for i, el := range v {
			if err := checkFunctions(el, joinPath(path, fmt.Sprint(i))); err != nil {
				return err
			}
		}
	case *Object:
		var err error
		v.Range(func(key string, child Node) bool {
			err = checkFunctions(child, joinPath(path, key))
			return err == nil
		})
		return err
	}
	return nil
}

func displayPath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

type encoder struct {
	w      stringWriter
	indent string
}

func (e *encoder) newline(depth int) {
	if e.indent == "" {
		return
	}
	e.w.WriteByte('\n')
	for i := 0; i < depth; i++ {
		e.w.WriteString(e.indent)
	}
}

func (e *encoder) node(n Node, depth int) error {
	switch v := n.(type) {
	case nil, Null:
		e.w.WriteString("null")
	case Bool:
		if v {
			e.w.WriteString("true")
		} else {
			e.w.WriteString("false")
		}
	case Number:
		if v == "" {
			e.w.WriteString("null")
		} else {
			e.w.WriteString(string(v))
		}
	case String:
		e.quote(string(v))
	case Array:
		if len(v) == 0 {
			e.w.WriteString("[]")
			return nil
		}
		e.w.WriteByte('[')
		for i, el := range v {
			if i > 0 {
				e.w.WriteByte(',')
			}
			e.newline(depth + 1)
			if err := e.node(el, depth+1); err != nil {
				return err
			}
		}
		e.newline(depth)
		e.w.WriteByte(']')
	case *Object:
		if v.Len() == 0 {
			e.w.WriteString("{}")
			return nil
		}
		e.w.WriteByte('{')
		first := true
		var err error
		v.Range(func(key string, child Node) bool {
			if !first {
				e.w.WriteByte(',')
			}
			first = false
			e.newline(depth + 1)
			e.quote(key)
			e.w.WriteByte(':')
			if e.indent != "" {
				e.w.WriteByte(' ')
			}
			err = e.node(child, depth+1)
			return err == nil
		})
		if err != nil {
			return err
		}
		e.newline(depth)
		e.w.WriteByte('}')
	case *Function:
		writeFunction(e.w, v, endsInLineComment(v.Body))
	default:
		return errs.New(errs.ErrCodeInternal, "unknown node type %T", n)
	}
	return nil
}

// quote writes s as a JSON string. encoding/json escapes <, > and & as well
// as U+2028/U+2029, which keeps documents safe inside <script> blocks.
func (e *encoder) quote(s string) {
	b, _ := json.Marshal(s)
	e.w.Write(b)
}

// writeFunction writes the callable-expression token. A body ending inside a
// line comment would swallow the closing brace, so the brace moves to its own
// line in that case.
func writeFunction(w stringWriter, f *Function, lineComment bool) {
	w.WriteString("function(")
	w.WriteString(strings.Join(f.Args, ", "))
	w.WriteString(") { ")
	w.WriteString(f.Body)
	if lineComment {
		w.WriteString("\n}")
		return
	}
	w.WriteString(" }")
}
