package document

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the type of a [Node].
type Kind int

// Node kinds.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindFunction
)

var kindNames = map[Kind]string{
	KindNull:     "null",
	KindBool:     "bool",
	KindNumber:   "number",
	KindString:   "string",
	KindArray:    "array",
	KindObject:   "object",
	KindFunction: "function",
}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Node is a value in a document tree. The set of implementations is closed:
// [Null], [Bool], [Number], [String], [Array], [*Object] and [*Function].
type Node interface {
	Kind() Kind
	node()
}

// Null is the null literal.
type Null struct{}

// Bool is a boolean literal.
type Bool bool

// Number is a numeric literal held in its encoded form, so integers stay
// integers and floats keep their shortest representation.
type Number string

// String is a string literal. It is always written quoted.
type String string

// Array is an ordered sequence of nodes.
type Array []Node

// Function is a callable declaration. It is written unquoted as
// function(args...) { body }.
type Function struct {
	Args []string
	Body string
}

func (Null) Kind() Kind      { return KindNull }
func (Bool) Kind() Kind      { return KindBool }
func (Number) Kind() Kind    { return KindNumber }
func (String) Kind() Kind    { return KindString }
func (Array) Kind() Kind     { return KindArray }
func (*Function) Kind() Kind { return KindFunction }

func (Null) node()      {}
func (Bool) node()      {}
func (Number) node()    {}
func (String) node()    {}
func (Array) node()     {}
func (*Function) node() {}

// Int returns the number node for i.
func Int(i int64) Number {
	return Number(strconv.FormatInt(i, 10))
}

// Uint returns the number node for u.
func Uint(u uint64) Number {
	return Number(strconv.FormatUint(u, 10))
}

// Float returns the number node for f. Non-finite values have no JSON
// representation; they become null, which Chart.js treats as a gap.
func Float(f float64) Node {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null{}
	}
	return Number(formatFloat(f))
}

// formatFloat mirrors encoding/json: plain notation for "normal" magnitudes and
// exponent notation with a trimmed exponent otherwise.
func formatFloat(f float64) string {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(s)
		if n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
	}
	return s
}

// Float64 parses the number. It reports false for malformed text.
func (n Number) Float64() (float64, bool) {
	f, err := strconv.ParseFloat(string(n), 64)
	return f, err == nil
}

// Token returns the callable-expression text for the function.
// Args are joined in declaration order.
func (f *Function) Token() string {
	var b strings.Builder
	writeFunction(&b, f, endsInLineComment(f.Body))
	return b.String()
}

// Clone returns a deep copy of n.
func Clone(n Node) Node {
	switch v := n.(type) {
	case Array:
		out := make(Array, len(v))
		for i, el := range v {
			out[i] = Clone(el)
		}
		return out
	case *Object:
		return v.Clone()
	case *Function:
		return &Function{Args: append([]string(nil), v.Args...), Body: v.Body}
	default:
		return n
	}
}

// Equal reports whether a and b are the same tree. Object keys must appear in
// the same order, since order is visible in the encoded document.
func Equal(a, b Node) bool {
	if a == nil {
		a = Null{}
	}
	if b == nil {
		b = Null{}
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Array:
		bv := b.(Array)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv := b.(*Object)
		if av.Len() != bv.Len() {
			return false
		}
		ak, bk := av.Keys(), bv.Keys()
		for i, k := range ak {
			if bk[i] != k {
				return false
			}
			x, _ := av.Get(k)
			y, _ := bv.Get(k)
			if !Equal(x, y) {
				return false
			}
		}
		return true
	case *Function:
		bv := b.(*Function)
		if av.Body != bv.Body || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if av.Args[i] != bv.Args[i] {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
