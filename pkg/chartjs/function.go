package chartjs

import (
	"encoding/json"

	"github.com/matzehuels/chartwire/pkg/document"
	errs "github.com/matzehuels/chartwire/pkg/errors"
)

// FunctionValue is a JavaScript function carried as data: an ordered list of
// parameter names and an opaque body. The zero value is an empty function and
// is left out of documents.
type FunctionValue struct {
	args []string
	body string
}

// NewFunction returns an empty function.
func NewFunction() *FunctionValue {
	return &FunctionValue{}
}

// Func builds a function from a body and its parameter names.
func Func(body string, args ...string) (*FunctionValue, error) {
	f := NewFunction()
	for _, a := range args {
		if err := f.AddArg(a); err != nil {
			return nil, err
		}
	}
	f.SetBody(body)
	return f, nil
}

// MustFunc is like [Func] but panics if a parameter name is rejected.
func MustFunc(body string, args ...string) *FunctionValue {
	f, err := Func(body, args...)
	if err != nil {
		panic(err)
	}
	return f
}

// AddArg appends a parameter. Names must be JavaScript identifiers and must
// not repeat: a repeated parameter shadows the earlier one, so callers passing
// positional arguments would silently lose a value.
func (f *FunctionValue) AddArg(name string) error {
	if !document.IsIdentifier(name) {
		return errs.New(errs.ErrCodeInvalidArgumentName, "invalid parameter name %q", name)
	}
	for _, a := range f.args {
		if a == name {
			return errs.New(errs.ErrCodeDuplicateArgument, "duplicate parameter %q", name)
		}
	}
	f.args = append(f.args, name)
	return nil
}

// SetBody replaces the body. The text is kept verbatim.
func (f *FunctionValue) SetBody(body string) {
	f.body = body
}

// Args returns a copy of the parameter names in declaration order.
func (f *FunctionValue) Args() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.args...)
}

// Body returns the body text.
func (f *FunctionValue) Body() string {
	if f == nil {
		return ""
	}
	return f.body
}

// IsEmpty reports whether the function has neither parameters nor a body.
func (f *FunctionValue) IsEmpty() bool {
	return f == nil || (len(f.args) == 0 && f.body == "")
}

// Check reports whether the body can be embedded in a document.
func (f *FunctionValue) Check() error {
	return document.CheckBody(f.Body())
}

// String returns the function expression as it appears in a document.
func (f *FunctionValue) String() string {
	return f.node().Token()
}

func (f *FunctionValue) node() *document.Function {
	return &document.Function{Args: f.Args(), Body: f.Body()}
}

// DocumentValue implements document.Valuer.
func (f *FunctionValue) DocumentValue() (document.Node, bool, error) {
	if f.IsEmpty() {
		return nil, false, nil
	}
	return f.node(), true, nil
}

type functionJSON struct {
	Args []string `json:"args,omitempty"`
	Body string   `json:"body"`
}

// MarshalJSON encodes the function as {"args": [...], "body": "..."}.
func (f *FunctionValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(functionJSON{Args: f.Args(), Body: f.Body()})
}

// UnmarshalJSON decodes the form written by MarshalJSON. Parameter names are
// validated as if added with AddArg.
func (f *FunctionValue) UnmarshalJSON(data []byte) error {
	var raw functionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := Func(raw.Body, raw.Args...)
	if err != nil {
		return err
	}
	*f = *parsed
	return nil
}
