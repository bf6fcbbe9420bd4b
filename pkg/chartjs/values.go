package chartjs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/matzehuels/chartwire/pkg/document"
	errs "github.com/matzehuels/chartwire/pkg/errors"
)

// NumberString is a number kept as text. It is written as a JSON number when
// the text parses as one and as a string otherwise. Empty is unset.
type NumberString string

// NumberOrDateString is like NumberString but is used where Chart.js also
// accepts dates and category names (labels, axis bounds, point x values).
type NumberOrDateString string

// BoolString is written as a bool when the text is "true" or "false" and as a
// string otherwise, for fields like stepped ("before") or fill ("origin").
// Empty is unset.
type BoolString string

// Numeric is the set of Go number types accepted by [Num].
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Num formats v as a NumberString.
func Num[T Numeric](v T) NumberString {
	return NumberString(fmt.Sprint(v))
}

// Nums formats a slice of numbers.
func Nums[T Numeric](vs ...T) []NumberString {
	out := make([]NumberString, len(vs))
	for i, v := range vs {
		out[i] = Num(v)
	}
	return out
}

// Labels converts strings to category labels.
func Labels(vs ...string) []NumberOrDateString {
	out := make([]NumberOrDateString, len(vs))
	for i, v := range vs {
		out[i] = NumberOrDateString(v)
	}
	return out
}

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

func numberNode(s string) document.Node {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return document.Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return document.Float(f)
	}
	return document.String(s)
}

// DocumentValue implements document.Valuer.
func (n NumberString) DocumentValue() (document.Node, bool, error) {
	if n == "" {
		return nil, false, nil
	}
	return numberNode(string(n)), true, nil
}

// DocumentValue implements document.Valuer.
func (n NumberOrDateString) DocumentValue() (document.Node, bool, error) {
	if n == "" {
		return nil, false, nil
	}
	return numberNode(string(n)), true, nil
}

// DocumentValue implements document.Valuer.
func (b BoolString) DocumentValue() (document.Node, bool, error) {
	switch b {
	case "":
		return nil, false, nil
	case "true":
		return document.Bool(true), true, nil
	case "false":
		return document.Bool(false), true, nil
	}
	return document.String(b), true, nil
}

// looseText decodes a JSON scalar of any type into its text form.
func looseText(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		err := json.Unmarshal(data, &s)
		return s, err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return "", err
	}
	switch v.(type) {
	case float64, bool:
		return string(data), nil
	}
	return "", errs.New(errs.ErrCodeInvalidInput, "expected a number, bool or string, got %s", data)
}

// UnmarshalJSON accepts numbers and strings.
func (n *NumberString) UnmarshalJSON(data []byte) error {
	s, err := looseText(data)
	*n = NumberString(s)
	return err
}

// UnmarshalJSON accepts numbers and strings.
func (n *NumberOrDateString) UnmarshalJSON(data []byte) error {
	s, err := looseText(data)
	*n = NumberOrDateString(s)
	return err
}

// UnmarshalJSON accepts bools and strings.
func (b *BoolString) UnmarshalJSON(data []byte) error {
	s, err := looseText(data)
	*b = BoolString(s)
	return err
}

// MarshalJSON writes the same shape as the document.
func (n NumberString) MarshalJSON() ([]byte, error) { return looseJSON(n) }

// MarshalJSON writes the same shape as the document.
func (n NumberOrDateString) MarshalJSON() ([]byte, error) { return looseJSON(n) }

// MarshalJSON writes the same shape as the document.
func (b BoolString) MarshalJSON() ([]byte, error) { return looseJSON(b) }

func looseJSON(v document.Valuer) ([]byte, error) {
	n, ok, err := v.DocumentValue()
	if err != nil {
		return nil, err
	}
	if !ok {
		return []byte("null"), nil
	}
	return document.Marshal(n)
}
