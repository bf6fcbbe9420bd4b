package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/chartwire/pkg/errors"
)

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Base struct {
	Label  string `json:"label,omitempty"`
	Hidden *bool  `json:"hidden,omitempty"`
}

type optional struct {
	set bool
}

func (o optional) DocumentValue() (Node, bool, error) {
	return String("set"), o.set, nil
}

type sample struct {
	ID string `json:"id"`
	Base
	Points []point         `json:"points,omitempty"`
	Tags   map[string]int  `json:"tags,omitempty"`
	Skip   string          `json:"-"`
	Fn     *Function       `json:"fn,omitempty"`
	Opt    optional        `json:"opt"`
	Ratio  float32         `json:"ratio,omitempty"`
	Extra  json.RawMessage `json:"extra,omitempty"`
}

func TestFromValueStruct(t *testing.T) {
	hidden := false
	v := sample{
		ID:     "a",
		Base:   Base{Label: "l", Hidden: &hidden},
		Points: []point{{1, 2}, {3, 4}},
		Tags:   map[string]int{"b": 2, "a": 1},
		Skip:   "never",
		Fn:     &Function{Args: []string{"v"}, Body: "return v"},
		Opt:    optional{set: true},
		Ratio:  0.1,
		Extra:  json.RawMessage(`{"z":1,"y":[2]}`),
	}

	n, err := FromValue(v)
	require.NoError(t, err)
	out, err := Marshal(n)
	require.NoError(t, err)
	assert.Equal(t,
		`{"id":"a","label":"l","hidden":false,"points":[{"x":1,"y":2},{"x":3,"y":4}],"tags":{"a":1,"b":2},"fn":function(v) { return v },"opt":"set","ratio":0.1,"extra":{"z":1,"y":[2]}}`,
		string(out))
}

func TestFromValueOmitsUnset(t *testing.T) {
	n, err := FromValue(&sample{ID: "a"})
	require.NoError(t, err)
	out, err := Marshal(n)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"a"}`, string(out))
}

func TestFromValueSliceElements(t *testing.T) {
	var nilPtr *point
	n, err := FromValue([]any{1, "x", nilPtr, []int{}, 2.5})
	require.NoError(t, err)
	out, err := Marshal(n)
	require.NoError(t, err)
	assert.Equal(t, `[1,"x",null,[],2.5]`, string(out))
}

func TestFromValueMaps(t *testing.T) {
	n, err := FromValue(map[int]string{10: "b", 2: "a"})
	require.NoError(t, err)
	out, err := Marshal(n)
	require.NoError(t, err)
	// keys sort as text
	assert.Equal(t, `{"10":"b","2":"a"}`, string(out))
}

func TestFromValueNil(t *testing.T) {
	n, err := FromValue(nil)
	require.NoError(t, err)
	assert.Equal(t, Null{}, n)
}

func TestFromValueUnsupported(t *testing.T) {
	_, err := FromValue(struct {
		C chan int `json:"c"`
	}{C: make(chan int)})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeUnsupported))
	assert.Contains(t, err.Error(), "c:")
}

func TestValuePanicsOnUnsupported(t *testing.T) {
	assert.Panics(t, func() { Value(func() {}) })
	assert.Equal(t, Bool(true), Value(true))
}

func TestParseJSON(t *testing.T) {
	n, err := ParseJSON([]byte(`{"b":1,"a":[true,null,"x"],"c":1.50}`))
	require.NoError(t, err)
	out, err := Marshal(n)
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":[true,null,"x"],"c":1.50}`, string(out))

	_, err = ParseJSON([]byte(`{} {}`))
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))

	_, err = ParseJSON([]byte(`{"a":`))
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))
}
