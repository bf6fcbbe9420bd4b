package chartjs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/chartwire/pkg/document"
)

func TestScriptableDocumentValue(t *testing.T) {
	tests := []struct {
		name    string
		s       Scriptable[string]
		want    string
		present bool
	}{
		{"unset", Scriptable[string]{}, "", false},
		{"value", Val("red"), `"red"`, true},
		{"function", Fn[string](MustFunc("return 'red'", "ctx")), "function(ctx) { return 'red' }", true},
		{"empty function", Fn[string](NewFunction()), "", false},
		{"nil function", Fn[string](nil), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok, err := tt.s.DocumentValue()
			require.NoError(t, err)
			assert.Equal(t, tt.present, ok)
			if !ok {
				assert.True(t, tt.s.IsZero())
				return
			}
			out, err := document.Marshal(n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestScriptableAccessors(t *testing.T) {
	v, ok := Val(2.5).Value()
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)

	_, ok = Val(2.5).Func()
	assert.False(t, ok)

	f, ok := Fn[float64](MustFunc("return 1")).Func()
	assert.True(t, ok)
	assert.Equal(t, "return 1", f.Body())
}

func TestScriptableJSON(t *testing.T) {
	var s Scriptable[string]
	require.NoError(t, json.Unmarshal([]byte(`"blue"`), &s))
	v, ok := s.Value()
	assert.True(t, ok)
	assert.Equal(t, "blue", v)

	require.NoError(t, json.Unmarshal([]byte(`{"$fn":{"args":["ctx"],"body":"return 'blue'"}}`), &s))
	f, ok := s.Func()
	require.True(t, ok)
	assert.Equal(t, []string{"ctx"}, f.Args())

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"$fn":{"args":["ctx"],"body":"return 'blue'"}}`, string(data))

	require.NoError(t, json.Unmarshal([]byte(`null`), &s))
	assert.True(t, s.IsZero())

	var obj Scriptable[map[string]int]
	require.NoError(t, json.Unmarshal([]byte(`{"a":1}`), &obj))
	m, ok := obj.Value()
	assert.True(t, ok)
	assert.Equal(t, map[string]int{"a": 1}, m)
}
