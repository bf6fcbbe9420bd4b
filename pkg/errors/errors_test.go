package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewFormatsMessage(t *testing.T) {
	err := New(ErrCodeDuplicateArgument, "parameter %q declared twice", "ctx")

	if err.Code != ErrCodeDuplicateArgument {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeDuplicateArgument)
	}
	if want := `DUPLICATE_ARGUMENT: parameter "ctx" declared twice`; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "redis ping")

	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if want := "NETWORK_ERROR: redis ping: connection refused"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

// thrownError mimics a foreign error held by value, like syscall/js's js.Error.
type thrownError struct{ msg string }

func (e thrownError) Error() string { return e.msg }

func TestWrapSurfacesForeignErrorValue(t *testing.T) {
	err := Wrap(ErrCodeConstruct, thrownError{msg: "TypeError: x is undefined"}, "chart %q", "sales")

	var thrown thrownError
	if !errors.As(err, &thrown) {
		t.Fatal("errors.As should reach the wrapped value")
	}
	if thrown.msg != "TypeError: x is undefined" {
		t.Errorf("thrown = %q", thrown.msg)
	}
	if got := UserMessage(err); got != `chart "sales": TypeError: x is undefined` {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestErrorChainFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "same code collapses",
			err:  Wrap(ErrCodeInvalidSpec, New(ErrCodeInvalidSpec, "path is required"), "patch 0"),
			want: "INVALID_SPEC: patch 0: path is required",
		},
		{
			name: "different code is kept",
			err:  Wrap(ErrCodeHook, New(ErrCodeEmbedding, "unbalanced body"), "mutate_chart_object failed"),
			want: "HOOK_FAILED: mutate_chart_object failed: EMBEDDING_FAILED: unbalanced body",
		},
		{
			name: "three levels",
			err: Wrap(ErrCodeInvalidSpec,
				Wrap(ErrCodeInvalidSpec, New(ErrCodeInvalidSpec, "unknown field \"colour\""), "options"),
				"sales.toml"),
			want: `INVALID_SPEC: sales.toml: options: unknown field "colour"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnnotate(t *testing.T) {
	if Annotate(nil, ErrCodeInternal, "ignored") != nil {
		t.Error("Annotate(nil) should be nil")
	}

	coded := New(ErrCodeInvalidArgumentName, "%q is not an identifier", "1x")
	err := Annotate(coded, ErrCodeInvalidSpec, "options.onClick")
	if GetCode(err) != ErrCodeInvalidArgumentName {
		t.Errorf("code = %v, want the cause's", GetCode(err))
	}
	if !errors.Is(err, coded) {
		t.Error("annotated error should wrap the cause")
	}

	plain := errors.New("yaml: line 3: mapping values are not allowed")
	if got := GetCode(Annotate(plain, ErrCodeInvalidSpec, "chart.yaml")); got != ErrCodeInvalidSpec {
		t.Errorf("code = %v, want fallback %v", got, ErrCodeInvalidSpec)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeEmbedding, "x"), ErrCodeEmbedding, true},
		{"other code", New(ErrCodeEmbedding, "x"), ErrCodeHook, false},
		{"outermost code wins", Wrap(ErrCodeHook, New(ErrCodeEmbedding, "inner"), "outer"), ErrCodeHook, true},
		{"inner code is not seen", Wrap(ErrCodeHook, New(ErrCodeEmbedding, "inner"), "outer"), ErrCodeEmbedding, false},
		{"through fmt wrapping", fmt.Errorf("render: %w", New(ErrCodeNotFound, "x")), ErrCodeNotFound, true},
		{"plain error", errors.New("plain"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidChartType, "x")); got != ErrCodeInvalidChartType {
		t.Errorf("GetCode = %v", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"single", New(ErrCodeNotFound, `chart "sales" not found`), `chart "sales" not found`},
		{"chain drops codes", Wrap(ErrCodeHook, New(ErrCodeEmbedding, "unbalanced body"), "patch %q", "options"), `patch "options": unbalanced body`},
		{"plain cause", Wrap(ErrCodeNetwork, errors.New("timeout"), "upload"), "upload: timeout"},
		{"plain error", errors.New("plain"), "plain"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
