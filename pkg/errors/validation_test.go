package errors

import (
	"strings"
	"testing"
)

func TestValidateChartID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "c1", false},
		{"valid with dash", "revenue-2024", false},
		{"valid with underscore", "my_chart", false},
		{"valid with dot and colon", "dash.main:1", false},
		{"valid generated", "chart-6f1c2a9e-1111-4a3b-9c55-000000000000", false},

		{"empty", "", true},
		{"too long", "c" + strings.Repeat("x", 200), true},
		{"leading digit", "1chart", true},
		{"space", "my chart", true},
		{"quote", `c"1`, true},
		{"angle bracket", "c<1", true},
		{"slash", "a/b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChartID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChartID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidChartID) {
				t.Errorf("ValidateChartID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidChartID)
			}
		})
	}
}

func TestValidateDocumentPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"single key", "options", false},
		{"nested", "options.plugins.legend.display", false},
		{"array index", "data.datasets.0.label", false},

		{"empty", "", true},
		{"leading dot", ".options", true},
		{"trailing dot", "options.", true},
		{"empty segment", "options..plugins", true},
		{"control char", "options\x01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocumentPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDocumentPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSpecFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"toml", "revenue.toml", false},
		{"yaml", "revenue.yaml", false},
		{"jsonc", "revenue.jsonc", false},

		{"empty", "", true},
		{"with path /", "path/to/file.toml", true},
		{"with path \\", "path\\to\\file.toml", true},
		{"hidden file", ".hidden.toml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSpecFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSpecFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://cdn.jsdelivr.net/npm/chart.js", false},
		{"http://localhost:8080/chart.js", false},
		{"", true},
		{"javascript:alert(1)", true},
		{"ftp://example.com/chart.js", true},
	}

	for _, tt := range tests {
		if err := ValidateURL(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
