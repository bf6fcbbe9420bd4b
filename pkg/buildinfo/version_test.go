package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name string
		in   Info
		want Info
	}{
		{
			name: "unset values fall back",
			in:   Info{Version: "dev", Commit: "none", Date: "unknown"},
			want: Info{Version: "v0.4.1", Commit: "0123456789abcdef", Date: "2026-10-01T12:00:00Z", Modified: true},
		},
		{
			name: "ldflags win",
			in:   Info{Version: "v1.0.0", Commit: "feedface", Date: "2026-01-01"},
			want: Info{Version: "v1.0.0", Commit: "feedface", Date: "2026-01-01", Modified: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fromBuildInfo(tt.in, bi); got != tt.want {
				t.Errorf("fromBuildInfo() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDevelVersionIgnored(t *testing.T) {
	got := fromBuildInfo(Info{Version: "dev"}, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if got.Version != "dev" {
		t.Errorf("Version = %q, want dev", got.Version)
	}
}

func TestShort(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "v0.3.0", Commit: "0123456789abcdef"}, "v0.3.0 (0123456)"},
		{Info{Version: "dev", Commit: "none"}, "dev (none)"},
		{Info{Version: "dev", Commit: "abc", Modified: true}, "dev (abc+dirty)"},
	}
	for _, tt := range tests {
		if got := tt.info.Short(); got != tt.want {
			t.Errorf("Short() = %q, want %q", got, tt.want)
		}
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Info{Version: "v0.3.0", Commit: "abc", Date: "today"}.Template()
	for _, want := range []string{"{{.Name}} v0.3.0", "commit: abc", "built: today"} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("Template() = %q, missing %q", tmpl, want)
		}
	}
}
