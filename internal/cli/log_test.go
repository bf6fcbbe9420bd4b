package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		debug bool
		want  bool
	}{
		{name: "info shown at info", level: log.InfoLevel, want: true},
		{name: "debug hidden at info", level: log.InfoLevel, debug: true, want: false},
		{name: "debug shown at debug", level: log.DebugLevel, debug: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			if tt.debug {
				logger.Debug("serialized chart", "id", "sales")
			} else {
				logger.Info("serialized chart", "id", "sales")
			}
			if got := strings.Contains(buf.String(), "serialized chart"); got != tt.want {
				t.Errorf("logged = %v, want %v (output %q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))

	prog.done("Rendered 3 charts", "cached", 2)

	out := buf.String()
	for _, want := range []string{"Rendered 3 charts", "took=", "cached=2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q should contain %q", out, want)
		}
	}
}
