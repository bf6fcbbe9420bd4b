// Package cli implements the chartwire command-line interface.
//
// Commands:
//   - render: Build chart specs into pages, scripts, documents and manifests
//   - serve: Preview a spec directory with live reload
//   - schema: Print the JSON Schema for spec files
//   - store: Keep specs in a local directory or MongoDB
//   - cache: Manage the document and page cache
//   - publish: Upload rendered charts to S3-compatible storage
//
// All commands support --verbose (-v) for debug-level logging and --config
// for a TOML settings file.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger: timestamps as "15:04:05.00", no caller,
// filtered at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command stage, such as rendering or uploading.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with the elapsed time and any extra key/value
// pairs, e.g. `Rendered 3 charts took=12ms`.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append([]any{"took", time.Since(p.start).Round(time.Millisecond)}, keyvals...)
	p.logger.Info(msg, keyvals...)
}
