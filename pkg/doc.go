// Package pkg provides the core libraries for chartwire, a bridge that turns
// typed chart specifications into Chart.js configuration documents.
//
// # Overview
//
// A chart is described by a typed model, serialized into a JavaScript object
// literal and handed to a page that constructs it with Chart.js. Function
// values (callbacks, scriptable options) survive serialization as bare
// function tokens rather than quoted strings.
//
// # Architecture
//
// The typical data flow:
//
//	spec file (TOML, YAML, JSON/JSONC)
//	         ↓
//	    [spec] package (decode + validate)
//	         ↓
//	    [chartjs] + [document] packages (typed model → JS document)
//	         ↓
//	    [render] package (render / render_mutate via host hook)
//	         ↓
//	    [pipeline] package (cached stages → html, js, json, doc artifacts)
//
// # Main Packages
//
// [chartjs] - Typed Chart.js configuration model: chart types, datasets,
// options and the function value that serializes as an unquoted token.
//
// [document] - Serialization engine producing deterministic JavaScript
// object literals with embedded function tokens.
//
// [render] - Render protocol. A host receives the serialized document and
// either constructs the chart directly or passes it through the
// "mutate_chart_object" hook first.
//
// [render/page] - Standalone HTML pages embedding one or more charts.
//
// [pipeline] - Runner orchestrating serialize and render stages with caching.
// Used by the CLI, the preview server and publishing.
//
// [cache] - Cache backends (memory, LRU, file, Redis) and key derivation.
//
// [store] - Saved chart specifications backed by the filesystem or MongoDB.
//
// [publish] - Uploads rendered artifacts to S3-compatible object storage.
//
// [server] - Preview server with live reload over websockets.
//
// [config] - Layered configuration from .env, environment and TOML.
//
// [errors] - Coded errors shared across all packages.
//
// # Testing
//
//	go test ./pkg/...
//
// [spec]: https://pkg.go.dev/github.com/matzehuels/chartwire/pkg/spec
// [chartjs]: https://pkg.go.dev/github.com/matzehuels/chartwire/pkg/chartjs
// [document]: https://pkg.go.dev/github.com/matzehuels/chartwire/pkg/document
// [render]: https://pkg.go.dev/github.com/matzehuels/chartwire/pkg/render
// [render/page]: https://pkg.go.dev/github.com/matzehuels/chartwire/pkg/render/page
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/chartwire/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/chartwire/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/chartwire/pkg/store
// [publish]: https://pkg.go.dev/github.com/matzehuels/chartwire/pkg/publish
// [server]: https://pkg.go.dev/github.com/matzehuels/chartwire/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/chartwire/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/chartwire/pkg/errors
package pkg
