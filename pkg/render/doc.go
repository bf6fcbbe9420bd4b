// Package render hands serialized chart documents to a JavaScript host.
//
// # Overview
//
// A [Host] is the environment where Chart.js lives: a browser page, a Go
// program compiled to WebAssembly, or an in-process recorder. The [Renderer]
// serializes a chart configuration and passes the document and the chart id
// to the host's construction entry point.
//
// There are two entry operations:
//
//   - [Renderer.Render] constructs the chart from the document as is.
//   - [Renderer.RenderMutate] first offers the document to the host's
//     mutation hook, a function registered under [HookName]. The hook
//     receives the document (with its "id" field) and returns the document
//     to construct. When no hook is registered the document passes through
//     unchanged.
//
// The hook exists to patch fields the typed model does not cover. Hooks are
// expected to switch on the document id and leave other charts alone; a hook
// that changes the id is rejected.
//
// # Hosts
//
// Hosts resolve the hook in one of two ways. A [HookResolver] returns a Go
// [Hook] that the renderer applies before calling Construct. A
// [DeferredMutator] receives the hook name and looks it up itself at run
// time, which is what hosts whose hook is JavaScript code do.
//
// Implementations:
//
//   - [MemoryHost]: records handoffs in memory and resolves Go hooks.
//   - [page]: writes an HTML page or script that constructs the charts.
//   - [jshost]: calls Chart.js through syscall/js (js/wasm builds only).
//
// Errors from the host's construction entry point are returned unchanged
// apart from context wrapping. They are never retried: constructing a chart
// twice under one id is not safe.
//
// [page]: github.com/matzehuels/chartwire/pkg/render/page
// [jshost]: github.com/matzehuels/chartwire/pkg/render/jshost
package render
