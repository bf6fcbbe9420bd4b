// Package document implements the canonical chart document: an ordered tree of
// data values whose leaves may also be executable function declarations.
//
// A document is what chartwire hands to the JavaScript side. It is a JSON-like
// object literal, with one extension: function leaves are written unquoted as
//
//	function(arg1, arg2) { body }
//
// so that a relaxed object-literal parser (new Function("return " + text), a
// <script> block) reconstructs them as live callables instead of strings.
//
// # Building documents
//
// Typed configurations are converted with [FromValue], a reflection walker that
// follows encoding/json conventions (json tags, omitempty, embedded structs)
// and lets types supply their own node through the [Valuer] interface:
//
//	node, err := document.FromValue(cfg)
//
// Absent fields never appear in the output; omission is the only encoding of
// "unset". Struct fields keep declaration order, slices keep element order and
// map keys are sorted so the encoding is deterministic.
//
// # Encoding
//
// [Encode] writes the compact form and [EncodeIndent] a human-readable one.
// Function bodies are embedded verbatim after [CheckBody] has confirmed they
// cannot terminate the surrounding token early.
//
// # Mutation
//
// [Document.Get], [Document.Set] and [Document.Delete] address nodes with
// dotted paths ("options.plugins.legend.display", "data.datasets.0.label").
// They exist for mutation hooks that patch fields the typed model does not
// cover.
package document
