// Package spec reads chart spec files and turns them into typed chart
// configurations.
//
// A spec file names one chart:
//
//	id = "revenue"
//	type = "bar"
//	title = "Revenue by quarter"
//	description = "Figures are **unaudited**."
//
//	[data]
//	labels = ["Q1", "Q2", "Q3", "Q4"]
//
//	[[data.datasets]]
//	label = "2024"
//	data = [12, 19, 3, 5]
//
//	[[patches]]
//	path = "options.plugins.tooltip.callbacks.label"
//	function = { args = ["ctx"], body = "return ctx.formattedValue + ' k€'" }
//
// TOML, YAML, JSON and JSON with comments are accepted; the format is picked
// from the file extension. Data and options are decoded strictly into the
// chartjs model, so a misspelled field is an error rather than a silently
// ignored key. Fields the model does not cover are set with patches, which are
// applied by the mutation hook returned from [PatchHook].
//
// Functions can appear anywhere the model accepts a scriptable value, written
// as {"$fn": {"args": [...], "body": "..."}}.
package spec
