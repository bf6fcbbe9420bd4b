// Package chartjs is a typed model of Chart.js chart configurations.
//
// A configuration is built from a generic [Chart] root, one constructor per
// chart kind, and a family of optional option structures shared between
// kinds:
//
//	c := chartjs.NewScatter("c1")
//	c.AddDataset(chartjs.XYDataset{
//		Label: "growth",
//		Data:  chartjs.PointsData(chartjs.Point(1, 2), chartjs.Point(3, 4)),
//		Segment: &chartjs.Segment{
//			BorderColor: chartjs.Fn[string](chartjs.MustFunc(
//				"return ctx.p0.parsed.y > ctx.p1.parsed.y ? 'red' : 'green'", "ctx")),
//		},
//	})
//	doc, err := c.Document()
//
// Every field is optional. Unset fields are left out of the document so
// Chart.js applies its own defaults.
//
// # Callbacks
//
// Chart.js accepts functions in many places (tick labels, tooltip callbacks,
// segment styling). A [FunctionValue] carries the parameter names and body of
// such a function; it is serialized as an unquoted function expression rather
// than a string. Fields that accept either a value or a function use
// [Scriptable]:
//
//	ds.BorderColor = chartjs.Val("#4e79a7")
//	ds.BorderColor = chartjs.Fn[string](chartjs.MustFunc("return ctx.raw > 0 ? 'green' : 'red'", "ctx"))
//
// # Loose values
//
// [NumberString], [NumberOrDateString] and [BoolString] hold text that is
// written as a number (or bool) when it parses as one and as a string
// otherwise. Chart.js fields such as min/max, stepped and fill accept both.
//
// Fields the model does not cover can be patched into the document by a
// mutation hook; see package render.
package chartjs
