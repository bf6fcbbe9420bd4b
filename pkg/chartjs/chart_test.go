package chartjs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/chartwire/pkg/document"
	errs "github.com/matzehuels/chartwire/pkg/errors"
)

func TestScatterSegmentFunction(t *testing.T) {
	const body = "return ctx.p0.parsed.y > ctx.p1.parsed.y ? 'red' : 'green'"

	c := NewScatter("c1").AddDataset(XYDataset{
		Data: PointsData(Point(1, 2), Point(3, 4)),
		Segment: &Segment{
			BorderColor: Fn[string](MustFunc(body, "ctx")),
		},
	})

	doc, err := c.Document()
	require.NoError(t, err)
	assert.Equal(t, "c1", doc.ID())
	assert.Equal(t,
		`{"id":"c1","type":"scatter","data":{"datasets":[{"data":[{"x":1,"y":2},{"x":3,"y":4}],`+
			`"segment":{"borderColor":function(ctx) { return ctx.p0.parsed.y > ctx.p1.parsed.y ? 'red' : 'green' }}}]}}`,
		doc.String())
}

func TestUnsetFieldsAreOmitted(t *testing.T) {
	c := NewBar("sales").
		SetLabels(Labels("Q1", "Q2")...).
		AddDataset(SinglePointDataset{Label: "2024", Data: Nums(10, 20)}).
		SetOptions(&Options{Plugins: &Plugins{Legend: &PluginLegend{Display: Bool(false)}}})

	doc, err := c.Document()
	require.NoError(t, err)
	assert.Equal(t,
		`{"id":"sales","type":"bar","data":{"datasets":[{"data":[10,20],"label":"2024"}],"labels":["Q1","Q2"]},`+
			`"options":{"plugins":{"legend":{"display":false}}}}`,
		doc.String())
}

func TestDatasetOrderIsPreserved(t *testing.T) {
	c := NewLine("l")
	for _, label := range []string{"z", "a", "m"} {
		c.AddDataset(XYDataset{Label: label})
	}
	doc, err := c.Document()
	require.NoError(t, err)

	out := doc.String()
	z, a, m := strings.Index(out, `"z"`), strings.Index(out, `"a"`), strings.Index(out, `"m"`)
	assert.True(t, z < a && a < m, out)
}

func TestStringThatLooksLikeAFunctionStaysQuoted(t *testing.T) {
	c := NewLine("l").AddDataset(XYDataset{
		Label:       "function(x) { {} }",
		BorderColor: Fn[string](MustFunc("{}", "x")),
	})
	doc, err := c.Document()
	require.NoError(t, err)

	out := doc.String()
	assert.Contains(t, out, `"label":"function(x) { {} }"`)
	assert.Contains(t, out, `"borderColor":function(x) { {} }`)
}

func TestScalesAndCallbacks(t *testing.T) {
	c := NewLine("temps").SetOptions(&Options{
		Scales: map[string]*Scale{
			"y": {Min: "0", Max: "40", Ticks: &Ticks{Callback: MustFunc("return value + '°C'", "value")}},
			"x": {Type: "time", Time: &ScaleTime{Unit: "day"}, Stacked: "single"},
		},
		Plugins: &Plugins{
			Tooltip: &Tooltip{Callbacks: &TooltipCallbacks{
				Label: MustFunc("return ctx.formattedValue", "ctx"),
			}},
		},
	})
	doc, err := c.Document()
	require.NoError(t, err)
	assert.Equal(t,
		`{"id":"temps","type":"line","data":{},"options":{"plugins":{"tooltip":{"callbacks":{"label":function(ctx) { return ctx.formattedValue }}}},`+
			`"scales":{"x":{"type":"time","stacked":"single","time":{"unit":"day"}},`+
			`"y":{"max":40,"min":0,"ticks":{"callback":function(value) { return value + '°C' }}}}}}`,
		doc.String())
}

func TestAnnotationsGetTheirType(t *testing.T) {
	ann := (&Annotations{}).
		Add("target", &LineAnnotation{ScaleID: "y", Value: "30", BorderDash: Nums(4, 4)}).
		Add("band", BoxAnnotation{YMin: "10", YMax: "20"})

	c := NewBar("b").SetOptions(&Options{Plugins: &Plugins{Annotation: ann}})
	doc, err := c.Document()
	require.NoError(t, err)

	node, ok := doc.Get("options.plugins.annotation.annotations")
	require.True(t, ok)
	out, err := docString(node)
	require.NoError(t, err)
	assert.Equal(t,
		`{"band":{"type":"box","yMin":10,"yMax":20},"target":{"type":"line","scaleID":"y","value":30,"borderDash":[4,4]}}`,
		out)
}

func TestDocumentErrors(t *testing.T) {
	_, err := NewBar("").Document()
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidChartID))

	_, err = (&Chart[SinglePointDataset]{ID: "x"}).Document()
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidChartType))

	c := NewBar("x").SetOptions(&Options{OnClick: MustFunc("}); steal(); ({")})
	_, err = c.Document()
	assert.True(t, errs.Is(err, errs.ErrCodeEmbedding))
}

func TestParseChartType(t *testing.T) {
	ct, err := ParseChartType("polararea")
	require.NoError(t, err)
	assert.Equal(t, TypePolarArea, ct)
	assert.Equal(t, ShapeSinglePoint, ct.Shape())
	assert.Equal(t, ShapeXY, TypeBubble.Shape())

	_, err = ParseChartType("sankey")
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidChartType))
}

func TestRawAndMinMaxData(t *testing.T) {
	data, err := RawData([]map[string]any{{"x": "a", "v": 1}})
	require.NoError(t, err)
	c := NewLine("r").AddDataset(XYDataset{Data: data}).AddDataset(XYDataset{Data: MinMaxData(MinMaxPoint{"1", "5"})})
	doc, err := c.Document()
	require.NoError(t, err)
	assert.Contains(t, doc.String(), `"datasets":[{"data":[{"v":1,"x":"a"}]},{"data":[[1,5]]}]`)

	assert.True(t, DatasetData{}.IsZero())
	assert.True(t, PointsData().IsZero())
}

func docString(n document.Node) (string, error) {
	b, err := document.Marshal(n)
	return string(b), err
}
