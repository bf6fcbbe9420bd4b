package chartjs

import (
	"encoding/json"

	"github.com/matzehuels/chartwire/pkg/document"
)

// SinglePointDataset is a dataset with one value per label, used by bar,
// pie, doughnut, radar and polar area charts.
type SinglePointDataset struct {
	BackgroundColor           Scriptable[[]string] `json:"backgroundColor,omitzero"`
	Base                      NumberString         `json:"base,omitempty"`
	BarThickness              NumberString         `json:"barThickness,omitempty"`
	BarPercentage             NumberString         `json:"barPercentage,omitempty"`
	BorderColor               Scriptable[string]   `json:"borderColor,omitzero"`
	BorderSkipped             string               `json:"borderSkipped,omitempty"`
	BorderWidth               NumberString         `json:"borderWidth,omitempty"`
	BorderRadius              NumberString         `json:"borderRadius,omitempty"`
	BorderJoinStyle           string               `json:"borderJoinStyle,omitempty"`
	CategoryPercentage        NumberString         `json:"categoryPercentage,omitempty"`
	Clip                      NumberString         `json:"clip,omitempty"`
	Data                      []NumberString       `json:"data,omitempty"`
	DataLabels                *DataLabels          `json:"datalabels,omitempty"`
	Grouped                   *bool                `json:"grouped,omitempty"`
	Hidden                    *bool                `json:"hidden,omitempty"`
	HoverBackgroundColor      string               `json:"hoverBackgroundColor,omitempty"`
	HoverBorderColor          string               `json:"hoverBorderColor,omitempty"`
	HoverBorderWidth          NumberString         `json:"hoverBorderWidth,omitempty"`
	HoverBorderRadius         NumberString         `json:"hoverBorderRadius,omitempty"`
	HoverOffset               NumberString         `json:"hoverOffset,omitempty"`
	IndexAxis                 string               `json:"indexAxis,omitempty"`
	InflateAmount             NumberString         `json:"inflateAmount,omitempty"`
	Label                     string               `json:"label,omitempty"`
	MaxBarThickness           NumberString         `json:"maxBarThickness,omitempty"`
	MinBarLength              NumberString         `json:"minBarLength,omitempty"`
	Order                     NumberString         `json:"order,omitempty"`
	PointBackgroundColor      string               `json:"pointBackgroundColor,omitempty"`
	PointBorderColor          string               `json:"pointBorderColor,omitempty"`
	PointBorderWidth          NumberString         `json:"pointBorderWidth,omitempty"`
	PointHoverBackgroundColor string               `json:"pointHoverBackgroundColor,omitempty"`
	PointHoverBorderWidth     NumberString         `json:"pointHoverBorderWidth,omitempty"`
	PointHoverRadius          NumberOrDateString   `json:"pointHoverRadius,omitempty"`
	PointRadius               NumberString         `json:"pointRadius,omitempty"`
	PointStyle                string               `json:"pointStyle,omitempty"`
	SkipNull                  *bool                `json:"skipNull,omitempty"`
	Stack                     string               `json:"stack,omitempty"`
	Stepped                   *bool                `json:"stepped,omitempty"`
	Type                      string               `json:"type,omitempty"`
	XAxisID                   string               `json:"xAxisID,omitempty"`
	YAxisID                   string               `json:"yAxisID,omitempty"`
}

// XYDataset is a dataset of points, used by line, scatter and bubble charts.
// Data is usually built with [PointsData] or [MinMaxData].
type XYDataset struct {
	BackgroundColor           Scriptable[string]  `json:"backgroundColor,omitzero"`
	BarThickness              NumberString        `json:"barThickness,omitempty"`
	BorderColor               Scriptable[string]  `json:"borderColor,omitzero"`
	BorderDash                []NumberString      `json:"borderDash,omitempty"`
	BorderJoinStyle           string              `json:"borderJoinStyle,omitempty"`
	BorderWidth               NumberString        `json:"borderWidth,omitempty"`
	Data                      DatasetData         `json:"data,omitzero"`
	DataLabels                *DataLabels         `json:"datalabels,omitempty"`
	Description               string              `json:"description,omitempty"`
	CategoryLabel             string              `json:"category_label,omitempty"`
	Hidden                    *bool               `json:"hidden,omitempty"`
	HoverBackgroundColor      string              `json:"hoverBackgroundColor,omitempty"`
	Label                     string              `json:"label,omitempty"`
	Order                     NumberString        `json:"order,omitempty"`
	PointBackgroundColor      Scriptable[string]  `json:"pointBackgroundColor,omitzero"`
	PointBorderColor          string              `json:"pointBorderColor,omitempty"`
	PointBorderWidth          NumberString        `json:"pointBorderWidth,omitempty"`
	PointHoverBackgroundColor string              `json:"pointHoverBackgroundColor,omitempty"`
	PointHoverBorderWidth     NumberString        `json:"pointHoverBorderWidth,omitempty"`
	PointHoverRadius          NumberOrDateString  `json:"pointHoverRadius,omitempty"`
	PointRadius               Scriptable[float64] `json:"pointRadius,omitzero"`
	PointHitRadius            NumberString        `json:"pointHitRadius,omitempty"`
	HitRadius                 NumberString        `json:"hitRadius,omitempty"`
	PointStyle                string              `json:"pointStyle,omitempty"`
	Type                      string              `json:"type,omitempty"`
	Stepped                   BoolString          `json:"stepped,omitempty"`
	Tension                   NumberString        `json:"tension,omitempty"`
	XAxisID                   string              `json:"xAxisID,omitempty"`
	YAxisID                   string              `json:"yAxisID,omitempty"`
	Fill                      BoolString          `json:"fill,omitempty"`
	Base                      NumberString        `json:"base,omitempty"`
	BarPercentage             NumberString        `json:"barPercentage,omitempty"`
	BorderSkipped             string              `json:"borderSkipped,omitempty"`
	BorderRadius              NumberString        `json:"borderRadius,omitempty"`
	CategoryPercentage        NumberString        `json:"categoryPercentage,omitempty"`
	Clip                      NumberString        `json:"clip,omitempty"`
	Grouped                   *bool               `json:"grouped,omitempty"`
	HoverBorderColor          string              `json:"hoverBorderColor,omitempty"`
	HoverBorderWidth          NumberString        `json:"hoverBorderWidth,omitempty"`
	HoverBorderRadius         NumberString        `json:"hoverBorderRadius,omitempty"`
	IndexAxis                 string              `json:"indexAxis,omitempty"`
	InflateAmount             NumberString        `json:"inflateAmount,omitempty"`
	MaxBarThickness           NumberString        `json:"maxBarThickness,omitempty"`
	MinBarLength              NumberString        `json:"minBarLength,omitempty"`
	SkipNull                  *bool               `json:"skipNull,omitempty"`
	Stack                     string              `json:"stack,omitempty"`
	Z                         NumberString        `json:"z,omitempty"`
	Segment                   *Segment            `json:"segment,omitempty"`
	SpanGaps                  *bool               `json:"spanGaps,omitempty"`
}

// Segment styles the line between two consecutive points. Its fields are
// normally functions of the segment context (ctx.p0, ctx.p1).
type Segment struct {
	BackgroundColor Scriptable[string]         `json:"backgroundColor,omitzero"`
	BorderColor     Scriptable[string]         `json:"borderColor,omitzero"`
	BorderDash      Scriptable[[]NumberString] `json:"borderDash,omitzero"`
	BorderWidth     Scriptable[float64]        `json:"borderWidth,omitzero"`
}

// XYPoint is one point of an XY dataset. R is the bubble radius.
type XYPoint struct {
	X           NumberOrDateString `json:"x,omitempty"`
	Y           NumberString       `json:"y,omitempty"`
	R           NumberString       `json:"r,omitempty"`
	Description string             `json:"description,omitempty"`
}

// Point returns a numeric point.
func Point[X, Y Numeric](x X, y Y) XYPoint {
	return XYPoint{X: NumberOrDateString(Num(x)), Y: Num(y)}
}

// DatePoint returns a point on a time or category axis.
func DatePoint[Y Numeric](x string, y Y) XYPoint {
	return XYPoint{X: NumberOrDateString(x), Y: Num(y)}
}

// NaNPoint returns a point Chart.js skips, leaving a gap in the line.
func NaNPoint() XYPoint {
	return XYPoint{X: "NaN", Y: "NaN"}
}

// MinMaxPoint is a floating bar: [min, max].
type MinMaxPoint [2]NumberOrDateString

// DatasetData is a dataset's data array in its final document form. It lets
// XY datasets carry points, ranges or any custom shape a plugin expects.
type DatasetData struct {
	node document.Node
}

// PointsData builds data from points, keeping their order.
func PointsData(points ...XYPoint) DatasetData {
	return mustData(points)
}

// MinMaxData builds data from [min, max] pairs.
func MinMaxData(points ...MinMaxPoint) DatasetData {
	return mustData(points)
}

// RawData builds data from any value convertible to a document array, such
// as []map[string]any for a plugin-specific point shape.
func RawData(v any) (DatasetData, error) {
	n, err := document.FromValue(v)
	if err != nil {
		return DatasetData{}, err
	}
	return DatasetData{node: n}, nil
}

func mustData(v any) DatasetData {
	d, err := RawData(v)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether there is no data.
func (d DatasetData) IsZero() bool {
	if d.node == nil {
		return true
	}
	if arr, ok := d.node.(document.Array); ok {
		return len(arr) == 0
	}
	_, null := d.node.(document.Null)
	return null
}

// Node returns the data array node.
func (d DatasetData) Node() document.Node {
	return d.node
}

// DocumentValue implements document.Valuer.
func (d DatasetData) DocumentValue() (document.Node, bool, error) {
	if d.IsZero() {
		return nil, false, nil
	}
	return document.Clone(d.node), true, nil
}

// MarshalJSON writes the data array.
func (d DatasetData) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("[]"), nil
	}
	return document.Marshal(d.node)
}

// UnmarshalJSON accepts any JSON array.
func (d *DatasetData) UnmarshalJSON(data []byte) error {
	n, err := document.ParseJSON(data)
	if err != nil {
		return err
	}
	d.node = n
	return nil
}

var _ json.Unmarshaler = (*DatasetData)(nil)
