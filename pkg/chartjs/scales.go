package chartjs

// Scale configures one axis. Options.Scales keys scales by axis id ("x", "y",
// "r" or a custom id referenced by a dataset's xAxisID/yAxisID).
type Scale struct {
	Type               string             `json:"type,omitempty"`
	AlignToPixels      *bool              `json:"alignToPixels,omitempty"`
	BackgroundColor    string             `json:"backgroundColor,omitempty"`
	BeginAtZero        *bool              `json:"beginAtZero,omitempty"`
	Border             *ScaleBorder       `json:"border,omitempty"`
	Bounds             string             `json:"bounds,omitempty"`
	Display            BoolString         `json:"display,omitempty"`
	Reverse            *bool              `json:"reverse,omitempty"`
	BarPercentage      NumberString       `json:"barPercentage,omitempty"`
	CategoryPercentage NumberString       `json:"categoryPercentage,omitempty"`
	Grace              NumberOrDateString `json:"grace,omitempty"`
	Grid               *Grid              `json:"grid,omitempty"`
	Grouped            *bool              `json:"grouped,omitempty"`
	Offset             *bool              `json:"offset,omitempty"`
	Max                NumberOrDateString `json:"max,omitempty"`
	Min                NumberOrDateString `json:"min,omitempty"`
	Position           string             `json:"position,omitempty"`
	Stacked            BoolString         `json:"stacked,omitempty"`
	SuggestedMax       NumberOrDateString `json:"suggestedMax,omitempty"`
	SuggestedMin       NumberOrDateString `json:"suggestedMin,omitempty"`
	Ticks              *Ticks             `json:"ticks,omitempty"`
	Time               *ScaleTime         `json:"time,omitempty"`
	Title              *Title             `json:"title,omitempty"`
	Weight             NumberString       `json:"weight,omitempty"`
}

type ScaleBorder struct {
	Display    *bool          `json:"display,omitempty"`
	Color      string         `json:"color,omitempty"`
	Width      NumberString   `json:"width,omitempty"`
	Dash       []NumberString `json:"dash,omitempty"`
	DashOffset NumberString   `json:"dashOffset,omitempty"`
	Z          NumberString   `json:"z,omitempty"`
}

type Grid struct {
	Display         *bool               `json:"display,omitempty"`
	DrawOnChartArea *bool               `json:"drawOnChartArea,omitempty"`
	DrawTicks       *bool               `json:"drawTicks,omitempty"`
	Color           Scriptable[string]  `json:"color,omitzero"`
	LineWidth       Scriptable[float64] `json:"lineWidth,omitzero"`
}

// Ticks configures tick marks and labels. Callback formats each label:
//
//	Callback: chartjs.MustFunc("return value + '%'", "value", "index", "ticks")
type Ticks struct {
	Align         string             `json:"align,omitempty"`
	Display       *bool              `json:"display,omitempty"`
	Color         Scriptable[string] `json:"color,omitzero"`
	Font          *Font              `json:"font,omitempty"`
	MaxTicksLimit NumberString       `json:"maxTicksLimit,omitempty"`
	StepSize      NumberString       `json:"stepSize,omitempty"`
	Count         NumberString       `json:"count,omitempty"`
	Precision     NumberString       `json:"precision,omitempty"`
	Callback      *FunctionValue     `json:"callback,omitempty"`
}

type ScaleTime struct {
	DisplayFormats *DisplayFormats `json:"displayFormats,omitempty"`
	Unit           string          `json:"unit,omitempty"`
	TooltipFormat  string          `json:"tooltipFormat,omitempty"`
	Parser         string          `json:"parser,omitempty"`
}

type DisplayFormats struct {
	Year    string `json:"year,omitempty"`
	Quarter string `json:"quarter,omitempty"`
	Month   string `json:"month,omitempty"`
	Week    string `json:"week,omitempty"`
	Day     string `json:"day,omitempty"`
	Hour    string `json:"hour,omitempty"`
	Minute  string `json:"minute,omitempty"`
}
