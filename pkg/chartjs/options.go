package chartjs

// Options is the chart's options tree.
type Options struct {
	Plugins             *Plugins          `json:"plugins,omitempty"`
	Scales              map[string]*Scale `json:"scales,omitempty"`
	Interaction         *Interaction      `json:"interaction,omitempty"`
	Tooltips            *Tooltips         `json:"tooltips,omitempty"`
	MaintainAspectRatio *bool             `json:"maintainAspectRatio,omitempty"`
	AspectRatio         NumberString      `json:"aspectRatio,omitempty"`
	Legend              *Legend           `json:"legend,omitempty"`
	Animation           *Animation        `json:"animation,omitempty"`
	SpanGaps            *bool             `json:"spanGaps,omitempty"`
	Elements            *Elements         `json:"elements,omitempty"`
	Responsive          *bool             `json:"responsive,omitempty"`
	IndexAxis           string            `json:"indexAxis,omitempty"`
	Layout              *Layout           `json:"layout,omitempty"`
	Parsing             BoolString        `json:"parsing,omitempty"`
	OnClick             *FunctionValue    `json:"onClick,omitempty"`
	OnHover             *FunctionValue    `json:"onHover,omitempty"`
}

// Interaction controls which elements an event hits.
type Interaction struct {
	Intersect *bool  `json:"intersect,omitempty"`
	Mode      string `json:"mode,omitempty"`
	Axis      string `json:"axis,omitempty"`
}

// Tooltips is the pre-v3 tooltip position option.
type Tooltips struct {
	Position string `json:"position,omitempty"`
}

// Legend is the pre-v3 top-level legend block. Prefer Plugins.Legend.
type Legend struct {
	Display  *bool        `json:"display,omitempty"`
	Position string       `json:"position,omitempty"`
	Labels   *LegendLabel `json:"labels,omitempty"`
}

type Animation struct {
	Duration   NumberString   `json:"duration,omitempty"`
	Easing     string         `json:"easing,omitempty"`
	Delay      NumberString   `json:"delay,omitempty"`
	OnComplete *FunctionValue `json:"onComplete,omitempty"`
}

type Layout struct {
	Padding *Padding `json:"padding,omitempty"`
}

// Elements sets defaults for every element of a kind.
type Elements struct {
	Bar   *BarElement   `json:"bar,omitempty"`
	Line  *LineElement  `json:"line,omitempty"`
	Point *PointElement `json:"point,omitempty"`
	Arc   *ArcElement   `json:"arc,omitempty"`
}

type BarElement struct {
	Fill             *bool        `json:"fill,omitempty"`
	BorderRadius     NumberString `json:"borderRadius,omitempty"`
	BorderWidth      NumberString `json:"borderWidth,omitempty"`
	HoverBorderWidth NumberString `json:"hoverBorderWidth,omitempty"`
}

type LineElement struct {
	Fill                   *bool        `json:"fill,omitempty"`
	BorderWidth            NumberString `json:"borderWidth,omitempty"`
	CubicInterpolationMode string       `json:"cubicInterpolationMode,omitempty"`
	Tension                NumberString `json:"tension,omitempty"`
}

type PointElement struct {
	Radius           NumberString `json:"radius,omitempty"`
	HitRadius        NumberString `json:"hitRadius,omitempty"`
	HoverRadius      NumberString `json:"hoverRadius,omitempty"`
	BorderWidth      NumberString `json:"borderWidth,omitempty"`
	HoverBorderWidth NumberString `json:"hoverBorderWidth,omitempty"`
	PointStyle       string       `json:"pointStyle,omitempty"`
}

type ArcElement struct {
	BorderAlign string       `json:"borderAlign,omitempty"`
	BorderColor string       `json:"borderColor,omitempty"`
	BorderWidth NumberString `json:"borderWidth,omitempty"`
	Offset      NumberString `json:"offset,omitempty"`
}

// Font is a Chart.js font spec. Style and Weight accept names ("italic",
// "bold") as well as numbers.
type Font struct {
	Family     string       `json:"family,omitempty"`
	Size       NumberString `json:"size,omitempty"`
	Style      NumberString `json:"style,omitempty"`
	Weight     NumberString `json:"weight,omitempty"`
	LineHeight NumberString `json:"lineHeight,omitempty"`
}

type Padding struct {
	Top    NumberString `json:"top,omitempty"`
	Bottom NumberString `json:"bottom,omitempty"`
	Left   NumberString `json:"left,omitempty"`
	Right  NumberString `json:"right,omitempty"`
}

// Title is used for the chart title, subtitle and axis titles.
type Title struct {
	Text    string   `json:"text,omitempty"`
	Display *bool    `json:"display,omitempty"`
	Color   string   `json:"color,omitempty"`
	Align   string   `json:"align,omitempty"`
	Font    *Font    `json:"font,omitempty"`
	Padding *Padding `json:"padding,omitempty"`
}
