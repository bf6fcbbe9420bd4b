package chartjs

// Plugins holds per-plugin options, including those of the bundled plugins
// (title, legend, tooltip) and the annotation, datalabels and autocolors
// plugins.
type Plugins struct {
	Autocolors *bool         `json:"autocolors,omitempty"`
	Tooltip    *Tooltip      `json:"tooltip,omitempty"`
	Annotation *Annotations  `json:"annotation,omitempty"`
	Title      *Title        `json:"title,omitempty"`
	Subtitle   *Title        `json:"subtitle,omitempty"`
	Legend     *PluginLegend `json:"legend,omitempty"`
	DataLabels *DataLabels   `json:"datalabels,omitempty"`
}

type PluginLegend struct {
	Display  *bool          `json:"display,omitempty"`
	Position string         `json:"position,omitempty"`
	Labels   *LegendLabel   `json:"labels,omitempty"`
	Reverse  *bool          `json:"reverse,omitempty"`
	OnClick  *FunctionValue `json:"onClick,omitempty"`
}

type LegendLabel struct {
	UsePointStyle   *bool          `json:"usePointStyle,omitempty"`
	UseBorderRadius *bool          `json:"useBorderRadius,omitempty"`
	BoxHeight       *int           `json:"boxHeight,omitempty"`
	BoxWidth        *int           `json:"boxWidth,omitempty"`
	Color           string         `json:"color,omitempty"`
	Font            *Font          `json:"font,omitempty"`
	PointStyle      string         `json:"pointStyle,omitempty"`
	PointStyleWidth NumberString   `json:"pointStyleWidth,omitempty"`
	Filter          *FunctionValue `json:"filter,omitempty"`
}

type Tooltip struct {
	Enabled           *bool             `json:"enabled,omitempty"`
	Mode              string            `json:"mode,omitempty"`
	Intersect         *bool             `json:"intersect,omitempty"`
	BodyColor         string            `json:"bodyColor,omitempty"`
	BodyAlign         string            `json:"bodyAlign,omitempty"`
	DisplayColors     *bool             `json:"displayColors,omitempty"`
	BackgroundColor   string            `json:"backgroundColor,omitempty"`
	TitleColor        string            `json:"titleColor,omitempty"`
	TitleAlign        string            `json:"titleAlign,omitempty"`
	TitleMarginBottom NumberString      `json:"titleMarginBottom,omitempty"`
	Filter            *FunctionValue    `json:"filter,omitempty"`
	Callbacks         *TooltipCallbacks `json:"callbacks,omitempty"`
}

// TooltipCallbacks override the text of each part of a tooltip.
type TooltipCallbacks struct {
	Title      *FunctionValue `json:"title,omitempty"`
	Label      *FunctionValue `json:"label,omitempty"`
	AfterLabel *FunctionValue `json:"afterLabel,omitempty"`
	Footer     *FunctionValue `json:"footer,omitempty"`
	LabelColor *FunctionValue `json:"labelColor,omitempty"`
}

// DataLabels configures chartjs-plugin-datalabels, globally or per dataset.
type DataLabels struct {
	Align           string         `json:"align,omitempty"`
	Anchor          string         `json:"anchor,omitempty"`
	BackgroundColor string         `json:"backgroundColor,omitempty"`
	BorderRadius    NumberString   `json:"borderRadius,omitempty"`
	DrawTime        NumberString   `json:"drawTime,omitempty"`
	Color           string         `json:"color,omitempty"`
	Clip            *bool          `json:"clip,omitempty"`
	Display         BoolString     `json:"display,omitempty"`
	Offset          NumberString   `json:"offset,omitempty"`
	Padding         *Padding       `json:"padding,omitempty"`
	Font            *Font          `json:"font,omitempty"`
	Z               NumberString   `json:"z,omitempty"`
	Formatter       *FunctionValue `json:"formatter,omitempty"`
}
