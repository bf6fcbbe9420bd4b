package chartjs

import (
	"github.com/matzehuels/chartwire/pkg/document"
	errs "github.com/matzehuels/chartwire/pkg/errors"
)

// Config is any chart configuration that can be serialized to a document.
type Config interface {
	ChartID() string
	ChartType() ChartType
	Document() (*document.Document, error)
}

// Dataset constrains the dataset structure of a [Chart].
type Dataset interface {
	SinglePointDataset | XYDataset
}

// Chart is the root of a chart configuration. The id is written first so
// mutation hooks can switch on it.
type Chart[D Dataset] struct {
	ID      string    `json:"id"`
	Type    ChartType `json:"type"`
	Data    Data[D]   `json:"data"`
	Options *Options  `json:"options,omitempty"`
}

// Data holds the datasets and the category labels shared by them.
type Data[D Dataset] struct {
	Datasets []D                  `json:"datasets"`
	Labels   []NumberOrDateString `json:"labels,omitempty"`
}

// NewBar returns an empty bar chart.
func NewBar(id string) *Chart[SinglePointDataset] { return newChart[SinglePointDataset](id, TypeBar) }

// NewPie returns an empty pie chart.
func NewPie(id string) *Chart[SinglePointDataset] { return newChart[SinglePointDataset](id, TypePie) }

// NewDoughnut returns an empty doughnut chart.
func NewDoughnut(id string) *Chart[SinglePointDataset] {
	return newChart[SinglePointDataset](id, TypeDoughnut)
}

// NewRadar returns an empty radar chart.
func NewRadar(id string) *Chart[SinglePointDataset] {
	return newChart[SinglePointDataset](id, TypeRadar)
}

// NewPolarArea returns an empty polar area chart.
func NewPolarArea(id string) *Chart[SinglePointDataset] {
	return newChart[SinglePointDataset](id, TypePolarArea)
}

// NewLine returns an empty line chart with point datasets.
func NewLine(id string) *Chart[XYDataset] { return newChart[XYDataset](id, TypeLine) }

// NewScatter returns an empty scatter chart.
func NewScatter(id string) *Chart[XYDataset] { return newChart[XYDataset](id, TypeScatter) }

// NewBubble returns an empty bubble chart. Point radii go in XYPoint.R.
func NewBubble(id string) *Chart[XYDataset] { return newChart[XYDataset](id, TypeBubble) }

func newChart[D Dataset](id string, t ChartType) *Chart[D] {
	return &Chart[D]{ID: id, Type: t}
}

// AddDataset appends d. Dataset order is preserved in the document.
func (c *Chart[D]) AddDataset(d D) *Chart[D] {
	c.Data.Datasets = append(c.Data.Datasets, d)
	return c
}

// SetLabels replaces the category labels.
func (c *Chart[D]) SetLabels(labels ...NumberOrDateString) *Chart[D] {
	c.Data.Labels = labels
	return c
}

// SetOptions replaces the options tree.
func (c *Chart[D]) SetOptions(o *Options) *Chart[D] {
	c.Options = o
	return c
}

// ChartID implements Config.
func (c *Chart[D]) ChartID() string { return c.ID }

// ChartType implements Config.
func (c *Chart[D]) ChartType() ChartType { return c.Type }

// Document serializes the chart. It fails if the id is not a valid chart id,
// the type is empty, a field cannot be converted or a function cannot be
// embedded.
func (c *Chart[D]) Document() (*document.Document, error) {
	if err := errs.ValidateChartID(c.ID); err != nil {
		return nil, err
	}
	if c.Type == "" {
		return nil, errs.New(errs.ErrCodeInvalidChartType, "chart %q has no type", c.ID)
	}
	n, err := document.FromValue(c)
	if err != nil {
		return nil, errs.Annotate(err, errs.ErrCodeInternal, "serialize chart %q", c.ID)
	}
	if err := document.Check(n); err != nil {
		return nil, err
	}
	return document.FromNode(n)
}
