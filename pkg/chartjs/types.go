package chartjs

import (
	"sort"
	"strings"

	errs "github.com/matzehuels/chartwire/pkg/errors"
)

// ChartType is the Chart.js chart kind, written as the document's "type".
type ChartType string

// Built-in Chart.js chart kinds. Plugins can register more; see RegisterType.
const (
	TypeBar       ChartType = "bar"
	TypeLine      ChartType = "line"
	TypeScatter   ChartType = "scatter"
	TypePie       ChartType = "pie"
	TypeDoughnut  ChartType = "doughnut"
	TypeRadar     ChartType = "radar"
	TypeBubble    ChartType = "bubble"
	TypePolarArea ChartType = "polarArea"
)

// DataShape says which dataset structure a chart kind uses.
type DataShape int

const (
	// ShapeSinglePoint datasets carry one value per label.
	ShapeSinglePoint DataShape = iota
	// ShapeXY datasets carry {x, y} points.
	ShapeXY
)

var chartTypes = map[ChartType]DataShape{
	TypeBar:       ShapeSinglePoint,
	TypeLine:      ShapeXY,
	TypeScatter:   ShapeXY,
	TypePie:       ShapeSinglePoint,
	TypeDoughnut:  ShapeSinglePoint,
	TypeRadar:     ShapeSinglePoint,
	TypeBubble:    ShapeXY,
	TypePolarArea: ShapeSinglePoint,
}

// RegisterType adds a chart kind provided by a Chart.js plugin (for example
// "matrix" or "treemap"). It is not safe to call concurrently with lookups
// and is meant for init functions.
func RegisterType(t ChartType, shape DataShape) {
	chartTypes[t] = shape
}

// ParseChartType resolves a chart kind by name. Matching ignores case, so
// "polararea" finds polarArea.
func ParseChartType(name string) (ChartType, error) {
	if _, ok := chartTypes[ChartType(name)]; ok {
		return ChartType(name), nil
	}
	for t := range chartTypes {
		if strings.EqualFold(string(t), name) {
			return t, nil
		}
	}
	return "", errs.New(errs.ErrCodeInvalidChartType, "unknown chart type %q (supported: %s)", name, strings.Join(typeNames(), ", "))
}

// Shape returns the dataset structure used by t.
func (t ChartType) Shape() DataShape {
	return chartTypes[t]
}

// Known reports whether t is a registered chart kind.
func (t ChartType) Known() bool {
	_, ok := chartTypes[t]
	return ok
}

// ChartTypes returns every registered chart kind, sorted.
func ChartTypes() []ChartType {
	out := make([]ChartType, 0, len(chartTypes))
	for t := range chartTypes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func typeNames() []string {
	types := ChartTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}
