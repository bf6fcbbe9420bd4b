package spec

import (
	"encoding/json"

	"github.com/matzehuels/chartwire/pkg/chartjs"
)

// Build decodes the spec's data and options into the chartjs model for its
// chart type.
func Build(f *File) (chartjs.Config, error) {
	t, err := chartjs.ParseChartType(f.Type)
	if err != nil {
		return nil, err
	}
	opts, err := buildOptions(f.Options)
	if err != nil {
		return nil, specError(err, "chart %q: options", f.ID)
	}

	switch t.Shape() {
	case chartjs.ShapeXY:
		c := &chartjs.Chart[chartjs.XYDataset]{ID: f.ID, Type: t, Options: opts}
		if err := decodeStrict(f.Data, &c.Data); err != nil {
			return nil, specError(err, "chart %q: data", f.ID)
		}
		return c, nil
	default:
		c := &chartjs.Chart[chartjs.SinglePointDataset]{ID: f.ID, Type: t, Options: opts}
		if err := decodeStrict(f.Data, &c.Data); err != nil {
			return nil, specError(err, "chart %q: data", f.ID)
		}
		return c, nil
	}
}

func buildOptions(raw json.RawMessage) (*chartjs.Options, error) {
	if isNullJSON(raw) {
		return nil, nil
	}
	var o chartjs.Options
	if err := decodeStrict(raw, &o); err != nil {
		return nil, err
	}
	return &o, nil
}
