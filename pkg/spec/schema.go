package spec

import (
	"encoding/json"
	"reflect"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/matzehuels/chartwire/pkg/chartjs"
)

var (
	schemaOnce sync.Once
	schemaDoc  *jsonschema.Schema
)

// scriptable matches every chartjs.Scriptable instantiation.
type scriptable interface {
	Func() (*chartjs.FunctionValue, bool)
}

var (
	scriptableType   = reflect.TypeOf((*scriptable)(nil)).Elem()
	functionType     = reflect.TypeOf(chartjs.FunctionValue{})
	numberStringType = reflect.TypeOf(chartjs.NumberString(""))
	numberOrDateType = reflect.TypeOf(chartjs.NumberOrDateString(""))
	boolStringType   = reflect.TypeOf(chartjs.BoolString(""))
	datasetDataType  = reflect.TypeOf(chartjs.DatasetData{})
	annotationsType  = reflect.TypeOf(chartjs.Annotations{})
	rawMessageType   = reflect.TypeOf(json.RawMessage{})
)

// Schema returns the JSON Schema for spec files. The data property accepts
// either dataset shape; the type property decides which one applies.
func Schema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		r := reflector()
		s := r.Reflect(&File{})
		s.Title = "chartwire chart spec"

		types := chartjs.ChartTypes()
		enum := make([]any, len(types))
		for i, t := range types {
			enum[i] = string(t)
		}
		if p, ok := s.Properties.Get("type"); ok {
			p.Enum = enum
		}
		s.Properties.Set("data", &jsonschema.Schema{
			Description: "Datasets and labels",
			OneOf: []*jsonschema.Schema{
				r.Reflect(&chartjs.Data[chartjs.SinglePointDataset]{}),
				r.Reflect(&chartjs.Data[chartjs.XYDataset]{}),
			},
		})
		opts := r.Reflect(&chartjs.Options{})
		opts.Description = "Chart options"
		s.Properties.Set("options", opts)
		schemaDoc = s
	})
	return schemaDoc
}

// SchemaJSON returns the indented schema document.
func SchemaJSON() ([]byte, error) {
	return json.MarshalIndent(Schema(), "", "  ")
}

func reflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
		Mapper:         mapType,
	}
}

func functionSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("args", &jsonschema.Schema{
		Type:        "array",
		Items:       &jsonschema.Schema{Type: "string", Pattern: `^[A-Za-z_$][A-Za-z0-9_$]*$`},
		Description: "Parameter names",
	})
	props.Set("body", &jsonschema.Schema{Type: "string", Description: "Function body"})
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		Required:             []string{"body"},
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

func fnWrapperSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("$fn", functionSchema())
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		Required:             []string{"$fn"},
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

func numberOrString() *jsonschema.Schema {
	return &jsonschema.Schema{OneOf: []*jsonschema.Schema{{Type: "number"}, {Type: "string"}}}
}

func mapType(t reflect.Type) *jsonschema.Schema {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case functionType:
		return functionSchema()
	case numberStringType, numberOrDateType:
		return numberOrString()
	case boolStringType:
		return &jsonschema.Schema{OneOf: []*jsonschema.Schema{{Type: "boolean"}, {Type: "string"}}}
	case datasetDataType:
		return &jsonschema.Schema{Type: "array", Description: "Numbers, points or [min, max] pairs"}
	case annotationsType:
		props := jsonschema.NewProperties()
		props.Set("annotations", &jsonschema.Schema{
			Type:                 "object",
			AdditionalProperties: &jsonschema.Schema{Type: "object"},
		})
		return &jsonschema.Schema{Type: "object", Properties: props}
	case rawMessageType:
		return &jsonschema.Schema{}
	}
	if t.Implements(scriptableType) {
		return &jsonschema.Schema{
			Description: `A value or {"$fn": {"args": [...], "body": "..."}}`,
			AnyOf: []*jsonschema.Schema{
				fnWrapperSchema(),
				{Type: "string"},
				{Type: "number"},
				{Type: "boolean"},
				{Type: "array"},
				{Type: "object"},
			},
		}
	}
	return nil
}
