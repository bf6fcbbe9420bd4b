package chartjs

import (
	"encoding/json"
	"sort"

	"github.com/matzehuels/chartwire/pkg/document"
	errs "github.com/matzehuels/chartwire/pkg/errors"
)

// Annotation is an element drawn by chartjs-plugin-annotation.
type Annotation interface {
	// AnnotationType is the plugin's type name, written when Type is unset.
	AnnotationType() string
}

// Annotations is the annotation plugin block. Annotations are keyed by name;
// names are written in sorted order.
type Annotations struct {
	Annotations map[string]Annotation `json:"annotations,omitempty"`
}

// Add stores ann under name.
func (a *Annotations) Add(name string, ann Annotation) *Annotations {
	if a.Annotations == nil {
		a.Annotations = make(map[string]Annotation)
	}
	a.Annotations[name] = ann
	return a
}

// DocumentValue implements document.Valuer.
func (a Annotations) DocumentValue() (document.Node, bool, error) {
	if len(a.Annotations) == 0 {
		return nil, false, nil
	}
	names := make([]string, 0, len(a.Annotations))
	for name := range a.Annotations {
		names = append(names, name)
	}
	sort.Strings(names)

	items := document.NewObject()
	for _, name := range names {
		ann := a.Annotations[name]
		if ann == nil {
			continue
		}
		n, err := document.FromValue(ann)
		if err != nil {
			return nil, false, err
		}
		obj, ok := n.(*document.Object)
		if !ok {
			return nil, false, errs.New(errs.ErrCodeInvalidInput, "annotation %q is not an object", name)
		}
		if _, ok := obj.Get("type"); !ok {
			typed := document.NewObject()
			typed.Set("type", document.String(ann.AnnotationType()))
			obj.Range(func(key string, v document.Node) bool {
				typed.Set(key, v)
				return true
			})
			obj = typed
		}
		items.Set(name, obj)
	}
	root := document.NewObject()
	root.Set("annotations", items)
	return root, true, nil
}

// UnmarshalJSON picks the annotation struct from each entry's "type" field.
// A missing type means a line annotation.
func (a *Annotations) UnmarshalJSON(data []byte) error {
	var raw struct {
		Annotations map[string]json.RawMessage `json:"annotations"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Annotations = nil
	for name, entry := range raw.Annotations {
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(entry, &head); err != nil {
			return err
		}
		var ann Annotation
		switch head.Type {
		case "", "line":
			ann = &LineAnnotation{}
		case "box":
			ann = &BoxAnnotation{}
		case "label":
			ann = &LabelAnnotation{}
		default:
			return errs.New(errs.ErrCodeUnsupported, "annotation %q: unsupported type %q", name, head.Type)
		}
		if err := json.Unmarshal(entry, ann); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidSpec, err, "annotation %q", name)
		}
		a.Add(name, ann)
	}
	return nil
}

// AnnotationLabel is the label attached to a line or box annotation.
type AnnotationLabel struct {
	Display         *bool  `json:"display,omitempty"`
	Content         string `json:"content,omitempty"`
	Position        string `json:"position,omitempty"`
	Color           string `json:"color,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	Font            *Font  `json:"font,omitempty"`
}

// LineAnnotation draws a line, either across a scale at Value or between
// the given min/max coordinates.
type LineAnnotation struct {
	Type        string             `json:"type,omitempty"`
	DrawTime    string             `json:"drawTime,omitempty"`
	ScaleID     string             `json:"scaleID,omitempty"`
	Value       NumberOrDateString `json:"value,omitempty"`
	XMin        NumberOrDateString `json:"xMin,omitempty"`
	XMax        NumberOrDateString `json:"xMax,omitempty"`
	YMin        NumberOrDateString `json:"yMin,omitempty"`
	YMax        NumberOrDateString `json:"yMax,omitempty"`
	BorderColor string             `json:"borderColor,omitempty"`
	BorderDash  []NumberString     `json:"borderDash,omitempty"`
	BorderWidth NumberString       `json:"borderWidth,omitempty"`
	XScaleID    string             `json:"xScaleID,omitempty"`
	YScaleID    string             `json:"yScaleID,omitempty"`
	Label       *AnnotationLabel   `json:"label,omitempty"`
}

func (LineAnnotation) AnnotationType() string { return "line" }

type BoxAnnotation struct {
	Type            string             `json:"type,omitempty"`
	DrawTime        string             `json:"drawTime,omitempty"`
	XMin            NumberOrDateString `json:"xMin,omitempty"`
	XMax            NumberOrDateString `json:"xMax,omitempty"`
	YMin            NumberOrDateString `json:"yMin,omitempty"`
	YMax            NumberOrDateString `json:"yMax,omitempty"`
	BorderColor     string             `json:"borderColor,omitempty"`
	BackgroundColor string             `json:"backgroundColor,omitempty"`
	BorderDash      []NumberString     `json:"borderDash,omitempty"`
	BorderWidth     NumberString       `json:"borderWidth,omitempty"`
	Label           *AnnotationLabel   `json:"label,omitempty"`
}

func (BoxAnnotation) AnnotationType() string { return "box" }

// LabelAnnotation places free text at a data coordinate.
type LabelAnnotation struct {
	Type            string             `json:"type,omitempty"`
	DrawTime        string             `json:"drawTime,omitempty"`
	XValue          NumberOrDateString `json:"xValue,omitempty"`
	YValue          NumberOrDateString `json:"yValue,omitempty"`
	Content         string             `json:"content,omitempty"`
	Color           string             `json:"color,omitempty"`
	BackgroundColor string             `json:"backgroundColor,omitempty"`
	Position        string             `json:"position,omitempty"`
	Font            *Font              `json:"font,omitempty"`
}

func (LabelAnnotation) AnnotationType() string { return "label" }
