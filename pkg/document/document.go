package document

import (
	"bytes"
	"io"

	errs "github.com/matzehuels/chartwire/pkg/errors"
)

// IDKey is the root field that carries the chart identifier. Mutation hooks
// switch on it to decide which chart they are looking at.
const IDKey = "id"

// Document is the serialized form of one chart configuration: an ordered
// object whose first field is the chart id.
type Document struct {
	root *Object
}

// New returns a document containing only the id field.
func New(id string) *Document {
	root := NewObject()
	root.Set(IDKey, String(id))
	return &Document{root: root}
}

// FromNode wraps an object node as a document. The node must be an object with
// a string id field.
func FromNode(n Node) (*Document, error) {
	obj, ok := n.(*Object)
	if !ok || obj == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "document root must be an object, got %s", kindOf(n))
	}
	id, ok := obj.Get(IDKey)
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidChartID, "document has no %q field", IDKey)
	}
	if _, ok := id.(String); !ok {
		return nil, errs.New(errs.ErrCodeInvalidChartID, "document %q field must be a string, got %s", IDKey, id.Kind())
	}
	return &Document{root: obj}, nil
}

func kindOf(n Node) string {
	if n == nil {
		return "nothing"
	}
	return n.Kind().String()
}

// ID returns the chart identifier, or "" if the id field was removed or
// replaced with a non-string.
func (d *Document) ID() string {
	if d == nil || d.root == nil {
		return ""
	}
	n, _ := d.root.Get(IDKey)
	s, _ := n.(String)
	return string(s)
}

// Root returns the root object. Changes to it are changes to the document.
func (d *Document) Root() *Object {
	return d.root
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	return &Document{root: d.root.Clone()}
}

// Equal reports whether both documents encode to the same text.
func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d == o
	}
	return Equal(d.root, o.root)
}

// Get returns the node at path.
func (d *Document) Get(path string) (Node, bool) {
	return Get(d.root, path)
}

// Set stores n at path, creating intermediate objects as needed.
func (d *Document) Set(path string, n Node) error {
	updated, err := Set(d.root, path, n)
	if err != nil {
		return err
	}
	d.root = updated.(*Object)
	return nil
}

// Delete removes the node at path and reports whether it existed.
func (d *Document) Delete(path string) (bool, error) {
	updated, ok, err := Delete(d.root, path)
	if err != nil || !ok {
		return ok, err
	}
	d.root = updated.(*Object)
	return true, nil
}

// Encode writes the compact document to w.
func (d *Document) Encode(w io.Writer) error {
	return Encode(w, d.root)
}

// EncodeIndent writes the indented document to w.
func (d *Document) EncodeIndent(w io.Writer, indent string) error {
	return EncodeIndent(w, d.root, indent)
}

// Bytes returns the compact encoding.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// String returns the compact encoding, or an empty string if the document
// cannot be encoded. Use [Document.Bytes] when the error matters.
func (d *Document) String() string {
	b, err := d.Bytes()
	if err != nil {
		return ""
	}
	return string(b)
}
