package bpart

import (
	"fmt"
	"io"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// Document is an identifier with a set of feature tokens. The features are
// read-only after construction; the bucket and input order are written by
// Partitioner.Run.
type Document struct {
	id       uint64
	features *roaring.Bitmap
	terms    []uint32 // sorted view of features

	bucket     uint64
	hasBucket  bool
	inputOrder uint64
}

// NewDocument creates a document. Duplicate features are ignored.
func NewDocument(id uint64, features ...uint32) *Document {
	return newDocument(id, roaring.BitmapOf(features...))
}

// NewDocumentFromBitmap creates a document from a feature bitmap.
// The bitmap is cloned; a nil bitmap yields a document without features.
func NewDocumentFromBitmap(id uint64, features *roaring.Bitmap) *Document {
	if features == nil {
		return newDocument(id, roaring.New())
	}
	return newDocument(id, features.Clone())
}

func newDocument(id uint64, features *roaring.Bitmap) *Document {
	features.RunOptimize()
	return &Document{
		id:       id,
		features: features,
		terms:    features.ToArray(),
	}
}

// ID returns the document identifier.
func (d *Document) ID() uint64 {
	return d.id
}

// Features returns a copy of the document's feature set.
func (d *Document) Features() *roaring.Bitmap {
	return d.features.Clone()
}

// NumFeatures returns the number of distinct features.
func (d *Document) NumFeatures() int {
	return len(d.terms)
}

// Bucket returns the bucket assigned by the last successful run.
func (d *Document) Bucket() (uint64, bool) {
	return d.bucket, d.hasBucket
}

// InputOrder returns the position of the document in the input of the last
// run.
func (d *Document) InputOrder() uint64 {
	return d.inputOrder
}

func (d *Document) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Document{id: %d, features: %v", d.id, d.terms)
	if d.hasBucket {
		fmt.Fprintf(&sb, ", bucket: %d", d.bucket)
	}
	sb.WriteString("}")
	return sb.String()
}

// NameResolver maps document identifiers to human readable names,
// e.g. function names from a symbol table.
type NameResolver interface {
	ResolveName(id uint64) (string, bool)
}

// NameResolverFunc adapts a function to the NameResolver interface.
type NameResolverFunc func(id uint64) (string, bool)

// ResolveName calls f(id).
func (f NameResolverFunc) ResolveName(id uint64) (string, bool) {
	return f(id)
}

// Dump writes a multi-line description of the document to w. If names is
// non-nil and knows the identifier, the name is printed instead of the
// hexadecimal identifier.
func (d *Document) Dump(w io.Writer, names NameResolver) error {
	var sb strings.Builder
	name, ok := "", false
	if names != nil {
		name, ok = names.ResolveName(d.id)
	}
	if ok {
		sb.WriteString(name)
	} else {
		fmt.Fprintf(&sb, "id: %#x", d.id)
	}
	sb.WriteString("\nfeatures:")
	for _, f := range d.terms {
		fmt.Fprintf(&sb, " %d", f)
	}
	sb.WriteString("\n")
	if d.hasBucket {
		fmt.Fprintf(&sb, "bucket: %d\n", d.bucket)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// IDs returns the identifiers of docs in slice order.
func IDs(docs []*Document) []uint64 {
	ids := make([]uint64, len(docs))
	for i, d := range docs {
		ids[i] = d.id
	}
	return ids
}
