package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"simpleorm/internal/orm"
)

// Document is the interchange form of one table's rows
type Document struct {
	Table string       `json:"table" yaml:"table"`
	Rows  []orm.Fields `json:"rows" yaml:"rows"`
}

// Importer reads table rows from an interchange format
type Importer interface {
	Parse(r io.Reader) (*Document, error)
	Format() string
}

// Exporter writes table rows to an interchange format
type Exporter interface {
	Export(doc *Document, w io.Writer) error
	Format() string
}

// Codec both reads and writes one format
type Codec interface {
	Importer
	Exporter
}

// rowSource is any mapped entity
type rowSource interface {
	orm.Entity
	Fields() orm.Fields
}

// Collect builds a document from loaded entities
func Collect[E rowSource](table string, entities []E) *Document {
	doc := &Document{Table: table, Rows: make([]orm.Fields, 0, len(entities))}
	for _, e := range entities {
		doc.Rows = append(doc.Rows, e.Fields())
	}
	return doc
}

// ForFormat returns the codec named json or yaml (yml is accepted)
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}

// ForPath picks the codec from a file extension
func ForPath(path string) (Codec, error) {
	return ForFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}
