package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"simpleorm/internal/orm"
)

// YAMLCodec handles generic YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlDocument decodes rows as plain maps
type yamlDocument struct {
	Table string           `yaml:"table"`
	Rows  []map[string]any `yaml:"rows"`
}

// Parse imports rows from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*Document, error) {
	var yd yamlDocument
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&yd); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	doc := &Document{Table: yd.Table, Rows: make([]orm.Fields, 0, len(yd.Rows))}
	for _, row := range yd.Rows {
		if row == nil {
			row = make(map[string]any)
		}
		doc.Rows = append(doc.Rows, orm.Fields(row))
	}

	return doc, nil
}

// Export exports rows to YAML
func (c *YAMLCodec) Export(doc *Document, w io.Writer) error {
	yd := yamlDocument{
		Table: doc.Table,
		Rows:  make([]map[string]any, 0, len(doc.Rows)),
	}
	for _, row := range doc.Rows {
		yd.Rows = append(yd.Rows, map[string]any(row))
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&yd); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
