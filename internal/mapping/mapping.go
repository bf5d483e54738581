package mapping

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"gopkg.in/yaml.v3"
)

//go:embed mappings.yaml
var defaultMappings []byte

// Join key match modes.
const (
	BySKU      = "sku"
	ByNativeID = "native_id"
)

// Mappings are field-mapping tables keyed by source id.
type Mappings map[string]Mapping

// Mapping is field-mapping table of a single source.
type Mapping struct {
	// Records are record element names (xml) or record array paths (json) per payload kind.
	Records map[models.PayloadKind]string `yaml:"records"`
	// JSONRecords override Records for sources serving json.
	JSONRecords map[models.PayloadKind]string `yaml:"json_records"`

	SKU         FieldRef `yaml:"sku"`
	NativeID    FieldRef `yaml:"native_id"`
	Name        FieldRef `yaml:"name"`
	Description FieldRef `yaml:"description"`
	Price       FieldRef `yaml:"price"`
	Stock       FieldRef `yaml:"stock"`
	CategoryRef FieldRef `yaml:"category_ref"`
	// CategoryPath fields are concatenated from root to leaf.
	CategoryPath      []string `yaml:"category_path"`
	CategorySeparator string   `yaml:"category_separator"`
	// Attributes maps canonical attribute slug to source fields.
	Attributes map[string]FieldRef `yaml:"attributes"`
	Images     ImageFields         `yaml:"images"`
	Join       JoinKeys            `yaml:"join"`
}

// ImageFields describe where image references are stored.
type ImageFields struct {
	// Fields are multi-valued image fields, collected in order.
	Fields []string `yaml:"fields"`
	// Indexed describes numbered image fields, e.g. Foto01..Foto20.
	Indexed *IndexedFields `yaml:"indexed"`
	// URL is image reference field of images_for payload records.
	URL FieldRef `yaml:"url"`
}

// IndexedFields describe numbered fields Prefix+From..Prefix+To, zero padded to Width digits.
type IndexedFields struct {
	Prefix string `yaml:"prefix"`
	From   int    `yaml:"from"`
	To     int    `yaml:"to"`
	Width  int    `yaml:"width"`
}

// Keys returns indexed field names in index order.
func (f IndexedFields) Keys() []string {
	keys := make([]string, 0, max(0, f.To-f.From+1))
	for ix := f.From; ix <= f.To; ix++ {
		keys = append(keys, fmt.Sprintf("%s%0*d", f.Prefix, f.Width, ix))
	}
	return keys
}

// JoinKeys describe how stocks, prices and categories join to products.
type JoinKeys struct {
	StockBy        string   `yaml:"stock_by"`
	StockKey       FieldRef `yaml:"stock_key"`
	StockQuantity  FieldRef `yaml:"stock_quantity"`
	PriceBy        string   `yaml:"price_by"`
	PriceKey       FieldRef `yaml:"price_key"`
	PriceValue     FieldRef `yaml:"price_value"`
	CategoryID     FieldRef `yaml:"category_id"`
	CategoryName   FieldRef `yaml:"category_name"`
	CategoryParent FieldRef `yaml:"category_parent"`
}

// RecordName returns record element or path for payload kind and format.
func (m Mapping) RecordName(kind models.PayloadKind, format string) (string, bool) {
	if format == models.FormatJSON {
		if name, ok := m.JSONRecords[kind]; ok {
			return name, true
		}
	}
	name, ok := m.Records[kind]
	return name, ok
}

// FieldRef references one or more source fields, first non-empty value wins.
type FieldRef []string

// UnmarshalYAML accepts both single field name and list of field names.
func (f *FieldRef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*f = FieldRef{node.Value}
		return nil
	case yaml.SequenceNode:
		var fields []string
		if err := node.Decode(&fields); err != nil {
			return err
		}
		*f = fields
		return nil
	default:
		return fmt.Errorf("line %d: field reference must be string or list of strings", node.Line)
	}
}

// Value returns first non-empty value of referenced fields.
func (f FieldRef) Value(raw models.RawRecord) string {
	for _, key := range f {
		if value := raw.Get(key); value != "" {
			return value
		}
	}
	return ""
}

// Load decodes mappings from yaml reader.
func Load(r io.Reader) (Mappings, error) {
	var mappings Mappings
	if err := yaml.NewDecoder(r).Decode(&mappings); err != nil {
		return nil, fmt.Errorf("can't decode mappings: %w", err)
	}

	for source, m := range mappings {
		if _, ok := m.Records[models.PayloadProducts]; !ok {
			return nil, fmt.Errorf("mapping of %s has no products record", source)
		}
		if len(m.SKU) == 0 || len(m.Name) == 0 {
			return nil, fmt.Errorf("mapping of %s has no sku or name field", source)
		}
	}

	return mappings, nil
}

// Default returns embedded mappings.
func Default() (Mappings, error) {
	return Load(bytes.NewReader(defaultMappings))
}

// LoadFile returns mappings from file or embedded mappings when path is empty.
func LoadFile(path string) (Mappings, error) {
	if path == "" {
		return Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("can't open mappings file: %w", err)
	}
	defer f.Close()

	return Load(f)
}
