package normalizer

import (
	"fmt"
	"strings"

	"github.com/MichalMitros/catalog-bridge/internal/mapping"
	"github.com/MichalMitros/catalog-bridge/internal/platform"
	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var (
	errMissingSKU  = fmt.Errorf("sku is missing")
	errMissingName = fmt.Errorf("name is missing")
)

// Normalizer converts raw source records into canonical products using per-source mappings.
type Normalizer struct {
	mappings mapping.Mappings
}

// New creates Normalizer.
func New(mappings mapping.Mappings) *Normalizer {
	return &Normalizer{mappings: mappings}
}

// Mapping returns mapping of source.
func (n *Normalizer) Mapping(sourceID string) (mapping.Mapping, error) {
	m, ok := n.mappings[sourceID]
	if !ok {
		return mapping.Mapping{}, fmt.Errorf("%w: no mapping for %s", platform.ErrUnknownSource, sourceID)
	}
	return m, nil
}

// Normalize converts single raw product record.
// It fails with platform.ErrNormalization when sku or name is missing.
func (n *Normalizer) Normalize(sourceID string, raw models.RawRecord) (models.CanonicalProduct, error) {
	m, err := n.Mapping(sourceID)
	if err != nil {
		return models.CanonicalProduct{}, err
	}
	return normalize(sourceID, m, raw)
}

// NormalizeAll converts raw product records, keeping payload order.
// Records failing normalization are returned with their error.
func (n *Normalizer) NormalizeAll(sourceID string, raws []models.RawRecord) ([]models.ParsingResult, error) {
	m, err := n.Mapping(sourceID)
	if err != nil {
		return nil, err
	}

	return lo.Map(raws, func(raw models.RawRecord, _ int) models.ParsingResult {
		product, err := normalize(sourceID, m, raw)
		return models.ParsingResult{Product: product, Error: err}
	}), nil
}

func normalize(sourceID string, m mapping.Mapping, raw models.RawRecord) (models.CanonicalProduct, error) {
	product := models.CanonicalProduct{
		SKU:              m.SKU.Value(raw),
		Name:             m.Name.Value(raw),
		Description:      m.Description.Value(raw),
		Price:            ParsePrice(m.Price.Value(raw)),
		StockQuantity:    ParseStock(m.Stock.Value(raw)),
		CategoryPath:     categoryPath(m, raw),
		Attributes:       attributes(m, raw),
		ImageRefs:        imageRefs(m, raw),
		SourceNativeID:   m.NativeID.Value(raw),
		SourceCategoryID: m.CategoryRef.Value(raw),
	}

	if product.SKU == "" {
		return product, platform.NewError(sourceID, "normalize", platform.ErrNormalization, errMissingSKU)
	}
	if product.Name == "" {
		return product, platform.NewError(
			sourceID, "normalize", platform.ErrNormalization, fmt.Errorf("%w (sku %s)", errMissingName, product.SKU),
		)
	}

	return product, nil
}

// ParsePrice parses price accepting comma decimal separator.
// Invalid and negative prices are returned as zero.
func ParsePrice(value string) decimal.Decimal {
	value = strings.ReplaceAll(strings.TrimSpace(value), " ", "")
	if value == "" {
		return decimal.Zero
	}

	price, err := decimal.NewFromString(strings.ReplaceAll(value, ",", "."))
	if err != nil || price.IsNegative() {
		return decimal.Zero
	}
	return price
}

// ParseStock parses stock quantity, nil means unknown quantity.
// Fractional quantities are truncated, negative ones are returned as zero.
func ParseStock(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	quantity, err := decimal.NewFromString(strings.ReplaceAll(value, ",", "."))
	if err != nil {
		return nil
	}
	if quantity.IsNegative() {
		return lo.ToPtr(0)
	}
	return lo.ToPtr(int(quantity.IntPart()))
}

func categoryPath(m mapping.Mapping, raw models.RawRecord) []string {
	var path []string
	for _, field := range m.CategoryPath {
		value := raw.Get(field)
		if m.CategorySeparator == "" {
			path = append(path, value)
			continue
		}
		path = append(path, strings.Split(value, m.CategorySeparator)...)
	}

	path = lo.Map(path, func(name string, _ int) string { return strings.TrimSpace(name) })
	return lo.Compact(path)
}

func attributes(m mapping.Mapping, raw models.RawRecord) map[string]string {
	result := make(map[string]string, len(m.Attributes))
	for slug, ref := range m.Attributes {
		if value := ref.Value(raw); value != "" {
			result[slug] = value
		}
	}
	return result
}

func imageRefs(m mapping.Mapping, raw models.RawRecord) []string {
	var refs []string
	for _, field := range m.Images.Fields {
		refs = append(refs, raw.All(field)...)
	}
	if m.Images.Indexed != nil {
		for _, key := range m.Images.Indexed.Keys() {
			refs = append(refs, raw.Get(key))
		}
	}

	return lo.Uniq(lo.Compact(refs))
}
