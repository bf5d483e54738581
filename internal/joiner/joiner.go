package joiner

import (
	"github.com/MichalMitros/catalog-bridge/internal/mapping"
	"github.com/MichalMitros/catalog-bridge/internal/normalizer"
	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/shopspring/decimal"
)

// Category is source category joined to products by id.
type Category struct {
	ID       string
	Name     string
	ParentID string
}

// Tables are lookup tables built from separately fetched payloads.
type Tables struct {
	StockBy    string
	Stocks     map[string]int
	PriceBy    string
	Prices     map[string]decimal.Decimal
	Categories map[string]Category
}

// BuildTables builds lookup tables from raw stock, price and category records.
// Records without join key are ignored, duplicated keys keep the last record.
func BuildTables(m mapping.Mapping, stocks, prices, categories []models.RawRecord) Tables {
	tables := Tables{
		StockBy:    m.Join.StockBy,
		Stocks:     make(map[string]int, len(stocks)),
		PriceBy:    m.Join.PriceBy,
		Prices:     make(map[string]decimal.Decimal, len(prices)),
		Categories: make(map[string]Category, len(categories)),
	}

	for _, raw := range stocks {
		key := m.Join.StockKey.Value(raw)
		quantity := normalizer.ParseStock(m.Join.StockQuantity.Value(raw))
		if key == "" || quantity == nil {
			continue
		}
		tables.Stocks[key] = *quantity
	}

	for _, raw := range prices {
		key := m.Join.PriceKey.Value(raw)
		value := m.Join.PriceValue.Value(raw)
		if key == "" || value == "" {
			continue
		}
		tables.Prices[key] = normalizer.ParsePrice(value)
	}

	for _, raw := range categories {
		category := Category{
			ID:       m.Join.CategoryID.Value(raw),
			Name:     m.Join.CategoryName.Value(raw),
			ParentID: m.Join.CategoryParent.Value(raw),
		}
		if category.ID == "" || category.Name == "" {
			continue
		}
		tables.Categories[category.ID] = category
	}

	return tables
}

// Join completes products with joined stock, price and category path.
// Missing partners leave product fields as normalized. Failed results pass through untouched.
func Join(products []models.ParsingResult, tables Tables) []models.ParsingResult {
	joined := make([]models.ParsingResult, 0, len(products))
	for _, result := range products {
		if result.Error == nil {
			joinProduct(&result.Product, tables)
		}
		joined = append(joined, result)
	}
	return joined
}

func joinProduct(product *models.CanonicalProduct, tables Tables) {
	if quantity, ok := tables.Stocks[key(product, tables.StockBy)]; ok {
		product.StockQuantity = &quantity
	}

	if price, ok := tables.Prices[key(product, tables.PriceBy)]; ok {
		product.Price = price
	}

	if len(product.CategoryPath) == 0 && product.SourceCategoryID != "" {
		product.CategoryPath = CategoryPath(tables.Categories, product.SourceCategoryID)
	}
}

// CategoryPath returns root-first category path walking up at most one parent level.
// Deeper hierarchies are flattened to their direct parent and leaf.
func CategoryPath(categories map[string]Category, id string) []string {
	category, ok := categories[id]
	if !ok {
		return nil
	}

	parent, ok := categories[category.ParentID]
	if !ok || parent.ID == category.ID {
		return []string{category.Name}
	}
	return []string{parent.Name, category.Name}
}

func key(product *models.CanonicalProduct, by string) string {
	if by == mapping.ByNativeID {
		return product.SourceNativeID
	}
	return product.SKU
}
