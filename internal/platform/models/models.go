package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PayloadKind is kind of raw payload served by a source.
type PayloadKind string

// Payload kinds.
const (
	PayloadProducts   PayloadKind = "products"
	PayloadStocks     PayloadKind = "stocks"
	PayloadCategories PayloadKind = "categories"
	PayloadPrices     PayloadKind = "prices"
	PayloadImages     PayloadKind = "images"
)

// RawRecord is a single decoded source record.
// Keys are dot-separated element paths relative to the record element, attributes are prefixed with "@".
type RawRecord map[string][]string

// Add appends non-empty value under key.
func (r RawRecord) Add(key, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	r[key] = append(r[key], value)
}

// Get returns first value stored under key or empty string.
func (r RawRecord) Get(key string) string {
	if values := r[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// All returns all values stored under key.
func (r RawRecord) All(key string) []string {
	return r[key]
}

// ParsingResult contains canonical product with normalization error if there is any.
type ParsingResult struct {
	Product CanonicalProduct
	Error   error
}

// CanonicalProduct is source-agnostic product representation used for reconciliation.
type CanonicalProduct struct {
	SKU              string
	Name             string
	Description      string
	Price            decimal.Decimal
	StockQuantity    *int
	CategoryPath     []string
	Attributes       map[string]string
	ImageRefs        []string
	SourceNativeID   string
	SourceCategoryID string
}

// ImportOptions controls reconciliation behaviour.
type ImportOptions struct {
	UpdateExisting   bool
	ImportCategories bool
	ImportImages     bool
	// ImportLimit limits number of processed records, 0 means no limit.
	ImportLimit int
	// MaxAge is cache staleness threshold.
	MaxAge time.Duration
}

// ImportRunStats is run statistics snapshot.
type ImportRunStats struct {
	Total    int32
	Imported int32
	Updated  int32
	Skipped  int32
	Errors   int32
}

// Run is import process run model.
type Run struct {
	ID            int
	SourceID      string
	CreatedAt     time.Time
	FinishedAt    *time.Time
	IsSuccess     *bool
	StatusMessage *string
	Stats         ImportRunStats
}

// AuthToken is bearer token with its refresh token.
type AuthToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether token is expired at provided time.
func (t *AuthToken) Expired(now time.Time) bool {
	return t == nil || t.AccessToken == "" || !now.Before(t.ExpiresAt)
}

// Product statuses.
const (
	StatusPublished = "published"
)

// CatalogFields are fields written into catalog entry.
type CatalogFields struct {
	SKU            string
	Name           string
	Description    string
	Price          decimal.Decimal
	StockQuantity  *int
	ManageStock    bool
	Status         string
	SourceID       string
	SourceNativeID string
}

// ToCatalogFields converts canonical product into catalog entry fields.
func ToCatalogFields(sourceID string, product *CanonicalProduct) CatalogFields {
	return CatalogFields{
		SKU:            product.SKU,
		Name:           product.Name,
		Description:    product.Description,
		Price:          product.Price,
		StockQuantity:  product.StockQuantity,
		ManageStock:    product.StockQuantity != nil,
		Status:         StatusPublished,
		SourceID:       sourceID,
		SourceNativeID: product.SourceNativeID,
	}
}
