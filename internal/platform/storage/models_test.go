package storage_test

import (
	"testing"
	"time"

	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/MichalMitros/catalog-bridge/internal/platform/models/modelstesting"
	"github.com/MichalMitros/catalog-bridge/internal/platform/storage"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitProductConversion(t *testing.T) {
	tests := map[string]struct {
		product models.CanonicalProduct
	}{
		"managed stock": {
			product: modelstesting.FakeProduct(),
		},
		"unknown stock": {
			product: modelstesting.FakeProduct(func(p *models.CanonicalProduct) { p.StockQuantity = nil }),
		},
		"zero stock": {
			product: modelstesting.FakeProduct(func(p *models.CanonicalProduct) { p.StockQuantity = lo.ToPtr(0) }),
		},
		"fractional price": {
			product: modelstesting.FakeProduct(func(p *models.CanonicalProduct) { p.Price = decimal.RequireFromString("1999.99") }),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			now := time.Now()
			fields := models.ToCatalogFields("malfini", &tt.product)

			dbProduct := storage.ToDBProduct(&fields, now)
			got := storage.FromDBProduct(dbProduct)

			assert.Equal(t, now, dbProduct.UpdatedAt, "should set update time")
			require.True(t, fields.Price.Equal(got.Price), "should keep price")
			got.Price = fields.Price
			assert.Equal(t, fields, got, "should convert catalog fields both ways")
		})
	}
}
