package storage

import (
	"slices"
	"time"

	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	pgmodels "github.com/MichalMitros/catalog-bridge/internal/platform/storage/gen/postgres/public/model"
)

//go:generate make -C ../../../ generate-db

func toDBRun(run *models.Run) *pgmodels.SourceRun {
	return &pgmodels.SourceRun{
		ID:            int32(run.ID),
		SourceID:      run.SourceID,
		FinishedAt:    run.FinishedAt,
		Success:       run.IsSuccess,
		StatusMessage: run.StatusMessage,
		Total:         run.Stats.Total,
		Imported:      run.Stats.Imported,
		Updated:       run.Stats.Updated,
		Skipped:       run.Stats.Skipped,
		Errors:        run.Stats.Errors,
	}
}

func fromDBRun(run *pgmodels.SourceRun) *models.Run {
	return &models.Run{
		ID:            int(run.ID),
		SourceID:      run.SourceID,
		CreatedAt:     run.CreatedAt,
		FinishedAt:    run.FinishedAt,
		IsSuccess:     run.Success,
		StatusMessage: run.StatusMessage,
		Stats: models.ImportRunStats{
			Total:    run.Total,
			Imported: run.Imported,
			Updated:  run.Updated,
			Skipped:  run.Skipped,
			Errors:   run.Errors,
		},
	}
}

// ToDBProduct converts catalog entry fields into postgres product model.
func ToDBProduct(fields *models.CatalogFields, now time.Time) *pgmodels.Product {
	var stock *int32
	if fields.StockQuantity != nil {
		stock = lo.ToPtr(int32(*fields.StockQuantity))
	}

	return &pgmodels.Product{
		Sku:            fields.SKU,
		Name:           fields.Name,
		Description:    fields.Description,
		Price:          fields.Price.Round(2).InexactFloat64(),
		StockQuantity:  stock,
		ManageStock:    fields.ManageStock,
		Status:         fields.Status,
		SourceID:       fields.SourceID,
		SourceNativeID: fields.SourceNativeID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// FromDBProduct converts postgres product model into catalog entry fields.
func FromDBProduct(product *pgmodels.Product) models.CatalogFields {
	var stock *int
	if product.StockQuantity != nil {
		stock = lo.ToPtr(int(*product.StockQuantity))
	}

	return models.CatalogFields{
		SKU:            product.Sku,
		Name:           product.Name,
		Description:    product.Description,
		Price:          decimal.NewFromFloat(product.Price),
		StockQuantity:  stock,
		ManageStock:    product.ManageStock,
		Status:         product.Status,
		SourceID:       product.SourceID,
		SourceNativeID: product.SourceNativeID,
	}
}

func toDBGallery(entryID int64, mediaIDs []int64) []pgmodels.ProductGallery {
	return lo.Map(mediaIDs, func(mediaID int64, ix int) pgmodels.ProductGallery {
		return pgmodels.ProductGallery{
			ProductID: entryID,
			Position:  int32(ix),
			MediaID:   mediaID,
		}
	})
}

func toDBAttributes(attributes map[string]string) []pgmodels.Attribute {
	slugs := lo.Keys(attributes)
	slices.Sort(slugs)

	return lo.Map(slugs, func(slug string, _ int) pgmodels.Attribute {
		return pgmodels.Attribute{
			Slug:  slug,
			Label: attributes[slug],
		}
	})
}
