package reconciler

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/MichalMitros/catalog-bridge/internal/images"
	"github.com/MichalMitros/catalog-bridge/internal/joiner"
	"github.com/MichalMitros/catalog-bridge/internal/normalizer"
	"github.com/MichalMitros/catalog-bridge/internal/platform"
	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

//go:generate mockery --name Catalog --filename catalog.go
//go:generate mockery --name Connector --filename connector.go
//go:generate mockery --name ImageImporter --filename imageimporter.go

// Catalog is product catalog store matched by sku.
type Catalog interface {
	// FindBySKU returns id of catalog entry with provided sku.
	FindBySKU(ctx context.Context, sku string) (int64, bool, error)
	Create(ctx context.Context, fields models.CatalogFields) (int64, error)
	Update(ctx context.Context, entryID int64, fields models.CatalogFields) error
	// GetOrCreateCategory returns id of category named name under parent, 0 parent means root level.
	GetOrCreateCategory(ctx context.Context, name string, parentID int64) (int64, error)
	AssignCategory(ctx context.Context, entryID, categoryID int64) error
	// GetOrCreateAttributeTerm returns id of attribute term.
	// It fails with platform.ErrUnknownAttribute when attribute slug has no registered taxonomy.
	GetOrCreateAttributeTerm(ctx context.Context, slug, value string) (int64, error)
	AttachTerm(ctx context.Context, entryID, termID int64) error
	// ClearTerms detaches all attribute terms of catalog entry.
	ClearTerms(ctx context.Context, entryID int64) error
}

// Connector serves raw payloads of a single source.
type Connector interface {
	FetchRaw(ctx context.Context, kind models.PayloadKind) ([]models.RawRecord, error)
	Supports(kind models.PayloadKind) bool
	ImagesFor(ctx context.Context, sku, nativeID string) ([]string, error)
	FetchImage(ctx context.Context, ref string) ([]byte, error)
}

// ImageImporter imports images of catalog entry.
type ImageImporter interface {
	Import(ctx context.Context, entryID int64, refs []string, fetch images.FetchFunc) ([]int64, error)
}

type outcome int

const (
	outcomeImported outcome = iota
	outcomeUpdated
	outcomeSkipped
	outcomeFailed
)

// Engine reconciles canonical products of a source against catalog.
type Engine struct {
	catalog    Catalog
	images     ImageImporter
	normalizer *normalizer.Normalizer
	logger     zerolog.Logger
}

// NewEngine returns new Engine.
func NewEngine(catalog Catalog, importer ImageImporter, n *normalizer.Normalizer, logger *zerolog.Logger) *Engine {
	return &Engine{
		catalog:    catalog,
		images:     importer,
		normalizer: n,
		logger:     logger.With().Str("component", "reconciler").Logger(),
	}
}

// Run fetches, normalizes and joins source payloads and reconciles resulting products in payload order.
// It fails only when products payload can't be obtained, failures of single records are counted as errors.
func (e *Engine) Run(
	ctx context.Context,
	sourceID string,
	conn Connector,
	opts models.ImportOptions,
) (models.ImportRunStats, error) {
	var stats models.ImportRunStats
	logger := e.logger.With().Str("source", sourceID).Logger()

	m, err := e.normalizer.Mapping(sourceID)
	if err != nil {
		return stats, err
	}

	rawProducts, err := conn.FetchRaw(ctx, models.PayloadProducts)
	if err != nil {
		return stats, fmt.Errorf("can't fetch products: %w", err)
	}

	stocks := e.fetchOptional(ctx, logger, conn, models.PayloadStocks, true)
	prices := e.fetchOptional(ctx, logger, conn, models.PayloadPrices, true)
	categories := e.fetchOptional(ctx, logger, conn, models.PayloadCategories, opts.ImportCategories)

	results, err := e.normalizer.NormalizeAll(sourceID, rawProducts)
	if err != nil {
		return stats, err
	}
	results = joiner.Join(results, joiner.BuildTables(m, stocks, prices, categories))

	if opts.ImportLimit > 0 && len(results) > opts.ImportLimit {
		results = results[:opts.ImportLimit]
	}

	stats.Total = int32(len(results))
	logger.Info().Int32("total", stats.Total).Msg("reconciling products")

	processed := make(map[string]struct{}, len(results))
	for ix := range results {
		if err := ctx.Err(); err != nil {
			logger.Warn().Int("remaining", len(results)-ix).Msg("reconciliation interrupted")
			// counters cover processed records only
			stats.Total = int32(ix)
			return stats, fmt.Errorf("can't reconcile products: %w", err)
		}

		result := &results[ix]
		if result.Error != nil {
			stats.Errors++
			logger.Warn().Err(result.Error).Int("record", ix).Msg("skipping invalid record")
			continue
		}

		switch e.reconcile(ctx, logger, sourceID, conn, &result.Product, opts, processed) {
		case outcomeImported:
			stats.Imported++
		case outcomeUpdated:
			stats.Updated++
		case outcomeSkipped:
			stats.Skipped++
		case outcomeFailed:
			stats.Errors++
		}
	}

	logger.Info().
		Int32("total", stats.Total).
		Int32("imported", stats.Imported).
		Int32("updated", stats.Updated).
		Int32("skipped", stats.Skipped).
		Int32("errors", stats.Errors).
		Msg("products reconciled")

	return stats, nil
}

// fetchOptional returns records of secondary payload kind, failures degrade to no records.
func (e *Engine) fetchOptional(
	ctx context.Context,
	logger zerolog.Logger,
	conn Connector,
	kind models.PayloadKind,
	enabled bool,
) []models.RawRecord {
	if !enabled || !conn.Supports(kind) {
		return nil
	}

	records, err := conn.FetchRaw(ctx, kind)
	if err != nil {
		logger.Warn().Err(err).Str("payload", string(kind)).Msg("can't fetch payload, continuing without it")
		return nil
	}
	return records
}

func (e *Engine) reconcile(
	ctx context.Context,
	logger zerolog.Logger,
	sourceID string,
	conn Connector,
	product *models.CanonicalProduct,
	opts models.ImportOptions,
	processed map[string]struct{},
) outcome {
	logger = logger.With().Str("sku", product.SKU).Logger()

	entryID, found, err := e.catalog.FindBySKU(ctx, product.SKU)
	if err != nil {
		e.recordError(logger, sourceID, product, fmt.Errorf("can't find catalog entry: %w", err))
		return outcomeFailed
	}

	if _, ok := processed[product.SKU]; ok {
		logger.Warn().Msg("sku duplicated in payload, last record wins")
	}

	if found && !opts.UpdateExisting {
		return outcomeSkipped
	}

	fields := models.ToCatalogFields(sourceID, product)
	if found {
		err = e.catalog.Update(ctx, entryID, fields)
	} else {
		entryID, err = e.catalog.Create(ctx, fields)
	}
	if err != nil {
		e.recordError(logger, sourceID, product, fmt.Errorf("can't save catalog entry: %w", err))
		return outcomeFailed
	}
	processed[product.SKU] = struct{}{}

	if err := e.applyDetails(ctx, logger, conn, entryID, found, product, opts); err != nil {
		e.recordError(logger, sourceID, product, err)
		return outcomeFailed
	}

	if found {
		return outcomeUpdated
	}
	return outcomeImported
}

// applyDetails assigns category, attributes and images of saved catalog entry.
func (e *Engine) applyDetails(
	ctx context.Context,
	logger zerolog.Logger,
	conn Connector,
	entryID int64,
	existing bool,
	product *models.CanonicalProduct,
	opts models.ImportOptions,
) error {
	if opts.ImportCategories {
		if categoryID := e.resolveCategory(ctx, logger, product.CategoryPath); categoryID != 0 {
			if err := e.catalog.AssignCategory(ctx, entryID, categoryID); err != nil {
				return fmt.Errorf("can't assign category: %w", err)
			}
		}
	}

	if err := e.applyAttributes(ctx, entryID, existing, product.Attributes); err != nil {
		return err
	}

	if opts.ImportImages {
		e.importImages(ctx, logger, conn, entryID, product)
	}

	return nil
}

// resolveCategory returns id of leaf category of path, creating missing levels from root.
// When a level can't be resolved, its parent is used. 0 means uncategorized.
func (e *Engine) resolveCategory(ctx context.Context, logger zerolog.Logger, path []string) int64 {
	var parentID int64
	for _, name := range path {
		id, err := e.catalog.GetOrCreateCategory(ctx, name, parentID)
		if err != nil {
			logger.Warn().Err(err).Str("category", name).Msg("can't resolve category, falling back to parent")
			return parentID
		}
		parentID = id
	}
	return parentID
}

func (e *Engine) applyAttributes(ctx context.Context, entryID int64, existing bool, attributes map[string]string) error {
	if existing {
		if err := e.catalog.ClearTerms(ctx, entryID); err != nil {
			return fmt.Errorf("can't clear attributes: %w", err)
		}
	}

	slugs := lo.Keys(attributes)
	slices.Sort(slugs)
	for _, slug := range slugs {
		termID, err := e.catalog.GetOrCreateAttributeTerm(ctx, slug, attributes[slug])
		if errors.Is(err, platform.ErrUnknownAttribute) {
			continue
		}
		if err != nil {
			return fmt.Errorf("can't get attribute %s term: %w", slug, err)
		}

		if err := e.catalog.AttachTerm(ctx, entryID, termID); err != nil {
			return fmt.Errorf("can't attach attribute %s term: %w", slug, err)
		}
	}

	return nil
}

// importImages imports product images, image failures never fail the record.
func (e *Engine) importImages(
	ctx context.Context,
	logger zerolog.Logger,
	conn Connector,
	entryID int64,
	product *models.CanonicalProduct,
) {
	refs := product.ImageRefs
	if len(refs) == 0 && conn.Supports(models.PayloadImages) {
		var err error
		refs, err = conn.ImagesFor(ctx, product.SKU, product.SourceNativeID)
		if err != nil {
			logger.Warn().Err(err).Msg("can't list product images")
			return
		}
	}
	if len(refs) == 0 {
		return
	}

	if _, err := e.images.Import(ctx, entryID, refs, conn.FetchImage); err != nil {
		logger.Warn().Err(err).Msg("can't import product images")
	}
}

func (e *Engine) recordError(logger zerolog.Logger, sourceID string, product *models.CanonicalProduct, err error) {
	logger.Error().Err(platform.NewError(sourceID, "reconcile "+product.SKU, platform.ErrRecord, err)).
		Msg("can't reconcile record")
}
