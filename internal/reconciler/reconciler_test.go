package reconciler_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/MichalMitros/catalog-bridge/internal/images"
	"github.com/MichalMitros/catalog-bridge/internal/mapping"
	"github.com/MichalMitros/catalog-bridge/internal/normalizer"
	"github.com/MichalMitros/catalog-bridge/internal/platform"
	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/MichalMitros/catalog-bridge/internal/platform/storage/storagetesting"
	"github.com/MichalMitros/catalog-bridge/internal/reconciler"
	"github.com/MichalMitros/catalog-bridge/internal/reconciler/mocks"
	"github.com/go-faker/faker/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const source = "macma"

var (
	logger = zerolog.Nop()

	allOptions = models.ImportOptions{
		UpdateExisting:   true,
		ImportCategories: true,
		ImportImages:     true,
	}
)

// fakeConnector serves fixed payloads and images, counting image fetches.
type fakeConnector struct {
	payloads map[models.PayloadKind][]models.RawRecord
	errs     map[models.PayloadKind]error
	images   map[string][]byte
	listed   map[string][]string
	fetches  map[string]int
}

func newFakeConnector(products ...models.RawRecord) *fakeConnector {
	return &fakeConnector{
		payloads: map[models.PayloadKind][]models.RawRecord{models.PayloadProducts: products},
		errs:     map[models.PayloadKind]error{},
		images:   map[string][]byte{},
		listed:   map[string][]string{},
		fetches:  map[string]int{},
	}
}

func (c *fakeConnector) FetchRaw(_ context.Context, kind models.PayloadKind) ([]models.RawRecord, error) {
	if err := c.errs[kind]; err != nil {
		return nil, err
	}
	return c.payloads[kind], nil
}

func (c *fakeConnector) Supports(kind models.PayloadKind) bool {
	_, ok := c.payloads[kind]
	return ok || kind == models.PayloadImages && len(c.listed) > 0
}

func (c *fakeConnector) ImagesFor(_ context.Context, sku, _ string) ([]string, error) {
	return c.listed[sku], nil
}

func (c *fakeConnector) FetchImage(_ context.Context, ref string) ([]byte, error) {
	c.fetches[ref]++
	content, ok := c.images[ref]
	if !ok {
		return nil, platform.ErrFetch
	}
	return content, nil
}

func product(sku, name string, fields ...string) models.RawRecord {
	record := models.RawRecord{}
	record.Add("code", sku)
	record.Add("name", name)
	for ix := 0; ix+1 < len(fields); ix += 2 {
		record.Add(fields[ix], fields[ix+1])
	}
	return record
}

func newNormalizer(t *testing.T) *normalizer.Normalizer {
	t.Helper()

	m, err := mapping.Default()
	require.NoError(t, err, "can't load mappings")

	return normalizer.New(m)
}

func newEngine(t *testing.T, store *storagetesting.Memory) *reconciler.Engine {
	t.Helper()

	return reconciler.NewEngine(store, images.NewImporter(store, &logger), newNormalizer(t), &logger)
}

func TestUnitRunDuplicatedAndInvalidRecords(t *testing.T) {
	store := storagetesting.NewMemory(normalizer.StandardAttributes)
	conn := newFakeConnector(
		product("A1", "Widget"),
		product("", "Nameless"),
		product("A1", "Widget v2"),
	)

	stats, err := newEngine(t, store).Run(context.TODO(), source, conn, allOptions)

	require.NoError(t, err)
	assert.Equal(t, models.ImportRunStats{Total: 3, Imported: 1, Updated: 1, Errors: 1}, stats)
	entry, ok := store.Entry("A1")
	require.True(t, ok, "should create catalog entry")
	assert.Equal(t, "Widget v2", entry.Fields.Name, "last duplicated record should win")
	assert.Equal(t, 1, store.Entries())
}

func TestUnitRunIdempotent(t *testing.T) {
	store := storagetesting.NewMemory(normalizer.StandardAttributes)
	conn := newFakeConnector(
		product("A1", "Widget", "color", "red"),
		product("A2", "Gadget", "color", "blue"),
		product("A3", "Gizmo"),
	)
	engine := newEngine(t, store)

	first, err := engine.Run(context.TODO(), source, conn, allOptions)
	require.NoError(t, err)
	second, err := engine.Run(context.TODO(), source, conn, allOptions)
	require.NoError(t, err)

	assert.Equal(t, models.ImportRunStats{Total: 3, Imported: 3}, first)
	assert.Equal(t, models.ImportRunStats{Total: 3, Updated: 3}, second, "second run should only update")
	assert.Equal(t, 3, store.Entries(), "shouldn't create duplicates")

	entry, _ := store.Entry("A1")
	assert.Len(t, entry.TermIDs, 1, "should replace attribute terms on update")
}

func TestUnitRunSkipsExisting(t *testing.T) {
	store := storagetesting.NewMemory(normalizer.StandardAttributes)
	conn := newFakeConnector(product("A1", "Widget"))
	engine := newEngine(t, store)

	_, err := engine.Run(context.TODO(), source, conn, allOptions)
	require.NoError(t, err)

	conn.payloads[models.PayloadProducts] = []models.RawRecord{product("A1", "Renamed"), product("A2", "Gadget")}
	opts := allOptions
	opts.UpdateExisting = false
	stats, err := engine.Run(context.TODO(), source, conn, opts)

	require.NoError(t, err)
	assert.Equal(t, models.ImportRunStats{Total: 2, Imported: 1, Skipped: 1}, stats)
	entry, _ := store.Entry("A1")
	assert.Equal(t, "Widget", entry.Fields.Name, "shouldn't modify skipped entry")
}

func TestUnitRunJoinsPayloads(t *testing.T) {
	store := storagetesting.NewMemory(normalizer.StandardAttributes)
	conn := newFakeConnector(
		product("A1", "Backpack", "id", "1", "category_id", "10", "color", "red", "material", "nylon"),
		product("A2", "Bag", "id", "2", "category_id", "99"),
	)
	conn.payloads[models.PayloadStocks] = []models.RawRecord{product("A1", "", "quantity", "7")}
	conn.payloads[models.PayloadPrices] = []models.RawRecord{product("A1", "", "price", "12,50")}
	conn.payloads[models.PayloadCategories] = []models.RawRecord{
		{"id": {"5"}, "name": {"Bags"}},
		{"id": {"10"}, "name": {"Backpacks"}, "parent_id": {"5"}},
	}

	stats, err := newEngine(t, store).Run(context.TODO(), source, conn, allOptions)

	require.NoError(t, err)
	assert.Equal(t, models.ImportRunStats{Total: 2, Imported: 2}, stats)

	joined, _ := store.Entry("A1")
	require.NotNil(t, joined.Fields.StockQuantity)
	assert.Equal(t, 7, *joined.Fields.StockQuantity, "should join stock")
	assert.True(t, joined.Fields.ManageStock)
	assert.True(t, decimal.RequireFromString("12.50").Equal(joined.Fields.Price), "should join price")
	assert.Equal(t, models.StatusPublished, joined.Fields.Status)
	assert.NotZero(t, store.CategoryID("Bags", "Backpacks"))
	assert.Equal(t, store.CategoryID("Bags", "Backpacks"), joined.CategoryID, "should assign leaf category")
	assert.Len(t, joined.TermIDs, 2, "should attach attribute terms")

	orphan, _ := store.Entry("A2")
	assert.Nil(t, orphan.Fields.StockQuantity, "missing stock should stay unknown")
	assert.False(t, orphan.Fields.ManageStock)
	assert.True(t, orphan.Fields.Price.IsZero(), "missing price should be zero")
	assert.Zero(t, orphan.CategoryID, "unknown category should leave entry uncategorized")
}

func TestUnitRunDegradedPayloads(t *testing.T) {
	store := storagetesting.NewMemory(normalizer.StandardAttributes)
	conn := newFakeConnector(product("A1", "Backpack", "category_id", "10"))
	conn.payloads[models.PayloadStocks] = nil
	conn.payloads[models.PayloadPrices] = nil
	conn.payloads[models.PayloadCategories] = nil
	conn.errs[models.PayloadStocks] = platform.ErrFetch
	conn.errs[models.PayloadPrices] = platform.ErrParse
	conn.errs[models.PayloadCategories] = platform.ErrConnection

	stats, err := newEngine(t, store).Run(context.TODO(), source, conn, allOptions)

	require.NoError(t, err, "optional payload failures shouldn't fail run")
	assert.Equal(t, models.ImportRunStats{Total: 1, Imported: 1}, stats)
	entry, _ := store.Entry("A1")
	assert.Nil(t, entry.Fields.StockQuantity)
	assert.Zero(t, entry.CategoryID)
}

func TestUnitRunProductsFailure(t *testing.T) {
	tests := map[string]struct {
		source  string
		err     error
		wantErr error
	}{
		"products fetch error": {
			source:  source,
			err:     platform.NewError(source, "fetch products", platform.ErrAuth, nil),
			wantErr: platform.ErrAuth,
		},
		"unknown source": {
			source:  "unknown",
			wantErr: platform.ErrUnknownSource,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store := storagetesting.NewMemory(normalizer.StandardAttributes)
			conn := newFakeConnector(product("A1", "Widget"))
			conn.errs[models.PayloadProducts] = tt.err

			stats, err := newEngine(t, store).Run(context.TODO(), tt.source, conn, allOptions)

			require.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, stats.Total)
			assert.Zero(t, store.Entries())
		})
	}
}

func TestUnitRunUnknownAttribute(t *testing.T) {
	store := storagetesting.NewMemory(map[string]string{"color": "Kolor"})
	conn := newFakeConnector(product("A1", "Widget", "color", "red", "material", "cotton"))

	stats, err := newEngine(t, store).Run(context.TODO(), source, conn, allOptions)

	require.NoError(t, err)
	assert.Equal(t, int32(1), stats.Imported, "unknown attribute shouldn't fail record")
	entry, _ := store.Entry("A1")
	assert.Len(t, entry.TermIDs, 1, "should attach only known attributes")
}

func TestUnitRunImageDedup(t *testing.T) {
	store := storagetesting.NewMemory(normalizer.StandardAttributes)
	conn := newFakeConnector(
		product("A1", "Widget", "images.url", "https://cdn.example.com/shared.jpg", "images.url", "https://cdn.example.com/a1.jpg"),
		product("A2", "Gadget", "images.url", "https://cdn.example.com/shared.jpg"),
		product("A3", "Gizmo"),
	)
	conn.images["https://cdn.example.com/shared.jpg"] = []byte("shared")
	conn.images["https://cdn.example.com/a1.jpg"] = []byte("a1")
	conn.images["A3_1.jpg"] = []byte("a3")
	conn.listed["A3"] = []string{"A3_1.jpg"}

	stats, err := newEngine(t, store).Run(context.TODO(), source, conn, allOptions)

	require.NoError(t, err)
	assert.Equal(t, int32(3), stats.Imported)
	assert.Equal(t, 1, conn.fetches["https://cdn.example.com/shared.jpg"], "should fetch shared image once")
	assert.Equal(t, 3, store.Media(), "should register shared image once")

	first, _ := store.Entry("A1")
	second, _ := store.Entry("A2")
	assert.Equal(t, first.PrimaryID, second.PrimaryID, "should reuse registered media")
	assert.Len(t, first.GalleryIDs, 1)

	listed, _ := store.Entry("A3")
	assert.NotZero(t, listed.PrimaryID, "should import images listed by connector")
}

func TestUnitRunImageFailures(t *testing.T) {
	store := storagetesting.NewMemory(normalizer.StandardAttributes)
	conn := newFakeConnector(product("A1", "Widget", "images.url", "https://cdn.example.com/missing.jpg"))

	stats, err := newEngine(t, store).Run(context.TODO(), source, conn, allOptions)

	require.NoError(t, err)
	assert.Equal(t, models.ImportRunStats{Total: 1, Imported: 1}, stats, "image failures shouldn't fail record")
	assert.Zero(t, store.Media())
}

func TestUnitRunImportLimit(t *testing.T) {
	store := storagetesting.NewMemory(normalizer.StandardAttributes)
	conn := newFakeConnector(product("A1", "Widget"), product("A2", "Gadget"), product("A3", "Gizmo"))
	opts := allOptions
	opts.ImportLimit = 2

	stats, err := newEngine(t, store).Run(context.TODO(), source, conn, opts)

	require.NoError(t, err)
	assert.Equal(t, models.ImportRunStats{Total: 2, Imported: 2}, stats)
	_, ok := store.Entry("A3")
	assert.False(t, ok, "should stop at limit")
}

func TestUnitRunTotalInvariant(t *testing.T) {
	for i := 0; i < 10; i++ {
		records := make([]models.RawRecord, 0, 20)
		for i, n := 0, rand.Intn(20); i < n; i++ {
			sku := faker.UUIDDigit()[:2]
			if rand.Intn(4) == 0 {
				sku = ""
			}
			records = append(records, product(sku, faker.Word()))
		}
		store := storagetesting.NewMemory(normalizer.StandardAttributes)
		opts := allOptions
		opts.UpdateExisting = rand.Intn(2) == 0

		stats, err := newEngine(t, store).Run(context.TODO(), source, newFakeConnector(records...), opts)

		require.NoError(t, err)
		assert.Equal(t, int32(len(records)), stats.Total)
		assert.Equal(t, stats.Total, stats.Imported+stats.Updated+stats.Skipped+stats.Errors)
	}
}

func TestUnitRunRecordErrors(t *testing.T) {
	tests := map[string]struct {
		setup func(c *mocks.Catalog)
	}{
		"find error": {
			setup: func(c *mocks.Catalog) {
				c.On("FindBySKU", mock.Anything, "A1").Return(int64(0), false, assert.AnError).Once()
			},
		},
		"create error": {
			setup: func(c *mocks.Catalog) {
				c.On("FindBySKU", mock.Anything, "A1").Return(int64(0), false, nil).Once()
				c.On("Create", mock.Anything, mock.Anything).Return(int64(0), assert.AnError).Once()
			},
		},
		"update error": {
			setup: func(c *mocks.Catalog) {
				c.On("FindBySKU", mock.Anything, "A1").Return(int64(1), true, nil).Once()
				c.On("Update", mock.Anything, int64(1), mock.Anything).Return(assert.AnError).Once()
			},
		},
		"assign category error": {
			setup: func(c *mocks.Catalog) {
				c.On("FindBySKU", mock.Anything, "A1").Return(int64(0), false, nil).Once()
				c.On("Create", mock.Anything, mock.Anything).Return(int64(1), nil).Once()
				c.On("GetOrCreateCategory", mock.Anything, "Bags", int64(0)).Return(int64(5), nil).Once()
				c.On("AssignCategory", mock.Anything, int64(1), int64(5)).Return(assert.AnError).Once()
			},
		},
		"attach term error": {
			setup: func(c *mocks.Catalog) {
				c.On("FindBySKU", mock.Anything, "A1").Return(int64(1), true, nil).Once()
				c.On("Update", mock.Anything, int64(1), mock.Anything).Return(nil).Once()
				c.On("GetOrCreateCategory", mock.Anything, "Bags", int64(0)).Return(int64(5), nil).Once()
				c.On("AssignCategory", mock.Anything, int64(1), int64(5)).Return(nil).Once()
				c.On("ClearTerms", mock.Anything, int64(1)).Return(nil).Once()
				c.On("GetOrCreateAttributeTerm", mock.Anything, "color", "red").Return(int64(3), nil).Once()
				c.On("AttachTerm", mock.Anything, int64(1), int64(3)).Return(assert.AnError).Once()
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			catalog := mocks.NewCatalog(t)
			tt.setup(catalog)
			catalog.On("FindBySKU", mock.Anything, "A2").Return(int64(0), false, nil).Once()
			catalog.On("Create", mock.Anything, mock.MatchedBy(func(f models.CatalogFields) bool {
				return f.SKU == "A2"
			})).Return(int64(2), nil).Once()

			conn := newFakeConnector(
				product("A1", "Widget", "category_id", "5", "color", "red"),
				product("A2", "Gadget"),
			)
			conn.payloads[models.PayloadCategories] = []models.RawRecord{{"id": {"5"}, "name": {"Bags"}}}
			engine := reconciler.NewEngine(catalog, mocks.NewImageImporter(t), newNormalizer(t), &logger)

			stats, err := engine.Run(context.TODO(), source, conn, allOptions)

			require.NoError(t, err, "record errors shouldn't fail run")
			assert.Equal(t, models.ImportRunStats{Total: 2, Imported: 1, Errors: 1}, stats)
		})
	}
}

func TestUnitRunCategoryFallback(t *testing.T) {
	catalog := mocks.NewCatalog(t)
	catalog.On("FindBySKU", mock.Anything, "A1").Return(int64(0), false, nil).Once()
	catalog.On("Create", mock.Anything, mock.Anything).Return(int64(1), nil).Once()
	catalog.On("GetOrCreateCategory", mock.Anything, "Bags", int64(0)).Return(int64(5), nil).Once()
	catalog.On("GetOrCreateCategory", mock.Anything, "Backpacks", int64(5)).Return(int64(0), assert.AnError).Once()
	catalog.On("AssignCategory", mock.Anything, int64(1), int64(5)).Return(nil).Once()

	conn := newFakeConnector(product("A1", "Widget", "category_id", "10"))
	conn.payloads[models.PayloadCategories] = []models.RawRecord{
		{"id": {"5"}, "name": {"Bags"}},
		{"id": {"10"}, "name": {"Backpacks"}, "parent_id": {"5"}},
	}
	engine := reconciler.NewEngine(catalog, mocks.NewImageImporter(t), newNormalizer(t), &logger)

	stats, err := engine.Run(context.TODO(), source, conn, allOptions)

	require.NoError(t, err)
	assert.Equal(t, int32(1), stats.Imported, "should assign parent category when leaf can't be resolved")
}

func TestUnitRunDisabledOptions(t *testing.T) {
	catalog := mocks.NewCatalog(t)
	catalog.On("FindBySKU", mock.Anything, "A1").Return(int64(0), false, nil).Once()
	catalog.On("Create", mock.Anything, mock.Anything).Return(int64(1), nil).Once()

	conn := mocks.NewConnector(t)
	conn.On("FetchRaw", mock.Anything, models.PayloadProducts).
		Return([]models.RawRecord{product("A1", "Widget", "category_id", "5", "images.url", "a.jpg")}, nil).Once()
	conn.On("Supports", models.PayloadStocks).Return(false)
	conn.On("Supports", models.PayloadPrices).Return(false)

	engine := reconciler.NewEngine(catalog, mocks.NewImageImporter(t), newNormalizer(t), &logger)

	stats, err := engine.Run(context.TODO(), source, conn, models.ImportOptions{UpdateExisting: true})

	require.NoError(t, err)
	assert.Equal(t, models.ImportRunStats{Total: 1, Imported: 1}, stats, "shouldn't touch categories nor images")
}

// cancellingCatalog cancels context after the first created catalog entry.
type cancellingCatalog struct {
	*storagetesting.Memory
	cancel context.CancelFunc
}

func (c *cancellingCatalog) Create(ctx context.Context, fields models.CatalogFields) (int64, error) {
	defer c.cancel()
	return c.Memory.Create(ctx, fields)
}

func TestUnitRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := storagetesting.NewMemory(normalizer.StandardAttributes)
	catalog := &cancellingCatalog{Memory: store, cancel: cancel}
	conn := newFakeConnector(
		product("A1", "Widget"),
		product("A2", "Gadget"),
		product("A3", "Gizmo"),
	)
	engine := reconciler.NewEngine(catalog, images.NewImporter(store, &logger), newNormalizer(t), &logger)

	stats, err := engine.Run(ctx, source, conn, allOptions)

	require.ErrorIs(t, err, context.Canceled, "should stop on cancelled context")
	assert.Equal(t, models.ImportRunStats{Total: 1, Imported: 1}, stats, "should count processed records only")
	assert.Equal(t, 1, store.Entries(), "shouldn't process records after cancellation")
}
