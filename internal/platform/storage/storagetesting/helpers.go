package storagetesting

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/MichalMitros/catalog-bridge/internal/platform/storage"
	pgmodels "github.com/MichalMitros/catalog-bridge/internal/platform/storage/gen/postgres/public/model"
	"github.com/MichalMitros/catalog-bridge/internal/platform/storage/gen/postgres/public/table"
	pg "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"

	_ "github.com/lib/pq"
)

// Open opens connection to DB and applies migrations.
// Test is skipped when database URL isn't provided via DATABASE_URL environment variable.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("please provide database URL via DATABASE_URL environment variable")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("can't open connection to %q: %s", dbURL, err)
	}

	if err := storage.Migrate(context.Background(), db); err != nil {
		t.Fatal("can't migrate database", err)
	}

	return db
}

// InsertRuns is a helper test function to insert runs.
func InsertRuns(t *testing.T, exc qrm.Executable, runs ...pgmodels.SourceRun) {
	t.Helper()

	if len(runs) == 0 {
		return
	}

	_, err := table.SourceRun.INSERT(table.SourceRun.AllColumns.Except(table.SourceRun.ID)).MODELS(runs).Exec(exc)
	if err != nil {
		t.Fatal("can't insert runs", err)
	}
}

// InsertProducts is a helper test function to insert products. It returns ids of inserted products.
func InsertProducts(t *testing.T, db qrm.Queryable, products ...pgmodels.Product) []int64 {
	t.Helper()

	if len(products) == 0 {
		return nil
	}

	inserted := []pgmodels.Product{}
	err := table.Product.INSERT(table.Product.AllColumns.Except(table.Product.ID)).
		MODELS(products).
		RETURNING(table.Product.ID).
		Query(db, &inserted)
	if err != nil {
		t.Fatal("can't insert products", err)
	}

	ids := make([]int64, 0, len(inserted))
	for ix := range inserted {
		ids = append(ids, inserted[ix].ID)
	}

	return ids
}

// GetRuns is a helper test function to get all runs of source.
func GetRuns(t *testing.T, queryable qrm.Queryable, sourceID string) []pgmodels.SourceRun {
	t.Helper()

	runs := []pgmodels.SourceRun{}
	err := table.SourceRun.SELECT(table.SourceRun.AllColumns).
		WHERE(table.SourceRun.SourceID.EQ(pg.String(sourceID))).
		ORDER_BY(table.SourceRun.ID.ASC()).
		Query(queryable, &runs)
	if err != nil {
		t.Fatal("can't get runs", err)
	}

	return runs
}

// GetProduct is a helper test function to get product by sku.
func GetProduct(t *testing.T, queryable qrm.Queryable, sku string) pgmodels.Product {
	t.Helper()

	var product pgmodels.Product
	err := table.Product.SELECT(table.Product.AllColumns).
		WHERE(table.Product.Sku.EQ(pg.String(sku))).
		Query(queryable, &product)
	if err != nil {
		t.Fatal("can't get product", err)
	}

	return product
}

// GetProductTerms is a helper test function to get values of attribute terms attached to product.
func GetProductTerms(t *testing.T, queryable qrm.Queryable, productID int64) []string {
	t.Helper()

	terms := []pgmodels.AttributeTerm{}
	err := table.AttributeTerm.SELECT(table.AttributeTerm.AllColumns).
		FROM(table.AttributeTerm.INNER_JOIN(
			table.ProductTerm,
			table.ProductTerm.TermID.EQ(table.AttributeTerm.ID),
		)).
		WHERE(table.ProductTerm.ProductID.EQ(pg.Int64(productID))).
		ORDER_BY(table.AttributeTerm.Value.ASC()).
		Query(queryable, &terms)
	if err != nil {
		t.Fatal("can't get product terms", err)
	}

	values := make([]string, 0, len(terms))
	for ix := range terms {
		values = append(values, terms[ix].Value)
	}

	return values
}

// GetGallery is a helper test function to get media ids of product gallery in order.
func GetGallery(t *testing.T, queryable qrm.Queryable, productID int64) []int64 {
	t.Helper()

	gallery := []pgmodels.ProductGallery{}
	err := table.ProductGallery.SELECT(table.ProductGallery.AllColumns).
		WHERE(table.ProductGallery.ProductID.EQ(pg.Int64(productID))).
		ORDER_BY(table.ProductGallery.Position.ASC()).
		Query(queryable, &gallery)
	if err != nil {
		t.Fatal("can't get gallery", err)
	}

	ids := make([]int64, 0, len(gallery))
	for ix := range gallery {
		ids = append(ids, gallery[ix].MediaID)
	}

	return ids
}

// CleanupData is a helper test function to delete all stored data.
func CleanupData(t *testing.T, exc qrm.Executable) {
	t.Helper()

	tables := []struct {
		name   string
		delete pg.DeleteStatement
	}{
		{"product terms", table.ProductTerm.DELETE().WHERE(table.ProductTerm.ProductID.IS_NOT_NULL())},
		{"product galleries", table.ProductGallery.DELETE().WHERE(table.ProductGallery.ProductID.IS_NOT_NULL())},
		{"products", table.Product.DELETE().WHERE(table.Product.ID.IS_NOT_NULL())},
		{"attribute terms", table.AttributeTerm.DELETE().WHERE(table.AttributeTerm.ID.IS_NOT_NULL())},
		{"attributes", table.Attribute.DELETE().WHERE(table.Attribute.ID.IS_NOT_NULL())},
		{"categories", table.Category.DELETE().WHERE(table.Category.ID.IS_NOT_NULL())},
		{"media", table.Media.DELETE().WHERE(table.Media.ID.IS_NOT_NULL())},
		{"runs", table.SourceRun.DELETE().WHERE(table.SourceRun.ID.IS_NOT_NULL())},
	}

	for _, tt := range tables {
		if _, err := tt.delete.Exec(exc); err != nil {
			t.Fatalf("can't delete %s data: %s", tt.name, err)
		}
	}
}
