package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"time"

	"github.com/MichalMitros/catalog-bridge/internal/platform"
	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/MichalMitros/catalog-bridge/internal/platform/storage/gen/postgres/public/table"

	pgmodels "github.com/MichalMitros/catalog-bridge/internal/platform/storage/gen/postgres/public/model"
	pg "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

//go:embed migrations/*.sql
var migrations embed.FS

var (
	errNotFound = errors.New("catalog entry not found")

	productColumns = pg.ColumnList{
		table.Product.Sku,
		table.Product.Name,
		table.Product.Description,
		table.Product.Price,
		table.Product.StockQuantity,
		table.Product.ManageStock,
		table.Product.Status,
		table.Product.SourceID,
		table.Product.SourceNativeID,
	}
)

// Postgres is storage for catalog entries, their categories, attributes and media, and import runs.
type Postgres struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgres returns new Postgres.
func NewPostgres(db *sql.DB) Postgres {
	return Postgres{
		db:  db,
		now: time.Now,
	}
}

// Migrate applies schema migrations in name order. Migrations are idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("can't list migrations: %w", err)
	}
	slices.Sort(names)

	for _, name := range names {
		query, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("can't read migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(query)); err != nil {
			return fmt.Errorf("can't apply migration %s: %w", name, err)
		}
	}

	return nil
}

// FindBySKU returns id of catalog entry with provided sku.
func (p Postgres) FindBySKU(ctx context.Context, sku string) (int64, bool, error) {
	var product pgmodels.Product
	err := table.Product.SELECT(table.Product.ID).
		WHERE(table.Product.Sku.EQ(pg.String(sku))).
		QueryContext(ctx, p.db, &product)

	if errors.Is(err, qrm.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("can't get product: %w", err)
	}

	return product.ID, true, nil
}

// Create inserts new catalog entry and returns its id.
func (p Postgres) Create(ctx context.Context, fields models.CatalogFields) (int64, error) {
	product := ToDBProduct(&fields, p.now())

	err := table.Product.INSERT(productColumns, table.Product.CreatedAt, table.Product.UpdatedAt).
		MODEL(product).
		RETURNING(table.Product.ID).
		QueryContext(ctx, p.db, product)
	if err != nil {
		return 0, fmt.Errorf("can't insert product into database: %w", err)
	}

	return product.ID, nil
}

// Update overwrites fields of catalog entry.
func (p Postgres) Update(ctx context.Context, entryID int64, fields models.CatalogFields) error {
	result, err := table.Product.UPDATE(productColumns, table.Product.UpdatedAt).
		MODEL(ToDBProduct(&fields, p.now())).
		WHERE(table.Product.ID.EQ(pg.Int64(entryID))).
		ExecContext(ctx, p.db)

	return checkUpdated(result, err, "can't update product")
}

// GetOrCreateCategory returns id of category named name under parent, 0 parent means root level.
func (p Postgres) GetOrCreateCategory(ctx context.Context, name string, parentID int64) (int64, error) {
	category := pgmodels.Category{
		Name:     name,
		ParentID: parentID,
	}

	err := table.Category.INSERT(table.Category.Name, table.Category.ParentID).
		MODEL(category).
		ON_CONFLICT(table.Category.Name, table.Category.ParentID).
		DO_UPDATE(pg.SET(
			table.Category.Name.SET(table.Category.EXCLUDED.Name),
		)).
		RETURNING(table.Category.ID).
		QueryContext(ctx, p.db, &category)
	if err != nil {
		return 0, fmt.Errorf("can't upsert category %q: %w", name, err)
	}

	return category.ID, nil
}

// AssignCategory sets category of catalog entry.
func (p Postgres) AssignCategory(ctx context.Context, entryID, categoryID int64) error {
	result, err := table.Product.UPDATE().
		SET(table.Product.CategoryID.SET(pg.Int64(categoryID))).
		WHERE(table.Product.ID.EQ(pg.Int64(entryID))).
		ExecContext(ctx, p.db)

	return checkUpdated(result, err, "can't assign category")
}

// EnsureAttributes registers attribute taxonomies with their labels.
func (p Postgres) EnsureAttributes(ctx context.Context, attributes map[string]string) error {
	if len(attributes) == 0 {
		return nil
	}

	_, err := table.Attribute.INSERT(table.Attribute.Slug, table.Attribute.Label).
		MODELS(toDBAttributes(attributes)).
		ON_CONFLICT(table.Attribute.Slug).
		DO_UPDATE(pg.SET(
			table.Attribute.Label.SET(table.Attribute.EXCLUDED.Label),
		)).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't upsert attributes: %w", err)
	}

	return nil
}

// GetOrCreateAttributeTerm returns id of attribute term.
// It returns platform.ErrUnknownAttribute when slug has no registered taxonomy.
func (p Postgres) GetOrCreateAttributeTerm(ctx context.Context, slug, value string) (int64, error) {
	var attribute pgmodels.Attribute
	err := table.Attribute.SELECT(table.Attribute.ID).
		WHERE(table.Attribute.Slug.EQ(pg.String(slug))).
		QueryContext(ctx, p.db, &attribute)

	if errors.Is(err, qrm.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", platform.ErrUnknownAttribute, slug)
	}
	if err != nil {
		return 0, fmt.Errorf("can't get attribute: %w", err)
	}

	term := pgmodels.AttributeTerm{
		AttributeID: attribute.ID,
		Value:       value,
	}
	err = table.AttributeTerm.INSERT(table.AttributeTerm.AttributeID, table.AttributeTerm.Value).
		MODEL(term).
		ON_CONFLICT(table.AttributeTerm.AttributeID, table.AttributeTerm.Value).
		DO_UPDATE(pg.SET(
			table.AttributeTerm.Value.SET(table.AttributeTerm.EXCLUDED.Value),
		)).
		RETURNING(table.AttributeTerm.ID).
		QueryContext(ctx, p.db, &term)
	if err != nil {
		return 0, fmt.Errorf("can't upsert attribute term: %w", err)
	}

	return term.ID, nil
}

// AttachTerm attaches attribute term to catalog entry.
func (p Postgres) AttachTerm(ctx context.Context, entryID, termID int64) error {
	_, err := table.ProductTerm.INSERT(table.ProductTerm.AllColumns).
		MODEL(pgmodels.ProductTerm{
			ProductID: entryID,
			TermID:    termID,
		}).
		ON_CONFLICT(table.ProductTerm.ProductID, table.ProductTerm.TermID).
		DO_NOTHING().
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't attach attribute term: %w", err)
	}

	return nil
}

// ClearTerms detaches all attribute terms of catalog entry.
func (p Postgres) ClearTerms(ctx context.Context, entryID int64) error {
	_, err := table.ProductTerm.DELETE().
		WHERE(table.ProductTerm.ProductID.EQ(pg.Int64(entryID))).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't clear attribute terms: %w", err)
	}

	return nil
}

// FindMediaByFilename returns id of media registered under filename.
func (p Postgres) FindMediaByFilename(ctx context.Context, filename string) (int64, bool, error) {
	var media pgmodels.Media
	err := table.Media.SELECT(table.Media.ID).
		WHERE(table.Media.Filename.EQ(pg.String(filename))).
		QueryContext(ctx, p.db, &media)

	if errors.Is(err, qrm.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("can't get media: %w", err)
	}

	return media.ID, true, nil
}

// RegisterMedia stores media content under filename and returns its id.
func (p Postgres) RegisterMedia(ctx context.Context, filename string, content []byte) (int64, error) {
	media := pgmodels.Media{
		Filename: filename,
		Content:  content,
	}

	err := table.Media.INSERT(table.Media.Filename, table.Media.Content).
		MODEL(media).
		ON_CONFLICT(table.Media.Filename).
		DO_UPDATE(pg.SET(
			table.Media.Content.SET(table.Media.EXCLUDED.Content),
		)).
		RETURNING(table.Media.ID).
		QueryContext(ctx, p.db, &media)
	if err != nil {
		return 0, fmt.Errorf("can't insert media into database: %w", err)
	}

	return media.ID, nil
}

// SetPrimaryImage sets primary image of catalog entry.
func (p Postgres) SetPrimaryImage(ctx context.Context, entryID, mediaID int64) error {
	result, err := table.Product.UPDATE().
		SET(table.Product.PrimaryImageID.SET(pg.Int64(mediaID))).
		WHERE(table.Product.ID.EQ(pg.Int64(entryID))).
		ExecContext(ctx, p.db)

	return checkUpdated(result, err, "can't set primary image")
}

// SetGalleryImages replaces gallery of catalog entry keeping provided order.
func (p Postgres) SetGalleryImages(ctx context.Context, entryID int64, mediaIDs []int64) error {
	return runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		_, err := table.ProductGallery.DELETE().
			WHERE(table.ProductGallery.ProductID.EQ(pg.Int64(entryID))).
			ExecContext(ctx, tx)
		if err != nil {
			return fmt.Errorf("can't delete product gallery: %w", err)
		}

		if len(mediaIDs) == 0 {
			return nil
		}

		_, err = table.ProductGallery.INSERT(table.ProductGallery.AllColumns).
			MODELS(toDBGallery(entryID, mediaIDs)).
			ExecContext(ctx, tx)
		if err != nil {
			return fmt.Errorf("can't insert product gallery: %w", err)
		}

		return nil
	})
}

// StartRun creates new unfinished run in database and returns it.
// It returns ErrAlreadyRunning if previous run of source is not finished yet.
func (p Postgres) StartRun(ctx context.Context, sourceID string) (*models.Run, error) {
	var run *models.Run

	err := runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		lastRun, err := getLastRun(ctx, tx, sourceID)

		if err != nil && !errors.Is(err, qrm.ErrNoRows) {
			return fmt.Errorf("can't get last run from database: %w", err)
		}

		if lastRun != nil && lastRun.FinishedAt == nil && lastRun.Success == nil {
			return platform.ErrAlreadyRunning
		}

		newRun := &pgmodels.SourceRun{SourceID: sourceID}
		err = table.SourceRun.INSERT(table.SourceRun.SourceID).
			MODEL(newRun).
			RETURNING(table.SourceRun.ID, table.SourceRun.CreatedAt).
			QueryContext(ctx, tx, newRun)
		if err != nil {
			return fmt.Errorf("can't insert run into database: %w", err)
		}

		run = fromDBRun(newRun)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("can't add run: %w", err)
	}

	return run, nil
}

// FinishRun sets run as finished and updates run's statistics.
func (p Postgres) FinishRun(ctx context.Context, run *models.Run) error {
	columnList := table.SourceRun.AllColumns.Except(
		table.SourceRun.ID,
		table.SourceRun.CreatedAt,
		table.SourceRun.SourceID,
	)

	result, err := table.SourceRun.UPDATE(columnList).
		MODEL(toDBRun(run)).
		WHERE(table.SourceRun.ID.EQ(pg.Int32(int32(run.ID)))).
		ExecContext(ctx, p.db)

	return checkUpdated(result, err, "can't update run")
}

// LastRun returns latest run of source. It returns platform.ErrNoRuns when source has no runs.
func (p Postgres) LastRun(ctx context.Context, sourceID string) (*models.Run, error) {
	run, err := getLastRun(ctx, p.db, sourceID)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, platform.ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("can't get last run: %w", err)
	}

	return fromDBRun(run), nil
}

func getLastRun(ctx context.Context, db qrm.DB, sourceID string) (*pgmodels.SourceRun, error) {
	var run pgmodels.SourceRun
	err := table.SourceRun.SELECT(table.SourceRun.AllColumns).
		WHERE(table.SourceRun.SourceID.EQ(pg.String(sourceID))).
		ORDER_BY(table.SourceRun.CreatedAt.DESC(), table.SourceRun.ID.DESC()).
		LIMIT(1).
		QueryContext(ctx, db, &run)
	if err != nil {
		return nil, err
	}

	return &run, nil
}

func checkUpdated(result sql.Result, err error, msg string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", msg, errNotFound)
	}

	return nil
}

func runInTransaction(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	var (
		tx  *sql.Tx
		err error
	)

	if tx, err = db.BeginTx(ctx, nil); err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("can't rollback transaction: %w (rollback reason: %w)", rbErr, err)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit transaction: %w", err)
	}

	return nil
}
