package storage_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MichalMitros/catalog-bridge/internal/platform"
	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/MichalMitros/catalog-bridge/internal/platform/models/modelstesting"
	"github.com/MichalMitros/catalog-bridge/internal/platform/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "can't create sql mock")

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet(), "all expected queries should be executed")
		_ = db.Close()
	})

	return db, mock
}

func TestUnitFindBySKU(t *testing.T) {
	tests := map[string]struct {
		rows      *sqlmock.Rows
		err       error
		wantID    int64
		wantFound bool
		wantErr   bool
	}{
		"found": {
			rows:      sqlmock.NewRows([]string{"product.id"}).AddRow(int64(7)),
			wantID:    7,
			wantFound: true,
		},
		"not found": {
			rows: sqlmock.NewRows([]string{"product.id"}),
		},
		"database error": {
			err:     assert.AnError,
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			db, mock := newMock(t)
			query := mock.ExpectQuery(`SELECT product\.id .* FROM public\.product WHERE product\.sku = `)
			if tt.err != nil {
				query.WillReturnError(tt.err)
			} else {
				query.WillReturnRows(tt.rows)
			}

			id, found, err := storage.NewPostgres(db).FindBySKU(context.TODO(), "A1")

			if tt.wantErr {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantFound, found)
		})
	}
}

func TestUnitCreate(t *testing.T) {
	db, mock := newMock(t)
	product := modelstesting.FakeProduct()

	mock.ExpectQuery(`INSERT INTO public\.product .* RETURNING product\.id`).
		WillReturnRows(sqlmock.NewRows([]string{"product.id"}).AddRow(int64(42)))

	id, err := storage.NewPostgres(db).Create(context.TODO(), models.ToCatalogFields("axpol", &product))

	require.NoError(t, err)
	assert.Equal(t, int64(42), id, "should return id of inserted product")
}

func TestUnitUpdate(t *testing.T) {
	product := modelstesting.FakeProduct()
	fields := models.ToCatalogFields("axpol", &product)

	tests := map[string]struct {
		result  sql.Result
		err     error
		wantErr string
	}{
		"updated": {
			result: sqlmock.NewResult(0, 1),
		},
		"unknown entry": {
			result:  sqlmock.NewResult(0, 0),
			wantErr: "can't update product",
		},
		"database error": {
			err:     assert.AnError,
			wantErr: "can't update product",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			db, mock := newMock(t)
			exec := mock.ExpectExec(`UPDATE public\.product SET .* WHERE product\.id = `)
			if tt.err != nil {
				exec.WillReturnError(tt.err)
			} else {
				exec.WillReturnResult(tt.result)
			}

			err := storage.NewPostgres(db).Update(context.TODO(), 3, fields)

			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestUnitGetOrCreateAttributeTerm(t *testing.T) {
	t.Run("unknown attribute", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM public\.attribute WHERE attribute\.slug = `).
			WillReturnRows(sqlmock.NewRows([]string{"attribute.id"}))

		_, err := storage.NewPostgres(db).GetOrCreateAttributeTerm(context.TODO(), "flavour", "mint")

		require.ErrorIs(t, err, platform.ErrUnknownAttribute)
		assert.ErrorContains(t, err, "flavour")
	})

	t.Run("registered attribute", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM public\.attribute WHERE attribute\.slug = `).
			WillReturnRows(sqlmock.NewRows([]string{"attribute.id"}).AddRow(int32(2)))
		mock.ExpectQuery(`INSERT INTO public\.attribute_term .* ON CONFLICT .* RETURNING attribute_term\.id`).
			WillReturnRows(sqlmock.NewRows([]string{"attribute_term.id"}).AddRow(int64(11)))

		id, err := storage.NewPostgres(db).GetOrCreateAttributeTerm(context.TODO(), "color", "red")

		require.NoError(t, err)
		assert.Equal(t, int64(11), id)
	})
}

func TestUnitSetGalleryImages(t *testing.T) {
	tests := map[string]struct {
		mediaIDs  []int64
		insertErr error
		wantErr   bool
	}{
		"replace gallery": {
			mediaIDs: []int64{3, 1, 2},
		},
		"clear gallery": {},
		"insert error": {
			mediaIDs:  []int64{3},
			insertErr: assert.AnError,
			wantErr:   true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			db, mock := newMock(t)
			mock.ExpectBegin()
			mock.ExpectExec(`DELETE FROM public\.product_gallery`).WillReturnResult(sqlmock.NewResult(0, 2))
			if len(tt.mediaIDs) > 0 {
				insert := mock.ExpectExec(`INSERT INTO public\.product_gallery`)
				if tt.insertErr != nil {
					insert.WillReturnError(tt.insertErr)
				} else {
					insert.WillReturnResult(sqlmock.NewResult(0, int64(len(tt.mediaIDs))))
				}
			}
			if tt.wantErr {
				mock.ExpectRollback()
			} else {
				mock.ExpectCommit()
			}

			err := storage.NewPostgres(db).SetGalleryImages(context.TODO(), 5, tt.mediaIDs)

			if tt.wantErr {
				require.ErrorIs(t, err, tt.insertErr)
				require.ErrorContains(t, err, "can't insert product gallery")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestUnitStartRun(t *testing.T) {
	createdAt := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)

	t.Run("already running", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM public\.source_run WHERE source_run\.source_id = `).
			WillReturnRows(sqlmock.NewRows([]string{"source_run.id", "source_run.source_id", "source_run.created_at"}).
				AddRow(int32(1), "axpol", createdAt))
		mock.ExpectRollback()

		run, err := storage.NewPostgres(db).StartRun(context.TODO(), "axpol")

		require.ErrorIs(t, err, platform.ErrAlreadyRunning)
		assert.Nil(t, run)
	})

	t.Run("first run", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM public\.source_run WHERE source_run\.source_id = `).
			WillReturnRows(sqlmock.NewRows([]string{"source_run.id"}))
		mock.ExpectQuery(`INSERT INTO public\.source_run .* RETURNING source_run\.id`).
			WillReturnRows(sqlmock.NewRows([]string{"source_run.id", "source_run.created_at"}).
				AddRow(int32(2), createdAt))
		mock.ExpectCommit()

		run, err := storage.NewPostgres(db).StartRun(context.TODO(), "axpol")

		require.NoError(t, err)
		assert.Equal(t, &models.Run{ID: 2, SourceID: "axpol", CreatedAt: createdAt}, run)
	})
}

func TestUnitLastRunWithoutRuns(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM public\.source_run WHERE source_run\.source_id = `).
		WillReturnRows(sqlmock.NewRows([]string{"source_run.id"}))

	_, err := storage.NewPostgres(db).LastRun(context.TODO(), "axpol")

	require.ErrorIs(t, err, platform.ErrNoRuns)
}
