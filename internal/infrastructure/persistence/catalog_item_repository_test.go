package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sellerpulse/backend/internal/domain/catalog"
	"github.com/sellerpulse/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormItemRepository_FindByNmID(t *testing.T) {
	t.Run("finds card regardless of cabinet", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormItemRepository(db)

		itemID := uuid.New()
		otherCabinet := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "cabinet_id", "nm_id", "title"}).
			AddRow(itemID, otherCabinet, int64(123456), "some card")

		mock.ExpectQuery(`SELECT \* FROM "catalog_items" WHERE nm_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(int64(123456), 1).
			WillReturnRows(rows)

		item, err := repo.FindByNmID(context.Background(), 123456)

		assert.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, otherCabinet, item.CabinetID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown card", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormItemRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "catalog_items" WHERE nm_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(int64(999), 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		item, err := repo.FindByNmID(context.Background(), 999)

		assert.Nil(t, item)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormItemRepository_ReplaceBarcodes(t *testing.T) {
	t.Run("deletes old set and inserts new one in a transaction", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormItemRepository(db)

		cabinetID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "item_barcodes" WHERE cabinet_id = \$1 AND nm_id = \$2`).
			WithArgs(cabinetID, int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		// the entity id is assigned before the insert, so no RETURNING clause
		mock.ExpectExec(`INSERT INTO "item_barcodes"`).
			WithArgs(sqlmock.AnyArg(), cabinetID, sqlmock.AnyArg(), sqlmock.AnyArg(),
				int64(42), "2000000000017", "M").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		bc, err := catalog.NewBarcode(cabinetID, 42, "2000000000017", "M")
		require.NoError(t, err)

		err = repo.ReplaceBarcodes(context.Background(), cabinetID, 42, []catalog.Barcode{*bc})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty set only clears existing rows", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormItemRepository(db)

		cabinetID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "item_barcodes" WHERE cabinet_id = \$1 AND nm_id = \$2`).
			WithArgs(cabinetID, int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectCommit()

		err := repo.ReplaceBarcodes(context.Background(), cabinetID, 42, nil)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
