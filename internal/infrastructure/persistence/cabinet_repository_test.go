package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sellerpulse/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a GORM connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormCabinetRepository_FindByID(t *testing.T) {
	t.Run("finds existing cabinet", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCabinetRepository(db)

		cabinetID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "api_token", "token_valid"}).
			AddRow(cabinetID, "main cabinet", "tok", true)

		mock.ExpectQuery(`SELECT \* FROM "cabinets" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(cabinetID, 1).
			WillReturnRows(rows)

		c, err := repo.FindByID(context.Background(), cabinetID)

		assert.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, cabinetID, c.ID)
		assert.Equal(t, "main cabinet", c.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing cabinet", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCabinetRepository(db)

		cabinetID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "cabinets" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(cabinetID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		c, err := repo.FindByID(context.Background(), cabinetID)

		assert.Nil(t, c)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCabinetRepository_FindSyncable(t *testing.T) {
	t.Run("filters on token presence and validity", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCabinetRepository(db)

		rows := sqlmock.NewRows([]string{"id", "name", "api_token", "token_valid"}).
			AddRow(uuid.New(), "a", "tok-a", true).
			AddRow(uuid.New(), "b", "tok-b", true)

		mock.ExpectQuery(`SELECT \* FROM "cabinets" WHERE api_token <> '' AND token_valid = \$1 ORDER BY created_at ASC`).
			WithArgs(true).
			WillReturnRows(rows)

		cabinets, err := repo.FindSyncable(context.Background())

		assert.NoError(t, err)
		assert.Len(t, cabinets, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
