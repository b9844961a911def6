package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/sellerpulse/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormStockRepository implements catalog.StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// FindForCabinet returns all stock rows of the cabinet
func (r *GormStockRepository) FindForCabinet(ctx context.Context, cabinetID uuid.UUID) ([]catalog.StockSnapshot, error) {
	var stocks []catalog.StockSnapshot
	if err := r.db.WithContext(ctx).
		Where("cabinet_id = ?", cabinetID).
		Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// Save persists the stock row, inserting or updating by primary key
func (r *GormStockRepository) Save(ctx context.Context, snapshot *catalog.StockSnapshot) error {
	return r.db.WithContext(ctx).Save(snapshot).Error
}
