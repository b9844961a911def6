package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sellerpulse/backend/internal/domain/catalog"
	"github.com/sellerpulse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormItemRepository implements catalog.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByNmID finds a card by its marketplace-wide id across all cabinets
func (r *GormItemRepository) FindByNmID(ctx context.Context, nmID int64) (*catalog.Item, error) {
	var item catalog.Item
	if err := r.db.WithContext(ctx).First(&item, "nm_id = ?", nmID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindNmIDsForCabinet returns the marketplace ids of every card mirrored
// for the cabinet
func (r *GormItemRepository) FindNmIDsForCabinet(ctx context.Context, cabinetID uuid.UUID) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Item{}).
		Where("cabinet_id = ?", cabinetID).
		Order("nm_id ASC").
		Pluck("nm_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Save persists the card, inserting or updating by primary key
func (r *GormItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// ReplaceBarcodes swaps the full barcode set of a card in one transaction
func (r *GormItemRepository) ReplaceBarcodes(ctx context.Context, cabinetID uuid.UUID, nmID int64, barcodes []catalog.Barcode) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("cabinet_id = ? AND nm_id = ?", cabinetID, nmID).
			Delete(&catalog.Barcode{}).Error; err != nil {
			return err
		}
		if len(barcodes) == 0 {
			return nil
		}
		return tx.Create(&barcodes).Error
	})
}
