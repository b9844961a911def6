package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sellerpulse/backend/internal/domain/catalog"
	"github.com/sellerpulse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPriceRepository implements catalog.PriceRepository using GORM
type GormPriceRepository struct {
	db *gorm.DB
}

// NewGormPriceRepository creates a new GormPriceRepository
func NewGormPriceRepository(db *gorm.DB) *GormPriceRepository {
	return &GormPriceRepository{db: db}
}

// ExistsForDay reports whether any price snapshot exists for the card on
// the given day
func (r *GormPriceRepository) ExistsForDay(ctx context.Context, cabinetID uuid.UUID, nmID int64, day time.Time) (bool, error) {
	day = shared.Day(day)
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.PriceSnapshot{}).
		Where("cabinet_id = ? AND nm_id = ? AND date >= ? AND date < ?", cabinetID, nmID, day, day.AddDate(0, 0, 1)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveAll inserts the snapshots in one transaction
func (r *GormPriceRepository) SaveAll(ctx context.Context, snapshots []catalog.PriceSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&snapshots).Error
}
