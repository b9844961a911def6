package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sellerpulse/backend/internal/domain/analytics"
	"gorm.io/gorm"
)

// GormCardMetricRepository implements analytics.CardMetricRepository
// using GORM
type GormCardMetricRepository struct {
	db *gorm.DB
}

// NewGormCardMetricRepository creates a new GormCardMetricRepository
func NewGormCardMetricRepository(db *gorm.DB) *GormCardMetricRepository {
	return &GormCardMetricRepository{db: db}
}

// PresentDates returns the days in [from, to] that already have a funnel
// record for the card, ascending
func (r *GormCardMetricRepository) PresentDates(ctx context.Context, cabinetID uuid.UUID, nmID int64, from, to time.Time) ([]time.Time, error) {
	var dates []time.Time
	if err := r.db.WithContext(ctx).
		Model(&analytics.CardMetric{}).
		Where("cabinet_id = ? AND nm_id = ? AND date >= ? AND date <= ?", cabinetID, nmID, from, to).
		Order("date ASC").
		Pluck("date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

// SaveAll inserts the funnel records in one statement
func (r *GormCardMetricRepository) SaveAll(ctx context.Context, metrics []analytics.CardMetric) error {
	if len(metrics) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&metrics).Error
}
