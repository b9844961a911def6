package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sellerpulse/backend/internal/domain/analytics"
	"gorm.io/gorm"
)

// GormCampaignMetricRepository implements
// analytics.CampaignMetricRepository using GORM
type GormCampaignMetricRepository struct {
	db *gorm.DB
}

// NewGormCampaignMetricRepository creates a new GormCampaignMetricRepository
func NewGormCampaignMetricRepository(db *gorm.DB) *GormCampaignMetricRepository {
	return &GormCampaignMetricRepository{db: db}
}

// PresentDates returns the days in [from, to] that already have an ad
// statistics record for the campaign, ascending
func (r *GormCampaignMetricRepository) PresentDates(ctx context.Context, cabinetID uuid.UUID, advertID int64, from, to time.Time) ([]time.Time, error) {
	var dates []time.Time
	if err := r.db.WithContext(ctx).
		Model(&analytics.CampaignMetric{}).
		Where("cabinet_id = ? AND advert_id = ? AND date >= ? AND date <= ?", cabinetID, advertID, from, to).
		Order("date ASC").
		Pluck("date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

// SaveAll inserts the ad statistics records in one statement
func (r *GormCampaignMetricRepository) SaveAll(ctx context.Context, metrics []analytics.CampaignMetric) error {
	if len(metrics) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&metrics).Error
}
