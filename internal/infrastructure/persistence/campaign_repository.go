package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sellerpulse/backend/internal/domain/campaign"
	"github.com/sellerpulse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCampaignRepository implements campaign.Repository using GORM
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewGormCampaignRepository creates a new GormCampaignRepository
func NewGormCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// FindByAdvertID finds a campaign by its external id across all cabinets
func (r *GormCampaignRepository) FindByAdvertID(ctx context.Context, advertID int64) (*campaign.Campaign, error) {
	var c campaign.Campaign
	if err := r.db.WithContext(ctx).First(&c, "advert_id = ?", advertID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAdvertIDsForCabinet returns the external ids of every campaign
// mirrored for the cabinet
func (r *GormCampaignRepository) FindAdvertIDsForCabinet(ctx context.Context, cabinetID uuid.UUID) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&campaign.Campaign{}).
		Where("cabinet_id = ?", cabinetID).
		Order("advert_id ASC").
		Pluck("advert_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Save persists the campaign, inserting or updating by primary key
func (r *GormCampaignRepository) Save(ctx context.Context, c *campaign.Campaign) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// ReplaceLinks deletes all item links of the campaign and inserts the
// given set in a single transaction
func (r *GormCampaignRepository) ReplaceLinks(ctx context.Context, cabinetID uuid.UUID, advertID int64, links []campaign.ItemLink) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("cabinet_id = ? AND advert_id = ?", cabinetID, advertID).
			Delete(&campaign.ItemLink{}).Error; err != nil {
			return err
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
}

// DeleteLinks removes all item links of the campaign
func (r *GormCampaignRepository) DeleteLinks(ctx context.Context, cabinetID uuid.UUID, advertID int64) error {
	return r.db.WithContext(ctx).
		Where("cabinet_id = ? AND advert_id = ?", cabinetID, advertID).
		Delete(&campaign.ItemLink{}).Error
}
