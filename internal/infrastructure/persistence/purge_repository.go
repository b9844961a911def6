package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sellerpulse/backend/internal/domain/analytics"
	"github.com/sellerpulse/backend/internal/domain/cabinet"
	"github.com/sellerpulse/backend/internal/domain/campaign"
	"github.com/sellerpulse/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// purgeTable pairs a model with its table name for reporting
type purgeTable struct {
	name  string
	model interface{}
}

// purgeOrder lists every table holding cabinet data, children before the
// rows they reference. The cabinet row itself is deleted last, outside
// this list.
var purgeOrder = []purgeTable{
	{"campaign_statistics", &analytics.CampaignMetric{}},
	{"campaign_item_links", &campaign.ItemLink{}},
	{"campaigns", &campaign.Campaign{}},
	{"price_snapshots", &catalog.PriceSnapshot{}},
	{"stock_snapshots", &catalog.StockSnapshot{}},
	{"item_barcodes", &catalog.Barcode{}},
	{"card_analytics", &analytics.CardMetric{}},
	{"catalog_items", &catalog.Item{}},
	{"cabinet_notes", &cabinet.Note{}},
}

// GormPurgeRepository removes all data of a cabinet in bounded batches
type GormPurgeRepository struct {
	db        *gorm.DB
	batchSize int
}

// NewGormPurgeRepository creates a new GormPurgeRepository. batchSize
// caps the number of rows deleted per transaction.
func NewGormPurgeRepository(db *gorm.DB, batchSize int) *GormPurgeRepository {
	if batchSize <= 0 {
		batchSize = 20
	}
	return &GormPurgeRepository{db: db, batchSize: batchSize}
}

// PurgeCabinet deletes every row belonging to the cabinet, table by
// table in dependency order, then the cabinet row itself. Each deletion
// runs in its own transaction over at most batchSize primary keys, so a
// large cabinet never holds long row locks. Returns per-table deletion
// counts.
func (r *GormPurgeRepository) PurgeCabinet(ctx context.Context, cabinetID uuid.UUID) (map[string]int64, error) {
	report := make(map[string]int64, len(purgeOrder)+1)

	for _, t := range purgeOrder {
		n, err := r.drainTable(ctx, t, cabinetID)
		if err != nil {
			return report, fmt.Errorf("purge %s: %w", t.name, err)
		}
		report[t.name] = n
	}

	res := r.db.WithContext(ctx).Delete(&cabinet.Cabinet{}, "id = ?", cabinetID)
	if res.Error != nil {
		return report, fmt.Errorf("purge cabinets: %w", res.Error)
	}
	report["cabinets"] = res.RowsAffected
	return report, nil
}

// drainTable repeatedly selects up to batchSize primary keys for the
// cabinet and deletes them in one transaction, until none remain
func (r *GormPurgeRepository) drainTable(ctx context.Context, t purgeTable, cabinetID uuid.UUID) (int64, error) {
	var total int64
	for {
		var ids []uuid.UUID
		if err := r.db.WithContext(ctx).
			Model(t.model).
			Where("cabinet_id = ?", cabinetID).
			Limit(r.batchSize).
			Pluck("id", &ids).Error; err != nil {
			return total, err
		}
		if len(ids) == 0 {
			return total, nil
		}

		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Delete(t.model, "id IN ?", ids).Error
		})
		if err != nil {
			return total, err
		}
		total += int64(len(ids))
	}
}
