package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerpulse/backend/internal/domain/shared"
)

// CardMetric is one day of sales-funnel analytics for a product card.
// Rows are written once per (card, day) and then left alone; a day that
// is already present locally is never fetched again.
type CardMetric struct {
	shared.CabinetEntity
	NmID    int64     `gorm:"not null;index:idx_card_metrics_nm"`
	Date    time.Time `gorm:"type:date;not null;index:idx_card_metrics_date"`
	Opens   int       `gorm:"not null;default:0"`
	Baskets int       `gorm:"not null;default:0"`
	Orders  int       `gorm:"not null;default:0"`
	Buyouts int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CardMetric) TableName() string {
	return "card_analytics"
}

// NewCardMetric creates a funnel record for a card on a day
func NewCardMetric(cabinetID uuid.UUID, nmID int64, day time.Time, opens, baskets, orders, buyouts int) (*CardMetric, error) {
	if nmID <= 0 {
		return nil, shared.NewDomainError("INVALID_NM_ID", "Card nm ID must be positive")
	}
	return &CardMetric{
		CabinetEntity: shared.NewCabinetEntity(cabinetID),
		NmID:          nmID,
		Date:          shared.Day(day),
		Opens:         opens,
		Baskets:       baskets,
		Orders:        orders,
		Buyouts:       buyouts,
	}, nil
}

// CampaignMetric is one day of ad statistics for a campaign, written
// once per (campaign, day) like CardMetric.
type CampaignMetric struct {
	shared.CabinetEntity
	AdvertID int64           `gorm:"not null;index:idx_campaign_stats_advert"`
	Date     time.Time       `gorm:"type:date;not null;index:idx_campaign_stats_date"`
	Views    int             `gorm:"not null;default:0"`
	Clicks   int             `gorm:"not null;default:0"`
	Spend    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
}

// TableName returns the table name for GORM
func (CampaignMetric) TableName() string {
	return "campaign_statistics"
}

// NewCampaignMetric creates an ad-statistics record for a campaign day
func NewCampaignMetric(cabinetID uuid.UUID, advertID int64, day time.Time, views, clicks int, spend decimal.Decimal) (*CampaignMetric, error) {
	if advertID <= 0 {
		return nil, shared.NewDomainError("INVALID_ADVERT_ID", "Campaign advert ID must be positive")
	}
	return &CampaignMetric{
		CabinetEntity: shared.NewCabinetEntity(cabinetID),
		AdvertID:      advertID,
		Date:          shared.Day(day),
		Views:         views,
		Clicks:        clicks,
		Spend:         spend,
	}, nil
}
