package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerpulse/backend/internal/domain/shared"
)

// PriceSnapshot is the price of a card on a given day. When every size
// variant of the card shares identical pricing a single row with an
// empty Size is written; otherwise one row per size.
type PriceSnapshot struct {
	shared.CabinetEntity
	NmID            int64           `gorm:"not null;index:idx_prices_nm"`
	Date            time.Time       `gorm:"type:date;not null;index:idx_prices_date"`
	Size            string          `gorm:"type:varchar(32);not null;default:''"`
	Price           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountedPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (PriceSnapshot) TableName() string {
	return "price_snapshots"
}

// NewPriceSnapshot creates a snapshot for a card (and optionally one
// size variant) on a day. The date is truncated to midnight UTC so the
// unique key compares by calendar day.
func NewPriceSnapshot(cabinetID uuid.UUID, nmID int64, day time.Time, size string, price, discounted decimal.Decimal) (*PriceSnapshot, error) {
	if nmID <= 0 {
		return nil, shared.NewDomainError("INVALID_NM_ID", "Card nm ID must be positive")
	}
	if price.IsNegative() || discounted.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return &PriceSnapshot{
		CabinetEntity:   shared.NewCabinetEntity(cabinetID),
		NmID:            nmID,
		Date:            shared.Day(day),
		Size:            size,
		Price:           price,
		DiscountedPrice: discounted,
	}, nil
}
