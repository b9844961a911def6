package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/sellerpulse/backend/internal/domain/shared"
)

// StockSnapshot is the last known stock level of one barcode in one
// warehouse. Unlike the date-keyed tables this is not a history: each
// sync cycle overwrites the amount in place. Rows that reach zero are
// kept so depletion remains visible, but combinations first seen at
// zero are never written.
type StockSnapshot struct {
	shared.CabinetEntity
	NmID        int64  `gorm:"not null;index:idx_stocks_nm"`
	WarehouseID int64  `gorm:"not null"`
	Barcode     string `gorm:"type:varchar(64);not null"`
	Amount      int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (StockSnapshot) TableName() string {
	return "stock_snapshots"
}

// NewStockSnapshot creates a stock row for a (card, warehouse, barcode)
// combination
func NewStockSnapshot(cabinetID uuid.UUID, nmID, warehouseID int64, barcode string, amount int) (*StockSnapshot, error) {
	if nmID <= 0 {
		return nil, shared.NewDomainError("INVALID_NM_ID", "Card nm ID must be positive")
	}
	if barcode == "" {
		return nil, shared.NewDomainError("INVALID_BARCODE", "Barcode cannot be empty")
	}
	if amount < 0 {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Stock amount cannot be negative")
	}
	return &StockSnapshot{
		CabinetEntity: shared.NewCabinetEntity(cabinetID),
		NmID:          nmID,
		WarehouseID:   warehouseID,
		Barcode:       barcode,
		Amount:        amount,
	}, nil
}

// ApplyAmount overwrites the stock level in place
func (s *StockSnapshot) ApplyAmount(amount int) {
	s.Amount = amount
	s.UpdatedAt = time.Now()
}
