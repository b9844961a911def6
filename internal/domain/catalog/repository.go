package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ItemRepository defines persistence operations for mirrored cards
type ItemRepository interface {
	// FindByNmID looks the card up by its marketplace-wide id regardless
	// of cabinet, so callers can detect cross-cabinet ownership conflicts
	FindByNmID(ctx context.Context, nmID int64) (*Item, error)
	FindNmIDsForCabinet(ctx context.Context, cabinetID uuid.UUID) ([]int64, error)
	Save(ctx context.Context, item *Item) error
	// ReplaceBarcodes swaps the full barcode set of a card in one transaction
	ReplaceBarcodes(ctx context.Context, cabinetID uuid.UUID, nmID int64, barcodes []Barcode) error
}

// PriceRepository defines persistence operations for daily price snapshots
type PriceRepository interface {
	// ExistsForDay reports whether any snapshot row exists for the card on
	// the given day; prices are written at most once per day
	ExistsForDay(ctx context.Context, cabinetID uuid.UUID, nmID int64, day time.Time) (bool, error)
	SaveAll(ctx context.Context, snapshots []PriceSnapshot) error
}

// StockRepository defines persistence operations for stock snapshots
type StockRepository interface {
	FindForCabinet(ctx context.Context, cabinetID uuid.UUID) ([]StockSnapshot, error)
	Save(ctx context.Context, snapshot *StockSnapshot) error
}
