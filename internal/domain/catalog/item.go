package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sellerpulse/backend/internal/domain/shared"
)

// Item represents a product card mirrored from the marketplace. NmID is
// the marketplace-wide numeric identifier of the card; the numeric space
// is shared across all sellers, so the same NmID must never be claimed
// by two cabinets.
type Item struct {
	shared.CabinetEntity
	NmID        int64   `gorm:"not null;index:idx_items_nm"`
	Title       string  `gorm:"type:varchar(500);not null"`
	Brand       string  `gorm:"type:varchar(200)"`
	Category    string  `gorm:"type:varchar(200)"`
	VendorCode  string  `gorm:"type:varchar(100)"`
	Rating      float64 `gorm:"not null;default:0"`
	ReviewCount int     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "catalog_items"
}

// NewItem creates a mirrored product card for the given cabinet
func NewItem(cabinetID uuid.UUID, nmID int64, title string) (*Item, error) {
	if nmID <= 0 {
		return nil, shared.NewDomainError("INVALID_NM_ID", "Card nm ID must be positive")
	}
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Card title cannot be empty")
	}
	return &Item{
		CabinetEntity: shared.NewCabinetEntity(cabinetID),
		NmID:          nmID,
		Title:         title,
	}, nil
}

// ApplyCard overwrites the mutable descriptive fields from a fresh
// card-list fetch
func (i *Item) ApplyCard(title, brand, category, vendorCode string) {
	if strings.TrimSpace(title) != "" {
		i.Title = title
	}
	i.Brand = brand
	i.Category = category
	i.VendorCode = vendorCode
	i.UpdatedAt = time.Now()
}

// ApplyRating overwrites the rating fields from a ratings fetch
func (i *Item) ApplyRating(rating float64, reviewCount int) {
	i.Rating = rating
	i.ReviewCount = reviewCount
	i.UpdatedAt = time.Now()
}

// Barcode is one sellable size variant of a card. Kept as its own table
// because stock rows reference barcodes and teardown removes them
// independently of the card.
type Barcode struct {
	shared.CabinetEntity
	NmID    int64  `gorm:"not null;index"`
	Barcode string `gorm:"type:varchar(64);not null;index"`
	Size    string `gorm:"type:varchar(32)"`
}

// TableName returns the table name for GORM
func (Barcode) TableName() string {
	return "item_barcodes"
}

// NewBarcode creates a barcode row for a card size variant
func NewBarcode(cabinetID uuid.UUID, nmID int64, barcode, size string) (*Barcode, error) {
	if strings.TrimSpace(barcode) == "" {
		return nil, shared.NewDomainError("INVALID_BARCODE", "Barcode cannot be empty")
	}
	return &Barcode{
		CabinetEntity: shared.NewCabinetEntity(cabinetID),
		NmID:          nmID,
		Barcode:       barcode,
		Size:          size,
	}, nil
}
