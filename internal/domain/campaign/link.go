package campaign

import (
	"github.com/google/uuid"

	"github.com/sellerpulse/backend/internal/domain/shared"
)

// ItemLink associates a campaign with one promoted card. The link set
// of a campaign is fully replaced on every sync, never merged.
type ItemLink struct {
	shared.CabinetEntity
	AdvertID int64 `gorm:"not null;index:idx_links_advert"`
	NmID     int64 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ItemLink) TableName() string {
	return "campaign_item_links"
}

// NewItemLink creates a campaign-to-card link
func NewItemLink(cabinetID uuid.UUID, advertID, nmID int64) (*ItemLink, error) {
	if advertID <= 0 || nmID <= 0 {
		return nil, shared.NewDomainError("INVALID_LINK", "Campaign link ids must be positive")
	}
	return &ItemLink{
		CabinetEntity: shared.NewCabinetEntity(cabinetID),
		AdvertID:      advertID,
		NmID:          nmID,
	}, nil
}
