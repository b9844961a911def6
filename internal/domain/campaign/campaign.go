package campaign

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sellerpulse/backend/internal/domain/shared"
)

// Status represents the lifecycle state of an ad campaign
type Status string

const (
	StatusReady    Status = "ready"
	StatusActive   Status = "active"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
)

// Type represents the kind of campaign
type Type string

const (
	TypeSearch    Type = "search"
	TypeCatalog   Type = "catalog"
	TypeAuto      Type = "auto"
	TypePromotion Type = "promotion"
)

// statusByCode maps the marketplace numeric status codes to Status
var statusByCode = map[int]Status{
	4:  StatusReady,
	9:  StatusActive,
	11: StatusPaused,
	7:  StatusFinished,
}

// typeByCode maps the marketplace numeric type codes to Type
var typeByCode = map[int]Type{
	6:  TypeSearch,
	5:  TypeCatalog,
	8:  TypeAuto,
	10: TypePromotion,
}

// ParseStatus converts a marketplace status code. Unknown codes are an
// error so upstream schema drift shows up in logs instead of being
// rewritten into a wrong state.
func ParseStatus(code int) (Status, error) {
	s, ok := statusByCode[code]
	if !ok {
		return "", shared.NewDomainError("UNKNOWN_CAMPAIGN_STATUS", "Unknown campaign status code")
	}
	return s, nil
}

// ParseType converts a marketplace type code; unknown codes are an error
func ParseType(code int) (Type, error) {
	t, ok := typeByCode[code]
	if !ok {
		return "", shared.NewDomainError("UNKNOWN_CAMPAIGN_TYPE", "Unknown campaign type code")
	}
	return t, nil
}

// Campaign is an ad campaign (or promotional-calendar entry) mirrored
// from the marketplace, keyed by the external AdvertID.
type Campaign struct {
	shared.CabinetEntity
	AdvertID int64  `gorm:"not null;index:idx_campaigns_advert"`
	Name     string `gorm:"type:varchar(500)"`
	Type     Type   `gorm:"type:varchar(20);not null"`
	Status   Status `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (Campaign) TableName() string {
	return "campaigns"
}

// NewCampaign creates a mirrored campaign
func NewCampaign(cabinetID uuid.UUID, advertID int64, name string, typ Type, status Status) (*Campaign, error) {
	if advertID <= 0 {
		return nil, shared.NewDomainError("INVALID_ADVERT_ID", "Campaign advert ID must be positive")
	}
	return &Campaign{
		CabinetEntity: shared.NewCabinetEntity(cabinetID),
		AdvertID:      advertID,
		Name:          strings.TrimSpace(name),
		Type:          typ,
		Status:        status,
	}, nil
}

// Apply overwrites the mutable fields from a fresh campaign fetch
func (c *Campaign) Apply(name string, typ Type, status Status) {
	if strings.TrimSpace(name) != "" {
		c.Name = name
	}
	c.Type = typ
	c.Status = status
	c.UpdatedAt = time.Now()
}

// LinksRefreshed reports whether item links should be (re)populated for
// the current status. Finished campaigns have their links torn down.
func (c *Campaign) LinksRefreshed() bool {
	return c.Status == StatusActive || c.Status == StatusPaused
}
