package cabinet

import (
	"strings"
	"time"

	"github.com/sellerpulse/backend/internal/domain/shared"
)

// ErrNotSyncable is returned when a sync run targets a cabinet whose
// token is absent or unvalidated
var ErrNotSyncable = shared.NewDomainError("CABINET_NOT_SYNCABLE", "Cabinet has no validated API token")

// Cabinet represents a seller cabinet on the marketplace. It owns the
// API credential used for all mirror calls and every mirrored row in the
// local store references it.
type Cabinet struct {
	shared.BaseEntity
	Name         string     `gorm:"type:varchar(200);not null"`
	APIToken     string     `gorm:"type:text;not null"`
	TokenValid   bool       `gorm:"not null;default:false"`
	LastSyncedAt *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (Cabinet) TableName() string {
	return "cabinets"
}

// NewCabinet creates a new cabinet with the given name and API token
func NewCabinet(name, apiToken string) (*Cabinet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Cabinet name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Cabinet name cannot exceed 200 characters")
	}
	if strings.TrimSpace(apiToken) == "" {
		return nil, shared.NewDomainError("INVALID_TOKEN", "API token cannot be empty")
	}

	return &Cabinet{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		APIToken:   apiToken,
	}, nil
}

// RotateToken replaces the API token. The new token starts unvalidated
// until a successful marketplace call confirms it.
func (c *Cabinet) RotateToken(apiToken string) error {
	if strings.TrimSpace(apiToken) == "" {
		return shared.NewDomainError("INVALID_TOKEN", "API token cannot be empty")
	}
	c.APIToken = apiToken
	c.TokenValid = false
	c.UpdatedAt = time.Now()
	return nil
}

// MarkTokenValid records that the token passed a marketplace check
func (c *Cabinet) MarkTokenValid() {
	c.TokenValid = true
	c.UpdatedAt = time.Now()
}

// MarkTokenInvalid records that the marketplace rejected the token
func (c *Cabinet) MarkTokenInvalid() {
	c.TokenValid = false
	c.UpdatedAt = time.Now()
}

// MarkSynced records the completion time of the last sync run
func (c *Cabinet) MarkSynced(at time.Time) {
	c.LastSyncedAt = &at
	c.UpdatedAt = time.Now()
}

// Syncable reports whether the cabinet is eligible for a sync run
func (c *Cabinet) Syncable() bool {
	return c.APIToken != "" && c.TokenValid
}
