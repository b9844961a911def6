package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CabinetEntity provides common fields for entities owned by a cabinet.
// Every mirrored row is scoped by CabinetID so concurrent sync runs for
// different cabinets never touch the same rows.
type CabinetEntity struct {
	BaseEntity
	CabinetID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// GetCabinetID returns the owning cabinet ID
func (e *CabinetEntity) GetCabinetID() uuid.UUID {
	return e.CabinetID
}

// NewCabinetEntity creates a new entity scoped to the given cabinet
func NewCabinetEntity(cabinetID uuid.UUID) CabinetEntity {
	return CabinetEntity{
		BaseEntity: NewBaseEntity(),
		CabinetID:  cabinetID,
	}
}
