package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sellerpulse/backend/internal/domain/cabinet"
	"github.com/sellerpulse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCabinetRepository implements cabinet.Repository using GORM
type GormCabinetRepository struct {
	db *gorm.DB
}

// NewGormCabinetRepository creates a new GormCabinetRepository
func NewGormCabinetRepository(db *gorm.DB) *GormCabinetRepository {
	return &GormCabinetRepository{db: db}
}

// FindByID finds a cabinet by its ID
func (r *GormCabinetRepository) FindByID(ctx context.Context, id uuid.UUID) (*cabinet.Cabinet, error) {
	var c cabinet.Cabinet
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAll returns every registered cabinet
func (r *GormCabinetRepository) FindAll(ctx context.Context) ([]cabinet.Cabinet, error) {
	var cabinets []cabinet.Cabinet
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&cabinets).Error; err != nil {
		return nil, err
	}
	return cabinets, nil
}

// FindSyncable returns cabinets with a non-empty, validated token
func (r *GormCabinetRepository) FindSyncable(ctx context.Context) ([]cabinet.Cabinet, error) {
	var cabinets []cabinet.Cabinet
	if err := r.db.WithContext(ctx).
		Where("api_token <> '' AND token_valid = ?", true).
		Order("created_at ASC").
		Find(&cabinets).Error; err != nil {
		return nil, err
	}
	return cabinets, nil
}

// Save persists the cabinet, inserting or updating by primary key
func (r *GormCabinetRepository) Save(ctx context.Context, c *cabinet.Cabinet) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// SaveNote persists a note attached to a cabinet
func (r *GormCabinetRepository) SaveNote(ctx context.Context, n *cabinet.Note) error {
	return r.db.WithContext(ctx).Save(n).Error
}
