package cabinet

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for cabinets
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Cabinet, error)
	FindAll(ctx context.Context) ([]Cabinet, error)
	// FindSyncable returns cabinets with a non-empty, validated token
	FindSyncable(ctx context.Context) ([]Cabinet, error)
	Save(ctx context.Context, c *Cabinet) error
	SaveNote(ctx context.Context, n *Note) error
}
