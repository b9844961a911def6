package campaign

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for campaigns and their
// item links
type Repository interface {
	// FindByAdvertID looks the campaign up by its external id regardless
	// of cabinet, for ownership-conflict detection
	FindByAdvertID(ctx context.Context, advertID int64) (*Campaign, error)
	FindAdvertIDsForCabinet(ctx context.Context, cabinetID uuid.UUID) ([]int64, error)
	Save(ctx context.Context, c *Campaign) error
	// ReplaceLinks deletes all links of the campaign and inserts the given
	// set in a single transaction
	ReplaceLinks(ctx context.Context, cabinetID uuid.UUID, advertID int64, links []ItemLink) error
	DeleteLinks(ctx context.Context, cabinetID uuid.UUID, advertID int64) error
}
