package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CardMetricRepository defines persistence for daily funnel records
type CardMetricRepository interface {
	// PresentDates returns the days in [from, to] that already have a
	// record for the card, ascending
	PresentDates(ctx context.Context, cabinetID uuid.UUID, nmID int64, from, to time.Time) ([]time.Time, error)
	SaveAll(ctx context.Context, metrics []CardMetric) error
}

// CampaignMetricRepository defines persistence for daily ad statistics
type CampaignMetricRepository interface {
	PresentDates(ctx context.Context, cabinetID uuid.UUID, advertID int64, from, to time.Time) ([]time.Time, error)
	SaveAll(ctx context.Context, metrics []CampaignMetric) error
}
