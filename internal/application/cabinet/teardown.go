package cabinet

import (
	"context"

	"github.com/google/uuid"
	"github.com/sellerpulse/backend/internal/domain/cabinet"
	"go.uber.org/zap"
)

// Purger removes every stored row of a cabinet in dependency order and
// returns per-table deletion counts. Satisfied by
// *persistence.GormPurgeRepository.
type Purger interface {
	PurgeCabinet(ctx context.Context, cabinetID uuid.UUID) (map[string]int64, error)
}

// TeardownService deletes a cabinet and its entire mirrored dataset.
// The deletion is synchronous: when Delete returns without error, no
// row of the cabinet remains.
type TeardownService struct {
	cabinets cabinet.Repository
	purger   Purger
	logger   *zap.Logger
}

// NewTeardownService creates a TeardownService
func NewTeardownService(cabinets cabinet.Repository, purger Purger, log *zap.Logger) *TeardownService {
	return &TeardownService{cabinets: cabinets, purger: purger, logger: log}
}

// Delete removes the cabinet and all its data. Unknown ids return
// shared.ErrNotFound before anything is touched.
func (s *TeardownService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.cabinets.FindByID(ctx, id); err != nil {
		return err
	}

	report, err := s.purger.PurgeCabinet(ctx, id)
	if err != nil {
		s.logger.Error("cabinet teardown failed",
			zap.String("cabinet_id", id.String()),
			zap.Error(err))
		return err
	}

	var total int64
	for _, n := range report {
		total += n
	}
	s.logger.Info("cabinet torn down",
		zap.String("cabinet_id", id.String()),
		zap.Int64("rows_deleted", total),
		zap.Any("per_table", report))
	return nil
}
