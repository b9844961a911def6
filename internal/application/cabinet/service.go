package cabinet

import (
	"context"

	"github.com/google/uuid"
	"github.com/sellerpulse/backend/internal/domain/cabinet"
	"github.com/sellerpulse/backend/internal/infrastructure/marketplace"
	"go.uber.org/zap"
)

// Pinger validates an API token against the marketplace. Satisfied by
// *marketplace.Client.
type Pinger interface {
	Ping(ctx context.Context, token string) error
}

// Service handles cabinet registration and credential rotation
type Service struct {
	cabinets cabinet.Repository
	pinger   Pinger
	logger   *zap.Logger
}

// NewService creates a cabinet Service
func NewService(cabinets cabinet.Repository, pinger Pinger, log *zap.Logger) *Service {
	return &Service{cabinets: cabinets, pinger: pinger, logger: log}
}

// Register creates a cabinet and validates its token against the
// marketplace. A rejected token still registers the cabinet, but leaves
// it ineligible for sync until the token is rotated.
func (s *Service) Register(ctx context.Context, name, token string) (*cabinet.Cabinet, error) {
	cab, err := cabinet.NewCabinet(name, token)
	if err != nil {
		return nil, err
	}

	if err := s.validateToken(ctx, cab); err != nil {
		return nil, err
	}

	if err := s.cabinets.Save(ctx, cab); err != nil {
		return nil, err
	}
	s.logger.Info("cabinet registered",
		zap.String("cabinet_id", cab.ID.String()),
		zap.Bool("token_valid", cab.TokenValid))
	return cab, nil
}

// RotateToken replaces the cabinet's API token and re-validates it
func (s *Service) RotateToken(ctx context.Context, id uuid.UUID, token string) (*cabinet.Cabinet, error) {
	cab, err := s.cabinets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := cab.RotateToken(token); err != nil {
		return nil, err
	}

	if err := s.validateToken(ctx, cab); err != nil {
		return nil, err
	}

	if err := s.cabinets.Save(ctx, cab); err != nil {
		return nil, err
	}
	s.logger.Info("cabinet token rotated",
		zap.String("cabinet_id", cab.ID.String()),
		zap.Bool("token_valid", cab.TokenValid))
	return cab, nil
}

// validateToken pings the marketplace with the cabinet's token and
// records the outcome. A marketplace-side rejection marks the token
// invalid without failing; transport errors propagate.
func (s *Service) validateToken(ctx context.Context, cab *cabinet.Cabinet) error {
	err := s.pinger.Ping(ctx, cab.APIToken)
	_, isAPIErr := marketplace.AsAPIError(err)
	switch {
	case err == nil:
		cab.MarkTokenValid()
	case isAPIErr:
		cab.MarkTokenInvalid()
		s.logger.Warn("token validation failed",
			zap.String("cabinet_id", cab.ID.String()),
			zap.Error(err))
	default:
		return err
	}
	return nil
}
