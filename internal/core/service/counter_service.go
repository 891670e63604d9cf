package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/itqan-cloud/service-desk/internal/api/metrics"
	"github.com/itqan-cloud/service-desk/internal/core/domain"
	"github.com/itqan-cloud/service-desk/internal/core/ports"
)

// CounterService wraps the per-room cup counter. All atomicity lives in the
// repository (store-side $inc / $set); this layer only adds logging, the
// notification side effect, and the dashboard read.
type CounterService struct {
	repo     ports.CounterRepository
	notifier ports.Notifier
	logger   zerolog.Logger
}

func NewCounterService(repo ports.CounterRepository, notifier ports.Notifier, logger zerolog.Logger) *CounterService {
	return &CounterService{repo: repo, notifier: notifier, logger: logger}
}

// Report records one cups-need-cleaning alert for the requester's room.
func (s *CounterService) Report(ctx context.Context, room string) error {
	if room == "" {
		return domain.ErrInvalidRequester
	}
	if err := s.repo.Increment(ctx, room); err != nil {
		s.logger.Error().Err(err).Str("room", room).Msg("cup counter increment failed")
		return err
	}
	metrics.CupAlertsTotal.Inc()
	s.logger.Info().Str("room", room).Msg("cup alert reported")

	if s.notifier != nil {
		s.notifier.CupsAlert(ctx, room)
	}
	return nil
}

// Clear zeroes a room's counter after staff cleaned it up.
func (s *CounterService) Clear(ctx context.Context, room string) error {
	if err := s.repo.Reset(ctx, room); err != nil {
		s.logger.Error().Err(err).Str("room", room).Msg("cup counter reset failed")
		return err
	}
	s.logger.Info().Str("room", room).Msg("cup counter cleared")
	return nil
}

// Dashboard lists the rooms that currently have cups waiting.
func (s *CounterService) Dashboard(ctx context.Context) ([]domain.Counter, error) {
	return s.repo.ListNonZero(ctx)
}
