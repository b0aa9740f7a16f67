package growth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vendygo/vendygo-backend/pkg/logger"
	"github.com/vendygo/vendygo-backend/pkg/metrics"
)

const defaultTickInterval = 30 * time.Second

type ledger interface {
	ApplyExternalCommitment(ctx context.Context, campaignID uuid.UUID, delta int) (int, error)
}

// ServiceParams configure the feed worker.
type ServiceParams struct {
	Logger   *logger.Logger
	Feed     Feed
	Ledger   ledger
	Lock     Lock
	Metrics  *metrics.WorkerMetrics
	Interval time.Duration
}

// Service applies feed commitments to the co-op ledger on a fixed cadence.
// The Redis lock keeps a single writer active across replicas.
type Service struct {
	logg     *logger.Logger
	feed     Feed
	ledger   ledger
	lock     Lock
	metrics  *metrics.WorkerMetrics
	interval time.Duration
}

// NewService builds a feed worker.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Feed == nil {
		return nil, fmt.Errorf("feed required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultTickInterval
	}
	return &Service{
		logg:     params.Logger,
		feed:     params.Feed,
		ledger:   params.Ledger,
		lock:     params.Lock,
		metrics:  params.Metrics,
		interval: interval,
	}, nil
}

// Run starts the tick loop until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.tick(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "feed worker context canceled")
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Service) tick(ctx context.Context) {
	start := time.Now()
	err := s.runCycle(ctx)
	duration := time.Since(start)
	s.metrics.ObserveTick(s.feed.Name(), duration)
	tickCtx := s.logg.WithField(ctx, "duration_ms", duration.Milliseconds())
	if err != nil {
		s.metrics.IncTickFailure(s.feed.Name())
		s.logg.Error(tickCtx, "feed tick failed", err)
		return
	}
	s.metrics.IncTickSuccess(s.feed.Name())
}

func (s *Service) runCycle(ctx context.Context) error {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		s.logg.Info(ctx, "another feed worker holds the lock; skipping this tick")
		return nil
	}
	defer func() {
		if relErr := s.lock.Release(ctx); relErr != nil {
			s.logg.Error(ctx, "failed to release feed lock", relErr)
		}
	}()

	batch, err := s.feed.Next(ctx)
	if err != nil {
		return fmt.Errorf("next batch: %w", err)
	}

	applied := 0
	units := 0
	for _, commitment := range batch {
		if ctx.Err() != nil {
			break
		}
		n, err := s.ledger.ApplyExternalCommitment(ctx, commitment.CampaignID, commitment.Delta)
		if err != nil {
			cCtx := s.logg.WithCampaignID(ctx, commitment.CampaignID.String())
			s.logg.Error(cCtx, "apply commitment failed", err)
			continue
		}
		if n > 0 {
			applied++
			units += n
		}
	}
	s.metrics.AddCommitments(s.feed.Name(), applied, units)

	tickCtx := s.logg.WithField(ctx, "commitments", applied)
	tickCtx = s.logg.WithField(tickCtx, "units", units)
	s.logg.Info(tickCtx, "feed tick complete")
	return nil
}
