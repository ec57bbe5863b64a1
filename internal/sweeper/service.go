package sweeper

import (
	"context"
	"log/slog"

	"motive/internal/cache"
	"motive/internal/config"
	"motive/internal/database"
	"motive/internal/messaging"
	"motive/internal/models"
	"motive/internal/repository"
)

// Service is the sweeper binary's composition root: the reclaim job plus
// the NATS consumers.
type Service struct {
	db    *database.DB
	nats  *messaging.NATSClient
	cache *cache.Client
	job   *Job
}

func NewService(cfg *config.Config) (*Service, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	cacheClient, err := cache.NewClient(cfg.Cache)
	if err != nil {
		slog.Warn("Availability cache unavailable, skipping invalidation", "error", err)
		cacheClient = nil
	}

	repos := repository.NewRepositories(db)
	job := NewJob(repos.Holds, natsClient, cfg.SweepInterval)

	return &Service{
		db:    db,
		nats:  natsClient,
		cache: cacheClient,
		job:   job,
	}, nil
}

func (s *Service) Start(ctx context.Context) error {
	consumers := NewConsumers(s.cache)

	if _, err := s.nats.SubscribeQueue(models.EventHoldCreated, "sweeper", consumers.HandleHoldCreated); err != nil {
		return err
	}
	if _, err := s.nats.SubscribeQueue(models.EventHoldCancelled, "sweeper", consumers.HandleHoldCancelled); err != nil {
		return err
	}
	if _, err := s.nats.SubscribeQueue(models.EventHoldExpired, "sweeper", consumers.HandleHoldExpired); err != nil {
		return err
	}
	if _, err := s.nats.SubscribeQueue(models.EventTicketsSold, "sweeper", consumers.HandleTicketsSold); err != nil {
		return err
	}
	if _, err := s.nats.SubscribeQueue(models.EventTicketRedeemed, "sweeper", consumers.HandleTicketRedeemed); err != nil {
		return err
	}

	s.job.Start(ctx)
	return nil
}

func (s *Service) Shutdown() error {
	s.job.Stop()

	if err := s.nats.Close(); err != nil {
		slog.Error("Error closing NATS connection", "error", err)
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			slog.Error("Error closing cache connection", "error", err)
		}
	}
	return s.db.Close()
}
