package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"motive/internal/domain"
	"motive/internal/logger"
	"motive/internal/metrics"
	"motive/internal/models"

	"github.com/google/uuid"
)

// ReservationService turns a buyer's request for n tickets into an atomic,
// time-limited hold. Whether enough tickets exist is decided by the store's
// conditional update, never by a separate availability read.
type ReservationService struct {
	eventStore EventStore
	holdStore  HoldStore
	natsClient Publisher
	cfg        ReservationConfig
}

func NewReservationService(eventStore EventStore, holdStore HoldStore, natsClient Publisher, cfg ReservationConfig) *ReservationService {
	return &ReservationService{
		eventStore: eventStore,
		holdStore:  holdStore,
		natsClient: natsClient,
		cfg:        cfg,
	}
}

// holdTTL clamps the requested TTL into the configured window.
func (s *ReservationService) holdTTL(ttlSeconds int) time.Duration {
	if ttlSeconds <= 0 {
		return s.cfg.DefaultTTL
	}
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttl < s.cfg.MinTTL {
		return s.cfg.MinTTL
	}
	if ttl > s.cfg.MaxTTL {
		return s.cfg.MaxTTL
	}
	return ttl
}

func (s *ReservationService) Reserve(ctx context.Context, req *models.ReserveRequest, buyerSessionID string) (*models.ReserveResponse, error) {
	if req.Count <= 0 {
		return nil, domain.ErrInvalidCount
	}

	event, err := s.eventStore.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}

	hold := &models.Hold{
		ID:             uuid.New().String(),
		EventID:        req.EventID,
		BuyerSessionID: buyerSessionID,
		Status:         models.HoldActive,
		ExpiresAt:      time.Now().Add(s.holdTTL(req.TTLSeconds)),
	}

	ticketIDs, err := s.holdStore.Reserve(ctx, hold, req.Count)
	if err != nil {
		if errors.Is(err, domain.ErrSoldOut) {
			metrics.ReservationsTotal.WithLabelValues("sold_out").Inc()
			return nil, err
		}
		metrics.ReservationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to reserve tickets: %w", err)
	}
	metrics.ReservationsTotal.WithLabelValues("created").Inc()

	eventData := models.HoldCreatedEvent{
		HoldID:    hold.ID,
		EventID:   hold.EventID,
		Count:     len(ticketIDs),
		ExpiresAt: hold.ExpiresAt,
		Timestamp: time.Now(),
	}
	if err := s.natsClient.Publish(models.EventHoldCreated, eventData); err != nil {
		// Log error but don't fail the operation
		logger.WithContext(ctx).Error("Failed to publish hold created event",
			"error", err,
			"hold_id", hold.ID,
			"event_type", models.EventHoldCreated)
	}

	return &models.ReserveResponse{
		HoldID:    hold.ID,
		EventID:   hold.EventID,
		TicketIDs: ticketIDs,
		ExpiresAt: hold.ExpiresAt,
	}, nil
}

func (s *ReservationService) Cancel(ctx context.Context, req *models.CancelHoldRequest, buyerSessionID string) error {
	eventID, err := s.holdStore.Cancel(ctx, req.HoldID, buyerSessionID)
	if err != nil {
		return err
	}

	eventData := models.HoldCancelledEvent{
		HoldID:    req.HoldID,
		EventID:   eventID,
		Timestamp: time.Now(),
	}
	if err := s.natsClient.Publish(models.EventHoldCancelled, eventData); err != nil {
		// Log error but don't fail the operation
		logger.WithContext(ctx).Error("Failed to publish hold cancelled event",
			"error", err,
			"hold_id", req.HoldID,
			"event_type", models.EventHoldCancelled)
	}

	return nil
}

func (s *ReservationService) GetHold(ctx context.Context, holdID, buyerSessionID string) (*models.HoldResponse, error) {
	hold, err := s.holdStore.GetByID(ctx, holdID, buyerSessionID)
	if err != nil {
		return nil, err
	}

	return &models.HoldResponse{
		HoldID:    hold.ID,
		EventID:   hold.EventID,
		Status:    hold.Status,
		TicketIDs: hold.TicketIDs,
		ExpiresAt: hold.ExpiresAt,
	}, nil
}
