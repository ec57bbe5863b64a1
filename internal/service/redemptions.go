package service

import (
	"context"
	"errors"
	"time"

	"motive/internal/domain"
	"motive/internal/logger"
	"motive/internal/metrics"
	"motive/internal/models"
)

// RedemptionService marks sold tickets as used, exactly once, at event
// entry. A duplicate scan is an expected outcome, not a failure.
type RedemptionService struct {
	ticketStore TicketStore
	natsClient  Publisher
}

func NewRedemptionService(ticketStore TicketStore, natsClient Publisher) *RedemptionService {
	return &RedemptionService{
		ticketStore: ticketStore,
		natsClient:  natsClient,
	}
}

func (s *RedemptionService) Redeem(ctx context.Context, req *models.RedeemRequest) (*models.RedeemResponse, error) {
	ticket, err := s.ticketStore.Redeem(ctx, req.TicketID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyRedeemed):
			metrics.RedemptionsTotal.WithLabelValues("duplicate").Inc()
		case errors.Is(err, domain.ErrNotSold):
			metrics.RedemptionsTotal.WithLabelValues("not_sold").Inc()
		case errors.Is(err, domain.ErrTicketNotFound):
			// Unknown ticket, no metric bucket.
		default:
			metrics.RedemptionsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}
	metrics.RedemptionsTotal.WithLabelValues("redeemed").Inc()

	eventData := models.TicketRedeemedEvent{
		TicketID:  ticket.ID,
		EventID:   ticket.EventID,
		Timestamp: time.Now(),
	}
	if err := s.natsClient.Publish(models.EventTicketRedeemed, eventData); err != nil {
		// Log error but don't fail the operation
		logger.WithContext(ctx).Error("Failed to publish ticket redeemed event",
			"error", err,
			"ticket_id", ticket.ID,
			"event_type", models.EventTicketRedeemed)
	}

	return &models.RedeemResponse{
		TicketID: ticket.ID,
		Status:   ticket.Status,
	}, nil
}
