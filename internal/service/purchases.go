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

// PurchaseService converts a confirmed-payment hold into a permanent sale.
// The payment provider is an external collaborator: it calls Finalize after
// reporting success, nothing here blocks on it.
type PurchaseService struct {
	holdStore  HoldStore
	natsClient Publisher
}

func NewPurchaseService(holdStore HoldStore, natsClient Publisher) *PurchaseService {
	return &PurchaseService{
		holdStore:  holdStore,
		natsClient: natsClient,
	}
}

// Finalize is idempotent under retried payment callbacks: a second call for
// an already finalized hold returns the original sale.
func (s *PurchaseService) Finalize(ctx context.Context, req *models.FinalizeRequest, buyerSessionID string) (*models.FinalizeResponse, error) {
	sale, already, err := s.holdStore.Finalize(ctx, req.HoldID, buyerSessionID, req.OwnerID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHoldExpired):
			metrics.FinalizesTotal.WithLabelValues("expired").Inc()
		case errors.Is(err, domain.ErrHoldNotFound), errors.Is(err, domain.ErrUnauthorized):
			// Caller mistakes, not engine failures; no metric bucket.
		default:
			metrics.FinalizesTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	if already {
		metrics.FinalizesTotal.WithLabelValues("already_finalized").Inc()
		return &models.FinalizeResponse{Sale: *sale, AlreadyFinalized: true}, nil
	}
	metrics.FinalizesTotal.WithLabelValues("sold").Inc()

	eventData := models.TicketsSoldEvent{
		HoldID:    sale.HoldID,
		EventID:   sale.EventID,
		OwnerID:   sale.OwnerID,
		TicketIDs: sale.TicketIDs,
		Timestamp: time.Now(),
	}
	if err := s.natsClient.Publish(models.EventTicketsSold, eventData); err != nil {
		// Log error but don't fail the operation
		logger.WithContext(ctx).Error("Failed to publish tickets sold event",
			"error", err,
			"hold_id", sale.HoldID,
			"event_type", models.EventTicketsSold)
	}

	return &models.FinalizeResponse{Sale: *sale}, nil
}
