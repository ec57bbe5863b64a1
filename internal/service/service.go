package service

import (
	"context"
	"time"

	"motive/internal/models"
	"motive/internal/repository"
)

// EventStore is the slice of the event registry the services need.
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
}

// TicketStore exposes the ticket-level conditional updates. Every status
// transition goes through one of these; nothing else writes ticket rows.
type TicketStore interface {
	CreateBatch(ctx context.Context, eventID string, pricePence int64, n int) ([]string, error)
	Redeem(ctx context.Context, ticketID string) (*models.Ticket, error)
	Availability(ctx context.Context, eventID string) (*models.Availability, error)
	GetByOwner(ctx context.Context, ownerID string) ([]models.Ticket, error)
}

// HoldStore exposes the hold lifecycle. Reserve and Finalize are
// all-or-nothing against the store's transaction mechanism.
type HoldStore interface {
	Reserve(ctx context.Context, hold *models.Hold, n int) ([]string, error)
	Cancel(ctx context.Context, holdID, buyerSessionID string) (string, error)
	Finalize(ctx context.Context, holdID, buyerSessionID, ownerID string) (*models.Sale, bool, error)
	GetByID(ctx context.Context, holdID, buyerSessionID string) (*models.Hold, error)
	ReclaimExpired(ctx context.Context) (*models.ReclaimResult, error)
}

// Publisher emits lifecycle events. Publish failures are logged, never
// allowed to fail the operation that triggered them.
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// ReservationConfig is the hold TTL policy.
type ReservationConfig struct {
	DefaultTTL time.Duration
	MinTTL     time.Duration
	MaxTTL     time.Duration
}

type Services struct {
	Inventory    *InventoryService
	Reservations *ReservationService
	Purchases    *PurchaseService
	Redemptions  *RedemptionService
}

func NewServices(repos *repository.Repositories, natsClient Publisher, resCfg ReservationConfig) *Services {
	return &Services{
		Inventory:    NewInventoryService(repos.Events, repos.Tickets),
		Reservations: NewReservationService(repos.Events, repos.Holds, natsClient, resCfg),
		Purchases:    NewPurchaseService(repos.Holds, natsClient),
		Redemptions:  NewRedemptionService(repos.Tickets, natsClient),
	}
}
