package models

import "time"

// NATS subjects for ticket lifecycle events
const (
	EventHoldCreated    = "hold.created"
	EventHoldCancelled  = "hold.cancelled"
	EventHoldExpired    = "hold.expired"
	EventTicketsSold    = "tickets.sold"
	EventTicketRedeemed = "ticket.redeemed"
)

// HoldCreatedEvent is published when a reservation captures tickets
type HoldCreatedEvent struct {
	HoldID    string    `json:"hold_id"`
	EventID   string    `json:"event_id"`
	Count     int       `json:"count"`
	ExpiresAt time.Time `json:"expires_at"`
	Timestamp time.Time `json:"timestamp"`
}

// HoldCancelledEvent is published when a buyer cancels a hold
type HoldCancelledEvent struct {
	HoldID    string    `json:"hold_id"`
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
}

// HoldExpiredEvent is published when the sweeper reclaims an abandoned hold
type HoldExpiredEvent struct {
	HoldID    string    `json:"hold_id"`
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
}

// TicketsSoldEvent is published when a hold is finalized into a sale
type TicketsSoldEvent struct {
	HoldID    string    `json:"hold_id"`
	EventID   string    `json:"event_id"`
	OwnerID   string    `json:"owner_id"`
	TicketIDs []string  `json:"ticket_ids"`
	Timestamp time.Time `json:"timestamp"`
}

// TicketRedeemedEvent is published when a ticket is used at event entry
type TicketRedeemedEvent struct {
	TicketID  string    `json:"ticket_id"`
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
}
