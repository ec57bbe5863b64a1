package models

import (
	"time"
)

// Ticket statuses. Transitions are forward-only except HELD -> AVAILABLE
// (release or expiry).
const (
	TicketAvailable = "AVAILABLE"
	TicketHeld      = "HELD"
	TicketSold      = "SOLD"
	TicketRedeemed  = "REDEEMED"
)

// Hold statuses.
const (
	HoldActive    = "ACTIVE"
	HoldFinalized = "FINALIZED"
	HoldCancelled = "CANCELLED"
	HoldExpired   = "EXPIRED"
)

// Event represents an event whose tickets this service sells. Event
// management itself lives elsewhere; this row exists so ticket batches and
// reservations can be validated against a known event.
type Event struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	StartsAt  time.Time `json:"starts_at" db:"starts_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Ticket is the unit of inventory. OwnerID is set exactly once, when the
// ticket is sold. HoldID and HoldExpiresAt are set only while the ticket is
// held and are cleared on release or sale.
type Ticket struct {
	ID            string     `json:"id" db:"id"`
	EventID       string     `json:"event_id" db:"event_id"`
	PricePence    int64      `json:"price_pence" db:"price_pence"`
	Status        string     `json:"status" db:"status"`
	OwnerID       *string    `json:"owner_id" db:"owner_id"`
	HoldID        *string    `json:"hold_id,omitempty" db:"hold_id"`
	HoldExpiresAt *time.Time `json:"hold_expires_at,omitempty" db:"hold_expires_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// Hold is a time-limited claim on a fixed set of tickets pending payment.
type Hold struct {
	ID             string    `json:"id" db:"id"`
	EventID        string    `json:"event_id" db:"event_id"`
	BuyerSessionID string    `json:"-" db:"buyer_session_id"`
	Status         string    `json:"status" db:"status"`
	OwnerID        *string   `json:"owner_id,omitempty" db:"owner_id"`
	ExpiresAt      time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
	TicketIDs      []string  `json:"ticket_ids,omitempty"` // Not from DB, filled from hold_tickets
}

// Sale is the durable result of finalizing a hold.
type Sale struct {
	HoldID      string    `json:"hold_id"`
	EventID     string    `json:"event_id"`
	OwnerID     string    `json:"owner_id"`
	TicketIDs   []string  `json:"ticket_ids"`
	FinalizedAt time.Time `json:"finalized_at"`
}

// Availability is the per-event inventory breakdown. Held tickets whose
// hold has already expired count as available.
type Availability struct {
	EventID   string `json:"event_id"`
	Total     int    `json:"total"`
	Available int    `json:"available"`
	Held      int    `json:"held"`
	Sold      int    `json:"sold"`
	Redeemed  int    `json:"redeemed"`
}

// ReclaimResult summarizes one sweeper pass.
type ReclaimResult struct {
	TicketsReclaimed int
	ExpiredHolds     []ExpiredHold
}

// ExpiredHold identifies a hold flipped to EXPIRED by the sweeper.
type ExpiredHold struct {
	HoldID  string
	EventID string
}
