package models

import "time"

// CreateEventRequest - request body for creating an event
type CreateEventRequest struct {
	Title    string    `json:"title" binding:"required"`
	StartsAt time.Time `json:"starts_at" binding:"required"`
}

// CreateEventResponse - response for event creation
type CreateEventResponse struct {
	ID string `json:"id"`
}

// CreateTicketBatchRequest - request body for generating tickets for an event.
// Price is fixed for the whole batch.
type CreateTicketBatchRequest struct {
	EventID    string `json:"event_id" binding:"required"`
	PricePence int64  `json:"price_pence" binding:"required"`
	Count      int    `json:"count" binding:"required"`
}

// CreateTicketBatchResponse - response for ticket batch creation
type CreateTicketBatchResponse struct {
	EventID   string   `json:"event_id"`
	TicketIDs []string `json:"ticket_ids"`
}

// ReserveRequest - request body for reserving tickets. The buyer session is
// taken from the X-Session-ID header, never from server-side state.
type ReserveRequest struct {
	EventID    string `json:"event_id" binding:"required"`
	Count      int    `json:"count" binding:"required"`
	TTLSeconds int    `json:"ttl_seconds,omitempty"`
}

// ReserveResponse - response for a successful reservation
type ReserveResponse struct {
	HoldID    string    `json:"hold_id"`
	EventID   string    `json:"event_id"`
	TicketIDs []string  `json:"ticket_ids"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CancelHoldRequest - request body for cancelling a hold
type CancelHoldRequest struct {
	HoldID string `json:"hold_id" binding:"required"`
}

// FinalizeRequest - request body for converting a hold into a sale after the
// payment provider reports success
type FinalizeRequest struct {
	HoldID  string `json:"hold_id" binding:"required"`
	OwnerID string `json:"owner_id" binding:"required"`
}

// FinalizeResponse - sale confirmation. AlreadyFinalized is true when a
// retried call found the sale already recorded; the sale details are the
// original ones either way.
type FinalizeResponse struct {
	Sale
	AlreadyFinalized bool `json:"already_finalized,omitempty"`
}

// RedeemRequest - request body for redeeming a sold ticket at event entry
type RedeemRequest struct {
	TicketID string `json:"ticket_id" binding:"required"`
}

// RedeemResponse - response for a successful redemption
type RedeemResponse struct {
	TicketID string `json:"ticket_id"`
	Status   string `json:"status"`
}

// HoldResponse - response for fetching a hold
type HoldResponse struct {
	HoldID    string    `json:"hold_id"`
	EventID   string    `json:"event_id"`
	Status    string    `json:"status"`
	TicketIDs []string  `json:"ticket_ids"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ListTicketsResponseItem - one ticket owned by a buyer
type ListTicketsResponseItem struct {
	ID         string `json:"id"`
	EventID    string `json:"event_id"`
	PricePence int64  `json:"price_pence"`
	Status     string `json:"status"`
}

// ListTicketsResponse - tickets owned by a buyer
type ListTicketsResponse []ListTicketsResponseItem
