package sweeper

import (
	"context"
	"encoding/json"
	"log/slog"

	"motive/internal/cache"
	"motive/internal/models"

	"github.com/nats-io/stan.go"
)

// Consumers reacts to ticket lifecycle events: it drops stale availability
// cache entries and writes the audit log. It never transitions ticket
// state; all transitions happen through the store's conditional updates.
type Consumers struct {
	cacheClient *cache.Client
}

func NewConsumers(cacheClient *cache.Client) *Consumers {
	return &Consumers{cacheClient: cacheClient}
}

func (c *Consumers) invalidate(eventID string) {
	if c.cacheClient == nil {
		return
	}
	if err := c.cacheClient.InvalidateAvailability(context.Background(), eventID); err != nil {
		slog.Error("Failed to invalidate availability cache", "event_id", eventID, "error", err)
	}
}

func (c *Consumers) HandleHoldCreated(m *stan.Msg) {
	var event models.HoldCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal hold created event", "error", err)
		return
	}

	slog.Info("Hold created",
		"hold_id", event.HoldID,
		"event_id", event.EventID,
		"count", event.Count,
		"expires_at", event.ExpiresAt)

	c.invalidate(event.EventID)
	m.Ack()
}

func (c *Consumers) HandleHoldCancelled(m *stan.Msg) {
	var event models.HoldCancelledEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal hold cancelled event", "error", err)
		return
	}

	slog.Info("Hold cancelled", "hold_id", event.HoldID, "event_id", event.EventID)

	c.invalidate(event.EventID)
	m.Ack()
}

func (c *Consumers) HandleHoldExpired(m *stan.Msg) {
	var event models.HoldExpiredEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal hold expired event", "error", err)
		return
	}

	slog.Info("Hold expired", "hold_id", event.HoldID, "event_id", event.EventID)

	c.invalidate(event.EventID)
	m.Ack()
}

func (c *Consumers) HandleTicketsSold(m *stan.Msg) {
	var event models.TicketsSoldEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal tickets sold event", "error", err)
		return
	}

	slog.Info("Tickets sold",
		"hold_id", event.HoldID,
		"event_id", event.EventID,
		"owner_id", event.OwnerID,
		"tickets", len(event.TicketIDs))

	c.invalidate(event.EventID)
	m.Ack()
}

func (c *Consumers) HandleTicketRedeemed(m *stan.Msg) {
	var event models.TicketRedeemedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal ticket redeemed event", "error", err)
		return
	}

	slog.Info("Ticket redeemed", "ticket_id", event.TicketID, "event_id", event.EventID)

	c.invalidate(event.EventID)
	m.Ack()
}
