// Package testutil provides an in-memory ticket store for tests. The store
// mirrors the conditional-update semantics of the Postgres repositories
// under one mutex, so concurrent calls commit serially the way concurrent
// transactions do.
package testutil

import (
	"context"
	"sync"
	"time"

	"motive/internal/domain"
	"motive/internal/models"

	"github.com/google/uuid"
)

type MemStore struct {
	mu sync.Mutex

	// Now is the store's clock. Tests advance it to expire holds without
	// sleeping.
	Now func() time.Time

	events      map[string]*models.Event
	tickets     map[string]*models.Ticket
	holds       map[string]*models.Hold
	holdTickets map[string][]string
}

func NewMemStore() *MemStore {
	return &MemStore{
		Now:         time.Now,
		events:      make(map[string]*models.Event),
		tickets:     make(map[string]*models.Ticket),
		holds:       make(map[string]*models.Hold),
		holdTickets: make(map[string][]string),
	}
}

// AdvanceClock moves the store's clock forward from this moment.
func (m *MemStore) AdvanceClock(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	base := time.Now()
	m.Now = func() time.Time { return base.Add(d) }
}

func (m *MemStore) Create(ctx context.Context, event *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	event.ID = uuid.New().String()
	event.CreatedAt = m.Now()
	cp := *event
	m.events[event.ID] = &cp
	return nil
}

func (m *MemStore) GetByID(ctx context.Context, id string) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	event, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	cp := *event
	return &cp, nil
}

func (m *MemStore) CreateBatch(ctx context.Context, eventID string, pricePence int64, n int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Now()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := uuid.New().String()
		m.tickets[id] = &models.Ticket{
			ID:         id,
			EventID:    eventID,
			PricePence: pricePence,
			Status:     models.TicketAvailable,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *MemStore) Redeem(ctx context.Context, ticketID string) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ticket, ok := m.tickets[ticketID]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}

	switch ticket.Status {
	case models.TicketSold:
		ticket.Status = models.TicketRedeemed
		ticket.UpdatedAt = m.Now()
		cp := *ticket
		return &cp, nil
	case models.TicketRedeemed:
		return nil, domain.ErrAlreadyRedeemed
	default:
		return nil, domain.ErrNotSold
	}
}

func (m *MemStore) Availability(ctx context.Context, eventID string) (*models.Availability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Now()
	av := &models.Availability{EventID: eventID}
	for _, ticket := range m.tickets {
		if ticket.EventID != eventID {
			continue
		}
		av.Total++
		switch ticket.Status {
		case models.TicketAvailable:
			av.Available++
		case models.TicketHeld:
			if ticket.HoldExpiresAt.Before(now) {
				av.Available++
			} else {
				av.Held++
			}
		case models.TicketSold:
			av.Sold++
		case models.TicketRedeemed:
			av.Redeemed++
		}
	}
	return av, nil
}

func (m *MemStore) GetByOwner(ctx context.Context, ownerID string) ([]models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var tickets []models.Ticket
	for _, ticket := range m.tickets {
		if ticket.OwnerID != nil && *ticket.OwnerID == ownerID {
			tickets = append(tickets, *ticket)
		}
	}
	return tickets, nil
}

// Reserve captures n tickets or mutates nothing, exactly like the SQL
// capture query: expired-held tickets qualify as available and the capture
// is all-or-nothing.
func (m *MemStore) Reserve(ctx context.Context, hold *models.Hold, n int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Now()
	var capturable []*models.Ticket
	for _, ticket := range m.tickets {
		if ticket.EventID != hold.EventID {
			continue
		}
		if ticket.Status == models.TicketAvailable ||
			(ticket.Status == models.TicketHeld && ticket.HoldExpiresAt.Before(now)) {
			capturable = append(capturable, ticket)
			if len(capturable) == n {
				break
			}
		}
	}

	if len(capturable) < n {
		return nil, domain.ErrSoldOut
	}

	ticketIDs := make([]string, 0, n)
	for _, ticket := range capturable {
		ticket.Status = models.TicketHeld
		holdID := hold.ID
		expiresAt := hold.ExpiresAt
		ticket.HoldID = &holdID
		ticket.HoldExpiresAt = &expiresAt
		ticket.UpdatedAt = now
		ticketIDs = append(ticketIDs, ticket.ID)
	}

	hold.CreatedAt = now
	hold.UpdatedAt = now
	cp := *hold
	m.holds[hold.ID] = &cp
	m.holdTickets[hold.ID] = ticketIDs

	return ticketIDs, nil
}

func (m *MemStore) Cancel(ctx context.Context, holdID, buyerSessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hold, ok := m.holds[holdID]
	if !ok {
		return "", domain.ErrHoldNotFound
	}
	if hold.BuyerSessionID != buyerSessionID {
		return "", domain.ErrUnauthorized
	}

	switch hold.Status {
	case models.HoldFinalized:
		return "", domain.ErrAlreadyFinalized
	case models.HoldCancelled, models.HoldExpired:
		// Already released, nothing to do.
		return hold.EventID, nil
	}

	hold.Status = models.HoldCancelled
	hold.UpdatedAt = m.Now()
	m.releaseTickets(holdID)
	return hold.EventID, nil
}

func (m *MemStore) releaseTickets(holdID string) {
	for _, ticket := range m.tickets {
		if ticket.Status == models.TicketHeld && ticket.HoldID != nil && *ticket.HoldID == holdID {
			ticket.Status = models.TicketAvailable
			ticket.HoldID = nil
			ticket.HoldExpiresAt = nil
			ticket.UpdatedAt = m.Now()
		}
	}
}

func (m *MemStore) Finalize(ctx context.Context, holdID, buyerSessionID, ownerID string) (*models.Sale, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hold, ok := m.holds[holdID]
	if !ok {
		return nil, false, domain.ErrHoldNotFound
	}
	if hold.BuyerSessionID != buyerSessionID {
		return nil, false, domain.ErrUnauthorized
	}

	ticketIDs := m.holdTickets[holdID]

	switch hold.Status {
	case models.HoldFinalized:
		sale := &models.Sale{
			HoldID:      holdID,
			EventID:     hold.EventID,
			OwnerID:     *hold.OwnerID,
			TicketIDs:   ticketIDs,
			FinalizedAt: hold.UpdatedAt,
		}
		return sale, true, nil
	case models.HoldCancelled, models.HoldExpired:
		return nil, false, domain.ErrHoldExpired
	}

	// Count tickets still held by this hold with an unexpired expiry; a
	// shortfall means the hold lapsed or was partially reclaimed, and the
	// finalize fails without touching anything.
	now := m.Now()
	sellable := 0
	for _, id := range ticketIDs {
		ticket := m.tickets[id]
		if ticket.Status == models.TicketHeld &&
			ticket.HoldID != nil && *ticket.HoldID == holdID &&
			ticket.HoldExpiresAt.After(now) {
			sellable++
		}
	}
	if sellable != len(ticketIDs) {
		return nil, false, domain.ErrHoldExpired
	}

	for _, id := range ticketIDs {
		ticket := m.tickets[id]
		owner := ownerID
		ticket.Status = models.TicketSold
		ticket.OwnerID = &owner
		ticket.HoldID = nil
		ticket.HoldExpiresAt = nil
		ticket.UpdatedAt = now
	}

	owner := ownerID
	hold.Status = models.HoldFinalized
	hold.OwnerID = &owner
	hold.UpdatedAt = now

	return &models.Sale{
		HoldID:      holdID,
		EventID:     hold.EventID,
		OwnerID:     ownerID,
		TicketIDs:   ticketIDs,
		FinalizedAt: now,
	}, false, nil
}

func (m *MemStore) GetHoldByID(ctx context.Context, holdID, buyerSessionID string) (*models.Hold, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hold, ok := m.holds[holdID]
	if !ok {
		return nil, domain.ErrHoldNotFound
	}
	if hold.BuyerSessionID != buyerSessionID {
		return nil, domain.ErrUnauthorized
	}

	cp := *hold
	cp.TicketIDs = append([]string(nil), m.holdTickets[holdID]...)
	return &cp, nil
}

func (m *MemStore) ReclaimExpired(ctx context.Context) (*models.ReclaimResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Now()
	result := &models.ReclaimResult{}

	for _, ticket := range m.tickets {
		if ticket.Status == models.TicketHeld && ticket.HoldExpiresAt.Before(now) {
			ticket.Status = models.TicketAvailable
			ticket.HoldID = nil
			ticket.HoldExpiresAt = nil
			ticket.UpdatedAt = now
			result.TicketsReclaimed++
		}
	}

	for _, hold := range m.holds {
		if hold.Status == models.HoldActive && hold.ExpiresAt.Before(now) {
			hold.Status = models.HoldExpired
			hold.UpdatedAt = now
			result.ExpiredHolds = append(result.ExpiredHolds, models.ExpiredHold{
				HoldID:  hold.ID,
				EventID: hold.EventID,
			})
		}
	}

	return result, nil
}

// Events returns the store's event-registry facet.
func (m *MemStore) Events() EventsFacet { return EventsFacet{m} }

// Tickets returns the store's ticket facet.
func (m *MemStore) Tickets() TicketsFacet { return TicketsFacet{m} }

// Holds returns the store's hold-lifecycle facet.
func (m *MemStore) Holds() HoldsFacet { return HoldsFacet{m} }

type EventsFacet struct{ m *MemStore }

func (f EventsFacet) Create(ctx context.Context, event *models.Event) error {
	return f.m.Create(ctx, event)
}

func (f EventsFacet) GetByID(ctx context.Context, id string) (*models.Event, error) {
	return f.m.GetByID(ctx, id)
}

type TicketsFacet struct{ m *MemStore }

func (f TicketsFacet) CreateBatch(ctx context.Context, eventID string, pricePence int64, n int) ([]string, error) {
	return f.m.CreateBatch(ctx, eventID, pricePence, n)
}

func (f TicketsFacet) Redeem(ctx context.Context, ticketID string) (*models.Ticket, error) {
	return f.m.Redeem(ctx, ticketID)
}

func (f TicketsFacet) Availability(ctx context.Context, eventID string) (*models.Availability, error) {
	return f.m.Availability(ctx, eventID)
}

func (f TicketsFacet) GetByOwner(ctx context.Context, ownerID string) ([]models.Ticket, error) {
	return f.m.GetByOwner(ctx, ownerID)
}

type HoldsFacet struct{ m *MemStore }

func (f HoldsFacet) Reserve(ctx context.Context, hold *models.Hold, n int) ([]string, error) {
	return f.m.Reserve(ctx, hold, n)
}

func (f HoldsFacet) Cancel(ctx context.Context, holdID, buyerSessionID string) (string, error) {
	return f.m.Cancel(ctx, holdID, buyerSessionID)
}

func (f HoldsFacet) Finalize(ctx context.Context, holdID, buyerSessionID, ownerID string) (*models.Sale, bool, error) {
	return f.m.Finalize(ctx, holdID, buyerSessionID, ownerID)
}

func (f HoldsFacet) GetByID(ctx context.Context, holdID, buyerSessionID string) (*models.Hold, error) {
	return f.m.GetHoldByID(ctx, holdID, buyerSessionID)
}

func (f HoldsFacet) ReclaimExpired(ctx context.Context) (*models.ReclaimResult, error) {
	return f.m.ReclaimExpired(ctx)
}

// TicketStatus reads a ticket's current status, for assertions.
func (m *MemStore) TicketStatus(ticketID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ticket, ok := m.tickets[ticketID]
	if !ok {
		return "", false
	}
	return ticket.Status, true
}
