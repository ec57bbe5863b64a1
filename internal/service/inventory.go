package service

import (
	"context"
	"fmt"

	"motive/internal/domain"
	"motive/internal/models"
)

// InventoryService owns ticket batch creation and the read-only
// availability views. It never transitions ticket state.
type InventoryService struct {
	eventStore  EventStore
	ticketStore TicketStore
}

func NewInventoryService(eventStore EventStore, ticketStore TicketStore) *InventoryService {
	return &InventoryService{
		eventStore:  eventStore,
		ticketStore: ticketStore,
	}
}

func (s *InventoryService) CreateEvent(ctx context.Context, req *models.CreateEventRequest) (*models.CreateEventResponse, error) {
	event := &models.Event{
		Title:    req.Title,
		StartsAt: req.StartsAt,
	}
	if err := s.eventStore.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return &models.CreateEventResponse{ID: event.ID}, nil
}

func (s *InventoryService) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	return event, nil
}

// CreateTicketBatch inserts count AVAILABLE tickets for an event. Capacity
// is fixed by the batches created; it is never changed by holds or sales.
func (s *InventoryService) CreateTicketBatch(ctx context.Context, req *models.CreateTicketBatchRequest) (*models.CreateTicketBatchResponse, error) {
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

	ids, err := s.ticketStore.CreateBatch(ctx, req.EventID, req.PricePence, req.Count)
	if err != nil {
		return nil, fmt.Errorf("failed to create tickets: %w", err)
	}

	return &models.CreateTicketBatchResponse{
		EventID:   req.EventID,
		TicketIDs: ids,
	}, nil
}

func (s *InventoryService) Availability(ctx context.Context, eventID string) (*models.Availability, error) {
	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}

	av, err := s.ticketStore.Availability(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}
	return av, nil
}

func (s *InventoryService) TicketsByOwner(ctx context.Context, ownerID string) (models.ListTicketsResponse, error) {
	tickets, err := s.ticketStore.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}

	result := make(models.ListTicketsResponse, len(tickets))
	for i, ticket := range tickets {
		result[i] = models.ListTicketsResponseItem{
			ID:         ticket.ID,
			EventID:    ticket.EventID,
			PricePence: ticket.PricePence,
			Status:     ticket.Status,
		}
	}
	return result, nil
}
