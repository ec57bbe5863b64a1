package repository

import (
	"motive/internal/database"
)

type Repositories struct {
	Events  *EventRepository
	Tickets *TicketRepository
	Holds   *HoldRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Events:  NewEventRepository(db),
		Tickets: NewTicketRepository(db),
		Holds:   NewHoldRepository(db),
	}
}
