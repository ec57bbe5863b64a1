package repository

import (
	"context"
	"database/sql"

	"motive/internal/database"
	"motive/internal/models"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (title, starts_at)
		VALUES ($1, $2)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query, event.Title, event.StartsAt).
		Scan(&event.ID, &event.CreatedAt)
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	event := &models.Event{}
	query := `
		SELECT id, title, starts_at, created_at
		FROM events
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.StartsAt,
		&event.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return event, err
}
