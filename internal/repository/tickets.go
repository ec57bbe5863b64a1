package repository

import (
	"context"
	"database/sql"
	"fmt"

	"motive/internal/database"
	"motive/internal/domain"
	"motive/internal/models"
)

type TicketRepository struct {
	db *database.DB
}

func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// CreateBatch inserts n AVAILABLE tickets for an event in one transaction
// and returns their ids. Price is fixed for the whole batch.
func (r *TicketRepository) CreateBatch(ctx context.Context, eventID string, pricePence int64, n int) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO tickets (event_id, price_pence, status)
		VALUES ($1, $2, 'AVAILABLE')
		RETURNING id`

	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		var id string
		if err := tx.QueryRowContext(ctx, query, eventID, pricePence).Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Redeem flips a ticket from SOLD to REDEEMED. The conditional update means
// two simultaneous scans of the same ticket have exactly one winner; the
// loser sees ErrAlreadyRedeemed.
func (r *TicketRepository) Redeem(ctx context.Context, ticketID string) (*models.Ticket, error) {
	query := `
		UPDATE tickets
		SET status = 'REDEEMED', updated_at = NOW()
		WHERE id = $1 AND status = 'SOLD'
		RETURNING id, event_id, price_pence, status, owner_id, created_at, updated_at`

	ticket := &models.Ticket{}
	err := r.db.QueryRowContext(ctx, query, ticketID).Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.PricePence,
		&ticket.Status,
		&ticket.OwnerID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err == nil {
		return ticket, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("redeem ticket: %w", err)
	}

	// Lost the conditional update. Read the current status to say why.
	var status string
	err = r.db.QueryRowContext(ctx, `SELECT status FROM tickets WHERE id = $1`, ticketID).Scan(&status)
	if err == sql.ErrNoRows {
		return nil, domain.ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read ticket status: %w", err)
	}

	if status == models.TicketRedeemed {
		return nil, domain.ErrAlreadyRedeemed
	}
	return nil, domain.ErrNotSold
}

// Availability reports per-status counts for an event. Held tickets whose
// hold already lapsed count as available even before the sweeper runs.
func (r *TicketRepository) Availability(ctx context.Context, eventID string) (*models.Availability, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'AVAILABLE'
				OR (status = 'HELD' AND hold_expires_at < NOW())),
			COUNT(*) FILTER (WHERE status = 'HELD' AND hold_expires_at >= NOW()),
			COUNT(*) FILTER (WHERE status = 'SOLD'),
			COUNT(*) FILTER (WHERE status = 'REDEEMED')
		FROM tickets
		WHERE event_id = $1`

	av := &models.Availability{EventID: eventID}
	err := r.db.QueryRowContext(ctx, query, eventID).Scan(
		&av.Total,
		&av.Available,
		&av.Held,
		&av.Sold,
		&av.Redeemed,
	)
	if err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}
	return av, nil
}

func (r *TicketRepository) GetByOwner(ctx context.Context, ownerID string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	query := `
		SELECT id, event_id, price_pence, status, owner_id, created_at, updated_at
		FROM tickets
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ticket models.Ticket
		err := rows.Scan(
			&ticket.ID,
			&ticket.EventID,
			&ticket.PricePence,
			&ticket.Status,
			&ticket.OwnerID,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}

	return tickets, rows.Err()
}
