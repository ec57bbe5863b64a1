package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"motive/internal/database"
	"motive/internal/domain"
	"motive/internal/models"
)

type HoldRepository struct {
	db *database.DB
}

func NewHoldRepository(db *database.DB) *HoldRepository {
	return &HoldRepository{db: db}
}

// captureQuery picks up to n capturable tickets and flips them to HELD in
// one statement. Expired HELD rows qualify, so abandoned holds are reclaimed
// lazily by the next reservation that wants their tickets. SKIP LOCKED keeps
// contending reservations from serializing on the same rows; which tickets
// win is arbitrary, only the count matters.
const captureQuery = `
	WITH picked AS (
		SELECT id FROM tickets
		WHERE event_id = $1
		  AND (status = 'AVAILABLE'
		       OR (status = 'HELD' AND hold_expires_at < NOW()))
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	)
	UPDATE tickets t
	SET status = 'HELD', hold_id = $3, hold_expires_at = $4, updated_at = NOW()
	FROM picked
	WHERE t.id = picked.id
	RETURNING t.id`

// Reserve atomically captures n tickets for an event under a new hold.
// Either all n tickets are captured and the hold committed, or nothing is
// written and ErrSoldOut is returned. The all-or-nothing property comes
// from the transaction: a partial capture is rolled back, never observed.
func (r *HoldRepository) Reserve(ctx context.Context, hold *models.Hold, n int) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	insertHold := `
		INSERT INTO holds (id, event_id, buyer_session_id, status, expires_at)
		VALUES ($1, $2, $3, 'ACTIVE', $4)
		RETURNING created_at, updated_at`

	err = tx.QueryRowContext(ctx, insertHold,
		hold.ID, hold.EventID, hold.BuyerSessionID, hold.ExpiresAt,
	).Scan(&hold.CreatedAt, &hold.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert hold: %w", err)
	}

	rows, err := tx.QueryContext(ctx, captureQuery, hold.EventID, n, hold.ID, hold.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("capture tickets: %w", err)
	}

	var ticketIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ticketIDs = append(ticketIDs, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(ticketIDs) < n {
		// Fewer qualifying tickets than requested. Roll back so no
		// partial hold is ever created.
		return nil, domain.ErrSoldOut
	}

	insertLink := `INSERT INTO hold_tickets (hold_id, ticket_id) VALUES ($1, $2)`
	for _, ticketID := range ticketIDs {
		if _, err := tx.ExecContext(ctx, insertLink, hold.ID, ticketID); err != nil {
			return nil, fmt.Errorf("link ticket to hold: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ticketIDs, nil
}

// Cancel releases a hold's tickets back to AVAILABLE. Cancelling a hold
// that already lapsed or was cancelled is a no-op, not an error.
func (r *HoldRepository) Cancel(ctx context.Context, holdID, buyerSessionID string) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	flip := `
		UPDATE holds
		SET status = 'CANCELLED', updated_at = NOW()
		WHERE id = $1 AND buyer_session_id = $2 AND status = 'ACTIVE'
		RETURNING event_id`

	var eventID string
	err = tx.QueryRowContext(ctx, flip, holdID, buyerSessionID).Scan(&eventID)
	if err == sql.ErrNoRows {
		return "", r.explainHoldMiss(ctx, tx, holdID, buyerSessionID)
	}
	if err != nil {
		return "", fmt.Errorf("cancel hold: %w", err)
	}

	release := `
		UPDATE tickets
		SET status = 'AVAILABLE', hold_id = NULL, hold_expires_at = NULL, updated_at = NOW()
		WHERE hold_id = $1 AND status = 'HELD'`

	if _, err := tx.ExecContext(ctx, release, holdID); err != nil {
		return "", fmt.Errorf("release tickets: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return eventID, nil
}

// explainHoldMiss diagnoses why the conditional ACTIVE-state update matched
// nothing.
func (r *HoldRepository) explainHoldMiss(ctx context.Context, tx *sql.Tx, holdID, buyerSessionID string) error {
	var sessionID, status string
	query := `SELECT buyer_session_id, status FROM holds WHERE id = $1`
	err := tx.QueryRowContext(ctx, query, holdID).Scan(&sessionID, &status)
	if err == sql.ErrNoRows {
		return domain.ErrHoldNotFound
	}
	if err != nil {
		return fmt.Errorf("read hold: %w", err)
	}
	if sessionID != buyerSessionID {
		return domain.ErrUnauthorized
	}
	if status == models.HoldFinalized {
		return domain.ErrAlreadyFinalized
	}
	// CANCELLED or EXPIRED: already released, nothing to do.
	return nil
}

// Finalize converts a still-valid hold into a sale, assigning the owner to
// every ticket in the hold. All tickets transition or none do: a mismatch
// between updated rows and the hold's fixed ticket set rolls the whole
// transaction back. A retry against an already finalized hold returns the
// prior sale with already=true.
func (r *HoldRepository) Finalize(ctx context.Context, holdID, buyerSessionID, ownerID string) (*models.Sale, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	var (
		eventID     string
		sessionID   string
		status      string
		storedOwner sql.NullString
		updatedAt   time.Time
	)
	holdQuery := `
		SELECT event_id, buyer_session_id, status, owner_id, updated_at
		FROM holds
		WHERE id = $1
		FOR UPDATE`

	err = tx.QueryRowContext(ctx, holdQuery, holdID).
		Scan(&eventID, &sessionID, &status, &storedOwner, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, false, domain.ErrHoldNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("read hold: %w", err)
	}

	if sessionID != buyerSessionID {
		return nil, false, domain.ErrUnauthorized
	}

	ticketIDs, err := holdTicketIDs(ctx, tx, holdID)
	if err != nil {
		return nil, false, err
	}

	switch status {
	case models.HoldFinalized:
		sale := &models.Sale{
			HoldID:      holdID,
			EventID:     eventID,
			OwnerID:     storedOwner.String,
			TicketIDs:   ticketIDs,
			FinalizedAt: updatedAt,
		}
		return sale, true, nil
	case models.HoldCancelled, models.HoldExpired:
		return nil, false, domain.ErrHoldExpired
	}

	sell := `
		UPDATE tickets
		SET status = 'SOLD', owner_id = $1, hold_id = NULL, hold_expires_at = NULL, updated_at = NOW()
		WHERE hold_id = $2 AND status = 'HELD' AND hold_expires_at > NOW()`

	res, err := tx.ExecContext(ctx, sell, ownerID, holdID)
	if err != nil {
		return nil, false, fmt.Errorf("sell tickets: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}
	if int(affected) != len(ticketIDs) {
		// The hold lapsed, or a sweep already reclaimed some of its
		// tickets. Roll back so no partial sale exists.
		return nil, false, domain.ErrHoldExpired
	}

	finish := `
		UPDATE holds
		SET status = 'FINALIZED', owner_id = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at`

	var finalizedAt time.Time
	if err := tx.QueryRowContext(ctx, finish, ownerID, holdID).Scan(&finalizedAt); err != nil {
		return nil, false, fmt.Errorf("finalize hold: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	return &models.Sale{
		HoldID:      holdID,
		EventID:     eventID,
		OwnerID:     ownerID,
		TicketIDs:   ticketIDs,
		FinalizedAt: finalizedAt,
	}, false, nil
}

// GetByID returns a hold with its fixed ticket set, authorized to the
// owning session.
func (r *HoldRepository) GetByID(ctx context.Context, holdID, buyerSessionID string) (*models.Hold, error) {
	hold := &models.Hold{}
	query := `
		SELECT id, event_id, buyer_session_id, status, owner_id, expires_at, created_at, updated_at
		FROM holds
		WHERE id = $1`

	var ownerID sql.NullString
	err := r.db.QueryRowContext(ctx, query, holdID).Scan(
		&hold.ID,
		&hold.EventID,
		&hold.BuyerSessionID,
		&hold.Status,
		&ownerID,
		&hold.ExpiresAt,
		&hold.CreatedAt,
		&hold.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrHoldNotFound
	}
	if err != nil {
		return nil, err
	}

	if hold.BuyerSessionID != buyerSessionID {
		return nil, domain.ErrUnauthorized
	}
	if ownerID.Valid {
		hold.OwnerID = &ownerID.String
	}

	linkQuery := `SELECT ticket_id FROM hold_tickets WHERE hold_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, linkQuery, holdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		hold.TicketIDs = append(hold.TicketIDs, id)
	}

	return hold, rows.Err()
}

// ReclaimExpired returns every expired-held ticket to AVAILABLE and flips
// the corresponding holds to EXPIRED. Both steps are conditional updates,
// so a finalize racing the sweep has exactly one winner per ticket.
func (r *HoldRepository) ReclaimExpired(ctx context.Context) (*models.ReclaimResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	release := `
		UPDATE tickets
		SET status = 'AVAILABLE', hold_id = NULL, hold_expires_at = NULL, updated_at = NOW()
		WHERE status = 'HELD' AND hold_expires_at < NOW()`

	res, err := tx.ExecContext(ctx, release)
	if err != nil {
		return nil, fmt.Errorf("release expired tickets: %w", err)
	}
	reclaimed, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	expire := `
		UPDATE holds
		SET status = 'EXPIRED', updated_at = NOW()
		WHERE status = 'ACTIVE' AND expires_at < NOW()
		RETURNING id, event_id`

	rows, err := tx.QueryContext(ctx, expire)
	if err != nil {
		return nil, fmt.Errorf("expire holds: %w", err)
	}

	result := &models.ReclaimResult{TicketsReclaimed: int(reclaimed)}
	for rows.Next() {
		var eh models.ExpiredHold
		if err := rows.Scan(&eh.HoldID, &eh.EventID); err != nil {
			rows.Close()
			return nil, err
		}
		result.ExpiredHolds = append(result.ExpiredHolds, eh)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

func holdTicketIDs(ctx context.Context, tx *sql.Tx, holdID string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT ticket_id FROM hold_tickets WHERE hold_id = $1 ORDER BY id`, holdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
