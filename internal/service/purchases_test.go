package service

import (
	"context"
	"testing"
	"time"

	"motive/internal/domain"
	"motive/internal/models"
	"motive/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reserveTickets creates a hold for n tickets and returns the reservation.
func reserveTickets(t *testing.T, store *testutil.MemStore, eventID, sessionID string, n int) *models.ReserveResponse {
	t.Helper()
	svc := newReservationService(store, &testutil.RecordingPublisher{})
	resp, err := svc.Reserve(context.Background(), &models.ReserveRequest{EventID: eventID, Count: n}, sessionID)
	require.NoError(t, err)
	return resp
}

func TestFinalizeSellsTickets(t *testing.T) {
	store, eventID := setupEvent(t, 5)
	hold := reserveTickets(t, store, eventID, "session-1", 2)

	pub := &testutil.RecordingPublisher{}
	svc := NewPurchaseService(store.Holds(), pub)

	resp, err := svc.Finalize(context.Background(),
		&models.FinalizeRequest{HoldID: hold.HoldID, OwnerID: "owner-42"}, "session-1")
	require.NoError(t, err)

	assert.False(t, resp.AlreadyFinalized)
	assert.Equal(t, "owner-42", resp.OwnerID)
	assert.ElementsMatch(t, hold.TicketIDs, resp.TicketIDs)

	for _, id := range hold.TicketIDs {
		status, ok := store.TicketStatus(id)
		require.True(t, ok)
		assert.Equal(t, models.TicketSold, status)
	}

	av, err := store.Availability(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, 3, av.Available)
	assert.Equal(t, 0, av.Held)
	assert.Equal(t, 2, av.Sold)

	assert.Contains(t, pub.Subjects(), models.EventTicketsSold)
}

func TestFinalizeIsIdempotent(t *testing.T) {
	store, eventID := setupEvent(t, 3)
	hold := reserveTickets(t, store, eventID, "session-1", 2)

	pub := &testutil.RecordingPublisher{}
	svc := NewPurchaseService(store.Holds(), pub)
	req := &models.FinalizeRequest{HoldID: hold.HoldID, OwnerID: "owner-42"}

	first, err := svc.Finalize(context.Background(), req, "session-1")
	require.NoError(t, err)

	second, err := svc.Finalize(context.Background(), req, "session-1")
	require.NoError(t, err)

	assert.True(t, second.AlreadyFinalized)
	assert.Equal(t, first.OwnerID, second.OwnerID)
	assert.ElementsMatch(t, first.TicketIDs, second.TicketIDs)

	// The sale event fires once, on the call that actually sold.
	subjects := pub.Subjects()
	sold := 0
	for _, s := range subjects {
		if s == models.EventTicketsSold {
			sold++
		}
	}
	assert.Equal(t, 1, sold)
}

func TestFinalizeExpiredHold(t *testing.T) {
	store, eventID := setupEvent(t, 3)
	hold := reserveTickets(t, store, eventID, "session-1", 2)

	store.AdvanceClock(time.Hour)

	svc := NewPurchaseService(store.Holds(), &testutil.RecordingPublisher{})
	_, err := svc.Finalize(context.Background(),
		&models.FinalizeRequest{HoldID: hold.HoldID, OwnerID: "owner-42"}, "session-1")
	assert.ErrorIs(t, err, domain.ErrHoldExpired)

	// Nothing was sold; the tickets are free for the next buyer.
	av, err := store.Availability(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, 3, av.Available)
	assert.Equal(t, 0, av.Sold)
}

func TestFinalizeCancelledHold(t *testing.T) {
	store, eventID := setupEvent(t, 3)
	hold := reserveTickets(t, store, eventID, "session-1", 1)

	_, err := store.Cancel(context.Background(), hold.HoldID, "session-1")
	require.NoError(t, err)

	svc := NewPurchaseService(store.Holds(), &testutil.RecordingPublisher{})
	_, err = svc.Finalize(context.Background(),
		&models.FinalizeRequest{HoldID: hold.HoldID, OwnerID: "owner-42"}, "session-1")
	assert.ErrorIs(t, err, domain.ErrHoldExpired)
}

func TestFinalizeRequiresOwningSession(t *testing.T) {
	store, eventID := setupEvent(t, 3)
	hold := reserveTickets(t, store, eventID, "session-1", 1)

	svc := NewPurchaseService(store.Holds(), &testutil.RecordingPublisher{})
	_, err := svc.Finalize(context.Background(),
		&models.FinalizeRequest{HoldID: hold.HoldID, OwnerID: "owner-42"}, "session-2")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestFinalizeUnknownHold(t *testing.T) {
	store, _ := setupEvent(t, 1)
	svc := NewPurchaseService(store.Holds(), &testutil.RecordingPublisher{})

	_, err := svc.Finalize(context.Background(),
		&models.FinalizeRequest{HoldID: "no-such-hold", OwnerID: "owner-42"}, "session-1")
	assert.ErrorIs(t, err, domain.ErrHoldNotFound)
}
