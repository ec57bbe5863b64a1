package service

import (
	"context"
	"testing"

	"motive/internal/domain"
	"motive/internal/models"
	"motive/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sellTickets runs reserve + finalize and returns the sold ticket IDs.
func sellTickets(t *testing.T, store *testutil.MemStore, eventID, ownerID string, n int) []string {
	t.Helper()
	hold := reserveTickets(t, store, eventID, "session-gate", n)
	_, _, err := store.Finalize(context.Background(), hold.HoldID, "session-gate", ownerID)
	require.NoError(t, err)
	return hold.TicketIDs
}

func TestRedeemSoldTicket(t *testing.T) {
	store, eventID := setupEvent(t, 2)
	ticketIDs := sellTickets(t, store, eventID, "owner-1", 1)

	pub := &testutil.RecordingPublisher{}
	svc := NewRedemptionService(store.Tickets(), pub)

	resp, err := svc.Redeem(context.Background(), &models.RedeemRequest{TicketID: ticketIDs[0]})
	require.NoError(t, err)
	assert.Equal(t, models.TicketRedeemed, resp.Status)

	assert.Contains(t, pub.Subjects(), models.EventTicketRedeemed)
}

func TestRedeemTwice(t *testing.T) {
	store, eventID := setupEvent(t, 2)
	ticketIDs := sellTickets(t, store, eventID, "owner-1", 1)

	svc := NewRedemptionService(store.Tickets(), &testutil.RecordingPublisher{})
	req := &models.RedeemRequest{TicketID: ticketIDs[0]}

	_, err := svc.Redeem(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Redeem(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrAlreadyRedeemed)

	status, ok := store.TicketStatus(ticketIDs[0])
	require.True(t, ok)
	assert.Equal(t, models.TicketRedeemed, status)
}

func TestRedeemUnsoldTicket(t *testing.T) {
	store, eventID := setupEvent(t, 2)
	svc := NewRedemptionService(store.Tickets(), &testutil.RecordingPublisher{})

	// AVAILABLE tickets cannot be redeemed.
	ids, err := store.CreateBatch(context.Background(), eventID, 1000, 1)
	require.NoError(t, err)

	_, err = svc.Redeem(context.Background(), &models.RedeemRequest{TicketID: ids[0]})
	assert.ErrorIs(t, err, domain.ErrNotSold)

	// HELD is not redeemable either.
	hold := reserveTickets(t, store, eventID, "session-1", 1)
	_, err = svc.Redeem(context.Background(), &models.RedeemRequest{TicketID: hold.TicketIDs[0]})
	assert.ErrorIs(t, err, domain.ErrNotSold)
}

func TestRedeemUnknownTicket(t *testing.T) {
	store, _ := setupEvent(t, 1)
	svc := NewRedemptionService(store.Tickets(), &testutil.RecordingPublisher{})

	_, err := svc.Redeem(context.Background(), &models.RedeemRequest{TicketID: "no-such-ticket"})
	assert.ErrorIs(t, err, domain.ErrTicketNotFound)
}
