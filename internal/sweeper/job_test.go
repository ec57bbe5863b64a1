package sweeper

import (
	"context"
	"testing"
	"time"

	"motive/internal/models"
	"motive/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedExpiredHold creates an event with capacity tickets, holds held of
// them, and moves the store clock past the hold's expiry.
func seedExpiredHold(t *testing.T, capacity, held int) (*testutil.MemStore, string, string) {
	t.Helper()
	ctx := context.Background()

	store := testutil.NewMemStore()
	event := &models.Event{Title: "Expiring Show", StartsAt: time.Now().Add(24 * time.Hour)}
	require.NoError(t, store.Create(ctx, event))
	_, err := store.CreateBatch(ctx, event.ID, 1500, capacity)
	require.NoError(t, err)

	hold := &models.Hold{
		ID:             "hold-sweep-1",
		EventID:        event.ID,
		BuyerSessionID: "session-1",
		Status:         models.HoldActive,
		ExpiresAt:      time.Now().Add(time.Minute),
	}
	_, err = store.Reserve(ctx, hold, held)
	require.NoError(t, err)

	store.AdvanceClock(2 * time.Minute)
	return store, event.ID, hold.ID
}

func TestSweepReclaimsExpiredHolds(t *testing.T) {
	store, eventID, holdID := seedExpiredHold(t, 4, 3)
	pub := &testutil.RecordingPublisher{}

	job := NewJob(store.Holds(), pub, time.Minute)
	job.sweep(context.Background())

	av, err := store.Availability(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, 4, av.Available)
	assert.Equal(t, 0, av.Held)

	hold, err := store.GetHoldByID(context.Background(), holdID, "session-1")
	require.NoError(t, err)
	assert.Equal(t, models.HoldExpired, hold.Status)

	msgs := pub.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, models.EventHoldExpired, msgs[0].Subject)
	payload, ok := msgs[0].Data.(models.HoldExpiredEvent)
	require.True(t, ok)
	assert.Equal(t, holdID, payload.HoldID)
	assert.Equal(t, eventID, payload.EventID)
}

func TestSweepIsIdempotent(t *testing.T) {
	store, _, _ := seedExpiredHold(t, 2, 2)
	pub := &testutil.RecordingPublisher{}

	job := NewJob(store.Holds(), pub, time.Minute)
	job.sweep(context.Background())
	job.sweep(context.Background())

	// The second pass finds nothing and publishes nothing.
	assert.Len(t, pub.Messages(), 1)
}

func TestSweepLeavesActiveHoldsAlone(t *testing.T) {
	ctx := context.Background()

	store := testutil.NewMemStore()
	event := &models.Event{Title: "Live Show", StartsAt: time.Now().Add(24 * time.Hour)}
	require.NoError(t, store.Create(ctx, event))
	_, err := store.CreateBatch(ctx, event.ID, 1500, 2)
	require.NoError(t, err)

	hold := &models.Hold{
		ID:             "hold-active-1",
		EventID:        event.ID,
		BuyerSessionID: "session-1",
		Status:         models.HoldActive,
		ExpiresAt:      time.Now().Add(time.Hour),
	}
	_, err = store.Reserve(ctx, hold, 2)
	require.NoError(t, err)

	pub := &testutil.RecordingPublisher{}
	job := NewJob(store.Holds(), pub, time.Minute)
	job.sweep(ctx)

	av, err := store.Availability(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, av.Held)
	assert.Empty(t, pub.Messages())
}

func TestStartRunsImmediateSweep(t *testing.T) {
	store, _, holdID := seedExpiredHold(t, 3, 3)
	pub := &testutil.RecordingPublisher{}

	job := NewJob(store.Holds(), pub, time.Hour)
	job.Start(context.Background())
	defer job.Stop()

	require.Eventually(t, func() bool {
		hold, err := store.GetHoldByID(context.Background(), holdID, "session-1")
		return err == nil && hold.Status == models.HoldExpired
	}, time.Second, 10*time.Millisecond)
}
