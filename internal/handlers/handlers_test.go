package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"motive/internal/models"
	"motive/internal/service"
	"motive/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter wires the real handlers and services over an in-memory
// store, with caching disabled.
func newTestRouter() (*gin.Engine, *testutil.MemStore) {
	store := testutil.NewMemStore()
	pub := &testutil.RecordingPublisher{}

	resCfg := service.ReservationConfig{
		DefaultTTL: 5 * time.Minute,
		MinTTL:     15 * time.Second,
		MaxTTL:     30 * time.Minute,
	}

	services := &service.Services{
		Inventory:    service.NewInventoryService(store.Events(), store.Tickets()),
		Reservations: service.NewReservationService(store.Events(), store.Holds(), pub, resCfg),
		Purchases:    service.NewPurchaseService(store.Holds(), pub),
		Redemptions:  service.NewRedemptionService(store.Tickets(), pub),
	}

	h := NewHandlers(services, nil)

	router := gin.New()
	api := router.Group("/api")
	{
		api.POST("/events", h.CreateEvent)
		api.GET("/events/:id", h.GetEvent)
		api.GET("/events/:id/availability", h.GetAvailability)

		api.POST("/tickets/batch", h.CreateTicketBatch)
		api.GET("/tickets", h.ListTickets)
		api.PATCH("/tickets/redeem", h.Redeem)

		api.POST("/holds", h.Reserve)
		api.GET("/holds/:id", h.GetHold)
		api.PATCH("/holds/cancel", h.CancelHold)
		api.PATCH("/holds/finalize", h.Finalize)
	}

	return router, store
}

func doRequest(router *gin.Engine, method, path, session string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set("X-Session-ID", session)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// createEventWithTickets drives the HTTP surface to set up an event with
// capacity tickets and returns the event ID.
func createEventWithTickets(t *testing.T, router *gin.Engine, capacity int) string {
	t.Helper()

	w := doRequest(router, http.MethodPost, "/api/events", "", models.CreateEventRequest{
		Title:    "Router Test Event",
		StartsAt: time.Now().Add(24 * time.Hour),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	eventID := decode[models.CreateEventResponse](t, w).ID

	w = doRequest(router, http.MethodPost, "/api/tickets/batch", "", models.CreateTicketBatchRequest{
		EventID:    eventID,
		PricePence: 3500,
		Count:      capacity,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	return eventID
}

func TestCreateEventEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	w := doRequest(router, http.MethodPost, "/api/events", "", models.CreateEventRequest{
		Title:    "Opening Night",
		StartsAt: time.Now().Add(24 * time.Hour),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, decode[models.CreateEventResponse](t, w).ID)

	// Missing title fails binding.
	w = doRequest(router, http.MethodPost, "/api/events", "", map[string]interface{}{
		"starts_at": time.Now().Add(24 * time.Hour),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEventNotFound(t *testing.T) {
	router, _ := newTestRouter()

	w := doRequest(router, http.MethodGet, "/api/events/no-such-event", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHoldLifecycleOverHTTP(t *testing.T) {
	router, _ := newTestRouter()
	eventID := createEventWithTickets(t, router, 3)

	// Reserve two tickets.
	w := doRequest(router, http.MethodPost, "/api/holds", "session-1", models.ReserveRequest{
		EventID: eventID,
		Count:   2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	hold := decode[models.ReserveResponse](t, w)
	assert.Len(t, hold.TicketIDs, 2)

	// The hold is visible to its session.
	w = doRequest(router, http.MethodGet, "/api/holds/"+hold.HoldID, "session-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.HoldResponse](t, w)
	assert.Equal(t, models.HoldActive, got.Status)

	// Finalize after payment.
	w = doRequest(router, http.MethodPatch, "/api/holds/finalize", "session-1", models.FinalizeRequest{
		HoldID:  hold.HoldID,
		OwnerID: "owner-1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	sale := decode[models.FinalizeResponse](t, w)
	assert.False(t, sale.AlreadyFinalized)
	assert.ElementsMatch(t, hold.TicketIDs, sale.TicketIDs)

	// Availability reflects the sale.
	w = doRequest(router, http.MethodGet, "/api/events/"+eventID+"/availability", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	av := decode[models.Availability](t, w)
	assert.Equal(t, 1, av.Available)
	assert.Equal(t, 2, av.Sold)

	// The owner's tickets are listed.
	w = doRequest(router, http.MethodGet, "/api/tickets?owner_id=owner-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tickets := decode[models.ListTicketsResponse](t, w)
	assert.Len(t, tickets, 2)

	// Redeem at the door, once.
	w = doRequest(router, http.MethodPatch, "/api/tickets/redeem", "", models.RedeemRequest{
		TicketID: hold.TicketIDs[0],
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.TicketRedeemed, decode[models.RedeemResponse](t, w).Status)

	// A duplicate scan conflicts.
	w = doRequest(router, http.MethodPatch, "/api/tickets/redeem", "", models.RedeemRequest{
		TicketID: hold.TicketIDs[0],
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReserveRequiresSessionHeader(t *testing.T) {
	router, _ := newTestRouter()
	eventID := createEventWithTickets(t, router, 1)

	w := doRequest(router, http.MethodPost, "/api/holds", "", models.ReserveRequest{
		EventID: eventID,
		Count:   1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReserveSoldOut(t *testing.T) {
	router, _ := newTestRouter()
	eventID := createEventWithTickets(t, router, 1)

	w := doRequest(router, http.MethodPost, "/api/holds", "session-1", models.ReserveRequest{
		EventID: eventID,
		Count:   2,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelHoldWrongSession(t *testing.T) {
	router, _ := newTestRouter()
	eventID := createEventWithTickets(t, router, 2)

	w := doRequest(router, http.MethodPost, "/api/holds", "session-1", models.ReserveRequest{
		EventID: eventID,
		Count:   1,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	hold := decode[models.ReserveResponse](t, w)

	w = doRequest(router, http.MethodPatch, "/api/holds/cancel", "session-2", models.CancelHoldRequest{
		HoldID: hold.HoldID,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The rightful session can still see and cancel it.
	w = doRequest(router, http.MethodPatch, "/api/holds/cancel", "session-1", models.CancelHoldRequest{
		HoldID: hold.HoldID,
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFinalizeExpiredHoldIsGone(t *testing.T) {
	router, store := newTestRouter()
	eventID := createEventWithTickets(t, router, 2)

	w := doRequest(router, http.MethodPost, "/api/holds", "session-1", models.ReserveRequest{
		EventID: eventID,
		Count:   1,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	hold := decode[models.ReserveResponse](t, w)

	store.AdvanceClock(time.Hour)

	w = doRequest(router, http.MethodPatch, "/api/holds/finalize", "session-1", models.FinalizeRequest{
		HoldID:  hold.HoldID,
		OwnerID: "owner-1",
	})
	assert.Equal(t, http.StatusGone, w.Code)
}

func TestGetHoldUnknown(t *testing.T) {
	router, _ := newTestRouter()

	w := doRequest(router, http.MethodGet, "/api/holds/no-such-hold", "session-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTicketsRequiresOwner(t *testing.T) {
	router, _ := newTestRouter()

	w := doRequest(router, http.MethodGet, "/api/tickets", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTicketBatchValidationOverHTTP(t *testing.T) {
	router, _ := newTestRouter()

	// Unknown event.
	w := doRequest(router, http.MethodPost, "/api/tickets/batch", "", models.CreateTicketBatchRequest{
		EventID:    "no-such-event",
		PricePence: 100,
		Count:      5,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Malformed body.
	w = doRequest(router, http.MethodPost, "/api/tickets/batch", "", map[string]interface{}{
		"price_pence": 100,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
