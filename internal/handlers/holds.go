package handlers

import (
	"net/http"

	"motive/internal/logger"
	"motive/internal/models"

	"github.com/gin-gonic/gin"
)

// Reserve - POST /api/holds
// Atomically capture tickets for a buyer under a time-limited hold. 409
// means sold out: fewer tickets were available than requested, and no
// partial hold was created.
func (h *Handlers) Reserve(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		return
	}

	var req models.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Reservations.Reserve(c.Request.Context(), &req, session)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetHold - GET /api/holds/:id
// Checkout UI polls this for hold status and expiry.
func (h *Handlers) GetHold(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		return
	}

	response, err := h.services.Reservations.GetHold(c.Request.Context(), c.Param("id"), session)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// CancelHold - PATCH /api/holds/cancel
// Release a hold's tickets back to the available pool.
func (h *Handlers) CancelHold(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		return
	}

	var req models.CancelHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Reservations.Cancel(c.Request.Context(), &req, session); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// Finalize - PATCH /api/holds/finalize
// Called by the payment callback once payment is confirmed. Safe to retry:
// a repeat call returns the original sale. 410 means the hold expired and
// the buyer must re-reserve.
func (h *Handlers) Finalize(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		return
	}

	var req models.FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Purchases.Finalize(c.Request.Context(), &req, session)
	if err != nil {
		logger.WithContext(c.Request.Context()).Info("Finalize rejected",
			"hold_id", req.HoldID, "reason", err.Error())
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
