package handlers

import (
	"net/http"

	"motive/internal/logger"
	"motive/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateTicketBatch - POST /api/tickets/batch
// Generate tickets for an event when its sales open. Capacity is fixed by
// the batches created.
func (h *Handlers) CreateTicketBatch(c *gin.Context) {
	var req models.CreateTicketBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Inventory.CreateTicketBatch(c.Request.Context(), &req)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to create ticket batch",
			"error", err, "event_id", req.EventID)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListTickets - GET /api/tickets?owner_id=...
// The tickets a buyer owns, for their upcoming events.
func (h *Handlers) ListTickets(c *gin.Context) {
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id is required"})
		return
	}

	response, err := h.services.Inventory.TicketsByOwner(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Redeem - PATCH /api/tickets/redeem
// One-time use at the door. A duplicate scan gets 409 with the ticket
// already redeemed; exactly one scan ever wins.
func (h *Handlers) Redeem(c *gin.Context) {
	var req models.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Redemptions.Redeem(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
