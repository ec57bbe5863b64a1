package handlers

import (
	"net/http"

	"motive/internal/logger"
	"motive/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateEvent - POST /api/events
// Register an event so tickets can be generated for it. Event management
// proper (venues, artists, search) lives in a different service.
func (h *Handlers) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Inventory.CreateEvent(c.Request.Context(), &req)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to create event", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetEvent - GET /api/events/:id
func (h *Handlers) GetEvent(c *gin.Context) {
	event, err := h.services.Inventory.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// GetAvailability - GET /api/events/:id/availability
// Sold/available/held/redeemed counts for an event. Served from cache when
// possible; this is a display read and never gates a reservation.
func (h *Handlers) GetAvailability(c *gin.Context) {
	eventID := c.Param("id")

	if h.cacheClient != nil {
		rawJSON, err := h.cacheClient.GetAvailabilityRaw(c.Request.Context(), eventID)
		if err == nil {
			c.Data(http.StatusOK, "application/json", rawJSON)
			return
		}
	}

	response, err := h.services.Inventory.Availability(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.cacheClient != nil {
		if err := h.cacheClient.SetAvailability(c.Request.Context(), eventID, response); err != nil {
			logger.WithContext(c.Request.Context()).Warn("Failed to cache availability",
				"error", err, "event_id", eventID)
		}
	}

	c.JSON(http.StatusOK, response)
}
