package handlers

import (
	"errors"
	"net/http"

	"motive/internal/cache"
	"motive/internal/domain"
	"motive/internal/service"

	"github.com/gin-gonic/gin"
)

const sessionHeader = "X-Session-ID"

type Handlers struct {
	services    *service.Services
	cacheClient *cache.Client
}

func NewHandlers(services *service.Services, cacheClient *cache.Client) *Handlers {
	return &Handlers{
		services:    services,
		cacheClient: cacheClient,
	}
}

// sessionID extracts the buyer session from the request header. There is no
// login here; identity management is an external collaborator and every
// operation carries its session explicitly.
func sessionID(c *gin.Context) (string, bool) {
	id := c.GetHeader(sessionHeader)
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": sessionHeader + " header is required"})
		return "", false
	}
	return id, true
}

// respondError maps domain outcomes onto HTTP statuses. Anything outside
// the taxonomy is an infrastructure fault and surfaces as a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrHoldNotFound),
		errors.Is(err, domain.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrSoldOut),
		errors.Is(err, domain.ErrAlreadyRedeemed),
		errors.Is(err, domain.ErrNotSold),
		errors.Is(err, domain.ErrAlreadyFinalized):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrHoldExpired):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
