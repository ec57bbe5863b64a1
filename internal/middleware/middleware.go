package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"motive/internal/logger"
	"motive/internal/metrics"

	"github.com/gin-gonic/gin"
)

// CORS handles cross-origin requests from the checkout UI and scanner apps
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Session-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

// RequestID attaches a request ID to the context for log correlation
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = logger.NewRequestID()
		}
		c.Header("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(
			logger.ContextWithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// Logger logs completed requests with structured fields
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		logFields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		}

		if c.Writer.Status() >= 500 {
			if len(c.Errors) > 0 {
				logFields = append(logFields, "error", c.Errors.String())
			}
			logger.WithContext(c.Request.Context()).Error("Request failed", logFields...)
		} else {
			logger.WithContext(c.Request.Context()).Debug("Request completed", logFields...)
		}
	}
}

// Metrics records per-request latency broken down by route and status
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Recovery turns panics into 500 responses with full logging
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		slog.Error("PANIC recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"client_ip", c.ClientIP(),
		)

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
	})
}
