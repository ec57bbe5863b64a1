package api

import (
	"fmt"
	"net/http"

	"motive/internal/cache"
	"motive/internal/config"
	"motive/internal/database"
	"motive/internal/handlers"
	"motive/internal/logger"
	"motive/internal/messaging"
	"motive/internal/middleware"
	"motive/internal/repository"
	"motive/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wires the HTTP API together
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	cache    *cache.Client
	services *service.Services
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", "error", err)
	}

	// The availability cache is an optimization; the API runs without it.
	cacheClient, err := cache.NewClient(cfg.Cache)
	if err != nil {
		logger.Get().Warn("Availability cache unavailable, serving from database", "error", err)
		cacheClient = nil
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, natsClient, service.ReservationConfig{
		DefaultTTL: cfg.HoldTTLDefault,
		MinTTL:     cfg.HoldTTLMin,
		MaxTTL:     cfg.HoldTTLMax,
	})

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		cache:    cacheClient,
		services: services,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services, s.cache)

	api := s.router.Group("/api")
	{
		events := api.Group("/events")
		{
			events.POST("", h.CreateEvent)
			events.GET("/:id", h.GetEvent)
			events.GET("/:id/availability", h.GetAvailability)
		}

		tickets := api.Group("/tickets")
		{
			tickets.POST("/batch", h.CreateTicketBatch)
			tickets.GET("", h.ListTickets)
			tickets.PATCH("/redeem", h.Redeem)
		}

		holds := api.Group("/holds")
		{
			holds.POST("", h.Reserve)
			holds.GET("/:id", h.GetHold)
			holds.PATCH("/cancel", h.CancelHold)
			holds.PATCH("/finalize", h.Finalize)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	dbHealth := s.db.HealthCheck(c.Request.Context())

	status := http.StatusOK
	if dbHealth.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   dbHealth.Status,
		"service":  "motive-ticketing",
		"database": dbHealth,
	})
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter exposes the router for the HTTP server and tests
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes connections
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			logger.Get().Error("Error closing cache connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
