package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks request latency per route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "motive_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status code.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// ReservationsTotal counts reservation attempts by outcome.
	ReservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "motive_reservations_total",
			Help: "Reservation attempts by outcome (created, sold_out, error).",
		},
		[]string{"outcome"},
	)

	// FinalizesTotal counts finalize attempts by outcome.
	FinalizesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "motive_finalizes_total",
			Help: "Finalize attempts by outcome (sold, already_finalized, expired, error).",
		},
		[]string{"outcome"},
	)

	// RedemptionsTotal counts redemption attempts by outcome.
	RedemptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "motive_redemptions_total",
			Help: "Redemption attempts by outcome (redeemed, duplicate, not_sold, error).",
		},
		[]string{"outcome"},
	)

	// HoldsExpiredTotal counts holds flipped to EXPIRED by the sweeper.
	HoldsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "motive_holds_expired_total",
			Help: "Holds expired by the background sweeper.",
		},
	)

	// TicketsReclaimedTotal counts tickets returned to AVAILABLE by the sweeper.
	TicketsReclaimedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "motive_tickets_reclaimed_total",
			Help: "Tickets returned to the available pool by the background sweeper.",
		},
	)
)
