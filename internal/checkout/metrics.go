package checkout

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeFlows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "checkout_active_flows",
			Help: "Number of checkout flows currently holding a seat lock",
		},
	)

	flowsSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_flows_settled_total",
			Help: "Terminal checkout outcomes by outcome and reason",
		},
		[]string{"outcome", "reason"},
	)

	seatReleases = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_seat_releases_total",
			Help: "Best-effort seat unlock calls by trigger and result",
		},
		[]string{"trigger", "status"},
	)

	loadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "checkout_display_load_seconds",
			Help:    "Duration of the combined display-data fetch",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	confirmDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "checkout_confirm_seconds",
			Help:    "Duration of booking-creation submissions",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)
)
