package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method", "status_code"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status_code"},
	)
)

var (
	AdmissionAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "purchase_admission_attempts_total",
			Help: "Total number of purchase admission attempts",
		},
	)

	AdmissionSuccessTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "purchase_admission_success_total",
			Help: "Total number of admitted purchases",
		},
	)

	AdmissionRejectionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_admission_rejections_total",
			Help: "Total number of rejected purchase admissions",
		},
		[]string{"reason"},
	)

	UnitsSoldTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "purchase_units_sold_total",
			Help: "Total units sold across all products",
		},
	)

	ProductStockRemaining = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "product_stock_remaining",
			Help: "Remaining stock per product after the last admission",
		},
		[]string{"product_id"},
	)

	FlashSalePhase = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flash_sale_phase",
			Help: "Current flash sale phase (1 for the active phase label, 0 otherwise)",
		},
		[]string{"phase"},
	)
)

var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"query_type", "table"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	RedisCommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_command_duration_seconds",
			Help:    "Duration of Redis commands in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"command"},
	)
)

func TimeDBQuery(queryType, table string) func() {
	start := time.Now()
	return func() {
		DBQueryDuration.WithLabelValues(queryType, table).Observe(time.Since(start).Seconds())
	}
}

func RecordAdmissionAttempt() {
	AdmissionAttemptsTotal.Inc()
}

func RecordAdmissionSuccess(productID string, quantity, remainingStock int) {
	AdmissionSuccessTotal.Inc()
	UnitsSoldTotal.Add(float64(quantity))
	ProductStockRemaining.WithLabelValues(productID).Set(float64(remainingStock))
}

func RecordAdmissionRejection(reason string) {
	AdmissionRejectionTotal.WithLabelValues(reason).Inc()
}

// UpdateSalePhase sets the phase gauge so dashboards can overlay
// admission rates with the sale window.
func UpdateSalePhase(phase string) {
	for _, p := range []string{"active", "upcoming", "ended", "none"} {
		v := 0.0
		if p == phase {
			v = 1.0
		}
		FlashSalePhase.WithLabelValues(p).Set(v)
	}
}
