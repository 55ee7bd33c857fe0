package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fare_ledger_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fare_ledger_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ChargesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fare_ledger_charges_total",
			Help: "Charges by outcome and capture mode",
		},
		[]string{"outcome", "mode"},
	)

	ChargedAmountCentavos = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fare_ledger_charged_centavos_total",
			Help: "Sum of committed charge amounts in centavos",
		},
	)

	RefundsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fare_ledger_refunds_total",
			Help: "Refunds by path and outcome",
		},
		[]string{"path", "outcome"},
	)

	VehicleTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fare_ledger_vehicle_transitions_total",
			Help: "Vehicle state transitions by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fare_ledger_notifications_total",
			Help: "Receipt notifications and change events by kind and status",
		},
		[]string{"kind", "status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordCharge counts a charge outcome; amount is added only for committed charges.
func RecordCharge(outcome string, offline bool, amountCentavos int64) {
	mode := "online"
	if offline {
		mode = "offline"
	}
	ChargesTotal.WithLabelValues(outcome, mode).Inc()
	if outcome == "completed" {
		ChargedAmountCentavos.Add(float64(amountCentavos))
	}
}

func RecordRefund(path, outcome string) {
	RefundsTotal.WithLabelValues(path, outcome).Inc()
}

func RecordVehicleTransition(action, outcome string) {
	VehicleTransitionsTotal.WithLabelValues(action, outcome).Inc()
}

func RecordNotification(kind, status string) {
	NotificationsTotal.WithLabelValues(kind, status).Inc()
}

// Handler exposes the default registry for scraping.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
