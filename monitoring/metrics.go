package monitoring

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	calculationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsis_calculations_total",
			Help: "Position size calculations by source and resulting risk status",
		},
		[]string{"source", "status"},
	)

	riskAmount = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tsis_calculation_risk_amount",
			Help:    "Dollar risk of sized positions",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"source"},
	)

	remoteErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsis_remote_errors_total",
			Help: "Failed calls to the risk, calculator and dashboard services",
		},
		[]string{"op"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsis_http_requests_total",
			Help: "HTTP requests served by route and status code",
		},
		[]string{"route", "code"},
	)
)

func init() {
	prometheus.MustRegister(calculationsTotal)
	prometheus.MustRegister(riskAmount)
	prometheus.MustRegister(remoteErrorsTotal)
	prometheus.MustRegister(httpRequestsTotal)
}

// Handler serves the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordCalculation counts a sized position. source is "local", "remote"
// or "server".
func RecordCalculation(source, status string, risk float64) {
	calculationsTotal.WithLabelValues(source, status).Inc()
	riskAmount.WithLabelValues(source).Observe(risk)
}

// RecordRemoteError counts a failed outbound call.
func RecordRemoteError(op string) {
	remoteErrorsTotal.WithLabelValues(op).Inc()
}

// RecordRequest counts a served HTTP request.
func RecordRequest(route string, code int) {
	httpRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
