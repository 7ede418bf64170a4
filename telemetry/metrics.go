package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "byzgeneral"

var (
	Registry = prometheus.NewRegistry()

	DeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Orders handed to lieutenants, by honesty mode, order label and outcome.",
		},
		[]string{"mode", "label", "status"},
	)

	ProbesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Liveness probes, by outcome.",
		},
		[]string{"status"},
	)

	ExchangeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "exchange_duration_seconds",
			Help:      "Latency of a single exchange with a lieutenant.",
			// 1ms .. ~4s, the exchange timeout is 3s by default.
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 13),
		},
		[]string{"op"},
	)

	InFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "in_flight_exchanges",
			Help:      "Current number of exchanges with lieutenants.",
		},
		[]string{"op"},
	)

	Dishonest = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dishonest",
			Help:      "1 while the General behaves as a traitor, 0 otherwise.",
		},
	)

	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build info (constant 1, labeled by version and git_sha).",
		},
		[]string{"version", "git_sha"},
	)

	startTime = time.Now()
	uptime    = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Process uptime in seconds.",
		},
		func() float64 { return time.Since(startTime).Seconds() },
	)
)

func init() {
	Registry.MustRegister(DeliveriesTotal, ProbesTotal, ExchangeDuration, InFlight, Dishonest, buildInfo, uptime)
}

// MetricsHandler exposes /metrics. Mount it with mux.Handle("/metrics", telemetry.MetricsHandler()).
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// SetBuildInfo should be called once at startup, e.g. with ldflags-provided values.
func SetBuildInfo(version, gitSHA string) {
	buildInfo.WithLabelValues(version, gitSHA).Set(1)
}

// Observe records an exchange of kind op (e.g. "deliver", "probe") and
// returns the function to call once it is over.
func Observe(op string) (done func()) {
	start := time.Now()
	InFlight.WithLabelValues(op).Inc()
	return func() {
		InFlight.WithLabelValues(op).Dec()
		ExchangeDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}
