package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors exposed on /metrics.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "growpreen",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "growpreen",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	ledgerOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "growpreen",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Balance mutations by operation and result.",
		},
		[]string{"op", "result"},
	)

	ledgerRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "growpreen",
			Subsystem: "ledger",
			Name:      "cas_retries_total",
			Help:      "Version conflicts retried by the ledger.",
		},
	)

	lockWait = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "growpreen",
			Subsystem: "lock",
			Name:      "wait_seconds",
			Help:      "Time spent acquiring per-user locks.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"backend", "acquired"},
	)

	decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "growpreen",
			Subsystem: "admin",
			Name:      "decisions_total",
			Help:      "Admin approval decisions by entity and outcome.",
		},
		[]string{"entity", "outcome"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "growpreen",
			Subsystem: "notification",
			Name:      "appended_total",
			Help:      "Notifications appended by delivery mode and result.",
		},
		[]string{"mode", "result"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		ledgerOps,
		ledgerRetries,
		lockWait,
		decisions,
		notifications,
	)
}

// Handler serves the application registry merged with the default one, which
// carries the runtime collectors and the gorm pool stats.
func Handler() http.Handler {
	return promhttp.HandlerFor(prometheus.Gatherers{Registry, prometheus.DefaultGatherer}, promhttp.HandlerOpts{})
}

func RecordHTTP(method, path string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func RecordLedger(op string, err error) {
	ledgerOps.WithLabelValues(op, result(err)).Inc()
}

func RecordLedgerRetry() {
	ledgerRetries.Inc()
}

func RecordLockWait(backend string, acquired bool, d time.Duration) {
	lockWait.WithLabelValues(backend, strconv.FormatBool(acquired)).Observe(d.Seconds())
}

func RecordDecision(entity, outcome string, err error) {
	if err != nil {
		outcome = "failed"
	}
	decisions.WithLabelValues(entity, outcome).Inc()
}

func RecordNotification(mode string, err error) {
	notifications.WithLabelValues(mode, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
