package telegram

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the Bot API client.
//
// They track request latency per method, failures by category, the number of
// updates drained by Poll, the size of the message log and downloaded bytes.

const metricsNamespace = "telebind"

var (
	// telegramRequestDuration measures Bot API round trips.
	// Labels:
	//   - method: API method (sendMessage, getUpdates, ...)
	//   - status: success, error or timeout
	telegramRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "telegram",
			Name:      "request_duration_seconds",
			Help:      "Duration of Telegram API requests in seconds",
			// Every call is bounded by the client timeout (10s by default).
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "status"},
	)

	telegramRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "telegram",
			Name:      "requests_total",
			Help:      "Total number of Telegram API requests",
		},
		[]string{"method", "status"},
	)

	// telegramErrorsTotal counts failures.
	// Labels:
	//   - method: API method
	//   - error_type: network, timeout, api_error, decode_error, usage, resource
	telegramErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "telegram",
			Name:      "errors_total",
			Help:      "Total number of errors by type",
		},
		[]string{"method", "error_type"},
	)

	telegramUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "telegram",
			Name:      "updates_total",
			Help:      "Total number of updates received via getUpdates",
		},
	)

	telegramMessageLogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "telegram",
			Name:      "message_log_size",
			Help:      "Number of received messages held in the client log",
		},
	)

	telegramDownloadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "telegram",
			Name:      "download_bytes_total",
			Help:      "Total number of bytes downloaded from the file endpoint",
		},
	)
)

const (
	statusSuccess = "success"
	statusError   = "error"
	statusTimeout = "timeout"
)

const (
	errorTypeNetwork  = "network"
	errorTypeTimeout  = "timeout"
	errorTypeAPI      = "api_error"
	errorTypeDecode   = "decode_error"
	errorTypeUsage    = "usage"
	errorTypeResource = "resource"
)

func recordRequestDuration(method, status string, durationSeconds float64) {
	telegramRequestDuration.WithLabelValues(method, status).Observe(durationSeconds)
	telegramRequestsTotal.WithLabelValues(method, status).Inc()
}

func recordError(method, errorType string) {
	telegramErrorsTotal.WithLabelValues(method, errorType).Inc()
}

func recordUpdates(count int) {
	telegramUpdatesTotal.Add(float64(count))
}

func setMessageLogSize(size int) {
	telegramMessageLogSize.Set(float64(size))
}

func recordDownloadBytes(n int64) {
	telegramDownloadBytesTotal.Add(float64(n))
}
