package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// serverMetrics are the session and transport metrics of a Server.
type serverMetrics struct {
	activeSessions prometheus.Gauge
	sessionsTotal  prometheus.Counter
	framesSent     *prometheus.CounterVec
	frameBytes     prometheus.Counter
	archiveErrors  prometheus.Counter
	requestsTotal  *prometheus.CounterVec
}

// newServerMetrics registers the server metrics with reg. A nil registry
// yields working but unregistered collectors.
func newServerMetrics(reg prometheus.Registerer, namespace string) *serverMetrics {
	factory := promauto.With(reg)
	return &serverMetrics{
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "active_sessions",
			Help:      "Number of open websocket sessions",
		}),
		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "sessions_total",
			Help:      "Total number of websocket sessions opened",
		}),
		framesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "frames_sent_total",
			Help:      "Frames written to websocket clients, by frame type",
		}, []string{"type"}),
		frameBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "frame_bytes_total",
			Help:      "Bytes of frames written to websocket clients",
		}),
		archiveErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "archive_errors_total",
			Help:      "Patch frames that could not be archived",
		}),
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "diff_requests_total",
			Help:      "POST /diff requests, by response format and status",
		}, []string{"format", "status"}),
	}
}
