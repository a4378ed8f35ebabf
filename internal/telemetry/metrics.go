// Package telemetry provides application-level observability for the youth portal.
//
// # Prometheus Metrics Endpoint
//
// All metrics are registered against the default Prometheus registry and are
// automatically available on the side-channel HTTP server started by main.go:
//
//	GET http(s)://<host>:<VP_TELEMETRY_METRICS_PROMETHEUS_PORT>/metrics
//
// Default port: 9090.  The endpoint returns data in the Prometheus text exposition
// format and is intended to be scraped by a Prometheus server every 15–60 seconds.
// It is NOT served by the Gin router, so it is never reachable through the public
// portal address.
//
// # Metric Groups
//
//   - HTTP request counters and latency histograms (labelled by route template, not raw URL)
//   - Login attempt counters (labelled by outcome)
//   - Audit event counters (labelled by action and entity)
//   - Export counters (labelled by format)
//   - Database connection pool gauge (polled every 30 s)
//
// # Label Cardinality
//
// HTTP metrics use c.FullPath() (route template such as /api/opportunities/:id)
// rather than the raw request URL to prevent unbounded label cardinality from
// user-supplied path segments such as record identifiers.
package telemetry

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics — labelled by method, route template, and status code.
//
// HTTPRequestsTotal is a CounterVec with labels {method, path, status}.
// The path label holds the Gin route template (e.g. /api/opportunities/:id),
// NOT the raw URL, to prevent unbounded cardinality.
//
// Example PromQL queries:
//   - Request rate (req/s, 5 m window):  rate(http_requests_total[5m])
//   - Error rate (%):                    sum(rate(http_requests_total{status=~"5.."}[5m])) / sum(rate(http_requests_total[5m])) * 100
//   - Requests by route:                 sum by (path) (rate(http_requests_total[5m]))
//
// HTTPRequestDuration is a HistogramVec with labels {method, path} and exponential-ish
// buckets from 5 ms to 30 s.  Use histogram_quantile to compute latency percentiles.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)
)

// LoginAttemptsTotal is a CounterVec with label {outcome} incremented on every
// authentication attempt.  Outcomes: "success", "failed", "blocked".
//
// Example PromQL queries:
//   - Failed login rate:  rate(login_attempts_total{outcome="failed"}[15m])
//   - Alert expression:   increase(login_attempts_total{outcome="blocked"}[1h]) > 10
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Total number of login attempts, by outcome (success, failed, blocked).",
	},
	[]string{"outcome"},
)

// AuditEventsTotal is a CounterVec with labels {action, entity} incremented once
// per audit event successfully written to the trail.  Because audit writes are
// asynchronous, a widening gap between request volume and this counter is the
// primary signal that the audit pipeline is dropping events.
//
// Example PromQL queries:
//   - Events by action:  sum by (action) (rate(audit_events_total[1h]))
//   - Deletion volume:   increase(audit_events_total{action="DELETE"}[24h])
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "audit_events_total",
		Help: "Total number of audit events recorded, by action and entity type.",
	},
	[]string{"action", "entity"},
)

// ExportsTotal is a CounterVec with label {format} incremented once per completed
// report export.  Formats: "csv", "xlsx", "pdf".
var ExportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "exports_total",
		Help: "Total number of completed report exports, by format.",
	},
	[]string{"format"},
)

// ResetEmailsSentTotal is a plain Counter (no labels) incremented once per
// password-reset email successfully delivered.  A stalled counter combined with
// reset requests in the audit trail is a useful alert signal for SMTP delivery
// failures.
var ResetEmailsSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "reset_emails_sent_total",
		Help: "Total number of password reset emails successfully sent.",
	},
)

// DBOpenConnections is a Gauge that tracks the number of open connections currently
// held by the sql.DB connection pool.  It is sampled every 30 seconds by
// StartDBStatsCollector rather than per-request to avoid the overhead of sql.DB.Stats().
var DBOpenConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "db_open_connections",
		Help: "Current number of open database connections in the pool.",
	},
)

// StartDBStatsCollector launches a background goroutine that samples sql.DB connection
// pool statistics every 30 seconds and updates the DBOpenConnections gauge.
// The goroutine exits cleanly when the database becomes unreachable (db.Ping fails),
// which happens automatically when the application shuts down and defers db.Close().
//
// Call this once, immediately after db.Connect() succeeds in main.go:
//
//	telemetry.StartDBStatsCollector(database)
func StartDBStatsCollector(db *sql.DB) {
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := db.Ping(); err != nil {
				slog.Warn("db stats collector: database unreachable, stopping collector", "error", err)
				return
			}
			DBOpenConnections.Set(float64(db.Stats().OpenConnections))
		}
	}()
}
