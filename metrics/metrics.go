// Package metrics exposes Prometheus counters for record and account activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what handlers use to report domain events.
type Recorder interface {
	RecordPatientCreated()
	RecordPatientDeleted(cascadedSessions int64)
	RecordSessionCreated()
	RecordAccountProvisioned(created bool)
	RecordPasswordReset()
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	patientsCreated   prometheus.Counter
	patientsDeleted   prometheus.Counter
	sessionsCreated   prometheus.Counter
	sessionsCascaded  prometheus.Counter
	accountsProvision *prometheus.CounterVec
	passwordResets    prometheus.Counter
	httpRequests      *prometheus.CounterVec
	httpLatency       *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		patientsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "practice_patients_created_total",
			Help: "Number of patients created.",
		}),
		patientsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "practice_patients_deleted_total",
			Help: "Number of patients deleted.",
		}),
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "practice_sessions_created_total",
			Help: "Number of therapy sessions logged.",
		}),
		sessionsCascaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "practice_sessions_cascade_deleted_total",
			Help: "Number of sessions removed because their patient was deleted.",
		}),
		accountsProvision: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "practice_account_provisioning_total",
			Help: "Account auto-creation outcomes on patient creation.",
		}, []string{"outcome"}),
		passwordResets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "practice_password_resets_total",
			Help: "Number of default password resets.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "practice_http_requests_total",
			Help: "HTTP responses by route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "practice_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.patientsCreated,
		c.patientsDeleted,
		c.sessionsCreated,
		c.sessionsCascaded,
		c.accountsProvision,
		c.passwordResets,
		c.httpRequests,
		c.httpLatency,
	)

	return c
}

func (c *Collector) RecordPatientCreated() {
	c.patientsCreated.Inc()
}

func (c *Collector) RecordPatientDeleted(cascadedSessions int64) {
	c.patientsDeleted.Inc()
	c.sessionsCascaded.Add(float64(cascadedSessions))
}

func (c *Collector) RecordSessionCreated() {
	c.sessionsCreated.Inc()
}

// RecordAccountProvisioned counts a created account or a skipped one (username already taken).
func (c *Collector) RecordAccountProvisioned(created bool) {
	outcome := "skipped"
	if created {
		outcome = "created"
	}
	c.accountsProvision.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordPasswordReset() {
	c.passwordResets.Inc()
}

// Middleware records the status and latency of every request.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request.Method
		c.httpRequests.WithLabelValues(method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.httpLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler returns the HTTP handler for Prometheus scraping.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards every event. It is used when no collector is configured.
type Nop struct{}

func (Nop) RecordPatientCreated()         {}
func (Nop) RecordPatientDeleted(int64)    {}
func (Nop) RecordSessionCreated()         {}
func (Nop) RecordAccountProvisioned(bool) {}
func (Nop) RecordPasswordReset()          {}
