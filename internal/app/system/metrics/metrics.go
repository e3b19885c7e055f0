// internal/app/system/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "patrohub", Name: "http_requests_total", Help: "HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "patrohub", Name: "http_request_duration_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	Inscriptions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "patrohub", Name: "inscriptions_total", Help: "Yearly registrations created",
	}, []string{"group"})

	CampRegistrations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "patrohub", Name: "camp_registrations_total", Help: "Camp registrations by outcome",
	}, []string{"group", "outcome"})

	DocumentsRendered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "patrohub", Name: "documents_rendered_total", Help: "PDF, XLSX and CSV documents produced",
	}, []string{"kind"})

	JobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "patrohub", Name: "job_runs_total", Help: "Background job runs",
	}, []string{"job"})

	JobErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "patrohub", Name: "job_errors_total", Help: "Background job errors",
	}, []string{"job"})

	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "patrohub", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, Inscriptions, CampRegistrations,
		DocumentsRendered, JobRuns, JobErrors, DBPing)
}

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

// Middleware records every request under its chi route pattern, so
// /api/children/{id} is one series rather than one per id.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
