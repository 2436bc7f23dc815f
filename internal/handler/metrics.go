package handler

import (
	"fmt"
	"net/http"

	"github.com/filmstack/filmstack/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "filmstack_logins_total{status=\"success\"} %d\n", snap.LoginSuccesses)
	writeMetric(w, "filmstack_logins_total{status=\"failure\"} %d\n", snap.LoginFailures)
	writeMetric(w, "filmstack_registrations_total %d\n", snap.Registrations)
	writeMetric(w, "filmstack_logouts_total %d\n", snap.Logouts)

	writeMetric(w, "filmstack_token_verifications_total{status=\"valid\"} %d\n", snap.TokensValid)
	writeMetric(w, "filmstack_token_verifications_total{status=\"invalid\"} %d\n", snap.TokensInvalid)

	writeMetric(w, "filmstack_blacklist_cache_hits_total %d\n", snap.BlacklistCacheHits)
	writeMetric(w, "filmstack_blacklist_cache_misses_total %d\n", snap.BlacklistCacheMisses)

	writeMetric(w, "filmstack_movie_queries_total %d\n", snap.MovieQueries)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
