package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/filmstack/filmstack/internal/metrics"
)

func TestMetricsHandler_Exposition(t *testing.T) {
	recorder := metrics.NewInMemory()
	recorder.IncLoginSuccess()
	recorder.IncLoginSuccess()
	recorder.IncLoginFailure()
	recorder.IncRegistration()
	recorder.IncLogout()
	recorder.IncTokenVerification("valid")
	recorder.IncTokenVerification("invalid")
	recorder.IncBlacklistCacheHit()
	recorder.IncBlacklistCacheMiss()
	recorder.IncMovieQuery()

	h := NewMetricsHandler(recorder)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.Metrics(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q, want text/plain exposition", ct)
	}

	body := rec.Body.String()
	for _, want := range []string{
		`filmstack_logins_total{status="success"} 2`,
		`filmstack_logins_total{status="failure"} 1`,
		"filmstack_registrations_total 1",
		"filmstack_logouts_total 1",
		`filmstack_token_verifications_total{status="valid"} 1`,
		`filmstack_token_verifications_total{status="invalid"} 1`,
		"filmstack_blacklist_cache_hits_total 1",
		"filmstack_blacklist_cache_misses_total 1",
		"filmstack_movie_queries_total 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestMetricsHandler_NoSnapshotter(t *testing.T) {
	h := NewMetricsHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.Metrics(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}
