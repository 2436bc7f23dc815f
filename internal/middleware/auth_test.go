package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/filmstack/filmstack/internal/auth"
	"github.com/filmstack/filmstack/internal/model"
)

type fakeValidator struct {
	revoked      map[string]bool
	identity     *model.Identity
	err          error
	blacklistErr error
}

func (f *fakeValidator) IsBlacklisted(_ context.Context, token string) (bool, error) {
	if f.blacklistErr != nil {
		return false, f.blacklistErr
	}
	return f.revoked[token], nil
}

func (f *fakeValidator) ValidateAccessToken(token string) (*model.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	id := *f.identity
	id.Token = token
	return &id, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuth_MissingToken(t *testing.T) {
	guard := Auth(&fakeValidator{}, discardLogger())

	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/movie", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(rec.Body.String(), "Authentication required") {
		t.Errorf("body = %q, want authentication required message", rec.Body.String())
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	guard := Auth(&fakeValidator{}, discardLogger())

	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/movie", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuth_RevokedToken(t *testing.T) {
	validator := &fakeValidator{
		revoked:  map[string]bool{"revoked-token": true},
		identity: &model.Identity{UserID: "u1"},
	}
	guard := Auth(validator, discardLogger())

	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/movie", nil)
	req.Header.Set("Authorization", "Bearer revoked-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(rec.Body.String(), "Expired token") {
		t.Errorf("body = %q, want expired token message", rec.Body.String())
	}
}

func TestAuth_BlacklistLookupFailure(t *testing.T) {
	validator := &fakeValidator{
		identity:     &model.Identity{UserID: "u1"},
		blacklistErr: errors.New("redis: connection refused"),
	}
	guard := Auth(validator, discardLogger())

	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/movie", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// An infrastructure fault must not look like an auth rejection.
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(rec.Body.String(), "INTERNAL_ERROR") {
		t.Errorf("body = %q, want internal error code", rec.Body.String())
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	guard := Auth(&fakeValidator{err: errors.New("bad signature")}, discardLogger())

	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/movie", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuth_ValidTokenInjectsIdentity(t *testing.T) {
	validator := &fakeValidator{
		identity: &model.Identity{
			UserID:    "u1",
			Name:      "Jane Doe",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	guard := Auth(validator, discardLogger())

	var got *model.Identity
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = auth.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/movie", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got == nil {
		t.Fatal("identity not injected into context")
	}
	if got.UserID != "u1" || got.Name != "Jane Doe" {
		t.Errorf("identity = %+v, want u1/Jane Doe", got)
	}
	if got.Token != "good-token" {
		t.Errorf("identity token = %q, want raw bearer token", got.Token)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer", "Bearer abc123", "abc123"},
		{"empty", "", ""},
		{"basic", "Basic abc123", ""},
		{"bare token", "abc123", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if got := extractBearerToken(req); got != tt.want {
				t.Errorf("extractBearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}
