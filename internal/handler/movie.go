package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/filmstack/filmstack/internal/auth"
	"github.com/filmstack/filmstack/internal/service"
)

// MovieHandler handles HTTP requests for the movie catalog.
type MovieHandler struct {
	svc       *service.MovieService
	directory *service.UserService
	logger    *slog.Logger
}

// NewMovieHandler creates a new MovieHandler. The user directory backs the
// confirmed-email check on the restricted route.
func NewMovieHandler(svc *service.MovieService, directory *service.UserService, logger *slog.Logger) *MovieHandler {
	return &MovieHandler{
		svc:       svc,
		directory: directory,
		logger:    logger,
	}
}

// List handles GET /movie.
//
// Query parameters: page (1-based), limit, search (case-insensitive
// substring over title and synopsis), year (exact), order_by (title|year),
// order (asc|desc).
func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	input := service.ListMoviesInput{
		Search:  query.Get("search"),
		OrderBy: query.Get("order_by"),
		Order:   query.Get("order"),
	}

	if p := query.Get("page"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_PAGE", "page must be an integer")
			return
		}
		input.Page = parsed
	}
	if l := query.Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be an integer")
			return
		}
		input.PageSize = parsed
	}
	if y := query.Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_YEAR", "year must be an integer")
			return
		}
		input.Year = parsed
	}

	out, err := h.svc.List(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

// Restricted handles GET /movie/restrict. Same catalog query, but the
// caller's email must have been confirmed.
func (h *MovieHandler) Restricted(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	user, err := h.directory.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if !user.ConfirmedEmail {
		writeServiceError(w, h.logger, service.ErrEmailNotConfirmed)
		return
	}

	h.List(w, r)
}
