package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/filmstack/filmstack/internal/auth"
	"github.com/filmstack/filmstack/internal/handler/dto"
	"github.com/filmstack/filmstack/internal/service"
)

// AuthHandler handles HTTP requests for authentication flows.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /auth/register/user.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	session, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_registered", "user_id", session.User.ID)

	writeJSON(w, http.StatusCreated, dto.SessionResponse{
		Token: session.Token,
		User:  session.User,
	})
}

// Login handles POST /auth/login/user.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	session, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionResponse{
		Token: session.Token,
		User:  session.User,
	})
}

// Logout handles POST /auth/logout. It runs behind the bearer guard, so the
// token in the request context has already been verified.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	if err := h.svc.Logout(r.Context(), identity.Token); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_logged_out", "user_id", identity.UserID)

	w.WriteHeader(http.StatusNoContent)
}

// ChangePassword handles PATCH /auth/{id}/change-password. The route is not
// behind the guard: knowing the current password is the credential.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "User ID is required")
		return
	}

	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	err := h.svc.ChangePassword(r.Context(), id, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("password_changed", "user_id", id)

	writeJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}

// SendToken handles POST /auth/send-token. A short-lived verification token
// is mailed to the given address.
func (h *AuthHandler) SendToken(w http.ResponseWriter, r *http.Request) {
	var req dto.SendTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	if err := h.svc.SendVerificationToken(r.Context(), req.Email); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "token sent"})
}

// VerifyToken handles POST /auth/verify-token. Pure check: no state changes.
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	if err := h.svc.VerifyToken(req.Token); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "token valid"})
}

// ConfirmEmail handles POST /auth/confirm-email: the explicit transition
// that marks the token's email address as confirmed.
func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	user, err := h.svc.ConfirmEmail(r.Context(), req.Token)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("email_confirmed", "user_id", user.ID)

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}
