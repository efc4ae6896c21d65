package handler

import (
	"encoding/json"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// AuthHandler handles registration, login, logout and session introspection.
type AuthHandler struct {
	service service.AuthService
	cookie  SessionCookie
	dev     bool
	logger  zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service service.AuthService, cookie SessionCookie, dev bool, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		cookie:  cookie,
		dev:     dev,
		logger:  logger.With().Str("handler", "auth").Logger(),
	}
}

// Register handles POST /api/auth/register requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	user, session, err := h.service.Register(r.Context(), &req)
	if err != nil {
		handleServiceError(w, err, "failed to register", h.dev, h.logger)
		return
	}

	h.cookie.Set(w, session.Token, session.ExpiresAt)
	writeJSON(w, http.StatusCreated, model.AuthResponse{User: user})
}

// Login handles POST /api/auth/login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	user, session, err := h.service.Login(r.Context(), &req)
	if err != nil {
		handleServiceError(w, err, "failed to log in", h.dev, h.logger)
		return
	}

	h.cookie.Set(w, session.Token, session.ExpiresAt)
	writeJSON(w, http.StatusOK, model.AuthResponse{User: user})
}

// Logout handles POST /api/auth/logout requests. Logging out twice, or
// without a session, succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	if token := h.cookie.Token(r); token != "" {
		if err := h.service.RevokeSession(r.Context(), token); err != nil {
			handleServiceError(w, err, "failed to log out", h.dev, h.logger)
			return
		}
	}

	h.cookie.Clear(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Me handles GET /api/auth/me requests. Anonymous callers get {"user": null}
// rather than an error.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.AuthResponse{User: middleware.UserFrom(r.Context())})
}
