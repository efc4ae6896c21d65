package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// SessionCookie carries the cookie contract for session tokens: HTTP-only,
// SameSite=Lax, site-wide, Secure outside local development.
type SessionCookie struct {
	Name   string
	Secure bool
}

// Set writes the session cookie with an expiry matching the session's.
func (c SessionCookie) Set(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear overwrites the session cookie with an empty, immediately expired one.
func (c SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Token reads the session token from the request, or "" when absent.
func (c SessionCookie) Token(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// writeDomainError writes a typed business error with its code and any
// per-field messages.
func writeDomainError(w http.ResponseWriter, status int, derr *model.DomainError, logger zerolog.Logger) {
	logger.Warn().Str("code", derr.Code).Int("status", status).Msg(derr.Message)
	writeJSON(w, status, model.ErrorResponse{
		Error:  derr.Message,
		Code:   derr.Code,
		Fields: derr.Fields,
	})
}

// statusForCode maps a domain error code to its default HTTP status.
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeValidation, model.ErrCodeInvalidJSON:
		return http.StatusBadRequest
	case model.ErrCodeInvalidCredential, model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeProductNotFound, model.ErrCodeOrderNotFound:
		return http.StatusNotFound
	case model.ErrCodeEmailTaken, model.ErrCodeInsufficientStock:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError maps a service failure onto the response. Domain errors
// keep their code and detail; anything else is an internal error whose detail
// only reaches the client in development mode.
func handleServiceError(w http.ResponseWriter, err error, fallback string, dev bool, logger zerolog.Logger) {
	var derr *model.DomainError
	if errors.As(err, &derr) {
		writeDomainError(w, statusForCode(derr.Code), derr, logger)
		return
	}

	logger.Error().Err(err).Msg(fallback)
	message := fallback
	if dev {
		message = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
		Error: message,
		Code:  model.ErrCodeInternalError,
	})
}
