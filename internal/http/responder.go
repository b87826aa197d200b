package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/logging"
)

var (
	errBadRequestBody = errors.New("invalid request body")
	errMissingToken   = errors.New("authorization token required")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError maps the application error taxonomy onto HTTP statuses.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var gErr *application.GeofenceError
	if errors.As(err, &gErr) {
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			Message:        "you are outside the allowed attendance radius",
			DistanceMeters: &gErr.DistanceMeters,
			RadiusMeters:   &gErr.RadiusMeters,
		})
		return
	}
	var vErr *application.ValidationError
	if errors.As(err, &vErr) {
		r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
			Message: "validation failed",
			Errors:  vErr.FieldErrors,
		})
		return
	}

	switch {
	case errors.Is(err, application.ErrUnauthenticated):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Message: "authentication required"})
	case errors.Is(err, application.ErrForbidden):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{Message: serviceMessage(err, "you are not allowed to perform this action")})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: serviceMessage(err, "resource not found")})
	case errors.Is(err, application.ErrConflict):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: serviceMessage(err, "request conflicts with current state")})
	case errors.Is(err, application.ErrInvalidArgument):
		r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Message: serviceMessage(err, "invalid request")})
	default:
		r.loggerFor(ctx).ErrorContext(ctx, "unhandled service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

// serviceMessage prefers the service's own wording over the fallback when
// the error carries more than the bare sentinel text.
func serviceMessage(err error, fallback string) string {
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}

type errorResponse struct {
	Message        string            `json:"message"`
	Errors         map[string]string `json:"errors,omitempty"`
	DistanceMeters *float64          `json:"distance_meters,omitempty"`
	RadiusMeters   *float64          `json:"radius_meters,omitempty"`
}
