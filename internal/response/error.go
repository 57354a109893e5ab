package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/surenmigorskiy-ui/duo-backend/internal/errs"
	"github.com/surenmigorskiy-ui/duo-backend/pkg/logger"
)

type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func (h *responseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Code:  code,
		Error: message,
	}); err != nil {
		log := logger.FromContext(r.Context())
		log.Error("failed to encode error response", "error", err, "status", status, "code", code)
	}
}

func (h *responseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var (
		authErr       *errs.AuthError
		notFoundErr   *errs.NotFoundError
		existsErr     *errs.AlreadyExistsError
		validationErr *errs.ValidationError
		unconfigured  *errs.ProviderUnconfiguredError
		generationErr *errs.GenerationFailedError
		malformedErr  *errs.MalformedOutputError
		databaseErr   *errs.DatabaseError
		externalErr   *errs.ExternalServiceError
	)

	switch {
	case errors.As(err, &authErr):
		log.Warn("unauthorized", "error", authErr.Message)
		h.WriteError(w, r, http.StatusUnauthorized, "unauthorized", authErr.Message)

	case errors.As(err, &notFoundErr):
		log.Warn("resource not found", "error", notFoundErr.Message)
		h.WriteError(w, r, http.StatusNotFound, "not_found", notFoundErr.Message)

	case errors.As(err, &existsErr):
		log.Warn("resource already exists", "error", existsErr.Message)
		h.WriteError(w, r, http.StatusConflict, "already_exists", existsErr.Message)

	case errors.As(err, &validationErr):
		log.Warn("validation failed", "error", validationErr.Message)
		h.WriteError(w, r, http.StatusBadRequest, "invalid_input", validationErr.Message)

	case errors.As(err, &unconfigured):
		log.Error("ai provider not configured", "error", unconfigured.Message)
		h.WriteError(w, r, http.StatusInternalServerError, "provider_unconfigured",
			"AI service is not configured. Contact the administrator.")

	case errors.As(err, &generationErr):
		log.Error("generation failed",
			"attempts", generationErr.Attempts,
			"kind", generationErr.Kind,
			"error", generationErr.Err)
		h.WriteError(w, r, http.StatusInternalServerError, "generation_failed",
			generationMessage(generationErr.Kind))

	case errors.As(err, &malformedErr):
		log.Error("malformed model output", "raw", truncate(malformedErr.Raw, 500))
		h.WriteError(w, r, http.StatusInternalServerError, "malformed_output",
			"Could not read the AI response. Try again.")

	case errors.As(err, &databaseErr):
		log.Error("database error",
			"operation", databaseErr.Operation,
			"error", databaseErr.Err)
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An error occurred")

	case errors.As(err, &externalErr):
		level := slog.LevelError
		if externalErr.Transient {
			level = slog.LevelWarn
		}
		log.Log(r.Context(), level, "external service error",
			"service", externalErr.Service,
			"transient", externalErr.Transient,
			"error", externalErr.Err)

		status := http.StatusBadGateway
		if externalErr.Transient {
			status = http.StatusServiceUnavailable
		}
		h.WriteError(w, r, status, "service_unavailable",
			"Service temporarily unavailable")

	default:
		log.Error("unexpected error",
			"error", err,
			"type", fmt.Sprintf("%T", err))
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An unexpected error occurred")
	}
}

// generationMessage picks the user-facing text for an exhausted fallback chain.
func generationMessage(kind string) string {
	switch kind {
	case "quota":
		return "The AI request limit was exceeded. Try again later."
	case "auth":
		return "The AI service rejected the server credentials."
	case "permission":
		return "The server has no access to the AI service."
	case "safety":
		return "The request was blocked by the AI safety filter. Try rephrasing it."
	case "timeout", "unavailable":
		return "The AI service is not responding. Try again later."
	default:
		return "Failed to generate a response"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
