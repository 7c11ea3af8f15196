package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/garnizeh/uzman/pkg/models"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

// writeError maps domain failure kinds onto HTTP statuses. Anything
// unrecognized is an internal error; the detail stays in the log.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := err.Error()

	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrDuplicateEmail):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, models.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	default:
		logger.Error("internal error", slog.Any("err", err))
		msg = "internal error"
	}

	writeJSON(w, errorResponse{Message: msg}, status)
}

func nowMillis() int64 {
	return time.Now().UTC().UnixMilli()
}
