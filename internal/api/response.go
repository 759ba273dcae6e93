package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/LennartSch/hembygdsmuseum/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// writeError maps validation and store errors to HTTP responses. what names
// the entity in messages, op describes the failed action for the log.
func writeError(w http.ResponseWriter, err error, what, op string) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		jsonResponse(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": verrs,
		})
	case errors.Is(err, store.ErrDuplicate):
		jsonError(w, http.StatusConflict, what+" already exists")
	case errors.Is(err, store.ErrInUse):
		jsonError(w, http.StatusConflict, what+" is in use")
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, store.ErrInvalidReference):
		jsonError(w, http.StatusBadRequest, "unknown category, location, donor or item")
	default:
		slog.Error("failed to "+op, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to "+op)
	}
}
