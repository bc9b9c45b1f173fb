package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"financas/internal/store"
)

// errorBody is the JSON error envelope: {"detail": "..."}.
type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response body", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

// writeStoreError maps storage failures to the wire: missing records are 404
// with their own message, everything else is a 500 that hides internals.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, notFoundDetail string) {
	if errors.Is(err, store.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, notFoundDetail)
		return
	}
	slog.ErrorContext(r.Context(), "Storage operation failed",
		"error", err, "method", r.Method, "url", r.URL.Path)
	writeDetail(w, http.StatusInternalServerError, "internal server error")
}

// decodeBody parses a JSON request body into dst. Unknown fields are
// tolerated; type mismatches and malformed JSON are not.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return false
	}
	return true
}
