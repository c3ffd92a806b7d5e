package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/edmedpublic-hub/Reading-Platform/internal/catalog"
	"github.com/edmedpublic-hub/Reading-Platform/internal/practice"
	"github.com/edmedpublic-hub/Reading-Platform/internal/storage"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, practice.ErrNotFound),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrInvalid),
		errors.Is(err, catalog.ErrInvalidReference),
		errors.Is(err, practice.ErrNoSpeech),
		errors.Is(err, practice.ErrNoExpectedText),
		errors.Is(err, practice.ErrNoAudio),
		errors.Is(err, practice.ErrUnintelligible):
		return http.StatusBadRequest
	case errors.Is(err, practice.ErrTranscriptionUnavailable):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func httpError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal error"
	}
	http.Error(w, msg, code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// idParam parses a positive integer path parameter.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}
