package http

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edmedpublic-hub/Reading-Platform/internal/practice"
	"github.com/edmedpublic-hub/Reading-Platform/internal/rbac"
	"github.com/edmedpublic-hub/Reading-Platform/internal/storage"
)

// POST /api/lessons/{lessonID}/recordings (multipart field "audio")
func RecordingHandler(svc *practice.Service, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "lessonID")
		if !ok {
			http.Error(w, "bad lesson id", http.StatusBadRequest)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		f, hdr, err := r.FormFile("audio")
		if err != nil {
			http.Error(w, practice.ErrNoAudio.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		audio, err := io.ReadAll(f)
		if err != nil {
			http.Error(w, "audio too large", http.StatusRequestEntityTooLarge)
			return
		}

		a, err := svc.ScoreRecording(r.Context(), practice.RecordingRequest{
			LessonID: id,
			UserID:   rbac.SubjectFromContext(r.Context()),
			Audio:    audio,
			MimeType: hdr.Header.Get("Content-Type"),
		})
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newFeedbackResponse(a))
	}
}

// GET /api/attempts/{attemptID}/audio streams the stored recording.
func AttemptAudioHandler(svc *practice.Service, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Attempt(r.Context(), chi.URLParam(r, "attemptID"),
			rbac.SubjectFromContext(r.Context()), rbac.Can(r.Context(), rbac.PermAttemptViewAll))
		if err != nil {
			httpError(w, err)
			return
		}
		if a.AudioKey == "" {
			http.Error(w, "no recording for attempt", http.StatusNotFound)
			return
		}
		rc, err := bs.Get(r.Context(), a.AudioKey)
		if err != nil {
			httpError(w, err)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", storage.ContentTypeForKey(a.AudioKey))
		_, _ = io.Copy(w, rc)
	}
}
