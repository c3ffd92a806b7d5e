package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/edmedpublic-hub/Reading-Platform/internal/practice"
	"github.com/edmedpublic-hub/Reading-Platform/internal/rbac"
	syncx "github.com/edmedpublic-hub/Reading-Platform/internal/sync"
)

// GET /api/lessons/{lessonID}/attempts[?user_id=]
// user_id is honoured only for roles that may view all attempts.
func ListLessonAttemptsHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "lessonID")
		if !ok {
			http.Error(w, "bad lesson id", http.StatusBadRequest)
			return
		}
		user := rbac.SubjectFromContext(r.Context())
		if u := r.URL.Query().Get("user_id"); u != "" && u != user {
			if !rbac.Can(r.Context(), rbac.PermAttemptViewAll) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			user = u
		}
		as, err := svc.Recent(r.Context(), user, &id)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, as)
	}
}

// GET /api/attempts/{attemptID}
func GetAttemptHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Attempt(r.Context(), chi.URLParam(r, "attemptID"),
			rbac.SubjectFromContext(r.Context()), rbac.Can(r.Context(), rbac.PermAttemptViewAll))
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// GET /api/events?after=&limit=
func ListEventsHandler(repo *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		after, _ := strconv.ParseInt(q.Get("after"), 10, 64)
		limit, _ := strconv.Atoi(q.Get("limit"))
		evs, err := repo.List(r.Context(), after, limit)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, evs)
	}
}
