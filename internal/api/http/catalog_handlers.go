package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/edmedpublic-hub/Reading-Platform/internal/cache"
	"github.com/edmedpublic-hub/Reading-Platform/internal/catalog"
	"github.com/edmedpublic-hub/Reading-Platform/internal/practice"
	"github.com/edmedpublic-hub/Reading-Platform/internal/rbac"
)

// GET /api/categories
func ListCategoriesHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cs, err := store.ListCategories(r.Context())
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cs)
	}
}

// POST /api/categories {name}
func CreateCategoryHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		c, err := store.CreateCategory(r.Context(), req.Name)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

// GET /api/books[?category_id=]
func ListBooksHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cat *int64
		if v := r.URL.Query().Get("category_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				http.Error(w, "bad category_id", http.StatusBadRequest)
				return
			}
			cat = &id
		}
		bs, err := store.ListBooks(r.Context(), cat)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, bs)
	}
}

// POST /api/books {title, category_id, order}
func CreateBookHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var b catalog.Book
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		b, err := store.CreateBook(r.Context(), b)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, b)
	}
}

// GET /api/books/{bookID}/units
func ListUnitsHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "bookID")
		if !ok {
			http.Error(w, "bad book id", http.StatusBadRequest)
			return
		}
		if _, err := store.GetBook(r.Context(), id); err != nil {
			httpError(w, err)
			return
		}
		us, err := store.ListUnits(r.Context(), id)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, us)
	}
}

// POST /api/units {title, book_id, order}
func CreateUnitHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var u catalog.Unit
		if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		u, err := store.CreateUnit(r.Context(), u)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, u)
	}
}

// GET /api/lessons
func ListLessonsHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ls, err := store.ListLessons(r.Context(), nil)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ls)
	}
}

// GET /api/units/{unitID}/lessons
func ListUnitLessonsHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "unitID")
		if !ok {
			http.Error(w, "bad unit id", http.StatusBadRequest)
			return
		}
		if _, err := store.GetUnit(r.Context(), id); err != nil {
			httpError(w, err)
			return
		}
		ls, err := store.ListLessons(r.Context(), &id)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ls)
	}
}

type lessonDetail struct {
	catalog.Lesson
	RecentAttempts []practice.Attempt `json:"recent_attempts,omitempty"`
}

// GET /api/lessons/{lessonID}. Signed-in viewers also get their latest
// attempts on the lesson.
func GetLessonHandler(store catalog.Store, svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "lessonID")
		if !ok {
			http.Error(w, "bad lesson id", http.StatusBadRequest)
			return
		}
		l, err := store.GetLesson(r.Context(), id)
		if err != nil {
			httpError(w, err)
			return
		}
		out := lessonDetail{Lesson: l}
		if sub := rbac.SubjectFromContext(r.Context()); sub != "" {
			if out.RecentAttempts, err = svc.Recent(r.Context(), sub, &id); err != nil {
				httpError(w, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type lessonInput struct {
	Title   string `json:"title"`
	UnitID  *int64 `json:"unit_id"`
	Content string `json:"content"`
	Order   int    `json:"order"`
}

func (in lessonInput) lesson(id int64) catalog.Lesson {
	return catalog.Lesson{ID: id, Title: in.Title, UnitID: in.UnitID, Content: in.Content, Order: in.Order}
}

// POST /api/lessons
func CreateLessonHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in lessonInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		l, err := store.CreateLesson(r.Context(), in.lesson(0))
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, l)
	}
}

// PUT /api/lessons/{lessonID}
func UpdateLessonHandler(store catalog.Store, lc cache.LessonText) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "lessonID")
		if !ok {
			http.Error(w, "bad lesson id", http.StatusBadRequest)
			return
		}
		var in lessonInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		l, err := store.UpdateLesson(r.Context(), in.lesson(id))
		if err != nil {
			httpError(w, err)
			return
		}
		_ = lc.Invalidate(r.Context(), id)
		writeJSON(w, http.StatusOK, l)
	}
}

// DELETE /api/lessons/{lessonID}
func DeleteLessonHandler(store catalog.Store, lc cache.LessonText) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "lessonID")
		if !ok {
			http.Error(w, "bad lesson id", http.StatusBadRequest)
			return
		}
		if err := store.DeleteLesson(r.Context(), id); err != nil {
			httpError(w, err)
			return
		}
		_ = lc.Invalidate(r.Context(), id)
		w.WriteHeader(http.StatusNoContent)
	}
}
