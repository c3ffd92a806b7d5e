package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	guestauth "github.com/edmedpublic-hub/Reading-Platform/internal/auth"
	auth "github.com/edmedpublic-hub/Reading-Platform/internal/auth/middleware"
	"github.com/edmedpublic-hub/Reading-Platform/internal/cache"
	"github.com/edmedpublic-hub/Reading-Platform/internal/catalog"
	"github.com/edmedpublic-hub/Reading-Platform/internal/practice"
	"github.com/edmedpublic-hub/Reading-Platform/internal/rbac"
	"github.com/edmedpublic-hub/Reading-Platform/internal/storage"
	syncx "github.com/edmedpublic-hub/Reading-Platform/internal/sync"
)

type RouterDeps struct {
	Auth     *auth.AuthService
	Users    auth.UserLookup
	Guests   guestauth.GuestStore // nil disables /auth/guest
	Catalog  catalog.Store
	Practice *practice.Service
	Cache    cache.LessonText
	Blobs    storage.BlobStore
	Events   *syncx.EventRepo
	DB       Pinger

	CORSOrigins     []string
	EnableLocalAuth bool
	RoleFallback    bool // keep token role when the users table cannot be read
	SecureCookies   bool
	MaxUploadBytes  int64
	AccessLog       bool
}

func NewRouter(d RouterDeps) http.Handler {
	if d.Cache == nil {
		d.Cache = cache.Nop{}
	}
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = 10 << 20
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	if d.AccessLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", HealthzHandler())
	r.Get("/readyz", ReadyzHandler(d.DB))

	// Local login (enabled in offline mode by default; can be enabled online via env)
	if d.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(d.Auth, d.Users))
	}
	if d.Guests != nil {
		r.Post("/auth/guest", guestauth.GuestLoginHandler(d.Auth, d.Guests, d.SecureCookies))
	}
	r.Get("/auth/check", auth.CheckAuthHandler(d.Auth))

	r.Route("/api", func(ar chi.Router) {
		// Public reading surface; a valid token adds the viewer's history.
		ar.Group(func(pr chi.Router) {
			pr.Use(auth.OptionalJWT(d.Auth), auth.AttachRoleFromDB(d.Users, d.RoleFallback))

			pr.Get("/categories", ListCategoriesHandler(d.Catalog))
			pr.Get("/books", ListBooksHandler(d.Catalog))
			pr.Get("/books/{bookID}/units", ListUnitsHandler(d.Catalog))
			pr.Get("/units/{unitID}/lessons", ListUnitLessonsHandler(d.Catalog))
			pr.Get("/lessons", ListLessonsHandler(d.Catalog))
			pr.Get("/lessons/{lessonID}", GetLessonHandler(d.Catalog, d.Practice))
			pr.Post("/feedback", FeedbackHandler(d.Practice))
		})

		// Protected API (JWT → role in context → RBAC)
		ar.Group(func(pr chi.Router) {
			pr.Use(auth.JWTMiddleware(d.Auth), auth.AttachRoleFromDB(d.Users, d.RoleFallback))

			pr.With(rbac.Require(rbac.PermAttemptCreate)).
				Post("/lessons/{lessonID}/recordings", RecordingHandler(d.Practice, d.MaxUploadBytes))
			pr.With(rbac.RequireAny(rbac.PermAttemptViewOwn, rbac.PermAttemptViewAll)).
				Get("/lessons/{lessonID}/attempts", ListLessonAttemptsHandler(d.Practice))
			pr.With(rbac.RequireAny(rbac.PermAttemptViewOwn, rbac.PermAttemptViewAll)).
				Get("/attempts/{attemptID}", GetAttemptHandler(d.Practice))
			if d.Blobs != nil {
				pr.With(rbac.RequireAny(rbac.PermAttemptViewOwn, rbac.PermAttemptViewAll)).
					Get("/attempts/{attemptID}/audio", AttemptAudioHandler(d.Practice, d.Blobs))
			}

			// Catalog editing (teacher/admin)
			pr.Group(func(er chi.Router) {
				er.Use(rbac.Require(rbac.PermCatalogEdit))
				er.Post("/categories", CreateCategoryHandler(d.Catalog))
				er.Post("/books", CreateBookHandler(d.Catalog))
				er.Post("/units", CreateUnitHandler(d.Catalog))
				er.Post("/lessons", CreateLessonHandler(d.Catalog))
				er.Put("/lessons/{lessonID}", UpdateLessonHandler(d.Catalog, d.Cache))
				er.Delete("/lessons/{lessonID}", DeleteLessonHandler(d.Catalog, d.Cache))
			})

			if d.Events != nil {
				pr.With(rbac.Require(rbac.PermEventsView)).
					Get("/events", ListEventsHandler(d.Events))
			}
		})
	})
	return r
}
