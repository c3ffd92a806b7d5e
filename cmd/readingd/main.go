package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/edmedpublic-hub/Reading-Platform/internal/api/http"
	auth "github.com/edmedpublic-hub/Reading-Platform/internal/auth/middleware"
	"github.com/edmedpublic-hub/Reading-Platform/internal/cache"
	"github.com/edmedpublic-hub/Reading-Platform/internal/catalog"
	"github.com/edmedpublic-hub/Reading-Platform/internal/config"
	"github.com/edmedpublic-hub/Reading-Platform/internal/db"
	"github.com/edmedpublic-hub/Reading-Platform/internal/grading"
	"github.com/edmedpublic-hub/Reading-Platform/internal/logger"
	"github.com/edmedpublic-hub/Reading-Platform/internal/observability"
	"github.com/edmedpublic-hub/Reading-Platform/internal/practice"
	"github.com/edmedpublic-hub/Reading-Platform/internal/storage"
	syncx "github.com/edmedpublic-hub/Reading-Platform/internal/sync"
	"github.com/edmedpublic-hub/Reading-Platform/internal/transcribe"
	"github.com/edmedpublic-hub/Reading-Platform/internal/users"
)

func main() {
	cfg := config.FromEnv()

	log, err := logger.New(logger.Options{
		Mode:   cfg.LogMode,
		Level:  cfg.LogLevel,
		Redact: cfg.LogRedaction,
		Salt:   cfg.LogHashSalt,
	})
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := observability.Init(ctx, cfg, log)

	// --- DB ---
	driver, err := db.ParseDriver(cfg.DBDriver)
	if err != nil {
		log.Fatal("bad db driver", "error", err)
	}
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	dbh, err := db.Open(openCtx, driver, cfg.DBDSN)
	cancel()
	if err != nil {
		log.Fatal("db open failed", "error", err)
	}
	defer dbh.Close()

	userStore := users.NewSQLStore(dbh)
	if created, err := userStore.EnsureAdmin(ctx, cfg.AdminUser, cfg.AdminPassHash); err != nil {
		log.Fatal("bootstrap admin failed", "error", err)
	} else if created {
		log.Info("bootstrap admin created", "username", cfg.AdminUser)
	}

	// --- Lesson text cache ---
	var lessonCache cache.LessonText = cache.Nop{}
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.LessonCacheTTL)
		if err != nil {
			log.Warn("redis unavailable, lesson cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			defer rc.Close()
			lessonCache = rc
		}
	}

	// --- Blobs + STT ---
	bs, err := storage.New(ctx, cfg)
	if err != nil {
		log.Fatal("blob store", "error", err)
	}
	stt, err := transcribe.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("transcriber", "provider", cfg.STTProvider, "error", err)
	}

	catalogStore := catalog.NewSQLStore(dbh)
	events := syncx.NewEventRepo(dbh)
	svc := practice.NewService(practice.Deps{
		Attempts: practice.NewSQLStore(dbh),
		Lessons:  catalogStore,
		Cache:    lessonCache,
		Blobs:    bs,
		STT:      stt,
		Events:   events,
		Log:      log,
	},
		practice.WithScorer(grading.NewScorer(grading.WithProblemWordLimit(cfg.ProblemWordLimit))),
		practice.WithRecentLimit(cfg.RecentAttempts),
	)

	deps := api.RouterDeps{
		Auth:            auth.NewAuthService(cfg.AuthHMACSecret),
		Users:           userStore,
		Catalog:         catalogStore,
		Practice:        svc,
		Cache:           lessonCache,
		Blobs:           bs,
		Events:          events,
		DB:              dbh,
		CORSOrigins:     cfg.CORSOrigins,
		SecureCookies:   cfg.Mode == config.ModeOnline,
		EnableLocalAuth: cfg.EnableLocalAuth,
		RoleFallback:    cfg.Mode == config.ModeOffline,
		MaxUploadBytes:  cfg.MaxUploadBytes,
		AccessLog:       cfg.Mode == config.ModeOffline,
	}
	if cfg.EnableGuestAuth {
		deps.Guests = userStore
	}
	handler := api.NewRouter(deps)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Warn("http shutdown", "error", err)
		}
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown", "error", err)
		}
	}()

	log.Info("listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode, "db", driver, "stt", cfg.STTProvider, "blobs", cfg.BlobDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("http server", "error", err)
	}
}
