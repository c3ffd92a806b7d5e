package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode      Mode
	HTTPAddr  string
	PublicURL string

	DBDriver string // sqlite|postgres
	DBDSN    string

	BlobDriver   string // fs|gcs
	BlobBasePath string // for fs
	GCSBucket    string // for gcs

	AuthHMACSecret  string
	EnableLocalAuth bool
	EnableGuestAuth bool
	AdminUser       string
	AdminPassHash   string // bcrypt

	CORSOrigins []string

	LogMode      string
	LogLevel     string
	LogRedaction bool
	LogHashSalt  string

	RedisAddr      string // empty disables the lesson cache
	LessonCacheTTL time.Duration

	STTProvider   string // none|gcp
	STTLanguage   string
	STTRatePerMin int

	MaxUploadBytes   int64
	RecentAttempts   int
	ProblemWordLimit int

	OTELEnabled     bool
	OTELServiceName string
	OTELEndpoint    string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	defOrigins := "http://localhost:3000,http://localhost:8000"
	if mode == ModeOnline {
		defOrigins = strings.TrimSuffix(os.Getenv("PUBLIC_URL"), "/")
	}
	return Config{
		Mode:      mode,
		HTTPAddr:  envOr("HTTP_ADDR", ":8080"),
		PublicURL: os.Getenv("PUBLIC_URL"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    os.Getenv("DB_DSN"),

		BlobDriver:   envOr("BLOB_DRIVER", "fs"),
		BlobBasePath: envOr("BLOB_BASE_PATH", "./data"),
		GCSBucket:    os.Getenv("GCS_BUCKET"),

		AuthHMACSecret:  envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		EnableLocalAuth: envBool("ENABLE_LOCAL_AUTH", true),
		EnableGuestAuth: envBool("ENABLE_GUEST_AUTH", mode == ModeOffline),
		AdminUser:       envOr("ADMIN_USER", "admin"),
		AdminPassHash:   os.Getenv("ADMIN_PASS_HASH"),

		CORSOrigins: csvOr("CORS_ORIGINS", defOrigins),

		LogMode:      envOr("LOG_MODE", map[Mode]string{ModeOnline: "prod"}[mode]),
		LogLevel:     envOr("LOG_LEVEL", "info"),
		LogRedaction: envBool("LOG_REDACTION_ENABLED", true),
		LogHashSalt:  os.Getenv("LOG_HASH_SALT"),

		RedisAddr:      os.Getenv("REDIS_ADDR"),
		LessonCacheTTL: envDuration("LESSON_CACHE_TTL", 10*time.Minute),

		STTProvider:   envOr("STT_PROVIDER", "none"),
		STTLanguage:   envOr("STT_LANGUAGE", "en-US"),
		STTRatePerMin: envInt("STT_RATE_PER_MIN", 30),

		MaxUploadBytes:   int64(envInt("MAX_UPLOAD_BYTES", 10<<20)),
		RecentAttempts:   envInt("RECENT_ATTEMPTS", 5),
		ProblemWordLimit: envInt("PROBLEM_WORD_LIMIT", 5),

		OTELEnabled:     envBool("OTEL_ENABLED", false),
		OTELServiceName: envOr("OTEL_SERVICE_NAME", "reading-platform"),
		OTELEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k))); err == nil && v >= 0 {
		return v
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(k))); err == nil && v >= 0 {
		return v
	}
	return def
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
