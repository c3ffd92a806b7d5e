package config

import (
	"reflect"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"MODE", "DB_DRIVER", "STT_PROVIDER", "RECENT_ATTEMPTS", "CORS_ORIGINS", "ENABLE_GUEST_AUTH"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Mode != ModeOffline || c.DBDriver != "sqlite" || c.STTProvider != "none" || c.RecentAttempts != 5 {
		t.Fatalf("defaults = %+v", c)
	}
	if !c.EnableGuestAuth || len(c.CORSOrigins) != 2 {
		t.Fatalf("offline defaults = %+v", c)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("PUBLIC_URL", "https://read.example.org/")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("ENABLE_GUEST_AUTH", "")
	t.Setenv("LESSON_CACHE_TTL", "90s")
	t.Setenv("RECENT_ATTEMPTS", "-3")
	t.Setenv("LOG_REDACTION_ENABLED", "no")

	c := FromEnv()
	if !reflect.DeepEqual(c.CORSOrigins, []string{"https://read.example.org"}) {
		t.Fatalf("origins = %v", c.CORSOrigins)
	}
	if c.EnableGuestAuth || c.LogMode != "prod" || c.LogRedaction {
		t.Fatalf("online flags = %+v", c)
	}
	if c.LessonCacheTTL != 90*time.Second || c.RecentAttempts != 5 {
		t.Fatalf("ttl %v recent %d", c.LessonCacheTTL, c.RecentAttempts)
	}
}
