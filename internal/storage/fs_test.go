package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/edmedpublic-hub/Reading-Platform/internal/config"
)

func TestFSStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	key, err := s.Put(ctx, "recordings/7/a.webm", bytes.NewBufferString("RIFF"))
	if err != nil {
		t.Fatal(err)
	}
	if key != "recordings/7/a.webm" {
		t.Fatalf("key = %q", key)
	}

	rc, err := s.Get(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != "RIFF" {
		t.Fatalf("content = %q", b)
	}

	u, err := s.SignedURL(ctx, key)
	if err != nil || !strings.HasPrefix(u, "file://") || !strings.HasSuffix(u, "/recordings/7/a.webm") {
		t.Fatalf("SignedURL = %q, %v", u, err)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete: %v", err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestFSStoreKeysStayInBase(t *testing.T) {
	ctx := context.Background()
	s, _ := NewFSStore(t.TempDir())

	key, err := s.Put(ctx, "../../etc/evil.txt", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	if key != "etc/evil.txt" {
		t.Fatalf("key = %q", key)
	}
	if _, err := s.Put(ctx, "", strings.NewReader("x")); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestNewPicksDriver(t *testing.T) {
	ctx := context.Background()
	bs, err := New(ctx, config.Config{BlobDriver: "fs", BlobBasePath: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := bs.(*FSStore); !ok {
		t.Fatalf("got %T", bs)
	}
	if _, err := New(ctx, config.Config{BlobDriver: "s3"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if _, err := New(ctx, config.Config{BlobDriver: "gcs"}); err == nil {
		t.Fatal("expected error for gcs without bucket")
	}
}

func TestContentTypeForKey(t *testing.T) {
	if got := ContentTypeForKey("a/b.WEBM"); got != "audio/webm" {
		t.Fatalf("got %q", got)
	}
	if got := ContentTypeForKey("a/b"); got != "application/octet-stream" {
		t.Fatalf("got %q", got)
	}
}
