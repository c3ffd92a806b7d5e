package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/edmedpublic-hub/Reading-Platform/internal/config"
)

var ErrNotFound = errors.New("blob not found")

type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error) // returns canonical key
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string) (string, error) // fs returns "file://..." for dev
}

// New picks the blob driver named in cfg.
func New(ctx context.Context, cfg config.Config) (BlobStore, error) {
	switch strings.ToLower(cfg.BlobDriver) {
	case "", "fs":
		return NewFSStore(cfg.BlobBasePath)
	case "gcs":
		return NewGCSStore(ctx, cfg.GCSBucket)
	default:
		return nil, fmt.Errorf("unsupported blob driver: %s", cfg.BlobDriver)
	}
}

// cleanKey makes key relative and free of "..", using forward slashes.
func cleanKey(key string) (string, error) {
	k := strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(key, `\`, "/")), "/")
	if k == "" {
		return "", errors.New("empty key")
	}
	return k, nil
}

// ContentTypeForKey guesses an audio content type from the key's extension.
func ContentTypeForKey(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".webm":
		return "audio/webm"
	case ".ogg", ".oga":
		return "audio/ogg"
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	case ".flac":
		return "audio/flac"
	case ".m4a":
		return "audio/mp4"
	default:
		return "application/octet-stream"
	}
}
