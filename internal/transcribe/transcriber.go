// Package transcribe turns recorded audio into text for scoring.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/edmedpublic-hub/Reading-Platform/internal/config"
	"github.com/edmedpublic-hub/Reading-Platform/internal/logger"
)

// ErrUnavailable means no speech-to-text provider is configured.
var ErrUnavailable = errors.New("transcription unavailable")

type Transcriber interface {
	// Transcribe returns the recognized text, or "" when nothing intelligible
	// was heard.
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// Disabled is used when STT_PROVIDER=none.
type Disabled struct{}

func (Disabled) Transcribe(context.Context, []byte, string) (string, error) {
	return "", ErrUnavailable
}

// New builds the transcriber named by cfg.STTProvider.
func New(ctx context.Context, cfg config.Config, log *logger.Logger) (Transcriber, error) {
	switch strings.ToLower(cfg.STTProvider) {
	case "", "none":
		return Disabled{}, nil
	case "gcp":
		return NewGCPTranscriber(ctx, log,
			WithLanguage(cfg.STTLanguage),
			WithRatePerMinute(cfg.STTRatePerMin),
		)
	default:
		return nil, fmt.Errorf("unsupported stt provider: %s", cfg.STTProvider)
	}
}
