package transcribe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"golang.org/x/time/rate"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/edmedpublic-hub/Reading-Platform/internal/gcp"
	"github.com/edmedpublic-hub/Reading-Platform/internal/logger"
)

type recognizeFunc func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)

// GCPTranscriber calls Cloud Speech-to-Text synchronous Recognize. Lesson
// recordings are short, so the long-running API is not needed.
type GCPTranscriber struct {
	log       *logger.Logger
	client    *speech.Client
	recognize recognizeFunc
	limiter   *rate.Limiter

	language   string
	maxRetries int
	backoff    time.Duration
	timeout    time.Duration
}

type GCPOption func(*GCPTranscriber)

func WithLanguage(code string) GCPOption {
	return func(t *GCPTranscriber) {
		if code != "" {
			t.language = code
		}
	}
}

// WithRatePerMinute caps outgoing Recognize calls. n <= 0 disables the cap.
func WithRatePerMinute(n int) GCPOption {
	return func(t *GCPTranscriber) {
		if n > 0 {
			t.limiter = rate.NewLimiter(rate.Limit(float64(n)/60.0), 1)
		} else {
			t.limiter = nil
		}
	}
}

func NewGCPTranscriber(ctx context.Context, log *logger.Logger, opts ...GCPOption) (*GCPTranscriber, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	c, err := speech.NewClient(ctx, gcp.ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}
	t := newGCPTranscriber(log, func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		return c.Recognize(ctx, req)
	}, opts...)
	t.client = c
	return t, nil
}

func newGCPTranscriber(log *logger.Logger, fn recognizeFunc, opts ...GCPOption) *GCPTranscriber {
	t := &GCPTranscriber{
		log:        log.With("service", "GCPTranscriber"),
		recognize:  fn,
		language:   "en-US",
		maxRetries: 4,
		backoff:    750 * time.Millisecond,
		timeout:    time.Minute,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *GCPTranscriber) Close() error {
	if t == nil || t.client == nil {
		return nil
	}
	return t.client.Close()
}

func (t *GCPTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", nil
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("speech rate limit: %w", err)
		}
	}

	req := &speechpb.RecognizeRequest{
		Config: recognitionConfig(mimeType, t.language),
		Audio:  &speechpb.RecognitionAudio{AudioSource: &speechpb.RecognitionAudio_Content{Content: audio}},
	}
	resp, err := t.retry(ctx, func() (*speechpb.RecognizeResponse, error) {
		return t.recognize(ctx, req)
	})
	if err != nil {
		return "", fmt.Errorf("speech recognize: %w", err)
	}
	text := transcript(resp)
	t.log.Debug("speech recognized", "bytes", len(audio), "mime", mimeType, "chars", len(text))
	return text, nil
}

func recognitionConfig(mimeType, language string) *speechpb.RecognitionConfig {
	rc := &speechpb.RecognitionConfig{
		LanguageCode:               language,
		EnableAutomaticPunctuation: false,
		Encoding:                   inferSpeechEncoding(mimeType),
	}
	switch rc.Encoding {
	case speechpb.RecognitionConfig_WEBM_OPUS, speechpb.RecognitionConfig_OGG_OPUS:
		// browsers record opus at 48 kHz; the API requires the rate for opus
		rc.SampleRateHertz = 48000
	}
	return rc
}

func inferSpeechEncoding(mimeType string) speechpb.RecognitionConfig_AudioEncoding {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.Contains(m, "webm"):
		return speechpb.RecognitionConfig_WEBM_OPUS
	case strings.Contains(m, "ogg"), strings.Contains(m, "opus"):
		return speechpb.RecognitionConfig_OGG_OPUS
	case strings.Contains(m, "wav"):
		return speechpb.RecognitionConfig_LINEAR16
	case strings.Contains(m, "flac"):
		return speechpb.RecognitionConfig_FLAC
	case strings.Contains(m, "mp3"), strings.Contains(m, "mpeg"):
		return speechpb.RecognitionConfig_MP3
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}

func transcript(resp *speechpb.RecognizeResponse) string {
	if resp == nil {
		return ""
	}
	var full strings.Builder
	for _, r := range resp.Results {
		if r == nil || len(r.Alternatives) == 0 || r.Alternatives[0] == nil {
			continue
		}
		txt := strings.TrimSpace(r.Alternatives[0].Transcript)
		if txt == "" {
			continue
		}
		if full.Len() > 0 {
			full.WriteString(" ")
		}
		full.WriteString(txt)
	}
	return full.String()
}

func retryable(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.ResourceExhausted, codes.DeadlineExceeded:
		return true
	default:
		return false
	}
}

func (t *GCPTranscriber) retry(ctx context.Context, fn func() (*speechpb.RecognizeResponse, error)) (*speechpb.RecognizeResponse, error) {
	backoff := t.backoff
	var last error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		resp, err := fn()
		if err == nil {
			return resp, nil
		}
		last = err
		if !retryable(err) || attempt == t.maxRetries {
			break
		}
		t.log.Warn("speech recognize retry", "attempt", attempt+1, "error", err)
		select {
		case <-ctx.Done():
			return nil, errors.Join(last, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
	}
	return nil, last
}
