package practice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/edmedpublic-hub/Reading-Platform/internal/cache"
	"github.com/edmedpublic-hub/Reading-Platform/internal/catalog"
	"github.com/edmedpublic-hub/Reading-Platform/internal/grading"
	"github.com/edmedpublic-hub/Reading-Platform/internal/logger"
	"github.com/edmedpublic-hub/Reading-Platform/internal/storage"
	syncx "github.com/edmedpublic-hub/Reading-Platform/internal/sync"
	"github.com/edmedpublic-hub/Reading-Platform/internal/transcribe"
)

var (
	ErrNotFound                 = errors.New("attempt not found")
	ErrNoSpeech                 = errors.New("No speech text received.")
	ErrNoExpectedText           = errors.New("No expected text available.")
	ErrNoAudio                  = errors.New("No audio file provided.")
	ErrUnintelligible           = errors.New("Could not understand audio. Please speak clearly and try again.")
	ErrTranscriptionUnavailable = errors.New("Speech transcription is not available.")
)

type LessonSource interface {
	GetLesson(ctx context.Context, id int64) (catalog.Lesson, error)
}

type EventAppender interface {
	AppendJSON(ctx context.Context, typ, key string, payload any) error
}

// Deps are the collaborators a Service needs. Cache, Blobs, STT and Events
// may be nil.
type Deps struct {
	Attempts Store
	Lessons  LessonSource
	Cache    cache.LessonText
	Blobs    storage.BlobStore
	STT      transcribe.Transcriber
	Events   EventAppender
	Log      *logger.Logger
}

type Option func(*Service)

func WithScorer(sc *grading.Scorer) Option {
	return func(s *Service) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithRecentLimit sets how many attempts Recent returns. Values < 1 are ignored.
func WithRecentLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recent = n
		}
	}
}

type Service struct {
	attempts Store
	lessons  LessonSource
	cache    cache.LessonText
	blobs    storage.BlobStore
	stt      transcribe.Transcriber
	events   EventAppender
	log      *logger.Logger

	scorer *grading.Scorer
	recent int
	tracer trace.Tracer
}

func NewService(d Deps, opts ...Option) *Service {
	s := &Service{
		attempts: d.Attempts,
		lessons:  d.Lessons,
		cache:    d.Cache,
		blobs:    d.Blobs,
		stt:      d.STT,
		events:   d.Events,
		log:      d.Log,
		scorer:   grading.NewScorer(),
		recent:   5,
		tracer:   otel.Tracer("github.com/edmedpublic-hub/Reading-Platform/internal/practice"),
	}
	if s.cache == nil {
		s.cache = cache.Nop{}
	}
	if s.stt == nil {
		s.stt = transcribe.Disabled{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// ScoreText scores typed or browser-recognized text. With a lesson the
// expected text is always the stored lesson content; req.Expected is only
// used for free practice.
func (s *Service) ScoreText(ctx context.Context, req TextRequest) (a Attempt, err error) {
	ctx, span := s.tracer.Start(ctx, "practice.ScoreText")
	defer func() { endSpan(span, err) }()

	spoken := strings.TrimSpace(req.Spoken)
	if spoken == "" {
		return Attempt{}, ErrNoSpeech
	}
	expected := req.Expected
	if req.LessonID != nil {
		span.SetAttributes(attribute.Int64("lesson.id", *req.LessonID))
		if expected, err = s.LessonText(ctx, *req.LessonID); err != nil {
			return Attempt{}, err
		}
	}
	if strings.TrimSpace(expected) == "" {
		return Attempt{}, ErrNoExpectedText
	}
	return s.scoreAndSave(ctx, span, req.UserID, req.LessonID, expected, spoken, "")
}

// ScoreRecording stores the audio, transcribes it and scores the transcript
// against the lesson.
func (s *Service) ScoreRecording(ctx context.Context, req RecordingRequest) (a Attempt, err error) {
	ctx, span := s.tracer.Start(ctx, "practice.ScoreRecording",
		trace.WithAttributes(attribute.Int64("lesson.id", req.LessonID), attribute.Int("audio.bytes", len(req.Audio))))
	defer func() { endSpan(span, err) }()

	if len(req.Audio) == 0 {
		return Attempt{}, ErrNoAudio
	}
	expected, err := s.LessonText(ctx, req.LessonID)
	if err != nil {
		return Attempt{}, err
	}

	var key string
	if s.blobs != nil {
		key = fmt.Sprintf("recordings/%d/%s%s", req.LessonID, uuid.NewString(), extForMime(req.MimeType))
		if key, err = s.blobs.Put(ctx, key, bytes.NewReader(req.Audio)); err != nil {
			return Attempt{}, fmt.Errorf("store recording: %w", err)
		}
	}
	discard := func() {
		if key == "" {
			return
		}
		if derr := s.blobs.Delete(context.WithoutCancel(ctx), key); derr != nil {
			s.log.Warn("recording cleanup failed", "key", key, "error", derr)
		}
	}

	spoken, err := s.stt.Transcribe(ctx, req.Audio, req.MimeType)
	if err != nil {
		discard()
		if errors.Is(err, transcribe.ErrUnavailable) {
			return Attempt{}, ErrTranscriptionUnavailable
		}
		return Attempt{}, fmt.Errorf("transcribe: %w", err)
	}
	spoken = strings.TrimSpace(spoken)
	if spoken == "" {
		discard()
		return Attempt{}, ErrUnintelligible
	}
	lessonID := req.LessonID
	return s.scoreAndSave(ctx, span, req.UserID, &lessonID, expected, spoken, key)
}

func (s *Service) scoreAndSave(ctx context.Context, span trace.Span, userID string, lessonID *int64, expected, spoken, audioKey string) (Attempt, error) {
	res := s.scorer.Score(expected, spoken)
	a := Attempt{
		ID:        uuid.NewString(),
		UserID:    userID,
		LessonID:  lessonID,
		Expected:  expected,
		Spoken:    spoken,
		Score:     res.Score,
		Verdicts:  res.Verdicts,
		Extras:    res.Extras,
		Feedback:  res.Feedback,
		AudioKey:  audioKey,
		CreatedAt: time.Now().Unix(),
	}
	span.SetAttributes(
		attribute.String("attempt.id", a.ID),
		attribute.Float64("attempt.score", a.Score),
		attribute.Int("attempt.words", len(a.Verdicts)),
	)
	if err := s.attempts.Create(ctx, a); err != nil {
		return Attempt{}, fmt.Errorf("save attempt: %w", err)
	}

	if s.events != nil {
		payload := map[string]any{"attempt_id": a.ID, "user_id": a.UserID, "lesson_id": a.LessonID, "score": a.Score}
		if err := s.events.AppendJSON(ctx, syncx.TypeAttemptScored, a.ID, payload); err != nil {
			s.log.Warn("event append failed", "attempt_id", a.ID, "error", err)
		}
	}
	s.log.Info("attempt scored", "attempt_id", a.ID, "user_id", a.UserID, "score", a.Score, "problems", len(res.ProblemWords()))
	return a, nil
}

// LessonText returns lesson content, consulting the cache first.
func (s *Service) LessonText(ctx context.Context, lessonID int64) (string, error) {
	if text, ok, err := s.cache.Get(ctx, lessonID); err != nil {
		s.log.Warn("lesson cache get failed", "lesson_id", lessonID, "error", err)
	} else if ok {
		return text, nil
	}
	l, err := s.lessons.GetLesson(ctx, lessonID)
	if err != nil {
		return "", err
	}
	if err := s.cache.Set(ctx, lessonID, l.Content); err != nil {
		s.log.Warn("lesson cache set failed", "lesson_id", lessonID, "error", err)
	}
	return l.Content, nil
}

// Attempt returns one attempt. Viewers without canViewAll only see their
// own attempts; others look missing.
func (s *Service) Attempt(ctx context.Context, id, viewer string, canViewAll bool) (a Attempt, err error) {
	ctx, span := s.tracer.Start(ctx, "practice.Attempt")
	defer func() { endSpan(span, err) }()

	a, err = s.attempts.Get(ctx, id)
	if err != nil {
		return Attempt{}, err
	}
	if !canViewAll && (a.UserID == "" || a.UserID != viewer) {
		return Attempt{}, ErrNotFound
	}
	return a, nil
}

// Recent lists the latest attempts of userID, optionally for one lesson.
func (s *Service) Recent(ctx context.Context, userID string, lessonID *int64) (out []Attempt, err error) {
	ctx, span := s.tracer.Start(ctx, "practice.Recent")
	defer func() { endSpan(span, err) }()
	return s.attempts.ListRecent(ctx, userID, lessonID, s.recent)
}

func extForMime(mimeType string) string {
	m := strings.ToLower(mimeType)
	switch {
	case strings.Contains(m, "webm"):
		return ".webm"
	case strings.Contains(m, "ogg"), strings.Contains(m, "opus"):
		return ".ogg"
	case strings.Contains(m, "wav"):
		return ".wav"
	case strings.Contains(m, "flac"):
		return ".flac"
	case strings.Contains(m, "mpeg"), strings.Contains(m, "mp3"):
		return ".mp3"
	case strings.Contains(m, "mp4"), strings.Contains(m, "m4a"):
		return ".m4a"
	default:
		return ".bin"
	}
}
