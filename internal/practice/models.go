package practice

import "github.com/edmedpublic-hub/Reading-Platform/internal/grading"

// Attempt is one scored reading of a lesson or of free text.
type Attempt struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id,omitempty"`
	LessonID  *int64            `json:"lesson_id,omitempty"`
	Expected  string            `json:"expected"`
	Spoken    string            `json:"spoken"`
	Score     float64           `json:"score"`
	Verdicts  []grading.Verdict `json:"verdicts"`
	Extras    []grading.Extra   `json:"extra_words"`
	Feedback  string            `json:"feedback"`
	AudioKey  string            `json:"audio_key,omitempty"`
	CreatedAt int64             `json:"created_at"`
}

// ProblemWords returns verdicts that were not read correctly.
func (a Attempt) ProblemWords() []grading.Verdict {
	return grading.Result{Verdicts: a.Verdicts}.ProblemWords()
}

type TextRequest struct {
	Expected string
	Spoken   string
	LessonID *int64
	UserID   string
}

type RecordingRequest struct {
	LessonID int64
	UserID   string
	Audio    []byte
	MimeType string
}
