package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/edmedpublic-hub/Reading-Platform/internal/grading"
	"github.com/edmedpublic-hub/Reading-Platform/internal/practice"
	"github.com/edmedpublic-hub/Reading-Platform/internal/rbac"
)

type problemWord struct {
	grading.Verdict
	Tip string `json:"tip"`
}

type feedbackResponse struct {
	Score         float64           `json:"score"`
	Feedback      string            `json:"feedback"`
	Verdicts      []grading.Verdict `json:"verdicts"`
	Mispronounced []problemWord     `json:"mispronounced"`
	Extras        []grading.Extra   `json:"extra_words"`
	AttemptID     string            `json:"attempt_id,omitempty"`
}

func newFeedbackResponse(a practice.Attempt) feedbackResponse {
	resp := feedbackResponse{
		Score:         a.Score,
		Feedback:      a.Feedback,
		Verdicts:      a.Verdicts,
		Mispronounced: []problemWord{},
		Extras:        a.Extras,
		AttemptID:     a.ID,
	}
	for _, v := range a.ProblemWords() {
		resp.Mispronounced = append(resp.Mispronounced, problemWord{Verdict: v, Tip: grading.Tip(v.Word)})
	}
	return resp
}

// POST /api/feedback {expected, spoken, lesson_id}
func FeedbackHandler(svc *practice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Expected string `json:"expected"`
			Spoken   string `json:"spoken"`
			LessonID *int64 `json:"lesson_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Spoken) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"score": 0, "feedback": practice.ErrNoSpeech.Error()})
			return
		}
		a, err := svc.ScoreText(r.Context(), practice.TextRequest{
			Expected: req.Expected,
			Spoken:   req.Spoken,
			LessonID: req.LessonID,
			UserID:   rbac.SubjectFromContext(r.Context()),
		})
		if errors.Is(err, practice.ErrNoSpeech) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"score": 0, "feedback": err.Error()})
			return
		}
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newFeedbackResponse(a))
	}
}
