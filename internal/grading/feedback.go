package grading

import (
	"fmt"
	"strings"
)

// Score thresholds, inclusive lower bounds, highest first.
const (
	TierExcellent = 90.0
	TierGood      = 75.0
	TierProgress  = 50.0
)

// GenerateFeedback maps verdicts and score to a short message using the
// default problem-word limit.
func GenerateFeedback(verdicts []Verdict, score float64) string {
	return defaultScorer.Feedback(verdicts, score)
}

func feedback(verdicts []Verdict, score float64, limit int) string {
	problems := problemWords(verdicts)
	n := len(problems)

	var msg string
	switch {
	case score >= TierExcellent:
		if n == 0 {
			if score >= 100 {
				return "Perfect! You read every word correctly. You're a star reader!"
			}
			return "Excellent! Your reading was very accurate. No words to review."
		}
		msg = fmt.Sprintf("Excellent! Your reading was very accurate. %s to review.", countWords(n))
	case score >= TierGood:
		msg = fmt.Sprintf("Good effort! %s to practice.", countWords(n))
	case score >= TierProgress:
		msg = fmt.Sprintf("Keep practicing, you're making progress! %s missed.", countWords(n))
	default:
		msg = fmt.Sprintf("Let's start over. Listen to the text and read it again slowly. %s to practice.", countWords(n))
	}
	if n > 0 {
		msg += " " + listWords(problems, limit)
	}
	return msg
}

func countWords(n int) string {
	if n == 1 {
		return "1 word"
	}
	return fmt.Sprintf("%d words", n)
}

// listWords names the first limit problem words.
func listWords(problems []Verdict, limit int) string {
	if limit <= 0 || limit > len(problems) {
		limit = len(problems)
	}
	names := make([]string, 0, limit)
	for _, p := range problems[:limit] {
		names = append(names, p.Word)
	}
	if rest := len(problems) - limit; rest > 0 {
		return fmt.Sprintf("Focus on: %s and %d more.", strings.Join(names, ", "), rest)
	}
	return fmt.Sprintf("Practice: %s.", strings.Join(names, ", "))
}

func problemWords(verdicts []Verdict) []Verdict {
	out := make([]Verdict, 0, len(verdicts))
	for _, v := range verdicts {
		if v.Status != StatusCorrect {
			out = append(out, v)
		}
	}
	return out
}
