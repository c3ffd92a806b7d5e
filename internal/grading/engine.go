package grading

import "math"

// Status is the verdict for one expected word.
type Status string

const (
	StatusCorrect       Status = "correct"
	StatusMispronounced Status = "mispronounced"
	StatusMissing       Status = "missing"
)

// MissingWord is the heard value of an expected word nobody said.
const MissingWord = "[missing]"

// Verdict classifies the expected word at Position.
type Verdict struct {
	Word     string `json:"word"`
	Heard    string `json:"heard"`
	Position int    `json:"position"`
	Status   Status `json:"status"`
}

// Extra is a spoken word with no expected counterpart. Position indexes
// the spoken token sequence. Extras never count toward the score.
type Extra struct {
	Word     string `json:"word"`
	Position int    `json:"position"`
}

// Result is the outcome of scoring one transcript against a text.
type Result struct {
	Score    float64   `json:"score"`
	Verdicts []Verdict `json:"verdicts"`
	Extras   []Extra   `json:"extra_words"`
	Feedback string    `json:"feedback"`
}

// ProblemWords returns the verdicts that are not correct, in order.
func (r Result) ProblemWords() []Verdict {
	return problemWords(r.Verdicts)
}

// Correct counts correct verdicts.
func (r Result) Correct() int {
	n := 0
	for _, v := range r.Verdicts {
		if v.Status == StatusCorrect {
			n++
		}
	}
	return n
}

// AlignAndScore aligns spoken against expected and classifies every
// expected token. Feedback is left empty.
func AlignAndScore(expected, spoken []string) Result {
	res := Result{
		Verdicts: make([]Verdict, 0, len(expected)),
		Extras:   []Extra{},
	}
	correct := 0
	for _, op := range Opcodes(expected, spoken) {
		switch op.Tag {
		case OpEqual:
			for i := op.I1; i < op.I2; i++ {
				res.Verdicts = append(res.Verdicts, Verdict{Word: expected[i], Heard: expected[i], Position: i, Status: StatusCorrect})
				correct++
			}
		case OpReplace:
			for k := 0; op.I1+k < op.I2; k++ {
				v := Verdict{Word: expected[op.I1+k], Heard: MissingWord, Position: op.I1 + k, Status: StatusMissing}
				if op.J1+k < op.J2 {
					v.Heard = spoken[op.J1+k]
					v.Status = StatusMispronounced
				}
				res.Verdicts = append(res.Verdicts, v)
			}
			for j := op.J1 + (op.I2 - op.I1); j < op.J2; j++ {
				res.Extras = append(res.Extras, Extra{Word: spoken[j], Position: j})
			}
		case OpDelete:
			for i := op.I1; i < op.I2; i++ {
				res.Verdicts = append(res.Verdicts, Verdict{Word: expected[i], Heard: MissingWord, Position: i, Status: StatusMissing})
			}
		case OpInsert:
			for j := op.J1; j < op.J2; j++ {
				res.Extras = append(res.Extras, Extra{Word: spoken[j], Position: j})
			}
		}
	}
	if len(expected) > 0 {
		res.Score = round2(100 * float64(correct) / float64(len(expected)))
	}
	return res
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }

// Options

type Option func(*config)

type config struct {
	ProblemWordLimit int // problem words named in feedback
}

// WithProblemWordLimit sets how many problem words feedback names before
// summarising the rest as "and N more". Values < 1 are ignored.
func WithProblemWordLimit(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.ProblemWordLimit = n
		}
	}
}

// Scorer runs the full pipeline: normalize, align, score, feedback.
// A Scorer holds only immutable configuration and is safe for concurrent use.
type Scorer struct {
	cfg config
}

func NewScorer(opts ...Option) *Scorer {
	cfg := config{ProblemWordLimit: 5}
	for _, o := range opts {
		o(&cfg)
	}
	return &Scorer{cfg: cfg}
}

// Score compares spokenText against expectedText.
func (s *Scorer) Score(expectedText, spokenText string) Result {
	res := AlignAndScore(Normalize(expectedText), Normalize(spokenText))
	res.Feedback = feedback(res.Verdicts, res.Score, s.cfg.ProblemWordLimit)
	return res
}

// Feedback renders the message for an already computed result.
func (s *Scorer) Feedback(verdicts []Verdict, score float64) string {
	return feedback(verdicts, score, s.cfg.ProblemWordLimit)
}

var defaultScorer = NewScorer()

// Score scores with default options.
func Score(expectedText, spokenText string) Result {
	return defaultScorer.Score(expectedText, spokenText)
}
