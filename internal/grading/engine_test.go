package grading

import (
	"reflect"
	"strings"
	"sync"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"blank", "  \t\n ", []string{}},
		{"lowercase", "The Quick Brown Fox", []string{"the", "quick", "brown", "fox"}},
		{"apostrophe_removed", "Don't stop", []string{"dont", "stop"}},
		{"punctuation_only_token_dropped", "wait - what?!", []string{"wait", "what"}},
		{"collapse_whitespace", "  one \t two\n\nthree  ", []string{"one", "two", "three"}},
		{"digits_kept", "Chapter 3, page 12.", []string{"chapter", "3", "page", "12"}},
		{"compat_fold", "ﬁne ＡＢＣ", []string{"fine", "abc"}},
		{"jamo_recomposed_after_filter", "ᄀ-ᅡ", []string{"가"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"The quick brown fox",
		"  Hello,   World!! It's   me. ",
		"Café déjà vu — naïve coöperation",
		"ＦＵＬＬ width and ﬁ ligature",
		"ᄀ-ᅡ",
		"␤ᅨᛣᄏ⻪ᅰ",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(strings.Join(once, " "))
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestOpcodes(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want []Opcode
	}{
		{"both_empty", "", "", nil},
		{"identical", "a b c", "a b c", []Opcode{{OpEqual, 0, 3, 0, 3}}},
		{"replace_middle", "a b c", "a x c", []Opcode{
			{OpEqual, 0, 1, 0, 1}, {OpReplace, 1, 2, 1, 2}, {OpEqual, 2, 3, 2, 3},
		}},
		{"delete_tail", "a b c", "a b", []Opcode{{OpEqual, 0, 2, 0, 2}, {OpDelete, 2, 3, 2, 2}}},
		{"insert_head", "b c", "a b c", []Opcode{{OpInsert, 0, 0, 0, 1}, {OpEqual, 0, 2, 1, 3}}},
		{"all_deleted", "a b", "", []Opcode{{OpDelete, 0, 2, 0, 0}}},
		{"all_inserted", "", "a b", []Opcode{{OpInsert, 0, 0, 0, 2}}},
		{"disjoint", "a b", "x y z", []Opcode{{OpReplace, 0, 2, 0, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Opcodes(strings.Fields(tt.a), strings.Fields(tt.b))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Opcodes(%q, %q) = %+v, want %+v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestOpcodesCoverBothSequences(t *testing.T) {
	pairs := [][2]string{
		{"the cat sat on the mat", "the cat sit on mat today"},
		{"one two three four five", "five four three two one"},
		{"a a a b b", "b a b a"},
		{"x", "y y y y"},
	}
	for _, p := range pairs {
		a, b := strings.Fields(p[0]), strings.Fields(p[1])
		ops := Opcodes(a, b)
		i, j := 0, 0
		for _, op := range ops {
			if op.I1 != i || op.J1 != j {
				t.Fatalf("%q/%q: gap before %+v (at %d,%d)", p[0], p[1], op, i, j)
			}
			if op.Tag == OpEqual {
				for k := 0; k < op.I2-op.I1; k++ {
					if a[op.I1+k] != b[op.J1+k] {
						t.Fatalf("%q/%q: equal block %+v differs", p[0], p[1], op)
					}
				}
			}
			i, j = op.I2, op.J2
		}
		if i != len(a) || j != len(b) {
			t.Fatalf("%q/%q: ops end at %d,%d", p[0], p[1], i, j)
		}
	}
}

func TestScoreExamples(t *testing.T) {
	t.Run("identical", func(t *testing.T) {
		res := Score("The quick brown fox", "The quick brown fox")
		if res.Score != 100 {
			t.Fatalf("score = %v, want 100", res.Score)
		}
		for _, v := range res.Verdicts {
			if v.Status != StatusCorrect || v.Heard != v.Word {
				t.Fatalf("verdict %+v not correct", v)
			}
		}
		if !strings.Contains(res.Feedback, "Perfect") {
			t.Fatalf("feedback %q lacks perfect message", res.Feedback)
		}
	})

	t.Run("substitution", func(t *testing.T) {
		res := Score("The quick brown fox", "The quick red fox")
		if res.Score != 75 {
			t.Fatalf("score = %v, want 75", res.Score)
		}
		want := Verdict{Word: "brown", Heard: "red", Position: 2, Status: StatusMispronounced}
		if res.Verdicts[2] != want {
			t.Fatalf("verdict[2] = %+v, want %+v", res.Verdicts[2], want)
		}
	})

	t.Run("missing_tail", func(t *testing.T) {
		res := Score("one two three", "one two")
		if res.Score != 66.67 {
			t.Fatalf("score = %v, want 66.67", res.Score)
		}
		want := Verdict{Word: "three", Heard: MissingWord, Position: 2, Status: StatusMissing}
		if res.Verdicts[2] != want {
			t.Fatalf("verdict[2] = %+v, want %+v", res.Verdicts[2], want)
		}
	})

	t.Run("empty_expected", func(t *testing.T) {
		res := Score("", "hello")
		if res.Score != 0 || len(res.Verdicts) != 0 {
			t.Fatalf("got score %v with %d verdicts", res.Score, len(res.Verdicts))
		}
		if len(res.Extras) != 1 || res.Extras[0].Word != "hello" {
			t.Fatalf("extras = %+v", res.Extras)
		}
	})

	t.Run("punctuation_and_case_ignored", func(t *testing.T) {
		res := Score("Don't run, Tom!", "dont run tom")
		if res.Score != 100 {
			t.Fatalf("score = %v, want 100", res.Score)
		}
	})
}

func TestAlignAndScore(t *testing.T) {
	tests := []struct {
		name       string
		expected   string
		spoken     string
		wantScore  float64
		wantStatus []Status
		wantHeard  []string
		wantExtras []Extra
	}{
		{
			name:       "disjoint_longer_spoken",
			expected:   "red green",
			spoken:     "one two three",
			wantScore:  0,
			wantStatus: []Status{StatusMispronounced, StatusMispronounced},
			wantHeard:  []string{"one", "two"},
			wantExtras: []Extra{{Word: "three", Position: 2}},
		},
		{
			name:       "disjoint_shorter_spoken",
			expected:   "red green blue",
			spoken:     "one",
			wantScore:  0,
			wantStatus: []Status{StatusMispronounced, StatusMissing, StatusMissing},
			wantHeard:  []string{"one", MissingWord, MissingWord},
			wantExtras: []Extra{},
		},
		{
			name:       "inserted_word_ignored",
			expected:   "the cat sat",
			spoken:     "the big cat sat",
			wantScore:  100,
			wantStatus: []Status{StatusCorrect, StatusCorrect, StatusCorrect},
			wantHeard:  []string{"the", "cat", "sat"},
			wantExtras: []Extra{{Word: "big", Position: 1}},
		},
		{
			name:       "word_dropped_mid_sentence",
			expected:   "the cat sat on the mat",
			spoken:     "the cat on the mat",
			wantScore:  83.33,
			wantStatus: []Status{StatusCorrect, StatusCorrect, StatusMissing, StatusCorrect, StatusCorrect, StatusCorrect},
			wantHeard:  []string{"the", "cat", MissingWord, "on", "the", "mat"},
			wantExtras: []Extra{},
		},
		{
			name:       "nothing_spoken",
			expected:   "a b",
			spoken:     "",
			wantScore:  0,
			wantStatus: []Status{StatusMissing, StatusMissing},
			wantHeard:  []string{MissingWord, MissingWord},
			wantExtras: []Extra{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := Normalize(tt.expected)
			res := AlignAndScore(exp, Normalize(tt.spoken))
			if res.Score != tt.wantScore {
				t.Fatalf("score = %v, want %v", res.Score, tt.wantScore)
			}
			if len(res.Verdicts) != len(exp) {
				t.Fatalf("got %d verdicts for %d expected tokens", len(res.Verdicts), len(exp))
			}
			for i, v := range res.Verdicts {
				if v.Position != i || v.Word != exp[i] {
					t.Fatalf("verdict %d = %+v", i, v)
				}
				if v.Status != tt.wantStatus[i] || v.Heard != tt.wantHeard[i] {
					t.Fatalf("verdict %d = %+v, want status %s heard %q", i, v, tt.wantStatus[i], tt.wantHeard[i])
				}
			}
			if !reflect.DeepEqual(res.Extras, tt.wantExtras) {
				t.Fatalf("extras = %+v, want %+v", res.Extras, tt.wantExtras)
			}
		})
	}
}

func TestScoreDisjointNeverCorrect(t *testing.T) {
	res := Score("alpha beta gamma delta", "one two")
	if res.Score != 0 {
		t.Fatalf("score = %v, want 0", res.Score)
	}
	for _, v := range res.Verdicts {
		if v.Status == StatusCorrect {
			t.Fatalf("unexpected correct verdict %+v", v)
		}
	}
}

func TestScoreDeterministicAndConcurrent(t *testing.T) {
	expected := "It was the best of times, it was the worst of times."
	spoken := "it was the best of time it is the worst of times"
	want := Score(expected, spoken)

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Score(expected, spoken); !reflect.DeepEqual(got, want) {
				errs <- "result differs between calls"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Fatal(e)
	}
}

func TestProblemWordsAndCorrect(t *testing.T) {
	res := Score("one two three four", "one too three")
	if res.Correct() != 2 {
		t.Fatalf("correct = %d, want 2", res.Correct())
	}
	pw := res.ProblemWords()
	if len(pw) != 2 || pw[0].Word != "two" || pw[1].Word != "four" {
		t.Fatalf("problem words = %+v", pw)
	}
}

func TestTip(t *testing.T) {
	if got := Tip(" Know "); got != "Silent k" {
		t.Fatalf("Tip(know) = %q", got)
	}
	if got := Tip("zebra"); got != DefaultTip {
		t.Fatalf("Tip(zebra) = %q", got)
	}
}
