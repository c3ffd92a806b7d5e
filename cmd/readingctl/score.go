package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edmedpublic-hub/Reading-Platform/internal/grading"
)

var (
	expectedText string
	expectedFile string
	spokenText   string
	problemLimit int
	showTips     bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one spoken transcript against expected text",
	Long: `Score aligns a spoken transcript with the expected passage and prints the
result as JSON. The transcript is read from --spoken or, when absent, stdin.`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&expectedText, "expected", "e", "", "expected text")
	scoreCmd.Flags().StringVarP(&expectedFile, "expected-file", "f", "", "read expected text from file")
	scoreCmd.Flags().StringVarP(&spokenText, "spoken", "s", "", "spoken transcript (default: stdin)")
	scoreCmd.Flags().IntVar(&problemLimit, "problem-words", cfg.ProblemWordLimit, "problem words listed in feedback")
	scoreCmd.Flags().BoolVar(&showTips, "tips", false, "attach pronunciation tips to problem words")
	rootCmd.AddCommand(scoreCmd)
}

type scoredTip struct {
	Word string `json:"word"`
	Tip  string `json:"tip"`
}

type scoreOutput struct {
	grading.Result
	Tips []scoredTip `json:"tips,omitempty"`
}

func runScore(cmd *cobra.Command, args []string) error {
	expected := expectedText
	if expectedFile != "" {
		b, err := os.ReadFile(expectedFile)
		if err != nil {
			return fmt.Errorf("read expected: %w", err)
		}
		expected = string(b)
	}
	if strings.TrimSpace(expected) == "" {
		return errors.New("expected text required (--expected or --expected-file)")
	}
	spoken := spokenText
	if spoken == "" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		spoken = string(b)
	}

	res := grading.NewScorer(grading.WithProblemWordLimit(problemLimit)).Score(expected, spoken)
	out := scoreOutput{Result: res}
	if showTips {
		for _, v := range res.ProblemWords() {
			out.Tips = append(out.Tips, scoredTip{Word: v.Word, Tip: grading.Tip(v.Word)})
		}
	}
	log.Debug("scored", "words", len(res.Verdicts), "score", res.Score)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
