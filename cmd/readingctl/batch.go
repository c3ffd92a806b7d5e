package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/edmedpublic-hub/Reading-Platform/internal/grading"
)

var batchConcurrency int

var batchCmd = &cobra.Command{
	Use:   "batch <file.yaml>",
	Short: "Score many transcripts from a YAML file",
	Long: `Batch reads a YAML document of the form

  items:
    - id: s1
      expected: The quick brown fox
      spoken: the quick brown box

and writes one JSON result per item to stdout, in input order.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchConcurrency, "max-concurrent", "j", runtime.NumCPU(), "items scored in parallel")
	rootCmd.AddCommand(batchCmd)
}

type batchItem struct {
	ID       string `yaml:"id"`
	Expected string `yaml:"expected"`
	Spoken   string `yaml:"spoken"`
}

type batchFile struct {
	Items []batchItem `yaml:"items"`
}

type batchResult struct {
	ID       string  `json:"id"`
	Score    float64 `json:"score"`
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Feedback string  `json:"feedback"`
}

func parseBatch(r io.Reader) (batchFile, error) {
	var f batchFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return f, nil
		}
		return f, fmt.Errorf("parse batch: %w", err)
	}
	for i, it := range f.Items {
		if it.ID == "" {
			f.Items[i].ID = fmt.Sprintf("item-%d", i+1)
		}
	}
	return f, nil
}

// scoreBatch scores items with at most limit goroutines. Results keep
// input order.
func scoreBatch(ctx context.Context, sc *grading.Scorer, items []batchItem, limit int) ([]batchResult, error) {
	out := make([]batchResult, len(items))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, it := range items {
		i, it := i, it
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := sc.Score(it.Expected, it.Spoken)
			out[i] = batchResult{
				ID:       it.ID,
				Score:    res.Score,
				Correct:  res.Correct(),
				Total:    len(res.Verdicts),
				Feedback: res.Feedback,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	bf, err := parseBatch(f)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sc := grading.NewScorer(grading.WithProblemWordLimit(cfg.ProblemWordLimit))
	results, err := scoreBatch(ctx, sc, bf.Items, batchConcurrency)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	log.Info("batch scored", "items", len(results), "file", args[0])
	return nil
}
