package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/edmedpublic-hub/Reading-Platform/internal/catalog"
	"github.com/edmedpublic-hub/Reading-Platform/internal/db"
	"github.com/edmedpublic-hub/Reading-Platform/internal/grading"
)

const batchYAML = `
items:
  - id: s1
    expected: The quick brown fox
    spoken: the quick brown fox
  - expected: one two three
    spoken: one two
  - id: s3
    expected: red green
    spoken: blue
`

func TestParseBatchAssignsIDs(t *testing.T) {
	bf, err := parseBatch(strings.NewReader(batchYAML))
	if err != nil {
		t.Fatal(err)
	}
	if len(bf.Items) != 3 || bf.Items[1].ID != "item-2" || bf.Items[2].ID != "s3" {
		t.Fatalf("items = %+v", bf.Items)
	}
	empty, err := parseBatch(strings.NewReader(""))
	if err != nil || len(empty.Items) != 0 {
		t.Fatalf("empty file: %+v, %v", empty, err)
	}
	if _, err := parseBatch(strings.NewReader("items: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestScoreBatchKeepsOrder(t *testing.T) {
	bf, _ := parseBatch(strings.NewReader(batchYAML))
	items := bf.Items
	for i := 0; i < 20; i++ {
		items = append(items, batchItem{ID: fmt.Sprintf("x%d", i), Expected: "a b c d", Spoken: "a b"})
	}
	res, err := scoreBatch(context.Background(), grading.NewScorer(), items, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != len(items) {
		t.Fatalf("got %d results", len(res))
	}
	for i, r := range res {
		if r.ID != items[i].ID {
			t.Fatalf("result %d has id %q, want %q", i, r.ID, items[i].ID)
		}
	}
	if res[0].Score != 100 || res[1].Score != 66.67 || res[2].Score != 0 || res[3].Correct != 2 || res[3].Total != 4 {
		t.Fatalf("scores = %+v", res[:4])
	}
}

func TestScoreBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := scoreBatch(ctx, grading.NewScorer(), []batchItem{{ID: "a", Expected: "x", Spoken: "x"}}, 1); err == nil {
		t.Fatal("expected context error")
	}
}

const seedYAML = `
categories:
  - name: Stories
    books:
      - title: Tales
        order: 1
        units:
          - title: Unit 1
            order: 1
            lessons:
              - title: The Fox
                order: 1
                content: The quick brown fox.
              - title: The Dog
                order: 2
                content: The lazy dog.
lessons:
  - title: Warm-up
    content: I can read this.
`

func TestApplySeed(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(ctx, db.DriverSQLite, "file:seedtest?mode=memory&cache=shared")
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	store := catalog.NewSQLStore(conn)

	f, err := parseSeed(strings.NewReader(seedYAML))
	if err != nil {
		t.Fatal(err)
	}
	n, err := applySeed(ctx, store, f)
	if err != nil {
		t.Fatal(err)
	}
	if n != (seedCounts{Categories: 1, Books: 1, Units: 1, Lessons: 3}) {
		t.Fatalf("counts = %+v", n)
	}
	ls, _ := store.ListLessons(ctx, nil)
	if len(ls) != 3 {
		t.Fatalf("lessons = %d", len(ls))
	}

	// category is reused; the book order clashes with the first run
	n, err = applySeed(ctx, store, f)
	if n.Categories != 0 || err == nil {
		t.Fatalf("second run: %+v, %v", n, err)
	}
}

func TestParseSeedRejectsUnknownFields(t *testing.T) {
	if _, err := parseSeed(strings.NewReader("categories:\n  - nme: typo\n")); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestScoreCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"score", "--expected", "I know that", "--spoken", "I no that", "--tips"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	var got struct {
		Score float64 `json:"score"`
		Tips  []struct {
			Word string `json:"word"`
			Tip  string `json:"tip"`
		} `json:"tips"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode %q: %v", out.String(), err)
	}
	if got.Score != 66.67 || len(got.Tips) != 1 || got.Tips[0].Tip != "Silent k" {
		t.Fatalf("output = %+v", got)
	}
}
