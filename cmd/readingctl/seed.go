package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/edmedpublic-hub/Reading-Platform/internal/catalog"
)

var seedCmd = &cobra.Command{
	Use:   "seed <catalog.yaml>",
	Short: "Load categories, books, units and lessons from YAML",
	Long: `Seed creates the catalog described by a YAML file:

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
                  content: The quick brown fox jumps over the lazy dog.
  lessons:
    - title: Warm-up
      content: I can read this.

Existing categories are reused by name.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

type seedLesson struct {
	Title   string `yaml:"title"`
	Order   int    `yaml:"order"`
	Content string `yaml:"content"`
}

type seedUnit struct {
	Title   string       `yaml:"title"`
	Order   int          `yaml:"order"`
	Lessons []seedLesson `yaml:"lessons"`
}

type seedBook struct {
	Title string     `yaml:"title"`
	Order int        `yaml:"order"`
	Units []seedUnit `yaml:"units"`
}

type seedCategory struct {
	Name  string     `yaml:"name"`
	Books []seedBook `yaml:"books"`
}

type seedFile struct {
	Categories []seedCategory `yaml:"categories"`
	Lessons    []seedLesson   `yaml:"lessons"` // not filed under a unit
}

type seedCounts struct {
	Categories, Books, Units, Lessons int
}

func parseSeed(r io.Reader) (seedFile, error) {
	var f seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return f, fmt.Errorf("parse seed: %w", err)
	}
	return f, nil
}

func applySeed(ctx context.Context, store catalog.Store, f seedFile) (seedCounts, error) {
	var n seedCounts
	existing, err := store.ListCategories(ctx)
	if err != nil {
		return n, err
	}
	byName := make(map[string]int64, len(existing))
	for _, c := range existing {
		byName[strings.ToLower(c.Name)] = c.ID
	}

	for _, sc := range f.Categories {
		catID, ok := byName[strings.ToLower(strings.TrimSpace(sc.Name))]
		if !ok {
			c, err := store.CreateCategory(ctx, sc.Name)
			if err != nil {
				return n, fmt.Errorf("category %q: %w", sc.Name, err)
			}
			catID = c.ID
			byName[strings.ToLower(c.Name)] = c.ID
			n.Categories++
		}
		for _, sb := range sc.Books {
			b, err := store.CreateBook(ctx, catalog.Book{Title: sb.Title, CategoryID: catID, Order: sb.Order})
			if err != nil {
				return n, fmt.Errorf("book %q: %w", sb.Title, err)
			}
			n.Books++
			for _, su := range sb.Units {
				u, err := store.CreateUnit(ctx, catalog.Unit{Title: su.Title, BookID: b.ID, Order: su.Order})
				if err != nil {
					return n, fmt.Errorf("unit %q: %w", su.Title, err)
				}
				n.Units++
				for _, sl := range su.Lessons {
					if _, err := store.CreateLesson(ctx, catalog.Lesson{Title: sl.Title, UnitID: &u.ID, Content: sl.Content, Order: sl.Order}); err != nil {
						return n, fmt.Errorf("lesson %q: %w", sl.Title, err)
					}
					n.Lessons++
				}
			}
		}
	}
	for _, sl := range f.Lessons {
		if _, err := store.CreateLesson(ctx, catalog.Lesson{Title: sl.Title, Content: sl.Content, Order: sl.Order}); err != nil {
			return n, fmt.Errorf("lesson %q: %w", sl.Title, err)
		}
		n.Lessons++
	}
	return n, nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	fh, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer fh.Close()
	f, err := parseSeed(fh)
	if err != nil {
		return err
	}

	dbh, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer dbh.Close()

	n, err := applySeed(cmd.Context(), catalog.NewSQLStore(dbh), f)
	log.Info("seed applied", "categories", n.Categories, "books", n.Books, "units", n.Units, "lessons", n.Lessons)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %d categories, %d books, %d units, %d lessons\n",
		n.Categories, n.Books, n.Units, n.Lessons)
	return nil
}
