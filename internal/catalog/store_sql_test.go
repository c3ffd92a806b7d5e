package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/edmedpublic-hub/Reading-Platform/internal/db"
)

func newStore(t *testing.T) *SQLStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewSQLStore(conn)
}

// seedTree creates one category, book and unit.
func seedTree(t *testing.T, s *SQLStore) (Category, Book, Unit) {
	t.Helper()
	ctx := context.Background()
	c, err := s.CreateCategory(ctx, "Stories")
	if err != nil {
		t.Fatalf("category: %v", err)
	}
	b, err := s.CreateBook(ctx, Book{Title: "Book One", CategoryID: c.ID, Order: 1})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	u, err := s.CreateUnit(ctx, Unit{Title: "Unit One", BookID: b.ID, Order: 1})
	if err != nil {
		t.Fatalf("unit: %v", err)
	}
	return c, b, u
}

func TestCategoriesSortedByName(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	for _, n := range []string{"Poems", "Fables", "Science"} {
		if _, err := s.CreateCategory(ctx, n); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].Name != "Fables" || got[2].Name != "Science" {
		t.Fatalf("categories = %+v", got)
	}

	if _, err := s.CreateCategory(ctx, "Poems"); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate category: %v", err)
	}
	if _, err := s.CreateCategory(ctx, "  "); !errors.Is(err, ErrInvalid) {
		t.Fatalf("blank category: %v", err)
	}
}

func TestBooksAndUnits(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	c, b1, _ := seedTree(t, s)

	other, _ := s.CreateCategory(ctx, "Poems")
	if _, err := s.CreateBook(ctx, Book{Title: "Verse", CategoryID: other.ID, Order: 1}); err != nil {
		t.Fatal(err)
	}
	b0, err := s.CreateBook(ctx, Book{Title: "Book Zero", CategoryID: c.ID, Order: 0})
	if err != nil {
		t.Fatal(err)
	}

	books, err := s.ListBooks(ctx, &c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(books) != 2 || books[0].ID != b0.ID || books[1].ID != b1.ID {
		t.Fatalf("books = %+v", books)
	}
	all, _ := s.ListBooks(ctx, nil)
	if len(all) != 3 {
		t.Fatalf("all books = %d", len(all))
	}

	if _, err := s.CreateBook(ctx, Book{Title: "Clash", CategoryID: c.ID, Order: 1}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate order: %v", err)
	}
	if _, err := s.CreateBook(ctx, Book{Title: "Orphan", CategoryID: 404}); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("unknown category: %v", err)
	}
	if _, err := s.GetBook(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetBook: %v", err)
	}

	units, err := s.ListUnits(ctx, b1.ID)
	if err != nil || len(units) != 1 {
		t.Fatalf("units = %+v, %v", units, err)
	}
	if _, err := s.GetUnit(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetUnit: %v", err)
	}
}

func TestLessonLifecycle(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	_, _, u := seedTree(t, s)

	l2, err := s.CreateLesson(ctx, Lesson{Title: "Second", UnitID: &u.ID, Content: "The cat sat.", Order: 2})
	if err != nil {
		t.Fatal(err)
	}
	l1, err := s.CreateLesson(ctx, Lesson{Title: "First", UnitID: &u.ID, Content: "A dog ran.", Order: 1})
	if err != nil {
		t.Fatal(err)
	}
	loose, err := s.CreateLesson(ctx, Lesson{Title: "Loose", Content: "No unit here."})
	if err != nil {
		t.Fatal(err)
	}
	if loose.UnitID != nil {
		t.Fatalf("loose lesson has unit %v", *loose.UnitID)
	}

	inUnit, err := s.ListLessons(ctx, &u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(inUnit) != 2 || inUnit[0].ID != l1.ID || inUnit[1].ID != l2.ID {
		t.Fatalf("unit lessons = %+v", inUnit)
	}
	all, _ := s.ListLessons(ctx, nil)
	if len(all) != 3 {
		t.Fatalf("all lessons = %d", len(all))
	}

	if _, err := s.CreateLesson(ctx, Lesson{Title: "Dup", UnitID: &u.ID, Content: "x", Order: 1}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate order: %v", err)
	}
	if _, err := s.CreateLesson(ctx, Lesson{Title: "Empty", Content: " "}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("empty content: %v", err)
	}

	l1.Content = "A dog ran fast."
	l1.UnitID = nil
	got, err := s.UpdateLesson(ctx, l1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "A dog ran fast." || got.UnitID != nil || got.CreatedAt != l1.CreatedAt {
		t.Fatalf("updated lesson = %+v", got)
	}

	if err := s.DeleteLesson(ctx, l2.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetLesson(ctx, l2.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted lesson: %v", err)
	}
	if err := s.DeleteLesson(ctx, l2.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := s.UpdateLesson(ctx, Lesson{ID: 999, Title: "x", Content: "y"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing: %v", err)
	}
}
