package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/edmedpublic-hub/Reading-Platform/internal/db"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

var _ Store = (*SQLStore)(nil)

/* ---------------- categories ---------------- */

func (s *SQLStore) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM book_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) CreateCategory(ctx context.Context, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, fmt.Errorf("%w: category name required", ErrInvalid)
	}
	c := Category{Name: name}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO book_categories (name) VALUES ($1) RETURNING id`, name).Scan(&c.ID)
	if err != nil {
		return Category{}, db.Classify(err)
	}
	return c, nil
}

/* ---------------- books ---------------- */

func (s *SQLStore) ListBooks(ctx context.Context, categoryID *int64) ([]Book, error) {
	q := `SELECT id, title, category_id, ord FROM books`
	args := []any{}
	if categoryID != nil {
		q += ` WHERE category_id = $1`
		args = append(args, *categoryID)
	}
	q += ` ORDER BY ord, title`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.CategoryID, &b.Order); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetBook(ctx context.Context, id int64) (Book, error) {
	var b Book
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, category_id, ord FROM books WHERE id=$1`, id).
		Scan(&b.ID, &b.Title, &b.CategoryID, &b.Order)
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	return b, err
}

func (s *SQLStore) CreateBook(ctx context.Context, b Book) (Book, error) {
	b.Title = strings.TrimSpace(b.Title)
	if b.Title == "" {
		return Book{}, fmt.Errorf("%w: book title required", ErrInvalid)
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO books (title, category_id, ord) VALUES ($1,$2,$3) RETURNING id`,
		b.Title, b.CategoryID, b.Order).Scan(&b.ID)
	if err != nil {
		return Book{}, db.Classify(err)
	}
	return b, nil
}

/* ---------------- units ---------------- */

func (s *SQLStore) ListUnits(ctx context.Context, bookID int64) ([]Unit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, book_id, ord FROM units WHERE book_id=$1 ORDER BY ord, title`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Unit{}
	for rows.Next() {
		var u Unit
		if err := rows.Scan(&u.ID, &u.Title, &u.BookID, &u.Order); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetUnit(ctx context.Context, id int64) (Unit, error) {
	var u Unit
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, book_id, ord FROM units WHERE id=$1`, id).
		Scan(&u.ID, &u.Title, &u.BookID, &u.Order)
	if errors.Is(err, sql.ErrNoRows) {
		return Unit{}, ErrNotFound
	}
	return u, err
}

func (s *SQLStore) CreateUnit(ctx context.Context, u Unit) (Unit, error) {
	u.Title = strings.TrimSpace(u.Title)
	if u.Title == "" {
		return Unit{}, fmt.Errorf("%w: unit title required", ErrInvalid)
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO units (title, book_id, ord) VALUES ($1,$2,$3) RETURNING id`,
		u.Title, u.BookID, u.Order).Scan(&u.ID)
	if err != nil {
		return Unit{}, db.Classify(err)
	}
	return u, nil
}

/* ---------------- lessons ---------------- */

const lessonCols = `id, title, unit_id, content, ord, created_at, updated_at`

func scanLesson(sc interface{ Scan(...any) error }) (Lesson, error) {
	var (
		l    Lesson
		unit sql.NullInt64
	)
	if err := sc.Scan(&l.ID, &l.Title, &unit, &l.Content, &l.Order, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return Lesson{}, err
	}
	if unit.Valid {
		l.UnitID = &unit.Int64
	}
	return l, nil
}

func (s *SQLStore) ListLessons(ctx context.Context, unitID *int64) ([]Lesson, error) {
	q := `SELECT ` + lessonCols + ` FROM lessons`
	args := []any{}
	if unitID != nil {
		q += ` WHERE unit_id = $1`
		args = append(args, *unitID)
	}
	q += ` ORDER BY ord, title`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Lesson{}
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetLesson(ctx context.Context, id int64) (Lesson, error) {
	l, err := scanLesson(s.db.QueryRowContext(ctx,
		`SELECT `+lessonCols+` FROM lessons WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Lesson{}, ErrNotFound
	}
	return l, err
}

func validLesson(l *Lesson) error {
	l.Title = strings.TrimSpace(l.Title)
	if l.Title == "" {
		return fmt.Errorf("%w: lesson title required", ErrInvalid)
	}
	if strings.TrimSpace(l.Content) == "" {
		return fmt.Errorf("%w: lesson content required", ErrInvalid)
	}
	return nil
}

func (s *SQLStore) CreateLesson(ctx context.Context, l Lesson) (Lesson, error) {
	if err := validLesson(&l); err != nil {
		return Lesson{}, err
	}
	now := time.Now().Unix()
	l.CreatedAt, l.UpdatedAt = now, now
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO lessons (title, unit_id, content, ord, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		l.Title, nullID(l.UnitID), l.Content, l.Order, now, now).Scan(&l.ID)
	if err != nil {
		return Lesson{}, db.Classify(err)
	}
	return l, nil
}

// UpdateLesson replaces title, content, order and unit of an existing lesson.
func (s *SQLStore) UpdateLesson(ctx context.Context, l Lesson) (Lesson, error) {
	if err := validLesson(&l); err != nil {
		return Lesson{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE lessons SET title=$1, unit_id=$2, content=$3, ord=$4, updated_at=$5 WHERE id=$6`,
		l.Title, nullID(l.UnitID), l.Content, l.Order, time.Now().Unix(), l.ID)
	if err != nil {
		return Lesson{}, db.Classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Lesson{}, ErrNotFound
	}
	return s.GetLesson(ctx, l.ID)
}

func (s *SQLStore) DeleteLesson(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lessons WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
