package catalog

import (
	"context"
	"errors"

	"github.com/edmedpublic-hub/Reading-Platform/internal/db"
)

var (
	ErrNotFound         = errors.New("catalog: not found")
	ErrInvalid          = errors.New("catalog: invalid input")
	ErrConflict         = db.ErrConflict
	ErrInvalidReference = db.ErrInvalidReference
)

type Store interface {
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, name string) (Category, error)

	ListBooks(ctx context.Context, categoryID *int64) ([]Book, error)
	GetBook(ctx context.Context, id int64) (Book, error)
	CreateBook(ctx context.Context, b Book) (Book, error)

	ListUnits(ctx context.Context, bookID int64) ([]Unit, error)
	GetUnit(ctx context.Context, id int64) (Unit, error)
	CreateUnit(ctx context.Context, u Unit) (Unit, error)

	ListLessons(ctx context.Context, unitID *int64) ([]Lesson, error)
	GetLesson(ctx context.Context, id int64) (Lesson, error)
	CreateLesson(ctx context.Context, l Lesson) (Lesson, error)
	UpdateLesson(ctx context.Context, l Lesson) (Lesson, error)
	DeleteLesson(ctx context.Context, id int64) error
}
