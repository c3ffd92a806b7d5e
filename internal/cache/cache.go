// Package cache keeps lesson text close to the scorer so repeated attempts
// on the same lesson skip the database.
package cache

import "context"

// LessonText caches lesson content by lesson id. A miss is ("", false, nil).
type LessonText interface {
	Get(ctx context.Context, lessonID int64) (string, bool, error)
	Set(ctx context.Context, lessonID int64, text string) error
	Invalidate(ctx context.Context, lessonID int64) error
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, int64) (string, bool, error) { return "", false, nil }
func (Nop) Set(context.Context, int64, string) error         { return nil }
func (Nop) Invalidate(context.Context, int64) error          { return nil }
