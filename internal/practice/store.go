package practice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/edmedpublic-hub/Reading-Platform/internal/grading"
)

type Store interface {
	Create(ctx context.Context, a Attempt) error
	Get(ctx context.Context, id string) (Attempt, error)
	// ListRecent returns attempts newest first. Empty userID or nil
	// lessonID means no filter on that column.
	ListRecent(ctx context.Context, userID string, lessonID *int64, limit int) ([]Attempt, error)
}

type SQLStore struct{ db *sql.DB }

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

var _ Store = (*SQLStore)(nil)

// storedDetail is the JSON kept in attempts.verdicts_json.
type storedDetail struct {
	Verdicts []grading.Verdict `json:"verdicts"`
	Extras   []grading.Extra   `json:"extra_words"`
}

func (s *SQLStore) Create(ctx context.Context, a Attempt) error {
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().Unix()
	}
	buf, err := json.Marshal(storedDetail{Verdicts: a.Verdicts, Extras: a.Extras})
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO attempts (id, user_id, lesson_id, expected, spoken, score, verdicts_json, feedback, audio_key, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, nullString(a.UserID), nullID(a.LessonID), a.Expected, a.Spoken, a.Score,
		string(buf), a.Feedback, a.AudioKey, a.CreatedAt)
	return err
}

const attemptCols = `id, user_id, lesson_id, expected, spoken, score, verdicts_json, feedback, audio_key, created_at`

func scanAttempt(sc interface{ Scan(...any) error }) (Attempt, error) {
	var (
		a      Attempt
		user   sql.NullString
		lesson sql.NullInt64
		vjson  string
	)
	if err := sc.Scan(&a.ID, &user, &lesson, &a.Expected, &a.Spoken, &a.Score, &vjson, &a.Feedback, &a.AudioKey, &a.CreatedAt); err != nil {
		return Attempt{}, err
	}
	a.UserID = user.String
	if lesson.Valid {
		a.LessonID = &lesson.Int64
	}
	var d storedDetail
	if err := json.Unmarshal([]byte(vjson), &d); err != nil {
		return Attempt{}, err
	}
	a.Verdicts, a.Extras = d.Verdicts, d.Extras
	if a.Verdicts == nil {
		a.Verdicts = []grading.Verdict{}
	}
	if a.Extras == nil {
		a.Extras = []grading.Extra{}
	}
	return a, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Attempt, error) {
	a, err := scanAttempt(s.db.QueryRowContext(ctx, `SELECT `+attemptCols+` FROM attempts WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Attempt{}, ErrNotFound
	}
	return a, err
}

func (s *SQLStore) ListRecent(ctx context.Context, userID string, lessonID *int64, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 5
	}
	q := `SELECT ` + attemptCols + ` FROM attempts WHERE 1=1`
	args := []any{}
	if userID != "" {
		args = append(args, userID)
		q += ` AND user_id = $` + strconv.Itoa(len(args))
	}
	if lessonID != nil {
		args = append(args, *lessonID)
		q += ` AND lesson_id = $` + strconv.Itoa(len(args))
	}
	args = append(args, limit)
	q += ` ORDER BY created_at DESC, id DESC LIMIT $` + strconv.Itoa(len(args))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Attempt{}
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
