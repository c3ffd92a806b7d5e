package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/edmedpublic-hub/Reading-Platform/internal/db"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrConflict = db.ErrConflict
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"

	GuestPrefix = "guest|"
)

type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	CreatedAt    int64  `json:"created_at"`
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func (u User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type SQLStore struct{ db *sql.DB }

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

const userCols = `id, username, password_hash, role, created_at`

func (s *SQLStore) scan(row *sql.Row) (User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (User, error) {
	return s.scan(s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
}

func (s *SQLStore) ByUsername(ctx context.Context, username string) (User, error) {
	return s.scan(s.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE username=$1`, strings.TrimSpace(username)))
}

// Create inserts u, generating an id when empty. PasswordHash must already
// be a bcrypt hash.
func (s *SQLStore) Create(ctx context.Context, u User) (User, error) {
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" || u.PasswordHash == "" {
		return User{}, errors.New("username and password required")
	}
	if u.Role == "" {
		u.Role = RoleStudent
	}
	if !ValidRole(u.Role) {
		return User{}, fmt.Errorf("invalid role %q", u.Role)
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, role, created_at) VALUES ($1,$2,$3,$4,$5)`,
		u.ID, u.Username, u.PasswordHash, u.Role, u.CreatedAt)
	if err != nil {
		return User{}, db.Classify(err)
	}
	return u, nil
}

// CreateGuest inserts a passwordless student. Guests cannot use password
// login; they come back through their guest cookie.
func (s *SQLStore) CreateGuest(ctx context.Context) (User, error) {
	sfx := strconv.FormatInt(time.Now().UnixNano(), 36)
	u := User{
		ID:        GuestPrefix + sfx,
		Username:  "guest-" + sfx[len(sfx)-6:] + "-" + uuid.NewString()[:4],
		Role:      RoleStudent,
		CreatedAt: time.Now().Unix(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, role, created_at) VALUES ($1,$2,'',$3,$4)`,
		u.ID, u.Username, u.Role, u.CreatedAt)
	if err != nil {
		return User{}, db.Classify(err)
	}
	return u, nil
}

// EnsureAdmin creates the bootstrap admin when missing. An existing user
// with that name is left untouched. Empty hash is a no-op.
func (s *SQLStore) EnsureAdmin(ctx context.Context, username, passHash string) (bool, error) {
	if strings.TrimSpace(username) == "" || passHash == "" {
		return false, nil
	}
	if _, err := s.ByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	_, err := s.Create(ctx, User{Username: username, PasswordHash: passHash, Role: RoleAdmin})
	if errors.Is(err, ErrConflict) {
		return false, nil
	}
	return err == nil, err
}
