package users

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/edmedpublic-hub/Reading-Platform/internal/db"
)

func newStore(t *testing.T) *SQLStore {
	t.Helper()
	conn, err := db.Open(context.Background(), db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewSQLStore(conn)
}

func cheapHash(t *testing.T, pw string) string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestCreateAndLookup(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u, err := s.Create(ctx, User{Username: " ann ", PasswordHash: cheapHash(t, "pw")})
	if err != nil {
		t.Fatal(err)
	}
	if u.ID == "" || u.Role != RoleStudent || u.Username != "ann" {
		t.Fatalf("created = %+v", u)
	}

	got, err := s.ByUsername(ctx, "ann")
	if err != nil || got.ID != u.ID {
		t.Fatalf("ByUsername = %+v, %v", got, err)
	}
	if !got.CheckPassword("pw") || got.CheckPassword("nope") {
		t.Fatal("password check mismatch")
	}
	if _, err := s.Get(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing: %v", err)
	}

	if _, err := s.Create(ctx, User{Username: "ann", PasswordHash: "x"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate: %v", err)
	}
	if _, err := s.Create(ctx, User{Username: "bob", PasswordHash: "x", Role: "root"}); err == nil {
		t.Fatal("expected invalid role error")
	}
}

func TestEnsureAdmin(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created, err := s.EnsureAdmin(ctx, "admin", "")
	if err != nil || created {
		t.Fatalf("empty hash: %v, %v", created, err)
	}
	created, err = s.EnsureAdmin(ctx, "admin", cheapHash(t, "secret"))
	if err != nil || !created {
		t.Fatalf("first: %v, %v", created, err)
	}
	created, err = s.EnsureAdmin(ctx, "admin", cheapHash(t, "other"))
	if err != nil || created {
		t.Fatalf("second: %v, %v", created, err)
	}
	u, _ := s.ByUsername(ctx, "admin")
	if u.Role != RoleAdmin || !u.CheckPassword("secret") {
		t.Fatalf("admin = %+v", u)
	}
}

func TestCreateGuest(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a, err := s.CreateGuest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.CreateGuest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID || a.Username == b.Username || a.Role != RoleStudent {
		t.Fatalf("guests = %+v, %+v", a, b)
	}
	got, err := s.Get(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CheckPassword("") {
		t.Fatal("guest must not pass password login")
	}
}
