package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckerPolicy(t *testing.T) {
	c := NewChecker(nil)
	tests := []struct {
		role, perm string
		want       bool
	}{
		{"student", PermCatalogView, true},
		{"student", PermAttemptCreate, true},
		{"student", PermCatalogEdit, false},
		{"student", PermAttemptViewAll, false},
		{"teacher", PermCatalogEdit, true},
		{"teacher", PermAttemptViewAll, true},
		{"admin", "anything:at-all", true},
		{"", PermCatalogView, false},
		{"guest", PermCatalogView, false},
	}
	for _, tt := range tests {
		if got := c.Has(tt.role, tt.perm); got != tt.want {
			t.Fatalf("Has(%q, %q) = %v", tt.role, tt.perm, got)
		}
	}

	wild := NewChecker(map[string][]string{"ops": {"attempt:*"}})
	if !wild.Has("ops", PermAttemptViewAll) || wild.Has("ops", PermCatalogEdit) {
		t.Fatal("prefix wildcard mismatch")
	}
}

func TestRequire(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := Require(PermCatalogEdit)(ok)

	for role, want := range map[string]int{
		"":        http.StatusForbidden,
		"student": http.StatusForbidden,
		"teacher": http.StatusNoContent,
	} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithRole(req.Context(), role))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != want {
			t.Fatalf("role %q: status %d, want %d", role, rr.Code, want)
		}
	}

	either := RequireAny(PermAttemptViewOwn, PermAttemptViewAll)(ok)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), "student"))
	rr := httptest.NewRecorder()
	either.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("RequireAny status %d", rr.Code)
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := WithSubject(WithRole(context.Background(), "teacher"), "u1")
	if SubjectFromContext(ctx) != "u1" || RoleFromContext(ctx) != "teacher" {
		t.Fatal("context values lost")
	}
	if !Can(ctx, PermAttemptViewAll) || Can(context.Background(), PermCatalogView) {
		t.Fatal("Can mismatch")
	}
}
