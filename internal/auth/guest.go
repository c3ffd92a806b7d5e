package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	authmw "github.com/edmedpublic-hub/Reading-Platform/internal/auth/middleware"
	"github.com/edmedpublic-hub/Reading-Platform/internal/users"
)

const guestCookie = "reading_guest_id"

type GuestStore interface {
	Get(ctx context.Context, id string) (users.User, error)
	CreateGuest(ctx context.Context) (users.User, error)
}

// POST /auth/guest. Returns a student token for an anonymous reader,
// reusing the identity remembered in the guest cookie when it is still valid.
func GuestLoginHandler(a *authmw.AuthService, us GuestStore, secureCookie bool) http.HandlerFunc {
	type out struct {
		AccessToken string `json:"access_token"`
		Username    string `json:"username"`
	}
	setCookie := func(w http.ResponseWriter, id string) {
		c := &http.Cookie{
			Name:     guestCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Now().Add(30 * 24 * time.Hour),
		}
		if secureCookie {
			c.SameSite = http.SameSiteNoneMode
		}
		http.SetCookie(w, c)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		// 1) Reuse the guest from the cookie
		if c, err := r.Cookie(guestCookie); err == nil && strings.HasPrefix(c.Value, users.GuestPrefix) {
			if u, err := us.Get(r.Context(), c.Value); err == nil && u.Role == users.RoleStudent {
				tok, err := a.IssueJWT(u.ID, u.Role)
				if err != nil {
					http.Error(w, "issue token", http.StatusInternalServerError)
					return
				}
				setCookie(w, u.ID)
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(out{AccessToken: tok, Username: u.Username})
				return
			}
		}

		// 2) Create a new guest
		u, err := us.CreateGuest(r.Context())
		if err != nil {
			http.Error(w, "create guest", http.StatusInternalServerError)
			return
		}
		tok, err := a.IssueJWT(u.ID, u.Role)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		setCookie(w, u.ID)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out{AccessToken: tok, Username: u.Username})
	}
}
