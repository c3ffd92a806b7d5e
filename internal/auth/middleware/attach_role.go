// internal/auth/middleware/attach_role.go
package auth

import (
	"errors"
	"net/http"

	"github.com/edmedpublic-hub/Reading-Platform/internal/rbac"
	"github.com/edmedpublic-hub/Reading-Platform/internal/users"
)

// AttachRoleFromDB replaces the token's role with the stored one so role
// changes apply before the token expires. Anonymous requests pass through.
// allowClaimFallback=true in offline mode keeps the claim role when the
// lookup fails for reasons other than a missing user.
func AttachRoleFromDB(us UserLookup, allowClaimFallback bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sub := rbac.SubjectFromContext(ctx)
			if sub == "" {
				next.ServeHTTP(w, r)
				return
			}

			u, err := us.Get(ctx, sub)
			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(rbac.WithRole(ctx, u.Role)))
			case errors.Is(err, users.ErrNotFound):
				http.Error(w, "unknown user", http.StatusUnauthorized)
			case allowClaimFallback:
				next.ServeHTTP(w, r)
			default:
				http.Error(w, "forbidden", http.StatusForbidden)
			}
		})
	}
}
