package login

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

// AdminAuthority is the authority required by the administrative routes
const AdminAuthority = "ROLE_ADMIN"

// contextKey is a value for use with context.WithValue. It's used as
// a pointer so it fits in an interface{} without allocation.
type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "login context value " + k.name
}

var (
	AuthUserKey = &contextKey{"AuthUser"}
)

// AuthUserFromContext returns the principal placed by AuthUserMiddleware
func AuthUserFromContext(ctx context.Context) (*AuthUser, bool) {
	authUser, ok := ctx.Value(AuthUserKey).(*AuthUser)
	return authUser, ok
}

func loadFromMap[T any](m map[string]interface{}, c *T) error {
	data, err := json.Marshal(m)
	if err == nil {
		err = json.Unmarshal(data, c)
	}
	return err
}

// AuthUserMiddleware decodes the verified token claims into an AuthUser and
// stores it on the request context.
func AuthUserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			em := fmt.Errorf("missing jwt: %w", err)
			http.Error(w, em.Error(), http.StatusUnauthorized)
			return
		}

		customClaims, ok := claims["custom_claims"].(map[string]interface{})
		if !ok {
			http.Error(w, "missing claims", http.StatusUnauthorized)
			return
		}

		authUser := new(AuthUser)
		if err := loadFromMap(customClaims, authUser); err != nil {
			em := fmt.Errorf("invalid claims: %w", err)
			http.Error(w, em.Error(), http.StatusUnauthorized)
			return
		}
		if authUser.Username == "" {
			http.Error(w, "missing username", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), AuthUserKey, authUser)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminRoleMiddleware denies access unless the authenticated user carries
// the admin authority.
func AdminRoleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authUser, ok := AuthUserFromContext(r.Context())
		if !ok {
			slog.Error("Failed to get authenticated user from context")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if !authUser.HasAuthority(AdminAuthority) {
			slog.Warn("User attempted to access admin-only resource",
				"username", authUser.Username,
				"roles", authUser.Authorities)
			http.Error(w, "Forbidden: Admin role required", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Verifier checks the JWT from the Authorization header or the access token cookie
func Verifier(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return jwtauth.Verify(ja, jwtauth.TokenFromHeader, TokenFromCookie)(next)
	}
}

// TokenFromCookie reads the access token cookie set at login
func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(AccessTokenName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
