package middleware

import (
	"net/http"

	"github.com/frahmantamala/revenue-management/internal"
	"github.com/frahmantamala/revenue-management/internal/access"
	"github.com/frahmantamala/revenue-management/internal/auth"
	"github.com/frahmantamala/revenue-management/pkg/logger"
)

// RoleResolver maps an identity to its access role. *access.Engine implements it.
type RoleResolver interface {
	ResolveRole(id *access.Identity) access.Role
}

// UserContext adds the caller's resolved role to the request logger. It runs after AuthMiddleware.
func UserContext(resolver RoleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := logger.With(r.Context(), "role", resolver.ResolveRole(user.Identity()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Locale negotiates the masking locale from Accept-Language. Requests without the header keep the
// configured default.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept := r.Header.Get("Accept-Language")
		if accept == "" {
			next.ServeHTTP(w, r)
			return
		}
		tag := access.MatchLocale(accept)
		w.Header().Set("Content-Language", tag.String())
		next.ServeHTTP(w, r.WithContext(internal.ContextWithLocale(r.Context(), tag)))
	})
}
