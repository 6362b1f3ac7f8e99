package auth

import (
	"context"

	"github.com/frahmantamala/revenue-management/internal/access"
)

type ctxKey string

const ContextUserKey ctxKey = "user"

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

// IdentityFromContext returns the access identity of the request, or nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *access.Identity {
	u, _ := UserFromContext(ctx)
	return u.Identity()
}
