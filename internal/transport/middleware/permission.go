package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/revenue-management/internal/access"
	"github.com/frahmantamala/revenue-management/internal/auth"
	"github.com/frahmantamala/revenue-management/internal/core/events"
	"github.com/frahmantamala/revenue-management/internal/transport"
)

// Authorizer decides module access for an identity. *access.Engine implements it.
type Authorizer interface {
	Authorize(id *access.Identity, module access.Module, required access.Level) access.Decision
}

// ModuleGuard is the explicit gate in front of module routes.
type ModuleGuard struct {
	*transport.BaseHandler
	authorizer Authorizer
	events     events.Publisher
}

func NewModuleGuard(authorizer Authorizer, publisher events.Publisher, logger *slog.Logger) *ModuleGuard {
	return &ModuleGuard{
		BaseHandler: transport.NewBaseHandler(logger),
		authorizer:  authorizer,
		events:      publisher,
	}
}

// RequireModule lets the request through only when the caller's role grants at least required on module.
// Denied requests get a 403 with the decision payload and an access.denied event.
func (g *ModuleGuard) RequireModule(module access.Module, required access.Level) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _ := auth.UserFromContext(r.Context())
			decision := g.authorizer.Authorize(user.Identity(), module, required)
			if decision.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			var userID int64
			if user != nil {
				userID = user.ID
			}
			g.Logger.WarnContext(r.Context(), "access denied: insufficient module level",
				"user_id", userID,
				"role", decision.Role,
				"module", decision.Module,
				"required_level", decision.Required,
				"granted_level", decision.Granted)

			if g.events != nil {
				evt := events.NewAccessDeniedEvent(userID, decision.Role.String(), decision.Module.String(),
					decision.Required.String(), decision.Granted.String(), r.URL.Path)
				if err := g.events.Publish(r.Context(), evt); err != nil {
					g.Logger.ErrorContext(r.Context(), "failed to publish access denied event", "error", err)
				}
			}

			g.WriteJSON(w, http.StatusForbidden, decision.Denial())
		})
	}
}
