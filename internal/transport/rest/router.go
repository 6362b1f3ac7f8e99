package rest

import (
	"database/sql"
	"log/slog"

	"github.com/frahmantamala/revenue-management/internal/access"
	"github.com/frahmantamala/revenue-management/internal/auth"
	"github.com/frahmantamala/revenue-management/internal/revenue"
	"github.com/frahmantamala/revenue-management/internal/transport/middleware"
	"github.com/frahmantamala/revenue-management/internal/transport/swagger"
	"github.com/frahmantamala/revenue-management/internal/user"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Routes carries the handlers and policy pieces the router mounts. Nil handlers skip their routes; Guard
// is required when User or Revenue is set.
type Routes struct {
	DB             *sql.DB
	Auth           *auth.Handler
	User           *user.Handler
	Revenue        *revenue.Handler
	Guard          *middleware.ModuleGuard
	Roles          middleware.RoleResolver
	RateLimiter    *middleware.IPRateLimiter
	OpenAPI        *openapi3.T
	AllowedOrigins string
	Logger         *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, routes Routes) {
	healthHandler := NewHealthHandler(routes.DB)

	// Apply global middleware
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(routes.Logger))
	router.Use(middleware.CORS(routes.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware(routes.Logger))
	router.Use(middleware.Locale)

	if routes.OpenAPI != nil {
		router.Get(swagger.SpecPath, swagger.SpecHandler(routes.OpenAPI))
		router.Handle("/swagger/*", swagger.Handler())
	}

	limited := func(r chi.Router) chi.Router {
		if routes.RateLimiter == nil {
			return r
		}
		return r.With(middleware.RateLimit(routes.RateLimiter))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if routes.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			limited(sr).Post("/login", routes.Auth.Login)
			sr.Post("/refresh", routes.Auth.RefreshToken)
			sr.Post("/logout", routes.Auth.Logout)
		})

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(routes.Auth.AuthMiddleware)
			if routes.Roles != nil {
				pr.Use(middleware.UserContext(routes.Roles))
			}

			if routes.User != nil {
				pr.Get("/users/me", routes.User.GetCurrentUser)
				pr.With(routes.Guard.RequireModule(access.ModuleAdmin, access.LevelReadOnly)).
					Get("/access/matrix", routes.User.GetAccessMatrix)
			}

			if routes.Revenue != nil {
				dashboard := routes.Guard.RequireModule(access.ModuleDashboard, access.LevelReadOnly)
				reports := routes.Guard.RequireModule(access.ModuleReports, access.LevelReadWrite)

				pr.Route("/revenues", func(rr chi.Router) {
					rr.With(dashboard).Get("/", routes.Revenue.ListRevenues)
					limited(rr.With(reports)).Get("/export", routes.Revenue.ExportRevenues)
					rr.With(dashboard).Get("/{id}", routes.Revenue.GetRevenue)
				})
				pr.With(dashboard).Get("/dashboard/summary", routes.Revenue.GetDashboardSummary)
			}
		})
	})
}
