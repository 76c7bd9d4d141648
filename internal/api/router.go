package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/tubefilter/internal/api/handlers"
	"github.com/nikhilbhutani/tubefilter/internal/api/middleware"
	"github.com/nikhilbhutani/tubefilter/internal/auth"
	"github.com/nikhilbhutani/tubefilter/internal/config"
	"github.com/nikhilbhutani/tubefilter/internal/filter"
	"github.com/nikhilbhutani/tubefilter/internal/metrics"
)

// Deps are the services the router exposes. Audit and Metrics may be nil.
type Deps struct {
	Filter  *filter.Service
	Audit   handlers.AuditReader
	Metrics *metrics.Metrics
	Checks  map[string]handlers.Check
}

type Router struct {
	mux     *chi.Mux
	cfg     *config.Config
	deps    Deps
	jwt     *auth.JWTMiddleware
	limiter *middleware.RateLimiter
}

func NewRouter(cfg *config.Config, deps Deps) *Router {
	return &Router{
		mux:     chi.NewRouter(),
		cfg:     cfg,
		deps:    deps,
		jwt:     auth.NewJWTMiddleware(cfg.Auth.AdminJWTSecret),
		limiter: middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	}
}

// Start runs background housekeeping until ctx is done.
func (rt *Router) Start(ctx context.Context) {
	rt.limiter.Start(ctx)
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.cfg.Server.CORSOrigins))

	// Health endpoints (no auth, no rate limit)
	health := handlers.NewHealthHandler(rt.deps.Checks)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	if rt.deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", rt.deps.Metrics.Handler())
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.limiter.Limit)

		filterH := handlers.NewFilterHandler(rt.deps.Filter)
		r.Route("/filter", func(r chi.Router) {
			r.Post("/check", filterH.Check)
			r.Post("/batch", filterH.Batch)
		})

		adminH := handlers.NewAdminHandler(rt.deps.Filter)
		auditH := handlers.NewAuditHandler(rt.deps.Audit)
		r.Route("/admin", func(r chi.Router) {
			r.Use(rt.jwt.Authenticate)

			r.With(auth.RequirePermission(auth.PermAuditRead)).Get("/audit", auditH.AuditLogs)

			r.Route("/filter", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(auth.RequirePermission(auth.PermFilterRead))
					r.Get("/", adminH.GetConfig)
					r.Get("/categories", adminH.ListCategories)
					r.Get("/whitelist", adminH.ListWhitelist)
					r.Get("/keywords", adminH.ListKeywords)
				})

				r.Group(func(r chi.Router) {
					r.Use(auth.RequirePermission(auth.PermFilterWrite))
					r.Patch("/", adminH.PatchFlags)
					r.Put("/", adminH.ReplaceConfig)
					r.Put("/categories", adminH.UpdateCategories)
					r.Patch("/categories", adminH.ToggleCategory)
					r.Post("/whitelist", adminH.AddWhitelist)
					r.Delete("/whitelist", adminH.RemoveWhitelist)
					r.Post("/keywords", adminH.AddKeyword)
					r.Delete("/keywords", adminH.RemoveKeyword)
				})
			})
		})
	})

	return r
}
