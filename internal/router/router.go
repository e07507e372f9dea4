// Package router sets up the HTTP routes and middleware chain for the
// docstudio API. Rendering endpoints sit behind the per-client render quota.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"docstudio/internal/handlers"
	"docstudio/internal/middleware"
)

// New creates the chi router with all routes wired up. A nil quota disables
// rate limiting.
func New(templates *handlers.Templates, contracts *handlers.Contracts, health http.Handler, quota *middleware.RenderQuota) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	limited := func(h http.HandlerFunc) http.Handler {
		if quota == nil {
			return h
		}
		return quota.Middleware(h)
	}

	r.Method(http.MethodGet, "/health", health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/fields", templates.Fields)

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", templates.List)
			r.Post("/", templates.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", templates.Get)
				r.Put("/", templates.Update)
				r.Delete("/", templates.Delete)
				r.Get("/layout", templates.Layout)

				r.Post("/structured/ops", templates.StructuredOps)
				r.Post("/structured/images", templates.StructuredImage)
				r.Post("/freeform/ops", templates.FreeformOps)
				r.Post("/freeform/images", templates.FreeformImage)

				r.Get("/preview", templates.Preview)
				r.Post("/preview", templates.Preview)
				r.Method(http.MethodGet, "/pdf", limited(templates.PDF))
				r.Method(http.MethodPost, "/pdf", limited(templates.PDF))
			})
		})

		r.Route("/contracts", func(r chi.Router) {
			r.Method(http.MethodPost, "/pdf", limited(contracts.PDF))
			r.Method(http.MethodPost, "/import", limited(contracts.Import))
		})

		r.Get("/documents", contracts.Documents)
	})

	return r
}
