package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/seokit/internal/seoservice"
)

// NewRouter creates a chi router with the public generation endpoints and
// the admin surface. Admin routes sit behind AuthMiddleware.
func NewRouter(svc *seoservice.Service, auth AuthOptions) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	// Crawler-facing documents.
	r.Get("/robots.txt", h.Robots)
	r.Get("/sitemap.xml", h.Sitemap)

	// Public metadata for page rendering.
	r.Get("/api/metadata", h.Metadata)
	r.Get("/api/head", h.Head)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(auth))

		r.Get("/api/settings", h.GetSettings)
		r.Put("/api/settings", h.UpdateSettings)
		r.Post("/api/sitemap/regenerate", h.Regenerate)

		r.Get("/admin/seo", h.SettingsForm)
		r.Post("/admin/seo", h.SubmitSettingsForm)
	})

	return r
}
