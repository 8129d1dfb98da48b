package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/portfolioservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *portfolioservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Whole state and bundles.
	r.Get("/content", h.State)
	r.Get("/export", h.Export)
	r.Post("/import", h.Import)

	// Skills.
	r.Post("/skills/{cat}/items", h.AddSkill)
	r.Put("/skills/{cat}/items/{i}", h.UpdateSkill)
	r.Delete("/skills/{cat}/items/{i}", h.RemoveSkill)

	// Projects.
	r.Post("/projects/{i}/screenshots", h.AddScreenshot)
	r.Delete("/projects/{i}/screenshots/{s}", h.RemoveScreenshot)
	r.Put("/projects/{i}/media", h.UpdateProjectMedia)

	// Art.
	r.Route("/art/{cat}/items", func(r chi.Router) {
		r.Post("/", h.AddArtItem)
		r.Delete("/{i}", h.RemoveArtItem)
		r.Put("/{i}/url", h.UpdateArtItemURL)
		r.Post("/{i}/gallery", h.AddGalleryImage)
		r.Put("/{i}/gallery/{g}", h.UpdateGalleryImage)
		r.Delete("/{i}/gallery/{g}", h.RemoveGalleryImage)
	})

	// Loose overrides.
	r.Get("/overrides", h.ListOverrides)
	r.Get("/overrides/{kind}/{key}", h.GetOverride)
	r.Put("/overrides/{kind}/{key}", h.SetOverride)
	r.Delete("/overrides/{kind}/{key}", h.RemoveOverride)
	r.Post("/overrides/{kind}/{key}/upload", h.Upload)

	// Theme.
	r.Get("/theme", h.GetTheme)
	r.Put("/theme", h.SetTheme)

	// Edit session.
	r.Get("/session", h.SessionStatus)
	r.Post("/session/start", h.StartSession)
	r.Post("/session/finish", h.FinishSession)
	r.Post("/session/cancel", h.CancelSession)
	r.Post("/session/reset", h.FactoryReset)
	r.Post("/session/trigger", h.Trigger)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	// Generic repository CRUD.
	r.Get("/{repo}", h.ListRecords)
	r.Post("/{repo}", h.AddRecord)
	r.Delete("/{repo}/{index}", h.RemoveRecord)
	r.Patch("/{repo}/{index}", h.UpdateRecord)

	return r
}
