package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkpot-app/inkpot/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes CRUD and filtering.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/{id}", h.GetNote)
	r.Put("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)

	// Tag usage counts.
	r.Get("/tags", h.TagCounts)

	// Trash lifecycle.
	r.Get("/trash", h.ListTrash)
	r.Post("/trash/{id}/restore", h.RestoreNote)
	r.Delete("/trash/{id}", h.PurgeNote)
	r.Delete("/trash", h.EmptyTrash)

	// Version history.
	r.Get("/notes/{id}/versions", h.ListVersions)
	r.Post("/notes/{id}/versions", h.SaveVersion)
	r.Post("/versions/{id}/restore", h.RestoreVersion)
	r.Delete("/versions/{id}", h.DeleteVersion)

	// Open-notes session.
	r.Get("/session", h.GetSession)
	r.Post("/session/open", h.OpenNote)
	r.Post("/session/close", h.CloseNote)
	r.Post("/session/move", h.MoveCurrent)
	r.Put("/session/max", h.SetMaxOpen)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
