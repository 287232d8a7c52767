package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notepad/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events; the stream also accepts
// the token as an access_token query parameter.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)
	if !authEnabled {
		token = ""
	}

	r := chi.NewRouter()
	if sseHandler != nil {
		r.With(RequireBearer(token, true)).Get("/events", sseHandler.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(RequireBearer(token, false))
		routes(r, h)
	})
	return r
}

func routes(r chi.Router, h *Handler) {
	r.Route("/notes", func(r chi.Router) {
		r.Get("/", h.ListNotes)
		r.Post("/", h.CreateNote)
		r.Put("/{id}/text", h.UpdateNoteText)
		r.Put("/{id}/completion", h.SetCompletion)
		r.Delete("/{id}", h.DeleteNote)
	})

	r.Route("/reminders/{userID}/{noteID}", func(r chi.Router) {
		r.Get("/", h.ReminderExists)
		r.Put("/", h.CreateReminder)
		r.Delete("/", h.RemoveReminder)
	})

	r.Post("/companies", h.CreateCompany)
	r.Post("/companies/lookup", h.LookupCompanies)
}
