package api

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the study endpoints under /api.
func RegisterRoutes(r chi.Router, h *StudyHandler) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/folders", h.ListFolders)
		r.Get("/folders/{folder}/topics", h.ListTopics)
		r.Get("/folders/{folder}/stats", h.FolderStats)

		r.Route("/session", func(r chi.Router) {
			r.Post("/", h.StartSession)
			r.Get("/", h.GetSession)
			r.Post("/hint", h.RevealHint)
			r.Post("/answer", h.SubmitAnswer)
			r.Post("/verdict", h.ResolveVerdict)
		})
	})
}
