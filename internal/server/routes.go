package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Love Quiz API", "/openapi.json", "/docs"))

	r.Route("/api/quiz", func(r chi.Router) {
		r.Use(limitBody)
		r.Post("/session", handleCreateSession(logger, deps.Store))
		r.Post("/complete", handleComplete(logger, deps))
		r.Post("/progress", handleProgress(deps.Engine))
		r.Get("/result/{id}", handleGetResult(logger, deps.Store, deps.Engine))
		r.Put("/result/{id}/email", handleUpdateEmail(logger, deps.Store))
		r.Post("/share", handleShare(deps.SiteURL))
	})

	r.Get("/api/archetypes", handleListArchetypes())
	r.Get("/api/archetypes/grid", handleArchetypeGrid())

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
