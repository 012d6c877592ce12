package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lineup-backend/internal/catalog"
	"github.com/DoyleJ11/lineup-backend/internal/hub"
	"github.com/DoyleJ11/lineup-backend/internal/saved"
	"github.com/DoyleJ11/lineup-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, cat catalog.Catalog, lib *saved.Library, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/formations", ListFormations(cat))
	r.Get("/ws", ws.Handler(h, cat, log))

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", CreateSession(h, log))
		r.Get("/{code}", GetSession(h))
		r.Post("/{code}/commands", PostCommand(h, cat))
		r.Get("/{code}/diff/{id}", GetDiff(h))
		r.Post("/{code}/load/{id}", PostLoad(h))
		r.Post("/{code}/save", PostSave(h))
	})

	r.Route("/lineups", func(r chi.Router) {
		r.Get("/", ListLineups(lib))
		r.Get("/{id}", GetLineup(lib))
		r.Patch("/{id}", PatchLineup(lib))
		r.Post("/{id}/duplicate", DuplicateLineup(lib))
		r.Delete("/{id}", DeleteLineup(lib))
	})
	return r
}
