package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"voltgrid/internal/http/handlers"
)

// RouterDeps collects handler and guard dependencies.
type RouterDeps struct {
	Types      *handlers.TypeHandlers
	Stations   *handlers.StationHandlers
	Connectors *handlers.ConnectorHandlers
	Tokens     *handlers.TokenHandlers
	Health     http.HandlerFunc

	BearerAuth  func(http.Handler) http.Handler
	RefreshAuth func(http.Handler) http.Handler
	APIKeyAuth  func(http.Handler) http.Handler
}

// NewRouter wires all HTTP routes. Every CRUD route sits behind the
// bearer guard; token generation and refresh carry their own guards.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", deps.Health)

	r.Route("/api/v1", func(api chi.Router) {
		api.Group(func(g chi.Router) {
			g.Use(deps.BearerAuth)

			g.Post("/cstype", deps.Types.Create)
			g.Get("/cstype", deps.Types.List)
			g.Get("/cstype/{id}", deps.Types.Get)
			g.Patch("/cstype/{id}", deps.Types.Update)

			g.Post("/cs", deps.Stations.Create)
			g.Get("/cs", deps.Stations.List)
			g.Get("/cs/{id}", deps.Stations.Get)
			g.Patch("/cs/{id}", deps.Stations.Update)

			g.Post("/connector", deps.Connectors.Create)
			g.Get("/connector", deps.Connectors.List)
			g.Get("/connector/{id}", deps.Connectors.Get)
			g.Patch("/connector/{id}", deps.Connectors.Update)
		})

		api.With(deps.APIKeyAuth).Post("/generatetoken", deps.Tokens.Generate)
		api.With(deps.RefreshAuth).Post("/refreshtoken", deps.Tokens.Refresh)
	})

	return r
}
