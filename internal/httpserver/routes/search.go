package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/prefire/internal/httpserver/deps"
	"github.com/MrSnakeDoc/prefire/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerSearch) }

func registerSearch(r chi.Router, d deps.Deps) {
	r.Get("/search", handlers.SearchQuery(d))
	r.Post("/search", handlers.SearchBody(d))
	r.Get("/query", handlers.Query(d))
	r.Get("/pages", handlers.Pages(d))
}
