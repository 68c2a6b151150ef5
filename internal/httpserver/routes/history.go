package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/prefire/internal/httpserver/deps"
	"github.com/MrSnakeDoc/prefire/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerHistory) }

func registerHistory(r chi.Router, d deps.Deps) {
	r.Get("/history", handlers.History(d))
	r.Delete("/history", handlers.ClearHistory(d))
	r.Get("/saved", handlers.Saved(d))
	r.Post("/saved", handlers.SaveSearch(d))
	r.Delete("/saved/{index}", handlers.RemoveSaved(d))
}
