package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/prefire/internal/httpserver/deps"
	"github.com/MrSnakeDoc/prefire/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerEditions) }

func registerEditions(r chi.Router, d deps.Deps) {
	r.Get("/editions", handlers.Editions(d))
	r.Get("/editions/{code}", handlers.Edition(d))
	r.Get("/options", handlers.Options(d))
}
