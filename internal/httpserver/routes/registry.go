package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/prefire/internal/httpserver/deps"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	reg Registrar
	mws []Middleware
	api bool
}

var registry []entry

// Register a root-level registrar with optional per-route middlewares.
func Register(reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{reg: reg, mws: mws})
}

// RegisterAPI registers under /api, behind the API middlewares given to
// RegisterAll.
func RegisterAPI(reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{reg: reg, mws: mws, api: true})
}

// Called once from server.New()
func RegisterAll(r chi.Router, d deps.Deps, apiMws ...Middleware) {
	r.Route("/api", func(api chi.Router) {
		api.Use(apiMws...)
		for _, e := range registry {
			if e.api {
				mount(api, e, d)
			}
		}
	})
	for _, e := range registry {
		if !e.api {
			mount(r, e, d)
		}
	}
}

func mount(r chi.Router, e entry, d deps.Deps) {
	if len(e.mws) == 0 {
		e.reg(r, d)
		return
	}
	e.reg(r.With(e.mws...), d)
}
