package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/prefire/internal/httpserver/deps"
	"github.com/MrSnakeDoc/prefire/internal/pagination"
)

type queryResponse struct {
	Query string `json:"query"`
}

// Query compiles the filters in the URL without searching.
func Query(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := requestFromQuery(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, queryResponse{Query: d.Search.Compile(req)})
	}
}

type pagesResponse struct {
	Current int                    `json:"current"`
	Total   int                    `json:"total"`
	Pages   []pagination.Indicator `json:"pages"`
}

// Pages previews the page-number bar.
func Pages(_ deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := r.URL.Query()
		current, err := intParam(v, "current", 1)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		total, err := intParam(v, "total", 1)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, pagesResponse{
			Current: current,
			Total:   total,
			Pages:   pagination.PageNumbers(current, total),
		})
	}
}
