package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/prefire/internal/domain"
	"github.com/MrSnakeDoc/prefire/internal/httpserver/deps"
	"github.com/MrSnakeDoc/prefire/internal/logger"
	"github.com/MrSnakeDoc/prefire/internal/search"
)

const maxBodyBytes = 64 << 10

type searchResponse struct {
	search.Result
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// SearchQuery serves GET /api/search.
func SearchQuery(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := requestFromQuery(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		req.Profile = profile(r, d.DefaultProfile)
		runSearch(w, r, d, req)
	}
}

// SearchBody serves POST /api/search.
func SearchBody(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeRequest(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		if req.Profile == "" {
			req.Profile = profile(r, d.DefaultProfile)
		}
		runSearch(w, r, d, req)
	}
}

// decodeRequest reads a JSON search. Fields left out keep their defaults.
func decodeRequest(w http.ResponseWriter, r *http.Request) (search.Request, error) {
	req := search.NewRequest("")
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, domain.ErrPriceRange) {
			return req, err
		}
		return req, errors.New("invalid JSON body")
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if err := req.Advanced.PriceRange.Validate(); err != nil {
		return req, err
	}
	return req, nil
}

func runSearch(w http.ResponseWriter, r *http.Request, d deps.Deps, req search.Request) {
	sess := d.Sessions.Get(r.Header.Get(SessionHeader))
	w.Header().Set(SessionHeader, sess.ID())

	res, err := sess.Search(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, searchResponse{Result: res})

	case errors.Is(err, search.ErrStale):
		d.Logger.Debug("discarded superseded search",
			logger.String("session", sess.ID()),
			logger.String("query", req.Query))
		writeError(w, http.StatusConflict, "stale", "superseded by a newer search on this session")

	case errors.Is(err, context.DeadlineExceeded), r.Context().Err() != nil:
		// The timeout middleware answers, or the client is gone.
		d.Logger.Debug("search abandoned", logger.Error(err))

	case errors.Is(err, search.ErrUpstream):
		writeJSON(w, http.StatusBadGateway, searchResponse{
			Result: res,
			Error:  "card search is unavailable, try again later",
			Code:   "upstream_error",
		})

	default:
		d.Logger.Error("search failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
