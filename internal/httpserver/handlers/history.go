package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/prefire/internal/domain"
	"github.com/MrSnakeDoc/prefire/internal/history"
	"github.com/MrSnakeDoc/prefire/internal/httpserver/deps"
	"github.com/MrSnakeDoc/prefire/internal/logger"
)

type historyResponse struct {
	Profile string               `json:"profile"`
	Entries []domain.SearchEntry `json:"entries"`
}

// listResult handles a history read or write. A corrupt stored list is
// served as empty.
func listResult(w http.ResponseWriter, d deps.Deps, status int, prof string, list []domain.SearchEntry, err error) {
	if errors.Is(err, history.ErrCorrupt) {
		d.Logger.Warn("corrupt search list in storage, serving empty",
			logger.String("profile", prof),
			logger.Error(err))
		err = nil
	}
	if err != nil {
		d.Logger.Error("history storage failed",
			logger.String("profile", prof),
			logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, "storage_error", "search history is unavailable")
		return
	}
	if list == nil {
		list = []domain.SearchEntry{}
	}
	writeJSON(w, status, historyResponse{Profile: prof, Entries: list})
}

// History lists the recent searches.
func History(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prof := profile(r, d.DefaultProfile)
		list, err := d.History.History(r.Context(), prof)
		listResult(w, d, http.StatusOK, prof, list, err)
	}
}

// ClearHistory empties the recent searches.
func ClearHistory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prof := profile(r, d.DefaultProfile)
		err := d.History.ClearHistory(r.Context(), prof)
		listResult(w, d, http.StatusOK, prof, nil, err)
	}
}

// Saved lists the saved searches.
func Saved(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prof := profile(r, d.DefaultProfile)
		list, err := d.History.Saved(r.Context(), prof)
		listResult(w, d, http.StatusOK, prof, list, err)
	}
}

// SaveSearch bookmarks the search in the body.
func SaveSearch(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry := domain.SearchEntry{
			Filters:         domain.DefaultBasicFilters(),
			AdvancedFilters: domain.DefaultAdvancedFilters(),
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&entry); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
			return
		}
		if err := entry.AdvancedFilters.PriceRange.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		entry.Timestamp = d.Now().UnixMilli()

		prof := profile(r, d.DefaultProfile)
		list, err := d.History.Save(r.Context(), prof, entry)
		if errors.Is(err, history.ErrBlankQuery) {
			writeError(w, http.StatusBadRequest, "blank_query", "cannot save a search without a query")
			return
		}
		listResult(w, d, http.StatusCreated, prof, list, err)
	}
}

// RemoveSaved deletes one saved search by position.
func RemoveSaved(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "index must be an integer")
			return
		}

		prof := profile(r, d.DefaultProfile)
		list, err := d.History.RemoveSaved(r.Context(), prof, idx)
		if errors.Is(err, history.ErrIndexOutOfRange) {
			writeError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		listResult(w, d, http.StatusOK, prof, list, err)
	}
}
