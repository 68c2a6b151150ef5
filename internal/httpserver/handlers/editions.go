package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/prefire/internal/catalog"
	"github.com/MrSnakeDoc/prefire/internal/domain"
	"github.com/MrSnakeDoc/prefire/internal/httpserver/deps"
)

const (
	maxMatches     = 20
	maxSuggestions = 3
)

type editionsResponse struct {
	Count  int             `json:"count"`
	Groups []catalog.Group `json:"groups"`
}

type matchesResponse struct {
	Query   string          `json:"query"`
	Matches []catalog.Match `json:"matches"`
}

// Editions lists the curated editions grouped by category. With ?q= it
// ranks editions against the lookup instead.
func Editions(d deps.Deps) http.HandlerFunc {
	resp := editionsResponse{Count: d.Catalog.Len(), Groups: d.Catalog.GroupByCategory()}

	return func(w http.ResponseWriter, r *http.Request) {
		if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
			matches := d.Catalog.Match(q, maxMatches)
			if matches == nil {
				matches = []catalog.Match{}
			}
			writeJSON(w, http.StatusOK, matchesResponse{Query: q, Matches: matches})
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		writeJSON(w, http.StatusOK, resp)
	}
}

type unknownEditionResponse struct {
	errorResponse
	Suggestions []string `json:"suggestions"`
}

// Edition returns one edition by code, case-insensitively.
func Edition(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		e, ok := d.Catalog.FindByCode(code)
		if !ok {
			suggestions := []string{}
			for _, m := range d.Catalog.Match(code, maxSuggestions) {
				suggestions = append(suggestions, m.Edition.Code)
			}
			writeJSON(w, http.StatusNotFound, unknownEditionResponse{
				errorResponse: errorResponse{Error: "unknown edition " + code, Code: "not_found"},
				Suggestions:   suggestions,
			})
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

type optionsResponse struct {
	Colors          []domain.Option       `json:"colors"`
	Rarities        []domain.Rarity       `json:"rarities"`
	CardTypes       []string              `json:"cardTypes"`
	CMC             []domain.Option       `json:"cmc"`
	Formats         []string              `json:"formats"`
	Keywords        []string              `json:"keywords"`
	Operators       []domain.Option       `json:"operators"`
	PopularSearches []string              `json:"popularSearches"`
	QueryExamples   []domain.QueryExample `json:"queryExamples"`
	Defaults        struct {
		Filters         domain.BasicFilters    `json:"filters"`
		AdvancedFilters domain.AdvancedFilters `json:"advancedFilters"`
	} `json:"defaults"`
}

// Options returns everything the filter forms offer.
func Options(_ deps.Deps) http.HandlerFunc {
	resp := optionsResponse{
		Colors:          domain.Colors,
		Rarities:        domain.Rarities,
		CardTypes:       domain.CardTypes,
		CMC:             domain.CMCOptions,
		Formats:         domain.Formats,
		Keywords:        domain.CommonKeywords,
		Operators:       domain.Operators,
		PopularSearches: domain.PopularSearches,
		QueryExamples:   domain.QueryExamples,
	}
	resp.Defaults.Filters = domain.DefaultBasicFilters()
	resp.Defaults.AdvancedFilters = domain.DefaultAdvancedFilters()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		writeJSON(w, http.StatusOK, resp)
	}
}
