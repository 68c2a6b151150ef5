// Package search runs a filtered card search end to end: compile the query,
// fetch the virtual page, remember the submission.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/prefire/internal/domain"
	"github.com/MrSnakeDoc/prefire/internal/history"
	"github.com/MrSnakeDoc/prefire/internal/logger"
	"github.com/MrSnakeDoc/prefire/internal/pagination"
	"github.com/MrSnakeDoc/prefire/internal/query"
	"github.com/MrSnakeDoc/prefire/internal/scryfall"
)

// ErrUpstream marks a search that failed talking to Scryfall. The result
// that comes with it is empty.
var ErrUpstream = errors.New("search: upstream failure")

// Searcher runs one search.
type Searcher interface {
	Search(ctx context.Context, req Request) (Result, error)
}

// Request is one search submission or page change.
type Request struct {
	Query    string                 `json:"query"`
	Filters  domain.BasicFilters    `json:"filters"`
	Advanced domain.AdvancedFilters `json:"advancedFilters"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"pageSize"`
	Profile  string                 `json:"profile,omitempty"`
	// Record adds the query to the profile's history. Page changes leave
	// it unset.
	Record bool `json:"record"`
}

// NewRequest returns a request with default filters.
func NewRequest(q string) Request {
	return Request{
		Query:    q,
		Filters:  domain.DefaultBasicFilters(),
		Advanced: domain.DefaultAdvancedFilters(),
		Page:     1,
	}
}

// Result is one rendered page of a search.
type Result struct {
	Query      string                 `json:"query"`
	Compiled   string                 `json:"compiled"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalCount int                    `json:"total_count"`
	TotalPages int                    `json:"total_pages"`
	Pages      []pagination.Indicator `json:"pages"`
	Cards      []scryfall.Card        `json:"cards"`
	Partial    bool                   `json:"partial,omitempty"`
	Warnings   []string               `json:"warnings,omitempty"`
}

// Service wires the compiler, the page adapter and the history store.
type Service struct {
	adapter  *pagination.Adapter
	catalog  []string
	history  *history.Store
	pageSize int
	log      logger.Logger
	now      func() time.Time
}

// NewService creates a search service. history may be nil, in which case
// nothing is recorded.
func NewService(f pagination.Fetcher, catalog []string, h *history.Store, pageSize int, log logger.Logger) *Service {
	if pageSize < 1 {
		pageSize = pagination.DefaultPageSize
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		adapter:  pagination.NewAdapter(f),
		catalog:  catalog,
		history:  h,
		pageSize: min(pageSize, pagination.ExternalPageSize),
		log:      log,
		now:      time.Now,
	}
}

// Compile returns the query string a request would send.
func (s *Service) Compile(req Request) string {
	return query.Compile(req.Query, req.Filters, req.Advanced, s.catalog)
}

// Search fetches one virtual page.
//
// On upstream failure the result carries no cards, a zero total and one
// page, and the error wraps ErrUpstream. A page that could only be partly
// filled is returned with Partial set and no error.
func (s *Service) Search(ctx context.Context, req Request) (Result, error) {
	page := max(req.Page, 1)
	size := req.PageSize
	if size < 1 {
		size = s.pageSize
	}
	size = min(size, pagination.ExternalPageSize)

	compiled := s.Compile(req)
	if req.Record {
		s.record(ctx, req)
	}

	res := Result{
		Query:    req.Query,
		Compiled: compiled,
		Page:     page,
		PageSize: size,
	}

	p, err := s.adapter.FetchPage(ctx, compiled, page, size)
	switch {
	case err == nil:
	case errors.Is(err, pagination.ErrPartialPage):
		res.Partial = true
		s.log.Warn("search page partially filled",
			logger.String("query", compiled),
			logger.Int("page", page),
			logger.Error(err))
	default:
		s.log.Error("search failed",
			logger.String("query", compiled),
			logger.Int("page", page),
			logger.Error(err))
		res.TotalPages = 1
		res.Pages = pagination.PageNumbers(1, 1)
		res.Cards = []scryfall.Card{}
		return res, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	res.Cards = p.Items
	res.TotalCount = p.TotalCount
	res.Warnings = p.Warnings
	res.TotalPages = pagination.TotalPages(p.TotalCount, size)
	res.Pages = pagination.PageNumbers(page, res.TotalPages)
	return res, nil
}

// record remembers a submitted query. Storage failures never fail the
// search.
func (s *Service) record(ctx context.Context, req Request) {
	if s.history == nil || strings.TrimSpace(req.Query) == "" {
		return
	}
	entry := domain.SearchEntry{
		Query:           req.Query,
		Filters:         req.Filters,
		AdvancedFilters: req.Advanced,
		Timestamp:       s.now().UnixMilli(),
	}
	if _, err := s.history.Record(ctx, req.Profile, entry); err != nil {
		s.log.Warn("failed to record search history",
			logger.String("profile", req.Profile),
			logger.Error(err))
	}
}
