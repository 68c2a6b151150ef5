// Package pagination serves fixed-size virtual pages out of Scryfall's
// 175-card result pages.
package pagination

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/MrSnakeDoc/prefire/internal/scryfall"
)

const (
	// ExternalPageSize is the number of cards Scryfall returns per page.
	ExternalPageSize = 175
	// DefaultPageSize is the virtual page size the front end shows.
	DefaultPageSize = 50
)

// ErrPartialPage flags a page that crossed into the next external page but
// could only be filled from the first one.
var ErrPartialPage = errors.New("pagination: partial page")

// Fetcher fetches one external page of a search.
type Fetcher interface {
	SearchPage(ctx context.Context, query string, page int) (*scryfall.SearchResult, error)
}

// Window addresses a virtual page inside the external pagination.
type Window struct {
	ExternalPage int
	Offset       int
}

// Locate maps a 1-based virtual page to the external page holding its first
// card and the offset of that card inside it.
func Locate(virtualPage, pageSize int) Window {
	virtualPage, pageSize = normalize(virtualPage, pageSize)
	start := (virtualPage - 1) * pageSize
	return Window{
		ExternalPage: start/ExternalPageSize + 1,
		Offset:       start % ExternalPageSize,
	}
}

// Spans reports whether a window of size cards runs past its external page.
func (w Window) Spans(size int) bool {
	return w.Offset+size > ExternalPageSize
}

// Page is one virtual page of cards.
type Page struct {
	Items      []scryfall.Card `json:"items"`
	TotalCount int             `json:"totalCount"`
	Warnings   []string        `json:"warnings,omitempty"`
}

func emptyPage() Page {
	return Page{Items: []scryfall.Card{}}
}

// Adapter fetches virtual pages through a Fetcher.
type Adapter struct {
	fetcher Fetcher
}

func NewAdapter(f Fetcher) *Adapter {
	return &Adapter{fetcher: f}
}

// FetchPage returns the cards of one virtual page and the declared total.
//
// A window that crosses into the next external page is completed with a
// second fetch when Scryfall reports more results. On failure the page is
// empty with a zero total and the error is returned alongside; a query that
// matches nothing is not a failure.
func (a *Adapter) FetchPage(ctx context.Context, query string, virtualPage, pageSize int) (Page, error) {
	virtualPage, pageSize = normalize(virtualPage, pageSize)
	w := Locate(virtualPage, pageSize)

	first, err := a.fetcher.SearchPage(ctx, query, w.ExternalPage)
	if err != nil {
		if errors.Is(err, scryfall.ErrNotFound) {
			return emptyPage(), nil
		}
		return emptyPage(), fmt.Errorf("fetch page %d: %w", virtualPage, err)
	}

	items := window(first.Data, w.Offset, pageSize)
	page := Page{Items: items, TotalCount: first.TotalCards, Warnings: first.Warnings}

	if !w.Spans(pageSize) || !first.HasMore || len(items) >= pageSize {
		return page, nil
	}

	next, err := a.fetcher.SearchPage(ctx, query, w.ExternalPage+1)
	if err != nil {
		if errors.Is(err, scryfall.ErrNotFound) {
			return page, nil
		}
		return page, fmt.Errorf("%w: fetch page %d: %v", ErrPartialPage, virtualPage, err)
	}

	rest := window(next.Data, 0, pageSize-len(items))
	stitched := make([]scryfall.Card, 0, len(items)+len(rest))
	stitched = append(stitched, items...)
	page.Items = append(stitched, rest...)
	return page, nil
}

// window returns data[offset:offset+size] clamped to the available cards.
func window(data []scryfall.Card, offset, size int) []scryfall.Card {
	if offset < 0 || offset >= len(data) {
		return []scryfall.Card{}
	}
	end := min(offset+size, len(data))
	return data[offset:end]
}

func normalize(virtualPage, pageSize int) (int, int) {
	if virtualPage < 1 {
		virtualPage = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	// Keep (virtualPage-1)*pageSize representable.
	virtualPage = min(virtualPage, math.MaxInt/pageSize)
	return virtualPage, pageSize
}

// TotalPages is the number of virtual pages for totalCount cards. An empty
// result still has one page.
func TotalPages(totalCount, pageSize int) int {
	_, pageSize = normalize(1, pageSize)
	if totalCount <= 0 {
		return 1
	}
	return (totalCount + pageSize - 1) / pageSize
}
