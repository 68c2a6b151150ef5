package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/prefire/internal/domain"
	"github.com/MrSnakeDoc/prefire/internal/history"
	"github.com/MrSnakeDoc/prefire/internal/logger"
	"github.com/MrSnakeDoc/prefire/internal/pagination"
	"github.com/MrSnakeDoc/prefire/internal/scryfall"
	"github.com/MrSnakeDoc/prefire/internal/store/memory"
)

var testCatalog = []string{"8ED", "RNA"}

type fakeFetcher struct {
	total   int
	err     error
	queries []string
	pages   []int
}

func (f *fakeFetcher) SearchPage(_ context.Context, q string, page int) (*scryfall.SearchResult, error) {
	f.queries = append(f.queries, q)
	f.pages = append(f.pages, page)
	if f.err != nil {
		return nil, f.err
	}
	start := (page - 1) * pagination.ExternalPageSize
	if start >= f.total {
		return nil, scryfall.ErrNotFound
	}
	end := min(start+pagination.ExternalPageSize, f.total)
	data := make([]scryfall.Card, 0, end-start)
	for i := start; i < end; i++ {
		data = append(data, scryfall.Card{Name: fmt.Sprintf("card-%d", i+1)})
	}
	return &scryfall.SearchResult{TotalCards: f.total, HasMore: end < f.total, Data: data}, nil
}

func newTestService(f *fakeFetcher) (*Service, *history.Store) {
	h := history.NewStore(memory.NewStore())
	return NewService(f, testCatalog, h, 50, logger.Nop()), h
}

func TestSearchReturnsPage(t *testing.T) {
	f := &fakeFetcher{total: 1000}
	svc, _ := newTestService(f)

	req := NewRequest("goblin")
	req.Page = 10
	res, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if res.Compiled != "goblin (set:8ED OR set:RNA) game:paper" {
		t.Errorf("Compiled = %q", res.Compiled)
	}
	if f.queries[0] != res.Compiled {
		t.Errorf("fetched %q, want compiled query", f.queries[0])
	}
	if res.TotalCount != 1000 || res.TotalPages != 20 || res.PageSize != 50 || res.Page != 10 {
		t.Errorf("result = %+v", res)
	}
	if len(res.Cards) != 50 || res.Cards[0].Name != "card-451" {
		t.Errorf("cards = %d first %q", len(res.Cards), res.Cards[0].Name)
	}
	if got := len(res.Pages); got != 12 {
		t.Errorf("pages = %v", res.Pages)
	}
}

func TestSearchClampsPageAndSize(t *testing.T) {
	f := &fakeFetcher{total: 500}
	svc, _ := newTestService(f)

	req := NewRequest("")
	req.Page = -2
	req.PageSize = 1000
	res, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if res.Page != 1 || res.PageSize != pagination.ExternalPageSize {
		t.Errorf("page = %d size = %d", res.Page, res.PageSize)
	}
	if len(res.Cards) != pagination.ExternalPageSize {
		t.Errorf("cards = %d", len(res.Cards))
	}
}

func TestSearchUpstreamFailure(t *testing.T) {
	f := &fakeFetcher{err: fmt.Errorf("%w: 500", scryfall.ErrHTTPStatus)}
	svc, _ := newTestService(f)

	res, err := svc.Search(context.Background(), NewRequest("bolt"))
	if !errors.Is(err, ErrUpstream) || !errors.Is(err, scryfall.ErrHTTPStatus) {
		t.Fatalf("error = %v, want ErrUpstream wrapping ErrHTTPStatus", err)
	}
	if res.Cards == nil || len(res.Cards) != 0 || res.TotalCount != 0 || res.TotalPages != 1 {
		t.Errorf("result = %+v, want empty", res)
	}
	if res.Compiled == "" {
		t.Error("Compiled should still be reported")
	}
}

func TestSearchNoMatchIsNotAnError(t *testing.T) {
	svc, _ := newTestService(&fakeFetcher{total: 0})

	res, err := svc.Search(context.Background(), NewRequest("zzzz"))
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(res.Cards) != 0 || res.TotalPages != 1 || len(res.Pages) != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestSearchRecordsHistory(t *testing.T) {
	ctx := context.Background()
	svc, h := newTestService(&fakeFetcher{total: 10})

	submit := NewRequest("bolt")
	submit.Record = true
	submit.Profile = "p"
	if _, err := svc.Search(ctx, submit); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	pageChange := NewRequest("goblin")
	pageChange.Profile = "p"
	_, _ = svc.Search(ctx, pageChange)

	blank := NewRequest("  ")
	blank.Record = true
	blank.Profile = "p"
	_, _ = svc.Search(ctx, blank)

	list, err := h.History(ctx, "p")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(list) != 1 || list[0].Query != "bolt" || list[0].Timestamp == 0 {
		t.Errorf("history = %+v, want only bolt", list)
	}
}

func TestSearchRecordsEvenWhenUpstreamFails(t *testing.T) {
	ctx := context.Background()
	svc, h := newTestService(&fakeFetcher{err: errors.New("boom")})

	req := NewRequest("bolt")
	req.Record = true
	_, _ = svc.Search(ctx, req)

	list, _ := h.History(ctx, "")
	if len(list) != 1 {
		t.Errorf("history = %d entries, want 1", len(list))
	}
}

func TestSearchWithoutHistory(t *testing.T) {
	svc := NewService(&fakeFetcher{total: 3}, testCatalog, nil, 0, nil)
	req := NewRequest("bolt")
	req.Record = true
	res, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if res.PageSize != pagination.DefaultPageSize {
		t.Errorf("PageSize = %d", res.PageSize)
	}
}

func TestCompileUsesFilters(t *testing.T) {
	svc, _ := newTestService(&fakeFetcher{})
	req := NewRequest("")
	req.Filters.Color = domain.ColorMulticolor
	req.Advanced.Formats = []string{"modern"}
	got := svc.Compile(req)
	if !strings.Contains(got, "is:multicolored") || !strings.Contains(got, "legal:modern") {
		t.Errorf("Compile() = %q", got)
	}
}
