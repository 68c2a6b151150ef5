package scryfall

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func (r *recordingObserver) ObserveRequest(o Outcome, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) (*Client, *[]time.Duration) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	all := append([]Option{WithBaseURL(srv.URL), WithRateLimit(0)}, opts...)
	c := NewClient(all...)
	slept := []time.Duration{}
	c.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return c, &slept
}

func TestSearchPageRequest(t *testing.T) {
	var gotPath, gotQ, gotOrder, gotPage, gotUA string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQ = r.URL.Query().Get("q")
		gotOrder = r.URL.Query().Get("order")
		gotPage = r.URL.Query().Get("page")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"object":"list","total_cards":2,"has_more":false,
			"data":[{"id":"a","name":"Lightning Bolt","set":"m10","rarity":"common","prices":{"usd":"1.00"}},
			{"id":"b","name":"Shock","set":"m19","rarity":"common","prices":{"usd":null}}]}`)
	}, WithUserAgent("prefire-test/1"))

	res, err := c.SearchPage(context.Background(), "bolt (set:M10 OR set:M19) game:paper", 3)
	if err != nil {
		t.Fatalf("SearchPage() error = %v", err)
	}

	if gotPath != "/cards/search" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQ != "bolt (set:M10 OR set:M19) game:paper" {
		t.Errorf("q = %q", gotQ)
	}
	if gotOrder != "name" || gotPage != "3" {
		t.Errorf("order = %q page = %q", gotOrder, gotPage)
	}
	if gotUA != "prefire-test/1" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if res.TotalCards != 2 || len(res.Data) != 2 || res.HasMore {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Data[0].Prices.USD == nil || *res.Data[0].Prices.USD != "1.00" {
		t.Errorf("usd price not decoded: %+v", res.Data[0].Prices)
	}
	if res.Data[1].Prices.USD != nil {
		t.Errorf("null usd price should stay nil")
	}
}

func TestSearchURLClampsPage(t *testing.T) {
	c := NewClient(WithBaseURL("http://example.test"))
	got := c.SearchURL("t:elf", 0)
	want := "http://example.test/cards/search?order=name&page=1&q=t%3Aelf"
	if got != want {
		t.Errorf("SearchURL() = %q, want %q", got, want)
	}
}

func TestSearchPageNotFound(t *testing.T) {
	obs := &recordingObserver{}
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprint(w, `{"object":"error","code":"not_found","status":404,"details":"Your query didn't match any cards."}`)
	}, WithObserver(obs))

	_, err := c.SearchPage(context.Background(), "nothing", 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Details == "" {
		t.Errorf("want *APIError with details, got %v", err)
	}
	if len(obs.outcomes) != 1 || obs.outcomes[0] != OutcomeNotFound {
		t.Errorf("outcomes = %v", obs.outcomes)
	}
}

func TestSearchPageBadRequestIsFinal(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, `{"object":"error","code":"bad_request","status":400,"details":"bad syntax"}`)
	})

	_, err := c.SearchPage(context.Background(), "((", 1)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("error = %v, want 400 APIError", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("400 must not match ErrNotFound")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestSearchPageServerErrorWithoutBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.SearchPage(context.Background(), "bolt", 1)
	if !errors.Is(err, ErrHTTPStatus) {
		t.Fatalf("error = %v, want ErrHTTPStatus", err)
	}
}

func TestSearchPageMalformed(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"object":"list","data":[`)
	})

	_, err := c.SearchPage(context.Background(), "bolt", 1)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestSearchPageRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	c, slept := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = fmt.Fprint(w, `{"object":"list","total_cards":0,"has_more":false,"data":[]}`)
	})

	res, err := c.SearchPage(context.Background(), "bolt", 1)
	if err != nil {
		t.Fatalf("SearchPage() error = %v", err)
	}
	if res.Data == nil {
		t.Error("Data should be non-nil")
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
	if len(*slept) != 1 || (*slept)[0] != 2*time.Second {
		t.Errorf("slept = %v, want [2s]", *slept)
	}
}

func TestSearchPageGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	c, slept := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}, WithRetries(2))

	_, err := c.SearchPage(context.Background(), "bolt", 1)
	if !errors.Is(err, ErrHTTPStatus) {
		t.Fatalf("error = %v, want ErrHTTPStatus", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
	if len(*slept) != 2 || (*slept)[0] != initialBackoff || (*slept)[1] != 2*initialBackoff {
		t.Errorf("slept = %v, want exponential backoff", *slept)
	}
}

func TestSearchPageCanceledContext(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"object":"list","data":[]}`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.SearchPage(ctx, "bolt", 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestRetryAfter(t *testing.T) {
	tests := map[string]time.Duration{
		"":     0,
		"abc":  0,
		"-1":   0,
		"3":    3 * time.Second,
		"3600": maxBackoff,
	}
	for in, want := range tests {
		if got := retryAfter(in); got != want {
			t.Errorf("retryAfter(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFrontImage(t *testing.T) {
	single := Card{ImageURIs: &ImageURIs{Normal: "front.jpg"}}
	if got := single.FrontImage(); got != "front.jpg" {
		t.Errorf("FrontImage() = %q", got)
	}
	dfc := Card{CardFaces: []CardFace{{ImageURIs: &ImageURIs{Normal: "face0.jpg"}}, {ImageURIs: &ImageURIs{Normal: "face1.jpg"}}}}
	if got := dfc.FrontImage(); got != "face0.jpg" {
		t.Errorf("FrontImage() = %q", got)
	}
	if got := (Card{}).FrontImage(); got != "" {
		t.Errorf("FrontImage() = %q, want empty", got)
	}
}
