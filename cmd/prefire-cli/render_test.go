package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/prefire/internal/catalog"
	"github.com/MrSnakeDoc/prefire/internal/pagination"
	"github.com/MrSnakeDoc/prefire/internal/scryfall"
	"github.com/MrSnakeDoc/prefire/internal/search"
)

func TestRenderPages(t *testing.T) {
	got := renderPages(pagination.PageNumbers(10, 20), 10)
	for _, want := range []string{"1 ... 7", "14 ... 20", "10"} {
		if !strings.Contains(got, want) {
			t.Errorf("renderPages() = %q, missing %q", got, want)
		}
	}
}

func TestRenderResult(t *testing.T) {
	var buf bytes.Buffer
	renderResult(&buf, search.Result{
		Compiled:   "bolt (e:LEA)",
		Page:       1,
		TotalCount: 1,
		TotalPages: 1,
		Pages:      pagination.PageNumbers(1, 1),
		Cards:      []scryfall.Card{{Name: "Lightning Bolt", ManaCost: "{R}", TypeLine: "Instant", SetCode: "lea", Rarity: "common"}},
		Partial:    true,
	})
	out := buf.String()
	for _, want := range []string{"bolt (e:LEA)", "Lightning Bolt {R}", "Instant", "LEA", "page incomplete"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderResultEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderResult(&buf, search.Result{Compiled: "zzz", TotalPages: 1})
	if !strings.Contains(buf.String(), "No cards found") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRenderEditions(t *testing.T) {
	var buf bytes.Buffer
	renderEditions(&buf, []catalog.Group{{
		Category: catalog.CategoryPreFIRE,
		Editions: []catalog.Edition{{Code: "8ED", Name: "Eighth Edition", Released: time.Date(2003, 7, 28, 0, 0, 0, 0, time.UTC)}},
	}})
	out := buf.String()
	if !strings.Contains(out, "PreFIRE (1)") || !strings.Contains(out, "8ED") || !strings.Contains(out, "2003-07-28") {
		t.Errorf("output = %q", out)
	}
}

func TestRenderMatches(t *testing.T) {
	var buf bytes.Buffer
	renderMatches(&buf, "kamigawa", catalog.Default().Match("kamigawa", 3))
	if !strings.Contains(buf.String(), "Saviors of Kamigawa") {
		t.Errorf("output = %q", buf.String())
	}

	buf.Reset()
	renderMatches(&buf, "zzz", nil)
	if !strings.Contains(buf.String(), "No edition matches zzz") {
		t.Errorf("output = %q", buf.String())
	}
}
