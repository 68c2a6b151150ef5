// Package query turns filter state into a Scryfall search expression.
package query

import (
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/prefire/internal/domain"
)

// PaperOnly keeps digital-only printings out of every result set.
const PaperOnly = "game:paper"

// Compile builds the query string for one search.
//
// Every clause is ANDed by juxtaposition. The catalog OR group and the
// game:paper restriction are always present, so an empty search still
// browses every curated card.
func Compile(freeText string, basic domain.BasicFilters, advanced domain.AdvancedFilters, catalog []string) string {
	b := &Builder{}

	b.Add(Raw(strings.TrimSpace(freeText)))
	b.Add(Editions(catalog, basic.Editions))

	b.Add(colorClause(basic.Color))
	b.Add(rarityClause(basic.Rarity))
	b.Add(typeClause(basic.Type, basic.TypeAndLogic))
	b.Add(cmcClause(basic.CMC))

	b.Add(priceClauses(advanced.PriceRange)...)
	for _, f := range distinct(advanced.Formats) {
		b.Add(Match("legal", f))
	}
	for _, k := range distinct(advanced.Keywords) {
		b.Add(Phrase("keyword", k))
	}
	b.Add(comparisonClause("power", advanced.PowerToughness.Power))
	b.Add(comparisonClause("toughness", advanced.PowerToughness.Toughness))
	b.Add(Phrase("oracle", strings.TrimSpace(advanced.TextContains)))
	b.Add(Phrase("artist", strings.TrimSpace(advanced.Artist)))
	b.Add(Phrase("flavor", strings.TrimSpace(advanced.FlavorText)))
	b.Add(comparisonClause("loyalty", advanced.Loyalty))
	b.Add(Raw(strings.TrimSpace(advanced.CustomQuery)))

	b.Add(Raw(PaperOnly))

	return b.String()
}

// Editions is the curated allow-list as a set: OR group.
//
// A non-empty selection narrows the group to the selected codes that are
// part of the catalog, in catalog order. A selection with no curated code in
// it is ignored: searches never leave the allow-list.
func Editions(catalog, selected []string) Clause {
	codes := catalog
	if len(selected) > 0 {
		want := make(map[string]bool, len(selected))
		for _, s := range selected {
			want[strings.ToUpper(strings.TrimSpace(s))] = true
		}
		narrowed := make([]string, 0, len(selected))
		for _, c := range catalog {
			if want[strings.ToUpper(c)] {
				narrowed = append(narrowed, c)
			}
		}
		if len(narrowed) > 0 {
			codes = narrowed
		}
	}

	terms := make([]Clause, 0, len(codes))
	for _, c := range codes {
		terms = append(terms, Match("set", c))
	}
	return AnyOf(terms...)
}

func colorClause(c domain.Color) Clause {
	switch c {
	case "", domain.ColorAll:
		return nil
	case domain.ColorMulticolor:
		return Match("is", "multicolored")
	default:
		return Match("color", string(c))
	}
}

func rarityClause(rarities []domain.Rarity) Clause {
	values := make([]string, len(rarities))
	for i, r := range rarities {
		values[i] = string(r)
	}
	terms := make([]Clause, 0, len(values))
	for _, r := range distinct(values) {
		terms = append(terms, Match("rarity", r))
	}
	return AnyOf(terms...)
}

func typeClause(types []string, and bool) Clause {
	terms := make([]Clause, 0, len(types))
	for _, t := range distinct(types) {
		terms = append(terms, Match("type", t))
	}
	if and {
		return AllOf(terms...)
	}
	return AnyOf(terms...)
}

func cmcClause(cmc string) Clause {
	cmc = strings.TrimSpace(cmc)
	switch cmc {
	case "", domain.CMCAll:
		return nil
	case domain.CMCOpenEnded:
		return Compare("cmc", OpGTE, cmc)
	default:
		return Match("cmc", cmc)
	}
}

func priceClauses(r domain.PriceRange) []Clause {
	var out []Clause
	if r[0] > domain.PriceFloor {
		out = append(out, Compare("usd", OpGTE, strconv.Itoa(r[0])))
	}
	if r[1] < domain.PriceCeiling {
		out = append(out, Compare("usd", OpLTE, strconv.Itoa(r[1])))
	}
	return out
}

func comparisonClause(field string, c domain.Comparison) Clause {
	if !c.IsSet() {
		return nil
	}
	return Compare(field, c.Operator, strings.TrimSpace(c.Value))
}

// distinct trims, drops blanks and duplicates, keeps first-seen order.
func distinct(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
