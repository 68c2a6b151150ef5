package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/prefire/internal/domain"
	"github.com/MrSnakeDoc/prefire/internal/search"
)

// profile picks the history profile: header, then query, then def.
func profile(r *http.Request, def string) string {
	if p := strings.TrimSpace(r.Header.Get(ProfileHeader)); p != "" {
		return p
	}
	if p := strings.TrimSpace(r.URL.Query().Get("profile")); p != "" {
		return p
	}
	return def
}

// requestFromQuery reads a search from URL parameters. Filters not named
// keep their defaults.
func requestFromQuery(v url.Values) (search.Request, error) {
	req := search.NewRequest(v.Get("q"))
	var err error

	if req.Page, err = intParam(v, "page", 1); err != nil {
		return req, err
	}
	if req.PageSize, err = intParam(v, "page_size", 0); err != nil {
		return req, err
	}
	if req.Record, err = boolParam(v, "record", false); err != nil {
		return req, err
	}

	f := &req.Filters
	f.Editions = listParam(v, "editions")
	if c := strings.TrimSpace(v.Get("color")); c != "" {
		f.Color = domain.Color(strings.ToLower(c))
	}
	for _, r := range listParam(v, "rarity") {
		f.Rarity = append(f.Rarity, domain.Rarity(strings.ToLower(r)))
	}
	f.Type = listParam(v, "type")
	if f.TypeAndLogic, err = boolParam(v, "type_and", false); err != nil {
		return req, err
	}
	if c := strings.TrimSpace(v.Get("cmc")); c != "" {
		f.CMC = c
	}

	a := &req.Advanced
	if a.PriceRange[0], err = intParam(v, "price_min", domain.PriceFloor); err != nil {
		return req, err
	}
	if a.PriceRange[1], err = intParam(v, "price_max", domain.PriceCeiling); err != nil {
		return req, err
	}
	a.Formats = listParam(v, "format")
	a.Keywords = listParam(v, "keyword")
	a.PowerToughness.Power = comparisonParam(v, "power", a.PowerToughness.Power)
	a.PowerToughness.Toughness = comparisonParam(v, "toughness", a.PowerToughness.Toughness)
	a.Loyalty = comparisonParam(v, "loyalty", a.Loyalty)
	a.TextContains = v.Get("oracle")
	a.Artist = v.Get("artist")
	a.FlavorText = v.Get("flavor")
	a.CustomQuery = v.Get("custom")

	if err := a.PriceRange.Validate(); err != nil {
		return req, err
	}
	return req, nil
}

// listParam accepts both repeated keys and comma-separated values.
func listParam(v url.Values, key string) []string {
	out := []string{}
	for _, raw := range v[key] {
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func intParam(v url.Values, key string, def int) (int, error) {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func boolParam(v url.Values, key string, def bool) (bool, error) {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, s)
	}
	return b, nil
}

func comparisonParam(v url.Values, key string, def domain.Comparison) domain.Comparison {
	return domain.ParseComparison(v.Get(key), def)
}
