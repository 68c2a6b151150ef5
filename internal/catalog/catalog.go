package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed editions.yaml
var embedded []byte

// Category tags a group of editions in the picker.
type Category string

const CategoryPreFIRE Category = "PreFIRE"

var knownCategories = map[Category]bool{
	CategoryPreFIRE: true,
}

const dateLayout = "2006-01-02"

// Edition is one curated set. Code keeps Scryfall's canonical casing.
type Edition struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Released    time.Time `json:"release_date"`
	Category    Category  `json:"category"`
	Description string    `json:"description,omitempty"`
}

// Group is one category of the picker, newest release first.
type Group struct {
	Category Category  `json:"category"`
	Editions []Edition `json:"editions"`
}

// Catalog is immutable once parsed.
type Catalog struct {
	editions []Edition
	byCode   map[string]int // upper-cased code -> position
}

// file mirrors editions.yaml.
type file struct {
	Editions []struct {
		Code        string `yaml:"code"`
		Name        string `yaml:"name"`
		Released    string `yaml:"released"`
		Category    string `yaml:"category"`
		Description string `yaml:"description"`
	} `yaml:"editions"`
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse editions yaml: %w", err)
	}

	c := &Catalog{
		editions: make([]Edition, 0, len(f.Editions)),
		byCode:   make(map[string]int, len(f.Editions)),
	}
	for i, raw := range f.Editions {
		code := strings.TrimSpace(raw.Code)
		if code == "" {
			return nil, fmt.Errorf("edition #%d: missing code", i+1)
		}
		key := strings.ToUpper(code)
		if _, dup := c.byCode[key]; dup {
			return nil, fmt.Errorf("edition %s: duplicate code", code)
		}
		released, err := time.Parse(dateLayout, strings.TrimSpace(raw.Released))
		if err != nil {
			return nil, fmt.Errorf("edition %s: invalid release date %q: %w", code, raw.Released, err)
		}
		cat := Category(raw.Category)
		if !knownCategories[cat] {
			return nil, fmt.Errorf("edition %s: unknown category %q", code, raw.Category)
		}

		c.byCode[key] = len(c.editions)
		c.editions = append(c.editions, Edition{
			Code:        code,
			Name:        raw.Name,
			Released:    released,
			Category:    cat,
			Description: raw.Description,
		})
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the curated catalog compiled into the binary.
// A broken embedded file is a build defect, so it panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(embedded)
		if err != nil {
			panic(fmt.Sprintf("embedded edition catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Len returns the number of editions.
func (c *Catalog) Len() int { return len(c.editions) }

// All returns the editions in file order.
func (c *Catalog) All() []Edition {
	out := make([]Edition, len(c.editions))
	copy(out, c.editions)
	return out
}

// Codes returns the allow-list in file order.
func (c *Catalog) Codes() []string {
	codes := make([]string, len(c.editions))
	for i, e := range c.editions {
		codes[i] = e.Code
	}
	return codes
}

// FindByCode looks a code up case-insensitively.
func (c *Catalog) FindByCode(code string) (Edition, bool) {
	i, ok := c.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Edition{}, false
	}
	return c.editions[i], true
}

// GroupByCategory partitions editions by category. Groups keep the order in
// which their category first appears; editions inside a group are sorted
// newest release first.
func (c *Catalog) GroupByCategory() []Group {
	var groups []Group
	pos := make(map[Category]int)
	for _, e := range c.editions {
		i, ok := pos[e.Category]
		if !ok {
			i = len(groups)
			pos[e.Category] = i
			groups = append(groups, Group{Category: e.Category})
		}
		groups[i].Editions = append(groups[i].Editions, e)
	}
	for _, g := range groups {
		sort.SliceStable(g.Editions, func(a, b int) bool {
			return g.Editions[a].Released.After(g.Editions[b].Released)
		})
	}
	return groups
}

// ReleasedAfter returns the editions released strictly after t, in file order.
func (c *Catalog) ReleasedAfter(t time.Time) []Edition {
	var out []Edition
	for _, e := range c.editions {
		if e.Released.After(t) {
			out = append(out, e)
		}
	}
	return out
}
