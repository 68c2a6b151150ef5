package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Color is the single-select color filter. ColorAll disables it.
type Color string

const (
	ColorAll        Color = "all"
	ColorWhite      Color = "w"
	ColorBlue       Color = "u"
	ColorBlack      Color = "b"
	ColorRed        Color = "r"
	ColorGreen      Color = "g"
	ColorColorless  Color = "c"
	ColorMulticolor Color = "m"
)

// Rarity is one of the four printed rarities.
type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
	RarityMythic   Rarity = "mythic"
)

const (
	// CMCAll disables the converted mana cost filter.
	CMCAll = "all"
	// CMCOpenEnded is the "6+" bucket: it matches six or more.
	CMCOpenEnded = "6"

	// PriceFloor and PriceCeiling bound the USD slider. The ceiling is the
	// "100+" bucket and never becomes an upper bound in a query.
	PriceFloor   = 0
	PriceCeiling = 100
)

// ErrPriceRange rejects a price range outside [PriceFloor, PriceCeiling].
var ErrPriceRange = errors.New("invalid price range")

// PriceRange is the [min, max] USD slider position.
type PriceRange [2]int

// UnmarshalJSON requires exactly two bounds. A shorter array would leave the
// missing bound at zero.
func (p *PriceRange) UnmarshalJSON(b []byte) error {
	var bounds []int
	if err := json.Unmarshal(b, &bounds); err != nil {
		return fmt.Errorf("%w: %v", ErrPriceRange, err)
	}
	if len(bounds) != 2 {
		return fmt.Errorf("%w: want 2 bounds, got %d", ErrPriceRange, len(bounds))
	}
	*p = PriceRange{bounds[0], bounds[1]}
	return nil
}

// Validate checks that PriceFloor <= min <= max <= PriceCeiling.
func (p PriceRange) Validate() error {
	lo, hi := p[0], p[1]
	if lo < PriceFloor || hi > PriceCeiling || lo > hi {
		return fmt.Errorf("%w: [%d, %d] not within [%d, %d]", ErrPriceRange, lo, hi, PriceFloor, PriceCeiling)
	}
	return nil
}

// BasicFilters is the filter bar state.
//
// Color and CMC are single-select with an "all" sentinel; Rarity and Type are
// sets. The older single-value shape of rarity/type is a set of size one.
type BasicFilters struct {
	Editions     []string `json:"editions"`
	Color        Color    `json:"color"`
	Rarity       []Rarity `json:"rarity"`
	Type         []string `json:"type"`
	CMC          string   `json:"cmc"`
	TypeAndLogic bool     `json:"typeAndLogic"`
}

// DefaultBasicFilters is the state of a freshly opened filter bar.
func DefaultBasicFilters() BasicFilters {
	return BasicFilters{
		Editions: []string{},
		Color:    ColorAll,
		Rarity:   []Rarity{},
		Type:     []string{},
		CMC:      CMCAll,
	}
}

// Comparison is an optional numeric constraint such as power>=3.
// The operator is carried as-is; checking it is the caller's business.
type Comparison struct {
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// comparisonOps is ordered so two-character operators win.
var comparisonOps = []string{">=", "<=", "!=", ">", "<", "="}

// ParseComparison reads values like ">=3". A bare value keeps the operator
// of def, and a blank one returns def.
func ParseComparison(s string, def Comparison) Comparison {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	for _, op := range comparisonOps {
		if rest, ok := strings.CutPrefix(s, op); ok {
			return Comparison{Operator: op, Value: strings.TrimSpace(rest)}
		}
	}
	return Comparison{Operator: def.Operator, Value: s}
}

// IsSet reports whether the comparison carries a value.
func (c Comparison) IsSet() bool {
	return strings.TrimSpace(c.Value) != ""
}

// PowerToughness groups the two creature stat comparisons.
type PowerToughness struct {
	Power     Comparison `json:"power"`
	Toughness Comparison `json:"toughness"`
}

// AdvancedFilters is the state of the advanced filter dialog.
type AdvancedFilters struct {
	PriceRange     PriceRange     `json:"priceRange"`
	Formats        []string       `json:"formats"`
	Keywords       []string       `json:"keywords"`
	CustomQuery    string         `json:"customQuery"`
	PowerToughness PowerToughness `json:"powerToughness"`
	TextContains   string         `json:"textContains"`
	Artist         string         `json:"artist"`
	FlavorText     string         `json:"flavorText"`
	Loyalty        Comparison     `json:"loyalty"`
}

// DefaultAdvancedFilters mirrors an untouched advanced dialog: full price
// range, no constraints, ">=" preselected for every comparison.
func DefaultAdvancedFilters() AdvancedFilters {
	return AdvancedFilters{
		PriceRange: PriceRange{PriceFloor, PriceCeiling},
		Formats:    []string{},
		Keywords:   []string{},
		PowerToughness: PowerToughness{
			Power:     Comparison{Operator: ">="},
			Toughness: Comparison{Operator: ">="},
		},
		Loyalty: Comparison{Operator: ">="},
	}
}

// SearchEntry is one remembered search: the submitted text plus a snapshot
// of both filter states. Timestamp is unix milliseconds.
type SearchEntry struct {
	Query           string          `json:"query"`
	Filters         BasicFilters    `json:"filters"`
	AdvancedFilters AdvancedFilters `json:"advancedFilters"`
	Timestamp       int64           `json:"timestamp"`
}
