package pagination

import (
	"encoding/json"
	"fmt"
)

const (
	maxUncompressed = 10
	edgeSpan        = 9
	leadingCutoff   = 6
	trailingCutoff  = 5
	centerBefore    = 3
	centerAfter     = 4
)

// Indicator is one entry of a page-number bar: a page or an ellipsis.
type Indicator struct {
	Page     int
	Ellipsis bool
}

func (i Indicator) String() string {
	if i.Ellipsis {
		return "..."
	}
	return fmt.Sprint(i.Page)
}

// MarshalJSON emits the page number, or "..." for an ellipsis.
func (i Indicator) MarshalJSON() ([]byte, error) {
	if i.Ellipsis {
		return []byte(`"..."`), nil
	}
	return json.Marshal(i.Page)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (i *Indicator) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != "..." {
			return fmt.Errorf("pagination: invalid indicator %q", s)
		}
		*i = Indicator{Ellipsis: true}
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("pagination: invalid indicator: %w", err)
	}
	*i = Indicator{Page: n}
	return nil
}

// PageNumbers lays out the numbered controls for current out of total pages.
//
// Up to ten pages are all shown. Past that, the first page and the last page
// are always present, and the run around current is cut with ellipses.
func PageNumbers(current, total int) []Indicator {
	if total < 1 {
		total = 1
	}
	current = max(1, min(current, total))

	if total <= maxUncompressed {
		return pageRange(nil, 1, total)
	}

	var out []Indicator
	switch {
	case current <= leadingCutoff:
		out = pageRange(out, 1, edgeSpan)
		out = append(out, Indicator{Ellipsis: true}, Indicator{Page: total})
	case current >= total-trailingCutoff:
		out = append(out, Indicator{Page: 1}, Indicator{Ellipsis: true})
		out = pageRange(out, total-edgeSpan+1, total)
	default:
		out = append(out, Indicator{Page: 1}, Indicator{Ellipsis: true})
		out = pageRange(out, current-centerBefore, current+centerAfter)
		out = append(out, Indicator{Ellipsis: true}, Indicator{Page: total})
	}
	return out
}

func pageRange(out []Indicator, from, to int) []Indicator {
	for p := from; p <= to; p++ {
		out = append(out, Indicator{Page: p})
	}
	return out
}
