package scryfall

import (
	"errors"
	"fmt"
)

// Card is a card object as returned by /cards/search. prefire never
// interprets it beyond display, so only the fields the front end renders are
// decoded.
type Card struct {
	ID              string            `json:"id"`
	OracleID        string            `json:"oracle_id,omitempty"`
	Name            string            `json:"name"`
	Lang            string            `json:"lang,omitempty"`
	Layout          string            `json:"layout,omitempty"`
	ManaCost        string            `json:"mana_cost,omitempty"`
	CMC             float64           `json:"cmc"`
	TypeLine        string            `json:"type_line"`
	OracleText      string            `json:"oracle_text,omitempty"`
	Power           string            `json:"power,omitempty"`
	Toughness       string            `json:"toughness,omitempty"`
	Loyalty         string            `json:"loyalty,omitempty"`
	Colors          []string          `json:"colors,omitempty"`
	Keywords        []string          `json:"keywords,omitempty"`
	SetCode         string            `json:"set"`
	SetName         string            `json:"set_name"`
	CollectorNumber string            `json:"collector_number,omitempty"`
	Rarity          string            `json:"rarity"`
	Artist          string            `json:"artist,omitempty"`
	FlavorText      string            `json:"flavor_text,omitempty"`
	ImageURIs       *ImageURIs        `json:"image_uris,omitempty"`
	CardFaces       []CardFace        `json:"card_faces,omitempty"`
	Legalities      map[string]string `json:"legalities,omitempty"`
	Prices          Prices            `json:"prices"`
	ScryfallURI     string            `json:"scryfall_uri,omitempty"`
}

// CardFace is one face of a double-faced, split or flip card.
type CardFace struct {
	Name       string     `json:"name"`
	ManaCost   string     `json:"mana_cost,omitempty"`
	TypeLine   string     `json:"type_line"`
	OracleText string     `json:"oracle_text,omitempty"`
	Power      string     `json:"power,omitempty"`
	Toughness  string     `json:"toughness,omitempty"`
	Loyalty    string     `json:"loyalty,omitempty"`
	Artist     string     `json:"artist,omitempty"`
	FlavorText string     `json:"flavor_text,omitempty"`
	ImageURIs  *ImageURIs `json:"image_uris,omitempty"`
}

// ImageURIs contains URLs for card images in various sizes.
type ImageURIs struct {
	Small      string `json:"small,omitempty"`
	Normal     string `json:"normal,omitempty"`
	Large      string `json:"large,omitempty"`
	PNG        string `json:"png,omitempty"`
	ArtCrop    string `json:"art_crop,omitempty"`
	BorderCrop string `json:"border_crop,omitempty"`
}

// Prices is the daily price snapshot. Scryfall sends null for missing prices.
type Prices struct {
	USD     *string `json:"usd,omitempty"`
	USDFoil *string `json:"usd_foil,omitempty"`
	EUR     *string `json:"eur,omitempty"`
	TIX     *string `json:"tix,omitempty"`
}

// FrontImage returns the normal-size image of the first face.
func (c Card) FrontImage() string {
	if c.ImageURIs != nil && c.ImageURIs.Normal != "" {
		return c.ImageURIs.Normal
	}
	for _, f := range c.CardFaces {
		if f.ImageURIs != nil && f.ImageURIs.Normal != "" {
			return f.ImageURIs.Normal
		}
	}
	return ""
}

// SearchResult is one page of /cards/search.
type SearchResult struct {
	Object     string   `json:"object"`
	TotalCards int      `json:"total_cards"`
	HasMore    bool     `json:"has_more"`
	NextPage   string   `json:"next_page,omitempty"`
	Data       []Card   `json:"data"`
	Warnings   []string `json:"warnings,omitempty"`
}

var (
	// ErrNotFound is Scryfall's answer to a query that matches nothing.
	ErrNotFound = errors.New("scryfall: no cards found")
	// ErrMalformedResponse wraps a body that is not the expected JSON.
	ErrMalformedResponse = errors.New("scryfall: malformed response")
	// ErrHTTPStatus wraps a non-success status without a usable error body.
	ErrHTTPStatus = errors.New("scryfall: unexpected http status")
)

// APIError is Scryfall's error object.
type APIError struct {
	Object   string   `json:"object"`
	Code     string   `json:"code"`
	Status   int      `json:"status"`
	Details  string   `json:"details"`
	Type     string   `json:"type,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("scryfall api error (HTTP %d): %s", e.Status, e.Details)
	}
	return fmt.Sprintf("scryfall api error (HTTP %d): %s", e.Status, e.Code)
}

// Is lets errors.Is(err, ErrNotFound) match a not_found error object.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && (e.Status == 404 || e.Code == "not_found")
}
