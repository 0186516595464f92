package models

import (
	"strings"
	"time"
)

// SearchQuery describes one paginated request against the local-search API.
// Immutable once built.
type SearchQuery struct {
	Category     string
	Latitude     float64
	Longitude    float64
	RadiusMeters int
	Page         int
}

// GPSCoordinates is the API's lat/lng pair for a listing.
type GPSCoordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ListingLinks holds secondary links the API sometimes nests under "links".
type ListingLinks struct {
	Website string `json:"website"`
}

// RawListing is one business record as returned by the SerpAPI google_maps
// engine (a `local_results` element). Consumed read-only.
type RawListing struct {
	Position          int            `json:"position"`
	Title             string         `json:"title"`
	PlaceID           string         `json:"place_id"`
	Address           string         `json:"address"`
	Phone             string         `json:"phone"`
	Type              string         `json:"type"`
	Status            string         `json:"status"`
	PermanentlyClosed bool           `json:"permanently_closed"`
	Rating            float64        `json:"rating"`
	Reviews           int            `json:"reviews"`
	Website           string         `json:"website"`
	Link              string         `json:"link"`
	GPS               GPSCoordinates `json:"gps_coordinates"`
	Links             ListingLinks   `json:"links"`
}

// IsClosed reports whether the listing is marked permanently closed, either
// via the boolean flag or the free-text status field.
func (l *RawListing) IsClosed() bool {
	return l.PermanentlyClosed ||
		strings.Contains(strings.ToLower(l.Status), "permanently closed")
}

// VendorRecord is the normalized output unit. Phone is always either a
// validated E.164 number or the "Not Available" sentinel, never a raw
// unvalidated string. Immutable after extraction.
type VendorRecord struct {
	Category    string
	Name        string
	Address     string
	Phone       string
	PhoneValid  bool
	Latitude    float64
	Longitude   float64
	Rating      float64
	Reviews     int
	Website     string
	MapsLink    string
	CollectedAt time.Time
}

// IdentityKey is the dedup key: lowercased trimmed name + address.
func (v *VendorRecord) IdentityKey() string {
	return strings.ToLower(strings.TrimSpace(v.Name)) + "||" +
		strings.ToLower(strings.TrimSpace(v.Address))
}

// CategorySummary holds per-category counts computed from that category's own
// fetch, before cross-category deduplication.
type CategorySummary struct {
	Category      string
	Vendors       int
	InvalidPhones int
	AvgRating     float64
	TotalReviews  int
}

// Report is the aggregator's output pair: the deduplicated vendor collection
// and one summary row per configured category.
type Report struct {
	Vendors   []*VendorRecord
	Summaries []*CategorySummary
}
