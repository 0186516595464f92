package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"vendor-collector/config"
	"vendor-collector/models"
	"vendor-collector/services"
	"vendor-collector/utils"
)

const (
	defaultBaseURL = "https://serpapi.com/search.json"
	engine         = "google_maps"
	searchType     = "search"
)

// Client fetches vendor listings from the SerpAPI google_maps engine, one
// category at a time, one page at a time. Every page request consumes one
// unit of the monthly search quota, so requests are paced, never parallel.
type Client struct {
	cfg     *config.Config
	logger  *utils.Logger
	pacer   *utils.Pacer
	http    *http.Client
	baseURL string
}

// New creates a ready-to-use Client.
func New(cfg *config.Config, logger *utils.Logger) *Client {
	return &Client{
		cfg:     cfg,
		logger:  logger,
		pacer:   utils.NewPacer(cfg.RequestSpacingMs),
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultBaseURL,
	}
}

// searchResponse is the slice of the SerpAPI payload this client cares about.
type searchResponse struct {
	LocalResults []models.RawListing `json:"local_results"`
	Error        string              `json:"error"`
}

// FetchCategory collects listings for one category, paging until the cap is
// reached or the API returns no further results. A failed page is logged and
// skipped; one category's partial failure never aborts the run, so no error
// is returned. API order is preserved within and across pages.
func (c *Client) FetchCategory(ctx context.Context, category string) []*models.VendorRecord {
	var records []*models.VendorRecord

	for page := 0; page < c.cfg.PageCap; page++ {
		query := models.SearchQuery{
			Category:     category,
			Latitude:     c.cfg.CenterLat,
			Longitude:    c.cfg.CenterLng,
			RadiusMeters: c.cfg.RadiusMeters,
			Page:         page,
		}

		listings, err := c.fetchPage(ctx, query)
		if err != nil {
			c.logger.Warn("[serpapi] %s page %d failed: %v — skipping page", category, page, err)
			continue
		}

		if len(listings) == 0 {
			c.logger.Info("[serpapi] %s: no more results at page %d", category, page)
			break
		}
		if len(listings) > c.cfg.PageSize {
			listings = listings[:c.cfg.PageSize]
		}

		kept := 0
		for i := range listings {
			if rec := c.extractRecord(&listings[i], category); rec != nil {
				records = append(records, rec)
				kept++
			}
		}

		c.logger.Info("[serpapi] %s page %d: %d listings, %d kept", category, page, len(listings), kept)
	}

	return records
}

// fetchPage issues one paced search request and decodes its listings.
func (c *Client) fetchPage(ctx context.Context, query models.SearchQuery) ([]models.RawListing, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return nil, fmt.Errorf("serpapi: pacing: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("serpapi: build request: %w", err)
	}
	req.URL.RawQuery = c.buildParams(query).Encode()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi: unexpected status %s", resp.Status)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("serpapi: decode response: %w", err)
	}
	if sr.Error != "" {
		return nil, fmt.Errorf("serpapi: api error: %s", sr.Error)
	}

	return sr.LocalResults, nil
}

func (c *Client) buildParams(query models.SearchQuery) url.Values {
	v := url.Values{}
	v.Set("engine", engine)
	v.Set("type", searchType)
	v.Set("q", query.Category)
	v.Set("ll", fmt.Sprintf("@%s,%s,%dz",
		strconv.FormatFloat(query.Latitude, 'f', -1, 64),
		strconv.FormatFloat(query.Longitude, 'f', -1, 64),
		zoomFor(query.RadiusMeters)))
	v.Set("start", strconv.Itoa(query.Page*c.cfg.PageSize))
	v.Set("api_key", c.cfg.SerpAPIKey)
	return v
}

// zoomFor maps the configured search radius onto a maps zoom level; the
// google_maps engine takes zoom, not an explicit radius.
func zoomFor(radiusMeters int) int {
	switch {
	case radiusMeters <= 10_000:
		return 15
	case radiusMeters <= 50_000:
		return 14
	default:
		return 13
	}
}

// extractRecord converts one raw listing into a VendorRecord, or returns nil
// for permanently closed businesses.
func (c *Client) extractRecord(listing *models.RawListing, category string) *models.VendorRecord {
	if listing.IsClosed() {
		c.logger.Debug("[serpapi] Skipping permanently closed: %s", listing.Title)
		return nil
	}

	phone, valid := services.NormalizePhone(listing.Phone, c.cfg.PhoneRegion)

	website := listing.Website
	if website == "" {
		website = listing.Links.Website
	}

	return &models.VendorRecord{
		Category:    category,
		Name:        listing.Title,
		Address:     listing.Address,
		Phone:       phone,
		PhoneValid:  valid,
		Latitude:    listing.GPS.Latitude,
		Longitude:   listing.GPS.Longitude,
		Rating:      listing.Rating,
		Reviews:     listing.Reviews,
		Website:     website,
		MapsLink:    listing.Link,
		CollectedAt: time.Now(),
	}
}
