package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"streamshelf/models"
)

const watchmodeBaseURL = "https://api.watchmode.com/v1"

// WatchmodeClient talks to the Watchmode API for title search, autocomplete
// suggestions, per-title streaming sources, and the full platform catalog.
//
// Every lookup fails soft: transport errors, non-2xx statuses, and malformed
// payloads all degrade to an empty result so one bad upstream response never
// takes down a whole search round-trip.
type WatchmodeClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewWatchmodeClient creates a Watchmode client.
func NewWatchmodeClient(apiKey string) *WatchmodeClient {
	return &WatchmodeClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     apiKey,
		baseURL:    watchmodeBaseURL,
	}
}

func (c *WatchmodeClient) get(ctx context.Context, path string, params url.Values, v any) error {
	if c.apiKey == "" {
		return fmt.Errorf("watchmode api key not configured")
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("watchmode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("watchmode %s returned %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// SearchTitles searches by exact name and returns matching title candidates.
// Returns an empty slice on any upstream failure.
func (c *WatchmodeClient) SearchTitles(ctx context.Context, title string) []models.Candidate {
	params := url.Values{}
	params.Set("search_field", "name")
	params.Set("search_value", title)

	var payload struct {
		TitleResults []models.Candidate `json:"title_results"`
	}
	if err := c.get(ctx, "/search/", params, &payload); err != nil {
		log.Printf("watchmode: title search %q failed: %v", title, err)
		return nil
	}
	return payload.TitleResults
}

// Autocomplete returns live title suggestions for a partial query.
// Returns an empty slice on any upstream failure.
func (c *WatchmodeClient) Autocomplete(ctx context.Context, partial string) []models.Candidate {
	params := url.Values{}
	// search_type 2 restricts results to titles (no people)
	params.Set("search_type", "2")
	params.Set("search_value", partial)

	var payload struct {
		Results []models.Candidate `json:"results"`
	}
	if err := c.get(ctx, "/autocomplete-search/", params, &payload); err != nil {
		log.Printf("watchmode: autocomplete %q failed: %v", partial, err)
		return nil
	}
	return payload.Results
}

// TitleSources fetches the raw streaming offers for one title id.
// Returns an empty slice on any upstream failure.
func (c *WatchmodeClient) TitleSources(ctx context.Context, titleID int) []models.RawOffer {
	var offers []models.RawOffer
	if err := c.get(ctx, fmt.Sprintf("/title/%d/sources/", titleID), nil, &offers); err != nil {
		log.Printf("watchmode: sources for title %d failed: %v", titleID, err)
		return nil
	}
	return offers
}

// AllSources fetches the full catalog of known streaming platforms.
// Unlike the lookups above this returns the error: the catalog refresh job
// needs to distinguish failure from a legitimately empty catalog.
func (c *WatchmodeClient) AllSources(ctx context.Context) ([]models.PlatformInfo, error) {
	var platforms []models.PlatformInfo
	if err := c.get(ctx, "/sources/", nil, &platforms); err != nil {
		return nil, err
	}
	return platforms, nil
}
