package providers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"time"

	"streamshelf/models"
)

const omdbBaseURL = "https://www.omdbapi.com/"

// OMDBClient talks to the OMDb API for title metadata.
type OMDBClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewOMDBClient creates an OMDb client. An empty API key is allowed; lookups
// will simply fail soft until one is configured.
func NewOMDBClient(apiKey string) *OMDBClient {
	return &OMDBClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     apiKey,
		baseURL:    omdbBaseURL,
	}
}

// omdbTitle is the wire shape of an OMDb title lookup.
type omdbTitle struct {
	Response   string `json:"Response"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	IMDBID     string `json:"imdbID"`
	IMDBRating string `json:"imdbRating"`
}

// LookupMetadata fetches the metadata record for a title. It returns nil on
// any upstream failure, missing key, or no-match response; the orchestrator
// decides what an absent record means.
func (c *OMDBClient) LookupMetadata(ctx context.Context, title string) *models.TitleMetadata {
	if c.apiKey == "" {
		log.Println("omdb: api key not configured, skipping lookup")
		return nil
	}

	q := url.Values{}
	q.Set("apikey", c.apiKey)
	q.Set("t", title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("omdb: lookup %q failed: %v", title, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("omdb: lookup %q returned %s", title, resp.Status)
		return nil
	}

	var t omdbTitle
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		log.Printf("omdb: decode response for %q: %v", title, err)
		return nil
	}
	if t.Response != "True" {
		return nil
	}

	meta := &models.TitleMetadata{
		IMDBID: t.IMDBID,
		Name:   t.Title,
		Year:   t.Year,
		Plot:   t.Plot,
		Rating: t.IMDBRating,
	}
	// OMDb reports missing posters as the literal string "N/A"
	if t.Poster != "" && t.Poster != "N/A" {
		meta.PosterURL = t.Poster
	}
	return meta
}
