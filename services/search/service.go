// Package search orchestrates title resolution: it reconciles the metadata
// provider and the availability provider into a single result the wizard can
// display, and runs the offer pipeline for a chosen candidate.
package search

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/sourcegraph/conc"

	"streamshelf/models"
	"streamshelf/services/offers"
)

var (
	// ErrInvalidQuery means the query was empty or contained no letters.
	ErrInvalidQuery = errors.New("query must contain at least one letter")
	// ErrNoMetadata means the metadata provider had no record for the query.
	ErrNoMetadata = errors.New("no metadata found for title")
	// ErrNoCandidates means the availability provider matched no titles.
	ErrNoCandidates = errors.New("no matching titles found")
	// ErrNoOffers means the filters legitimately produced zero offers.
	// This is a user-actionable outcome, not an upstream failure.
	ErrNoOffers = errors.New("no offers match the current filters")
	// ErrSuperseded means a newer autocomplete request was issued while this
	// one waited or ran; its result must be discarded.
	ErrSuperseded = errors.New("superseded by a newer request")
)

// DefaultDebounce is the autocomplete quiescence window.
const DefaultDebounce = time.Second

// MetadataProvider is the metadata half of a search round-trip. It fails
// soft: nil means no usable record, never a surfaced error.
type MetadataProvider interface {
	LookupMetadata(ctx context.Context, title string) *models.TitleMetadata
}

// AvailabilityProvider is the streaming-availability half. All lookups fail
// soft to empty slices.
type AvailabilityProvider interface {
	SearchTitles(ctx context.Context, title string) []models.Candidate
	Autocomplete(ctx context.Context, partial string) []models.Candidate
	TitleSources(ctx context.Context, titleID int) []models.RawOffer
}

// Resolution is a successful search round-trip: the metadata card plus the
// candidate list, with at most one candidate marked as the best match.
type Resolution struct {
	Metadata   *models.TitleMetadata `json:"metadata"`
	Candidates []models.Candidate    `json:"candidates"`
}

// CandidateOffers is the grouped offer set for one expanded candidate.
type CandidateOffers struct {
	Offers models.GroupedOffers `json:"offers"`
	// Order lists platform ids in first-seen offer order for display.
	Order []int `json:"order"`
}

// Service coordinates the two providers and the offer pipeline.
type Service struct {
	metadata     MetadataProvider
	availability AvailabilityProvider
	region       string
	debounce     time.Duration

	// suggestSeq is the staleness token for autocomplete: each call captures
	// the counter value at issue time and only the latest may apply results.
	suggestSeq atomic.Uint64
}

// NewService creates a search service operating in the given region.
func NewService(metadata MetadataProvider, availability AvailabilityProvider, region string) *Service {
	return &Service{
		metadata:     metadata,
		availability: availability,
		region:       region,
		debounce:     DefaultDebounce,
	}
}

// SetDebounce overrides the autocomplete quiescence window.
func (s *Service) SetDebounce(d time.Duration) {
	s.debounce = d
}

// ValidQuery reports whether the query is non-empty after trimming and
// contains at least one letter.
func ValidQuery(q string) bool {
	q = strings.TrimSpace(q)
	if q == "" {
		return false
	}
	return strings.ContainsFunc(q, unicode.IsLetter)
}

// Resolve turns a free-text query into a metadata record plus a ranked
// candidate list. The two provider calls run concurrently and both must
// yield data: a result missing either half is not actionable for the user,
// so the whole resolution fails with ErrNoMetadata or ErrNoCandidates.
// Invalid queries fail with ErrInvalidQuery before any network call.
func (s *Service) Resolve(ctx context.Context, query string) (*Resolution, error) {
	if !ValidQuery(query) {
		return nil, ErrInvalidQuery
	}
	query = strings.TrimSpace(query)

	var (
		meta       *models.TitleMetadata
		candidates []models.Candidate
	)
	var wg conc.WaitGroup
	wg.Go(func() {
		meta = s.metadata.LookupMetadata(ctx, query)
	})
	wg.Go(func() {
		candidates = s.availability.SearchTitles(ctx, query)
	})
	wg.Wait()

	if meta == nil {
		return nil, ErrNoMetadata
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	// Advisory highlight: the candidate sharing the metadata record's IMDb
	// id is the default selection. The list order is not changed.
	if meta.IMDBID != "" {
		for i := range candidates {
			if candidates[i].IMDBID == meta.IMDBID {
				candidates[i].BestMatch = true
				break
			}
		}
	}

	return &Resolution{Metadata: meta, Candidates: candidates}, nil
}

// ResolveCandidateOffers fetches raw offers for one candidate and runs them
// through normalize, filter/dedup, and grouping. An empty grouped set yields
// ErrNoOffers so callers can render "no matches under current filters"
// instead of a failure.
func (s *Service) ResolveCandidateOffers(ctx context.Context, candidateID int, sel models.Selection) (*CandidateOffers, error) {
	raw := s.availability.TitleSources(ctx, candidateID)
	filtered := offers.FilterAndDedup(offers.Normalize(raw, s.region), sel)
	if len(filtered) == 0 {
		return nil, ErrNoOffers
	}
	return &CandidateOffers{
		Offers: offers.Group(filtered),
		Order:  offers.PlatformOrder(filtered),
	}, nil
}

// Autocomplete returns live suggestions for a partial query, debounced with
// a staleness token: the call waits out the quiescence window and only the
// most recent caller actually hits the provider. Superseded calls return
// ErrSuperseded, including ones overtaken while their request was in
// flight, so a slow stale response can never overwrite newer suggestions.
// Partials without a letter return nil suggestions without a provider call.
func (s *Service) Autocomplete(ctx context.Context, partial string) ([]models.Candidate, error) {
	seq := s.suggestSeq.Add(1)

	if !ValidQuery(partial) {
		return nil, nil
	}

	if s.debounce > 0 {
		timer := time.NewTimer(s.debounce)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if s.suggestSeq.Load() != seq {
		return nil, ErrSuperseded
	}

	results := s.availability.Autocomplete(ctx, strings.TrimSpace(partial))

	if s.suggestSeq.Load() != seq {
		return nil, ErrSuperseded
	}
	return results, nil
}
