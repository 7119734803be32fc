// Package wizard owns the multi-step selection flow: which step the user is
// on, which platforms and access labels are committed, and the most recent
// search results. All mutation goes through the service so session state is
// never touched concurrently by two operations.
package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"streamshelf/models"
	"streamshelf/services/search"
)

var (
	ErrSessionNotFound = errors.New("wizard session not found")
	ErrUnknownStep     = errors.New("unknown wizard step")
)

const (
	// DefaultSessionTTL is how long an idle session survives.
	DefaultSessionTTL = 30 * time.Minute

	cleanupInterval = 5 * time.Minute
)

// User-visible messages. Validation errors render inline next to their
// control; result errors render in the results area.
const (
	msgSelectPlatforms = "Select at least one service."
	msgInvalidQuery    = "Enter a valid search term (at least one letter)."
	msgNoMetadata      = "No results found for that title."
	msgNoCandidates    = "No matching titles found."
	msgOffersFailed    = "Error fetching services for this title."
	msgNoMatches       = "No services available for this title with your filters."
)

// session is the mutable per-user wizard state. Only the service touches it,
// always under the service lock.
type session struct {
	token     string
	step      models.WizardStep
	selection models.Selection
	query     string

	metadata    *models.TitleMetadata
	candidates  []models.Candidate
	suggestions []models.Candidate
	expandedID  int
	offers      models.GroupedOffers
	order       []int

	selectionError string
	queryError     string
	resultError    string
	noMatches      bool

	updatedAt time.Time
}

// Service manages wizard sessions and drives the search orchestrator on
// their behalf.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*session
	search   *search.Service
	ttl      time.Duration
}

// NewService creates a wizard service. Sessions live in memory only and
// expire after ttl of inactivity (DefaultSessionTTL if ttl <= 0).
func NewService(searchSvc *search.Service, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	svc := &Service{
		sessions: make(map[string]*session),
		search:   searchSvc,
		ttl:      ttl,
	}
	go svc.cleanupLoop()
	return svc
}

func (s *Service) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		for token, sess := range s.sessions {
			if time.Since(sess.updatedAt) > s.ttl {
				delete(s.sessions, token)
			}
		}
		s.mu.Unlock()
	}
}

// Create starts a new session at the access step with the baseline access
// label committed.
func (s *Service) Create() models.WizardSnapshot {
	sess := &session{
		token: uuid.NewString(),
		step:  models.StepAccess,
		selection: models.Selection{
			AccessLabels: []models.AccessLabel{models.LabelIncluded},
		},
		updatedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[sess.token] = sess
	s.mu.Unlock()

	return snapshotOf(sess)
}

// Get returns a snapshot of the session.
func (s *Service) Get(token string) (models.WizardSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	if !ok {
		return models.WizardSnapshot{}, ErrSessionNotFound
	}
	return snapshotOf(sess), nil
}

func (s *Service) locked(token string, fn func(*session)) (models.WizardSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return models.WizardSnapshot{}, ErrSessionNotFound
	}
	fn(sess)
	sess.updatedAt = time.Now()
	return snapshotOf(sess), nil
}

// AdvanceStep moves the session to the next step. Access advances freely;
// Platforms advances only when at least one platform is selected, otherwise
// a validation error is recorded and the session stays put. Advancing from
// Search is a no-op: the flow re-enters via direct jumps.
func (s *Service) AdvanceStep(token string) (models.WizardSnapshot, error) {
	return s.locked(token, func(sess *session) {
		switch sess.step {
		case models.StepAccess:
			s.enterStep(sess, models.StepPlatforms)
		case models.StepPlatforms:
			if len(sess.selection.PlatformIDs) == 0 {
				sess.selectionError = msgSelectPlatforms
				return
			}
			sess.selectionError = ""
			s.enterStep(sess, models.StepSearch)
		}
	})
}

// JumpToStep navigates directly to a step. Navigation always happens; when
// the target is the search step its invariants are re-validated and any
// violations surface as inline errors without blocking the jump.
func (s *Service) JumpToStep(token string, step models.WizardStep) (models.WizardSnapshot, error) {
	if step < models.StepAccess || step > models.StepSearch {
		return models.WizardSnapshot{}, ErrUnknownStep
	}
	return s.locked(token, func(sess *session) {
		s.enterStep(sess, step)
		if step == models.StepSearch {
			if len(sess.selection.PlatformIDs) == 0 {
				sess.selectionError = msgSelectPlatforms
			}
			if !search.ValidQuery(sess.query) {
				sess.queryError = msgInvalidQuery
			}
		}
	})
}

// enterStep performs the transition and clears transient search state
// whenever the search step is entered from elsewhere or left. Stale results
// must never be shown against a different step context.
func (s *Service) enterStep(sess *session, step models.WizardStep) {
	crossing := (sess.step == models.StepSearch) != (step == models.StepSearch)
	sess.step = step
	if crossing {
		sess.metadata = nil
		sess.candidates = nil
		sess.suggestions = nil
		sess.expandedID = 0
		sess.offers = nil
		sess.order = nil
		sess.queryError = ""
		sess.resultError = ""
		sess.noMatches = false
	}
}

// SetSelection commits the platform and access-label choices. The baseline
// access label is always re-applied; an empty platform set records an inline
// validation error but is still committed so the UI reflects reality.
func (s *Service) SetSelection(token string, sel models.Selection) (models.WizardSnapshot, error) {
	return s.locked(token, func(sess *session) {
		sel.AccessLabels = normalizeLabels(sel.AccessLabels)
		sess.selection = sel
		if len(sel.PlatformIDs) == 0 {
			sess.selectionError = msgSelectPlatforms
		} else {
			sess.selectionError = ""
		}
	})
}

// SetQuery commits the free-text title query and validates it inline.
func (s *Service) SetQuery(token string, query string) (models.WizardSnapshot, error) {
	return s.locked(token, func(sess *session) {
		sess.query = query
		if search.ValidQuery(query) {
			sess.queryError = ""
		} else {
			sess.queryError = msgInvalidQuery
		}
	})
}

// Search resolves the committed query and stores the metadata card plus the
// candidate list. Core errors are translated to user-displayable messages;
// they never propagate out of the session layer.
func (s *Service) Search(ctx context.Context, token string) (models.WizardSnapshot, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	if !ok {
		s.mu.RUnlock()
		return models.WizardSnapshot{}, ErrSessionNotFound
	}
	query := sess.query
	s.mu.RUnlock()

	res, err := s.search.Resolve(ctx, query)

	return s.locked(token, func(sess *session) {
		sess.metadata = nil
		sess.candidates = nil
		sess.offers = nil
		sess.order = nil
		sess.expandedID = 0
		sess.noMatches = false
		sess.resultError = ""
		sess.queryError = ""

		switch {
		case err == nil:
			sess.metadata = res.Metadata
			sess.candidates = res.Candidates
		case errors.Is(err, search.ErrInvalidQuery):
			sess.queryError = msgInvalidQuery
		case errors.Is(err, search.ErrNoMetadata):
			sess.resultError = msgNoMetadata
		case errors.Is(err, search.ErrNoCandidates):
			sess.resultError = msgNoCandidates
		default:
			sess.resultError = err.Error()
		}
	})
}

// SelectCandidate expands one candidate and stores its grouped offers,
// filtered by the committed selection. Zero offers after filtering is
// recorded as a no-matches outcome, distinct from a fetch failure.
func (s *Service) SelectCandidate(ctx context.Context, token string, candidateID int) (models.WizardSnapshot, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	if !ok {
		s.mu.RUnlock()
		return models.WizardSnapshot{}, ErrSessionNotFound
	}
	sel := sess.selection
	s.mu.RUnlock()

	res, err := s.search.ResolveCandidateOffers(ctx, candidateID, sel)

	return s.locked(token, func(sess *session) {
		sess.expandedID = candidateID
		sess.offers = nil
		sess.order = nil
		sess.noMatches = false
		sess.resultError = ""

		switch {
		case err == nil:
			sess.offers = res.Offers
			sess.order = res.Order
		case errors.Is(err, search.ErrNoOffers):
			sess.noMatches = true
		default:
			sess.resultError = msgOffersFailed
		}
	})
}

// Suggest updates the live suggestion list for a partial query. Superseded
// responses are dropped, and a response arriving after the session left the
// search step is dropped too.
func (s *Service) Suggest(ctx context.Context, token string, partial string) (models.WizardSnapshot, error) {
	if _, err := s.Get(token); err != nil {
		return models.WizardSnapshot{}, err
	}

	results, err := s.search.Autocomplete(ctx, partial)

	return s.locked(token, func(sess *session) {
		if errors.Is(err, search.ErrSuperseded) || sess.step != models.StepSearch {
			return
		}
		if err != nil {
			// Suggestions are best-effort; failures just leave the list empty
			sess.suggestions = nil
			return
		}
		sess.suggestions = results
	})
}

// snapshotOf copies session state into an immutable snapshot. Caller must
// hold the service lock.
func snapshotOf(sess *session) models.WizardSnapshot {
	return models.WizardSnapshot{
		Token:          sess.token,
		Step:           sess.step,
		StepName:       sess.step.String(),
		Selection:      sess.selection,
		Query:          sess.query,
		Metadata:       sess.metadata,
		Candidates:     sess.candidates,
		Suggestions:    sess.suggestions,
		ExpandedID:     sess.expandedID,
		Offers:         sess.offers,
		PlatformOrder:  sess.order,
		SelectionError: sess.selectionError,
		QueryError:     sess.queryError,
		ResultError:    sess.resultError,
		NoMatches:      sess.noMatches,
		UpdatedAt:      sess.updatedAt,
	}
}

// normalizeLabels keeps only known labels and guarantees the baseline label
// is present exactly once.
func normalizeLabels(labels []models.AccessLabel) []models.AccessLabel {
	out := []models.AccessLabel{models.LabelIncluded}
	for _, l := range labels {
		if l == models.LabelAll {
			out = append(out, models.LabelAll)
			break
		}
	}
	return out
}
