// Package scheduler runs the periodic background jobs: today just the
// platform-catalog refresh. It owns the job lifecycle so the server can start
// and stop it alongside the HTTP listener.
package scheduler

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"streamshelf/services/catalog"
)

// DefaultRefreshInterval keeps the catalog roughly in step with the
// provider's own weekly update cadence.
const DefaultRefreshInterval = 24 * time.Hour

// Status describes the most recent refresh outcome.
type Status struct {
	Running       bool       `json:"running"`
	LastRunAt     *time.Time `json:"lastRunAt,omitempty"`
	LastError     string     `json:"lastError,omitempty"`
	LastPlatforms int        `json:"lastPlatforms,omitempty"`
}

// Service periodically refreshes the platform catalog snapshot.
type Service struct {
	catalog  *catalog.Service
	interval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	status Status
}

// NewService creates a scheduler refreshing through the given catalog
// service. interval <= 0 selects DefaultRefreshInterval.
func NewService(catalogSvc *catalog.Service, interval time.Duration) *Service {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Service{catalog: catalogSvc, interval: interval}
}

// Start launches the refresh loop. A refresh runs immediately, then on every
// interval tick. Calling Start on a running scheduler is a no-op.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	s.wg.Add(1)
	go s.loop(ctx)
	log.Println("[scheduler] catalog refresh loop started")
}

// Stop cancels the loop and waits for an in-flight refresh, bounded by ctx.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		log.Println("[scheduler] stopped")
	case <-ctx.Done():
		log.Println("[scheduler] stopped without waiting for in-flight refresh")
	}
}

func (s *Service) loop(ctx context.Context) {
	defer s.wg.Done()

	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

// refresh runs one catalog refresh with retries and records the outcome. An
// empty catalog from the provider is not retried; it will not improve until
// the provider fixes its data.
func (s *Service) refresh(ctx context.Context) {
	var count int
	err := retry.Do(
		func() error {
			var err error
			count, err = s.catalog.Refresh(ctx)
			return err
		},
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, catalog.ErrEmptyCatalog)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("[scheduler] catalog refresh attempt %d failed: %v", n+1, err)
		}),
	)

	now := time.Now().UTC()
	s.mu.Lock()
	s.status.LastRunAt = &now
	if err != nil {
		s.status.LastError = err.Error()
		log.Printf("[scheduler] catalog refresh failed: %v", err)
	} else {
		s.status.LastError = ""
		s.status.LastPlatforms = count
		log.Printf("[scheduler] catalog refreshed, %d platforms", count)
	}
	s.mu.Unlock()
}

// GetStatus returns the scheduler state and last refresh outcome.
func (s *Service) GetStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	st.Running = s.running
	return st
}
