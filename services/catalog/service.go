// Package catalog stores the platform catalog snapshot: the list of known
// streaming platforms used to populate the selection step. The snapshot is
// produced by a periodic one-shot refresh job and treated as a read-only
// input everywhere else.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"streamshelf/models"
)

// ErrEmptyCatalog is returned by Refresh when the provider reports zero
// platforms; an empty catalog would wipe a previously good snapshot.
var ErrEmptyCatalog = errors.New("provider returned an empty platform catalog")

const snapshotFile = "sources.json"

// CatalogProvider fetches the full platform catalog from upstream.
type CatalogProvider interface {
	AllSources(ctx context.Context) ([]models.PlatformInfo, error)
}

// Service reads and refreshes the platform catalog snapshot.
type Service struct {
	mu        sync.RWMutex
	fs        afero.Fs
	path      string
	provider  CatalogProvider
	platforms []models.PlatformInfo
	loaded    bool
}

// NewService creates a catalog service persisting under dataDir.
func NewService(fs afero.Fs, dataDir string, provider CatalogProvider) *Service {
	return &Service{
		fs:       fs,
		path:     filepath.Join(dataDir, snapshotFile),
		provider: provider,
	}
}

// All returns every platform in the snapshot. A missing snapshot is an empty
// catalog, not an error.
func (s *Service) All() ([]models.PlatformInfo, error) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.platforms, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.platforms, nil
	}

	data, err := afero.ReadFile(s.fs, s.path)
	switch {
	case err != nil && os.IsNotExist(err):
		s.platforms = nil
	case err != nil:
		return nil, fmt.Errorf("read catalog snapshot: %w", err)
	default:
		var platforms []models.PlatformInfo
		if err := json.Unmarshal(data, &platforms); err != nil {
			return nil, fmt.Errorf("parse catalog snapshot: %w", err)
		}
		s.platforms = platforms
	}
	s.loaded = true
	return s.platforms, nil
}

// ForRegion returns the platforms operating in the given region.
func (s *Service) ForRegion(region string) ([]models.PlatformInfo, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}
	out := make([]models.PlatformInfo, 0, len(all))
	for _, p := range all {
		if p.SupportsRegion(region) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Refresh pulls the full catalog from the provider and atomically rewrites
// the snapshot. The previous snapshot survives any failure.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	platforms, err := s.provider.AllSources(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch platform catalog: %w", err)
	}
	if len(platforms) == 0 {
		return 0, ErrEmptyCatalog
	}

	data, err := json.MarshalIndent(platforms, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshal catalog: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return 0, fmt.Errorf("create data dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return 0, fmt.Errorf("write catalog snapshot: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return 0, fmt.Errorf("replace catalog snapshot: %w", err)
	}

	s.platforms = platforms
	s.loaded = true
	log.Printf("catalog: snapshot refreshed with %d platforms", len(platforms))
	return len(platforms), nil
}
