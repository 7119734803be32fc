package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Settings holds the full server configuration.
type Settings struct {
	Server    ServerSettings   `json:"server"`
	Providers ProviderSettings `json:"providers"`
	// DataDir is where the platform catalog snapshot and logs live.
	DataDir string `json:"dataDir"`
	// Region is the operating region; offers outside it are discarded.
	Region string `json:"region"`
}

// ServerSettings configures the HTTP listener.
type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// ProviderSettings holds upstream API credentials.
type ProviderSettings struct {
	OMDBAPIKey      string `json:"omdbApiKey"`
	WatchmodeAPIKey string `json:"watchmodeApiKey"`
}

// Addr returns the listen address in host:port form.
func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Defaults returns the settings used when no config file exists yet.
func Defaults() Settings {
	return Settings{
		Server:  ServerSettings{Host: "0.0.0.0", Port: 8585},
		DataDir: "./data",
		Region:  "US",
	}
}

// Manager loads and saves settings from a JSON file, applying environment
// overrides on every load so containers can configure without a file.
type Manager struct {
	mu   sync.Mutex
	path string
}

// NewManager creates a settings manager backed by the given file path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Load reads settings from disk, falling back to defaults when the file is
// missing, then applies environment overrides.
func (m *Manager) Load() (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Defaults()
	data, err := os.ReadFile(m.path)
	switch {
	case os.IsNotExist(err):
		// First run, defaults plus env is fine
	case err != nil:
		return Settings{}, fmt.Errorf("read settings: %w", err)
	default:
		if err := json.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("parse settings: %w", err)
		}
	}

	applyEnv(&s)
	return s, nil
}

// Save atomically writes settings to disk.
func (m *Manager) Save(s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

func applyEnv(s *Settings) {
	if v := strings.TrimSpace(os.Getenv("OMDB_API_KEY")); v != "" {
		s.Providers.OMDBAPIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("WATCHMODE_API_KEY")); v != "" {
		s.Providers.WatchmodeAPIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("STREAMSHELF_HOST")); v != "" {
		s.Server.Host = v
	}
	if v := strings.TrimSpace(os.Getenv("STREAMSHELF_PORT")); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil && port > 0 {
			s.Server.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("STREAMSHELF_DATA_DIR")); v != "" {
		s.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("STREAMSHELF_REGION")); v != "" {
		s.Region = v
	}
}
