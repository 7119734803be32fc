package handlers

import (
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"streamshelf/services/scheduler"
)

var (
	version     string
	versionOnce sync.Once
)

// backendVersion reads the version from version.txt once; "dev" when absent.
func backendVersion() string {
	versionOnce.Do(func() {
		for _, path := range []string{"version.txt", "/app/version.txt"} {
			if data, err := os.ReadFile(path); err == nil {
				version = strings.TrimSpace(string(data))
				return
			}
		}
		version = "dev"
	})
	return version
}

// StatusHandler reports the server version and background-job state.
type StatusHandler struct {
	Scheduler *scheduler.Service
	Region    string
}

// NewStatusHandler creates the status handler.
func NewStatusHandler(sched *scheduler.Service, region string) *StatusHandler {
	return &StatusHandler{Scheduler: sched, Region: region}
}

type statusResponse struct {
	Version string           `json:"version"`
	Region  string           `json:"region"`
	Catalog scheduler.Status `json:"catalogRefresh"`
}

// GetStatus returns version, region, and the last catalog refresh outcome.
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Version: backendVersion(),
		Region:  h.Region,
		Catalog: h.Scheduler.GetStatus(),
	})
}

// RegisterRoutes attaches the status route to the router.
func (h *StatusHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/status", h.GetStatus).Methods(http.MethodGet)
}
