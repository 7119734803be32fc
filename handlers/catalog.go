package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"streamshelf/models"
	"streamshelf/services/catalog"
)

// CatalogHandler serves the platform catalog snapshot.
type CatalogHandler struct {
	Catalog *catalog.Service
	Region  string
}

// NewCatalogHandler creates the catalog handler for the operating region.
func NewCatalogHandler(svc *catalog.Service, region string) *CatalogHandler {
	return &CatalogHandler{Catalog: svc, Region: region}
}

// GetSources returns the platforms available in the operating region.
// A missing snapshot is an empty list, not an error.
func (h *CatalogHandler) GetSources(w http.ResponseWriter, r *http.Request) {
	platforms, err := h.Catalog.ForRegion(h.Region)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read platform catalog")
		return
	}
	if platforms == nil {
		platforms = []models.PlatformInfo{}
	}
	writeJSON(w, http.StatusOK, platforms)
}

// RegisterRoutes attaches the catalog routes to the router.
func (h *CatalogHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/sources", h.GetSources).Methods(http.MethodGet)
}
