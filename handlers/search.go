package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"streamshelf/models"
	"streamshelf/services/providers"
	"streamshelf/services/search"
)

// Successful provider responses are cacheable for 7 days, stale for 1 hour
// while revalidating. Matches the upstream providers' own refresh cadence.
const cacheControlLong = "public, s-maxage=604800, stale-while-revalidate=3600"

// SearchHandler exposes the provider proxy endpoints: metadata lookup,
// title search, autocomplete, and per-title filtered sources.
type SearchHandler struct {
	OMDB      *providers.OMDBClient
	Watchmode *providers.WatchmodeClient
	Search    *search.Service
}

// NewSearchHandler creates the search proxy handler.
func NewSearchHandler(omdb *providers.OMDBClient, wm *providers.WatchmodeClient, searchSvc *search.Service) *SearchHandler {
	return &SearchHandler{OMDB: omdb, Watchmode: wm, Search: searchSvc}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func titleParam(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("title"))
}

// GetTitle proxies the metadata lookup. 404 when the provider has no record.
func (h *SearchHandler) GetTitle(w http.ResponseWriter, r *http.Request) {
	title := titleParam(r)
	if title == "" {
		writeError(w, http.StatusBadRequest, "missing `title`")
		return
	}

	meta := h.OMDB.LookupMetadata(r.Context(), title)
	if meta == nil {
		writeError(w, http.StatusNotFound, "title not found")
		return
	}

	w.Header().Set("Cache-Control", cacheControlLong)
	writeJSON(w, http.StatusOK, meta)
}

// SearchTitles proxies the title name search.
func (h *SearchHandler) SearchTitles(w http.ResponseWriter, r *http.Request) {
	title := titleParam(r)
	if title == "" {
		writeError(w, http.StatusBadRequest, "missing `title`")
		return
	}

	candidates := h.Watchmode.SearchTitles(r.Context(), title)
	if candidates == nil {
		candidates = []models.Candidate{}
	}
	w.Header().Set("Cache-Control", cacheControlLong)
	writeJSON(w, http.StatusOK, candidates)
}

// Autocomplete proxies the live suggestion search. Debounce lives client
// side of this endpoint; the proxy itself is a plain pass-through.
func (h *SearchHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	title := titleParam(r)
	if title == "" {
		writeError(w, http.StatusBadRequest, "missing `title`")
		return
	}

	results := h.Watchmode.Autocomplete(r.Context(), title)
	if results == nil {
		results = []models.Candidate{}
	}
	writeJSON(w, http.StatusOK, results)
}

// GetTitleSources returns the normalized, filtered, grouped offers for one
// title. Platform ids arrive as a comma-separated `platforms` param, access
// labels as `access`.
func (h *SearchHandler) GetTitleSources(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	titleID, err := strconv.Atoi(vars["titleId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid titleId")
		return
	}

	sel := selectionFromQuery(r)
	res, err := h.Search.ResolveCandidateOffers(r.Context(), titleID, sel)
	if err != nil {
		if err == search.ErrNoOffers {
			// Legitimate empty outcome, cacheable like a success
			w.Header().Set("Cache-Control", cacheControlLong)
			writeJSON(w, http.StatusOK, search.CandidateOffers{Offers: models.GroupedOffers{}, Order: []int{}})
			return
		}
		writeError(w, http.StatusBadGateway, "failed to fetch title sources")
		return
	}

	w.Header().Set("Cache-Control", cacheControlLong)
	writeJSON(w, http.StatusOK, res)
}

func selectionFromQuery(r *http.Request) models.Selection {
	var sel models.Selection
	for _, part := range strings.Split(r.URL.Query().Get("platforms"), ",") {
		if id, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			sel.PlatformIDs = append(sel.PlatformIDs, id)
		}
	}
	sel.AccessLabels = []models.AccessLabel{models.LabelIncluded}
	for _, part := range strings.Split(r.URL.Query().Get("access"), ",") {
		if models.AccessLabel(strings.TrimSpace(part)) == models.LabelAll {
			sel.AccessLabels = append(sel.AccessLabels, models.LabelAll)
		}
	}
	return sel
}

// RegisterRoutes attaches the search proxy routes to the router.
func (h *SearchHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/title", h.GetTitle).Methods(http.MethodGet)
	r.HandleFunc("/api/search", h.SearchTitles).Methods(http.MethodGet)
	r.HandleFunc("/api/autocomplete", h.Autocomplete).Methods(http.MethodGet)
	r.HandleFunc("/api/title/{titleId}/sources", h.GetTitleSources).Methods(http.MethodGet)
}
