package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"streamshelf/models"
	"streamshelf/services/wizard"
)

// WizardHandler exposes the wizard session state machine over HTTP. Every
// mutation returns the full session snapshot so the client always renders
// against current state.
type WizardHandler struct {
	Wizard *wizard.Service
}

// NewWizardHandler creates the wizard handler.
func NewWizardHandler(svc *wizard.Service) *WizardHandler {
	return &WizardHandler{Wizard: svc}
}

func (h *WizardHandler) respond(w http.ResponseWriter, snap models.WizardSnapshot, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, snap)
	case errors.Is(err, wizard.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, wizard.ErrUnknownStep):
		writeError(w, http.StatusBadRequest, "unknown step")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// CreateSession starts a new wizard session.
func (h *WizardHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, h.Wizard.Create())
}

// GetSession returns the current session snapshot.
func (h *WizardHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Wizard.Get(mux.Vars(r)["token"])
	h.respond(w, snap, err)
}

// PostStep advances or jumps the session. Body: {"step": "search"} jumps
// directly to the named step; an empty body advances to the next step.
func (h *WizardHandler) PostStep(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var body struct {
		Step string `json:"step"`
	}
	// An empty or absent body means "advance"
	_ = json.NewDecoder(r.Body).Decode(&body)

	if body.Step == "" {
		snap, err := h.Wizard.AdvanceStep(token)
		h.respond(w, snap, err)
		return
	}

	step, ok := models.ParseWizardStep(body.Step)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown step")
		return
	}
	snap, err := h.Wizard.JumpToStep(token, step)
	h.respond(w, snap, err)
}

// PutSelection commits the platform and access-label selection.
func (h *WizardHandler) PutSelection(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var sel models.Selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		writeError(w, http.StatusBadRequest, "invalid selection payload")
		return
	}
	snap, err := h.Wizard.SetSelection(token, sel)
	h.respond(w, snap, err)
}

// PutQuery commits the free-text title query.
func (h *WizardHandler) PutQuery(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var body struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid query payload")
		return
	}
	snap, err := h.Wizard.SetQuery(token, body.Query)
	h.respond(w, snap, err)
}

// PostSearch runs title resolution for the committed query.
func (h *WizardHandler) PostSearch(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Wizard.Search(r.Context(), mux.Vars(r)["token"])
	h.respond(w, snap, err)
}

// PostCandidateOffers expands one candidate and loads its grouped offers.
func (h *WizardHandler) PostCandidateOffers(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	candidateID, err := strconv.Atoi(vars["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid candidate id")
		return
	}
	snap, err := h.Wizard.SelectCandidate(r.Context(), vars["token"], candidateID)
	h.respond(w, snap, err)
}

// PostSuggest updates the live suggestion list for a partial query.
func (h *WizardHandler) PostSuggest(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var body struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid query payload")
		return
	}
	snap, err := h.Wizard.Suggest(r.Context(), token, body.Query)
	h.respond(w, snap, err)
}

// RegisterRoutes attaches the wizard session routes to the router.
func (h *WizardHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/wizard", h.CreateSession).Methods(http.MethodPost)
	r.HandleFunc("/api/wizard/{token}", h.GetSession).Methods(http.MethodGet)
	r.HandleFunc("/api/wizard/{token}/step", h.PostStep).Methods(http.MethodPost)
	r.HandleFunc("/api/wizard/{token}/selection", h.PutSelection).Methods(http.MethodPut)
	r.HandleFunc("/api/wizard/{token}/query", h.PutQuery).Methods(http.MethodPut)
	r.HandleFunc("/api/wizard/{token}/search", h.PostSearch).Methods(http.MethodPost)
	r.HandleFunc("/api/wizard/{token}/candidates/{id}/offers", h.PostCandidateOffers).Methods(http.MethodPost)
	r.HandleFunc("/api/wizard/{token}/suggest", h.PostSuggest).Methods(http.MethodPost)
}
