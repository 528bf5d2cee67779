package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"numduel/internal/api/apierr"
	"numduel/internal/model"
	"numduel/internal/services/party"
	"numduel/internal/ws"
)

// PartyHandler serves the read-only REST surface. All gameplay happens
// over the WebSocket; these endpoints exist for lobby discovery and ops.
type PartyHandler struct {
	parties *party.Controller
}

// NewPartyHandler creates a PartyHandler
func NewPartyHandler(parties *party.Controller) *PartyHandler {
	return &PartyHandler{parties: parties}
}

// Get returns the public view of a party by code
func (h *PartyHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.PartyCode(mux.Vars(r)["code"])
	if err := model.ValidatePartyCode(party.NormalizeCode(code)); err != nil {
		apierr.WriteError(w, err)
		return
	}

	prty, err := h.parties.GetParty(r.Context(), code)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ws.NewPartyView(prty))
}

// Stats returns server-wide counters
func (h *PartyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.parties.GetStats(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
