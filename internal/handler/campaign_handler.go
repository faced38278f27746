package handler

import (
	"net/http"
	"strconv"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/auth"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/model"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/service"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/pkg/kingdoms"
)

// CampaignHandler handles campaign lifecycle, history and save endpoints.
type CampaignHandler struct {
	campaignSvc     *service.CampaignService
	defaultDuration string
}

// NewCampaignHandler creates a CampaignHandler. defaultDuration applies to
// campaigns created without a turn duration.
func NewCampaignHandler(campaignSvc *service.CampaignService, defaultDuration string) *CampaignHandler {
	return &CampaignHandler{campaignSvc: campaignSvc, defaultDuration: defaultDuration}
}

// ListFactions handles GET /api/v1/factions
func (h *CampaignHandler) ListFactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, kingdoms.Factions())
}

// Catalog handles GET /api/v1/catalog
func (h *CampaignHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": kingdoms.Catalog, "traits": kingdoms.Traits})
}

// CreateCampaign handles POST /api/v1/campaigns
func (h *CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	playerID := auth.PlayerIDFromContext(r.Context())
	var req struct {
		Name         string  `json:"name"`
		FactionID    string  `json:"faction_id"`
		TurnDuration *string `json:"turn_duration,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FactionID == "" {
		writeError(w, http.StatusBadRequest, "faction_id is required")
		return
	}
	duration := h.defaultDuration
	if req.TurnDuration != nil {
		duration = *req.TurnDuration
	}

	c, world, err := h.campaignSvc.CreateCampaign(r.Context(), playerID, req.Name, req.FactionID, duration)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"campaign": c, "world": world})
}

// ListCampaigns handles GET /api/v1/campaigns
func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	playerID := auth.PlayerIDFromContext(r.Context())
	campaigns, err := h.campaignSvc.ListCampaigns(r.Context(), playerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if campaigns == nil {
		campaigns = []model.Campaign{}
	}
	writeJSON(w, http.StatusOK, campaigns)
}

// GetCampaign handles GET /api/v1/campaigns/{id}
func (h *CampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := h.campaignSvc.GetCampaign(r.Context(), r.PathValue("id"), auth.PlayerIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCampaign handles DELETE /api/v1/campaigns/{id}
func (h *CampaignHandler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := h.campaignSvc.DeleteCampaign(r.Context(), r.PathValue("id"), auth.PlayerIDFromContext(r.Context())); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// World handles GET /api/v1/campaigns/{id}/world
func (h *CampaignHandler) World(w http.ResponseWriter, r *http.Request) {
	world, err := h.campaignSvc.World(r.Context(), r.PathValue("id"), auth.PlayerIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, world)
}

// ListTurns handles GET /api/v1/campaigns/{id}/turns
func (h *CampaignHandler) ListTurns(w http.ResponseWriter, r *http.Request) {
	turns, err := h.campaignSvc.Turns(r.Context(), r.PathValue("id"), auth.PlayerIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if turns == nil {
		turns = []model.TurnRecord{}
	}
	writeJSON(w, http.StatusOK, turns)
}

// ListBattles handles GET /api/v1/campaigns/{id}/battles
func (h *CampaignHandler) ListBattles(w http.ResponseWriter, r *http.Request) {
	battles, err := h.campaignSvc.Battles(r.Context(), r.PathValue("id"), auth.PlayerIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if battles == nil {
		battles = []model.BattleReport{}
	}
	writeJSON(w, http.StatusOK, battles)
}

// Chronicle handles GET /api/v1/campaigns/{id}/chronicle?limit=N
func (h *CampaignHandler) Chronicle(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	entries, err := h.campaignSvc.Chronicle(r.Context(), r.PathValue("id"), auth.PlayerIDFromContext(r.Context()), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if entries == nil {
		entries = []model.ChronicleEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// SaveGame handles POST /api/v1/campaigns/{id}/saves
func (h *CampaignHandler) SaveGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slot string `json:"slot"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	save, err := h.campaignSvc.SaveGame(r.Context(), r.PathValue("id"), auth.PlayerIDFromContext(r.Context()), req.Slot)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, save)
}

// LoadGame handles POST /api/v1/campaigns/{id}/saves/{slot}/load
func (h *CampaignHandler) LoadGame(w http.ResponseWriter, r *http.Request) {
	world, err := h.campaignSvc.LoadGame(r.Context(), r.PathValue("id"), auth.PlayerIDFromContext(r.Context()), r.PathValue("slot"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, world)
}

// ListSaves handles GET /api/v1/saves
func (h *CampaignHandler) ListSaves(w http.ResponseWriter, r *http.Request) {
	saves, err := h.campaignSvc.ListSaves(r.Context(), auth.PlayerIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if saves == nil {
		saves = []model.SaveSlot{}
	}
	writeJSON(w, http.StatusOK, saves)
}

// DeleteSave handles DELETE /api/v1/saves/{slot}
func (h *CampaignHandler) DeleteSave(w http.ResponseWriter, r *http.Request) {
	if err := h.campaignSvc.DeleteSave(r.Context(), auth.PlayerIDFromContext(r.Context()), r.PathValue("slot")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
