package handler

import (
	"net/http"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/auth"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/service"
)

// OrderHandler handles player actions against a live campaign.
type OrderHandler struct {
	orderSvc *service.OrderService
}

// NewOrderHandler creates an OrderHandler.
func NewOrderHandler(orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// IssueOrder handles POST /api/v1/campaigns/{id}/orders
func (h *OrderHandler) IssueOrder(w http.ResponseWriter, r *http.Request) {
	var req service.OrderInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Type == "" || req.GeneralID == "" || req.CityID == "" {
		writeError(w, http.StatusBadRequest, "type, general_id and city_id are required")
		return
	}
	task, err := h.orderSvc.IssueOrder(r.Context(), r.PathValue("id"), auth.PlayerIDFromContext(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// Search handles POST /api/v1/campaigns/{id}/search
func (h *OrderHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GeneralID string `json:"general_id"`
		CityID    string `json:"city_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.orderSvc.Search(r.Context(), r.PathValue("id"), auth.PlayerIDFromContext(r.Context()), req.GeneralID, req.CityID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type factionRequest struct {
	FactionID string `json:"faction_id"`
}

// FormAlliance handles POST /api/v1/campaigns/{id}/diplomacy/alliance
func (h *OrderHandler) FormAlliance(w http.ResponseWriter, r *http.Request) {
	var req factionRequest
	if err := decodeJSON(r, &req); err != nil || req.FactionID == "" {
		writeError(w, http.StatusBadRequest, "faction_id is required")
		return
	}
	if err := h.orderSvc.FormAlliance(r.Context(), r.PathValue("id"), auth.PlayerIDFromContext(r.Context()), req.FactionID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeclareWar handles POST /api/v1/campaigns/{id}/diplomacy/war
func (h *OrderHandler) DeclareWar(w http.ResponseWriter, r *http.Request) {
	var req factionRequest
	if err := decodeJSON(r, &req); err != nil || req.FactionID == "" {
		writeError(w, http.StatusBadRequest, "faction_id is required")
		return
	}
	if err := h.orderSvc.DeclareWar(r.Context(), r.PathValue("id"), auth.PlayerIDFromContext(r.Context()), req.FactionID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Persuade handles POST /api/v1/campaigns/{id}/prisoners/{gid}/persuade
func (h *OrderHandler) Persuade(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecruiterID string `json:"recruiter_id"`
	}
	if err := decodeJSON(r, &req); err != nil || req.RecruiterID == "" {
		writeError(w, http.StatusBadRequest, "recruiter_id is required")
		return
	}
	res, err := h.orderSvc.Persuade(r.Context(), r.PathValue("id"), auth.PlayerIDFromContext(r.Context()), req.RecruiterID, r.PathValue("gid"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Bribe handles POST /api/v1/campaigns/{id}/prisoners/{gid}/bribe
func (h *OrderHandler) Bribe(w http.ResponseWriter, r *http.Request) {
	if err := h.orderSvc.Bribe(r.Context(), r.PathValue("id"), auth.PlayerIDFromContext(r.Context()), r.PathValue("gid")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Tavern handles POST /api/v1/campaigns/{id}/tavern
func (h *OrderHandler) Tavern(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CityID string `json:"city_id"`
	}
	if err := decodeJSON(r, &req); err != nil || req.CityID == "" {
		writeError(w, http.StatusBadRequest, "city_id is required")
		return
	}
	g, err := h.orderSvc.Tavern(r.Context(), r.PathValue("id"), auth.PlayerIDFromContext(r.Context()), req.CityID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

// BuyItem handles POST /api/v1/campaigns/{id}/market
func (h *OrderHandler) BuyItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GeneralID string `json:"general_id"`
		ItemID    string `json:"item_id"`
	}
	if err := decodeJSON(r, &req); err != nil || req.GeneralID == "" || req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "general_id and item_id are required")
		return
	}
	if err := h.orderSvc.BuyItem(r.Context(), r.PathValue("id"), auth.PlayerIDFromContext(r.Context()), req.GeneralID, req.ItemID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AssignGarrison handles POST /api/v1/campaigns/{id}/garrisons/{sub}
func (h *OrderHandler) AssignGarrison(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GeneralID string `json:"general_id"`
	}
	if err := decodeJSON(r, &req); err != nil || req.GeneralID == "" {
		writeError(w, http.StatusBadRequest, "general_id is required")
		return
	}
	if err := h.orderSvc.AssignGarrison(r.Context(), r.PathValue("id"), auth.PlayerIDFromContext(r.Context()), req.GeneralID, r.PathValue("sub")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecallGarrison handles DELETE /api/v1/campaigns/{id}/garrisons/{sub}
func (h *OrderHandler) RecallGarrison(w http.ResponseWriter, r *http.Request) {
	if err := h.orderSvc.RecallGarrison(r.Context(), r.PathValue("id"), auth.PlayerIDFromContext(r.Context()), r.PathValue("sub")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
