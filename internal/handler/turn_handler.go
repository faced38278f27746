package handler

import (
	"net/http"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/auth"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/service"
)

// TurnHandler handles turn resolution and duel endpoints.
type TurnHandler struct {
	turnSvc *service.TurnService
}

// NewTurnHandler creates a TurnHandler.
func NewTurnHandler(turnSvc *service.TurnService) *TurnHandler {
	return &TurnHandler{turnSvc: turnSvc}
}

// EndTurn handles POST /api/v1/campaigns/{id}/end-turn
func (h *TurnHandler) EndTurn(w http.ResponseWriter, r *http.Request) {
	out, err := h.turnSvc.EndTurn(r.Context(), r.PathValue("id"), auth.PlayerIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// PendingDuel handles GET /api/v1/campaigns/{id}/duel
func (h *TurnHandler) PendingDuel(w http.ResponseWriter, r *http.Request) {
	duel, err := h.turnSvc.PendingDuel(r.Context(), r.PathValue("id"), auth.PlayerIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if duel == nil {
		writeError(w, http.StatusNotFound, "no duel pending")
		return
	}
	writeJSON(w, http.StatusOK, duel)
}

// SubmitDuel handles POST /api/v1/campaigns/{id}/duel
func (h *TurnHandler) SubmitDuel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WinnerID string `json:"winner_id"`
	}
	if err := decodeJSON(r, &req); err != nil || req.WinnerID == "" {
		writeError(w, http.StatusBadRequest, "winner_id is required")
		return
	}
	out, err := h.turnSvc.SubmitDuelWinner(r.Context(), r.PathValue("id"), auth.PlayerIDFromContext(r.Context()), req.WinnerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
