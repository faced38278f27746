package handler

import (
	"net/http"
	"strings"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/auth"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/repository"
)

// PlayerHandler handles player profile endpoints.
type PlayerHandler struct {
	playerRepo repository.PlayerRepository
}

// NewPlayerHandler creates a PlayerHandler.
func NewPlayerHandler(playerRepo repository.PlayerRepository) *PlayerHandler {
	return &PlayerHandler{playerRepo: playerRepo}
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	playerID := auth.PlayerIDFromContext(r.Context())
	player, err := h.playerRepo.FindByID(r.Context(), playerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if player == nil {
		writeError(w, http.StatusNotFound, "player not found")
		return
	}
	writeJSON(w, http.StatusOK, player)
}

// UpdateMe handles PATCH /api/v1/players/me
func (h *PlayerHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	playerID := auth.PlayerIDFromContext(r.Context())
	var req struct {
		DisplayName string `json:"display_name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		writeError(w, http.StatusBadRequest, "display_name is required")
		return
	}
	if len(name) > maxDisplayName {
		writeError(w, http.StatusBadRequest, "display_name is too long")
		return
	}

	if err := h.playerRepo.UpdateDisplayName(r.Context(), playerID, name); err != nil {
		writeServiceError(w, r, err)
		return
	}

	player, err := h.playerRepo.FindByID(r.Context(), playerID)
	if err != nil || player == nil {
		writeError(w, http.StatusNotFound, "player not found")
		return
	}
	writeJSON(w, http.StatusOK, player)
}
