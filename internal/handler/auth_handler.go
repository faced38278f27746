package handler

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/auth"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/repository"
)

const maxDisplayName = 40

// AuthHandler issues guest identities and refreshes tokens.
type AuthHandler struct {
	jwtMgr     *auth.JWTManager
	playerRepo repository.PlayerRepository
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(jwtMgr *auth.JWTManager, playerRepo repository.PlayerRepository) *AuthHandler {
	return &AuthHandler{jwtMgr: jwtMgr, playerRepo: playerRepo}
}

// GuestLogin handles POST /auth/guest. It creates a new player and returns
// a token pair for them.
func (h *AuthHandler) GuestLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DisplayName string `json:"display_name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		name = "Warlord"
	}
	if len(name) > maxDisplayName {
		writeError(w, http.StatusBadRequest, "display_name is too long")
		return
	}

	player, err := h.playerRepo.Create(r.Context(), name)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create guest player")
		writeError(w, http.StatusInternalServerError, "failed to create player")
		return
	}

	tokens, err := h.jwtMgr.GenerateTokenPair(player.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate tokens")
		return
	}
	log.Info().Str("playerId", player.ID).Msg("Guest player created")
	writeJSON(w, http.StatusCreated, map[string]any{"player": player, "tokens": tokens})
}

// RefreshToken exchanges a refresh token for a new token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.jwtMgr.Refresh(req.RefreshToken)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}
