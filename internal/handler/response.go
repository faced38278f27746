package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/logger"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/service"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/pkg/kingdoms"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads and decodes JSON from a request body.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// errorStatus maps service and engine errors to HTTP statuses.
func errorStatus(err error) int {
	var rej *kingdoms.RejectionError
	switch {
	case errors.Is(err, service.ErrCampaignNotFound),
		errors.Is(err, service.ErrSlotNotFound),
		errors.Is(err, service.ErrWorldMissing):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotYourCampaign):
		return http.StatusForbidden
	case errors.Is(err, service.ErrCampaignFinished),
		errors.Is(err, kingdoms.ErrResolutionInProgress):
		return http.StatusConflict
	case errors.Is(err, service.ErrOrderRejected), errors.As(err, &rej):
		return http.StatusUnprocessableEntity
	case errors.Is(err, kingdoms.ErrNoDuelPending),
		errors.Is(err, kingdoms.ErrUnknownDuelist),
		errors.Is(err, kingdoms.ErrUnknownFaction),
		errors.Is(err, service.ErrInvalidDuration),
		errors.Is(err, service.ErrInvalidSlot):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrSavesDisabled):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// writeServiceError writes err with its mapped status. Unexpected errors
// are logged and hidden from the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		l := logger.ForRequest(r.Context())
		l.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
