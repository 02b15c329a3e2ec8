package handlers

import (
	"net/http"
	"strings"

	"github.com/structuredfi/notechain/api/types"
)

// PositionHandler handles position-related HTTP requests
type PositionHandler struct {
	service types.PositionService
}

// NewPositionHandler creates a new position handler
func NewPositionHandler(service types.PositionService) *PositionHandler {
	return &PositionHandler{service: service}
}

// HandlePositions handles /v1/positions (GET for all positions of an investor)
func (h *PositionHandler) HandlePositions(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	investor := r.URL.Query().Get("investor")
	if investor == "" {
		investor = r.Header.Get("X-Investor-Address")
	}
	if investor == "" {
		writeError(w, http.StatusBadRequest, "missing_investor", "investor address is required")
		return
	}

	positions, err := h.service.ListPositions(investor)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, &types.ListPositionsResponse{
		Investor:  investor,
		Positions: positions,
		Timestamp: types.NowMillis(),
	})
}

// HandlePosition handles /v1/positions/{pool-id} for a single position
func (h *PositionHandler) HandlePosition(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	poolID := strings.TrimPrefix(r.URL.Path, "/v1/positions/")
	if poolID == "" {
		writeError(w, http.StatusBadRequest, "missing_pool_id", "pool id is required")
		return
	}

	investor := r.URL.Query().Get("investor")
	if investor == "" {
		investor = r.Header.Get("X-Investor-Address")
	}
	if investor == "" {
		writeError(w, http.StatusBadRequest, "missing_investor", "investor address is required")
		return
	}

	position, err := h.service.GetPosition(poolID, investor)
	if err != nil {
		writeError(w, http.StatusNotFound, "position_not_found", "No position in pool: "+poolID)
		return
	}
	writeJSON(w, http.StatusOK, position)
}
