package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/structuredfi/notechain/api/types"
)

// PoolHandler handles pool-related HTTP requests
type PoolHandler struct {
	service types.PoolService
}

// NewPoolHandler creates a new pool handler
func NewPoolHandler(service types.PoolService) *PoolHandler {
	return &PoolHandler{service: service}
}

// HandlePools handles /v1/pools (GET for pool list, ?status= filters)
func (h *PoolHandler) HandlePools(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listPools(w, r)
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	}
}

// HandlePool handles /v1/pools/{pool-id} and its sub-resources:
//
//	GET /v1/pools/{pool-id}          pool detail
//	GET /v1/pools/{pool-id}/escrow   custody record
func (h *PoolHandler) HandlePool(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/pools/")
	if rest == "" {
		writeError(w, http.StatusBadRequest, "missing_pool_id", "pool id is required")
		return
	}

	poolID, sub, _ := strings.Cut(rest, "/")
	switch sub {
	case "":
		h.getPool(w, poolID)
	case "escrow":
		h.getEscrow(w, poolID)
	default:
		writeError(w, http.StatusNotFound, "not_found", "Unknown resource: "+sub)
	}
}

// HandleRoles handles GET /v1/roles
func (h *PoolHandler) HandleRoles(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	roles, err := h.service.GetRoles()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, roles)
}

func (h *PoolHandler) listPools(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	pools, err := h.service.ListPools(status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, &types.ListPoolsResponse{
		Pools:     pools,
		Total:     len(pools),
		Timestamp: types.NowMillis(),
	})
}

func (h *PoolHandler) getPool(w http.ResponseWriter, poolID string) {
	pool, err := h.service.GetPool(poolID)
	if err != nil {
		writeError(w, http.StatusNotFound, "pool_not_found", "Pool not found: "+poolID)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

func (h *PoolHandler) getEscrow(w http.ResponseWriter, poolID string) {
	escrow, err := h.service.GetEscrow(poolID)
	if err != nil {
		writeError(w, http.StatusNotFound, "escrow_not_found", "No escrow record for pool: "+poolID)
		return
	}
	writeJSON(w, http.StatusOK, escrow)
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a standard error response
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, &types.ErrorResponse{Code: code, Message: message})
}
