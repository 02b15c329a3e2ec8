package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/structuredfi/notechain/api/types"
)

// stubService is a canned PoolService and PositionService for handler tests
type stubService struct {
	pools     map[string]*types.PoolDetail
	escrows   map[string]*types.EscrowInfo
	positions map[string]*types.PositionInfo
}

func newStubService() *stubService {
	active := &types.PoolDetail{
		PoolSummary: types.PoolSummary{
			PoolID:         "pool-0011223344556677",
			Issuer:         "cosmos1issuer",
			InstrumentType: "commercial-paper",
			Denom:          "usdc",
			RateBps:        500,
			Status:         "active",
			TotalShares:    "1000",
			TotalAssets:    "1000",
			MaturityDate:   5000,
		},
		DocHash:       "0xabc123",
		EpochStart:    1000,
		EpochEnd:      2000,
		MinInvestment: "100",
	}
	settled := &types.PoolDetail{
		PoolSummary: types.PoolSummary{
			PoolID:         "pool-8899aabbccddeeff",
			Issuer:         "cosmos1issuer",
			InstrumentType: "treasury-bill",
			Denom:          "usdc",
			RateBps:        480,
			Status:         "settled",
			TotalShares:    "2000",
			TotalAssets:    "2000",
			MaturityDate:   9000,
		},
	}
	return &stubService{
		pools: map[string]*types.PoolDetail{
			active.PoolID:  active,
			settled.PoolID: settled,
		},
		escrows: map[string]*types.EscrowInfo{
			settled.PoolID: {
				PoolID:    settled.PoolID,
				Issuer:    "cosmos1issuer",
				Amount:    "2000",
				Denom:     "usdc",
				IsSettled: true,
			},
		},
		positions: map[string]*types.PositionInfo{
			active.PoolID: {
				PoolID:         active.PoolID,
				Investor:       "cosmos1investor",
				Shares:         "500",
				InvestedAssets: "500",
				CurrentValue:   "500",
			},
		},
	}
}

func (s *stubService) ListPools(status string) ([]types.PoolSummary, error) {
	out := []types.PoolSummary{}
	for _, p := range s.pools {
		if status != "" && p.Status != status {
			continue
		}
		out = append(out, p.PoolSummary)
	}
	return out, nil
}

func (s *stubService) GetPool(poolID string) (*types.PoolDetail, error) {
	p, ok := s.pools[poolID]
	if !ok {
		return nil, fmt.Errorf("pool not found: %s", poolID)
	}
	return p, nil
}

func (s *stubService) GetEscrow(poolID string) (*types.EscrowInfo, error) {
	e, ok := s.escrows[poolID]
	if !ok {
		return nil, fmt.Errorf("no escrow record for pool: %s", poolID)
	}
	return e, nil
}

func (s *stubService) GetRoles() (*types.RolesInfo, error) {
	return &types.RolesInfo{Admin: "cosmos1admin", Operators: []string{"cosmos1op"}}, nil
}

func (s *stubService) ListPositions(investor string) ([]types.PositionInfo, error) {
	out := []types.PositionInfo{}
	for _, p := range s.positions {
		if p.Investor == investor {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubService) GetPosition(poolID, investor string) (*types.PositionInfo, error) {
	p, ok := s.positions[poolID]
	if !ok || p.Investor != investor {
		return nil, fmt.Errorf("no position in pool %s for %s", poolID, investor)
	}
	return p, nil
}

func TestHandlePoolsList(t *testing.T) {
	handler := NewPoolHandler(newStubService())

	req := httptest.NewRequest(http.MethodGet, "/v1/pools", nil)
	rec := httptest.NewRecorder()
	handler.HandlePools(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp types.ListPoolsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("expected 2 pools, got %d", resp.Total)
	}
}

func TestHandlePoolsStatusFilter(t *testing.T) {
	handler := NewPoolHandler(newStubService())

	req := httptest.NewRequest(http.MethodGet, "/v1/pools?status=settled", nil)
	rec := httptest.NewRecorder()
	handler.HandlePools(rec, req)

	var resp types.ListPoolsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("expected 1 settled pool, got %d", resp.Total)
	}
	if resp.Pools[0].Status != "settled" {
		t.Errorf("expected settled pool, got %s", resp.Pools[0].Status)
	}
}

func TestHandlePoolDetail(t *testing.T) {
	handler := NewPoolHandler(newStubService())

	req := httptest.NewRequest(http.MethodGet, "/v1/pools/pool-0011223344556677", nil)
	rec := httptest.NewRecorder()
	handler.HandlePool(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var pool types.PoolDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &pool); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if pool.RateBps != 500 {
		t.Errorf("expected rate 500, got %d", pool.RateBps)
	}
	if pool.DocHash != "0xabc123" {
		t.Errorf("expected doc hash to round-trip, got %s", pool.DocHash)
	}
}

func TestHandlePoolNotFound(t *testing.T) {
	handler := NewPoolHandler(newStubService())

	req := httptest.NewRequest(http.MethodGet, "/v1/pools/pool-doesnotexist0000", nil)
	rec := httptest.NewRecorder()
	handler.HandlePool(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var errResp types.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if errResp.Code != "pool_not_found" {
		t.Errorf("expected pool_not_found, got %s", errResp.Code)
	}
}

func TestHandlePoolEscrow(t *testing.T) {
	handler := NewPoolHandler(newStubService())

	req := httptest.NewRequest(http.MethodGet, "/v1/pools/pool-8899aabbccddeeff/escrow", nil)
	rec := httptest.NewRecorder()
	handler.HandlePool(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var escrow types.EscrowInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &escrow); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !escrow.IsSettled {
		t.Errorf("expected settled escrow")
	}
	if escrow.Amount != "2000" {
		t.Errorf("expected amount 2000, got %s", escrow.Amount)
	}
}

func TestHandlePoolEscrowMissing(t *testing.T) {
	handler := NewPoolHandler(newStubService())

	// The active pool has not settled, so no escrow record exists
	req := httptest.NewRequest(http.MethodGet, "/v1/pools/pool-0011223344556677/escrow", nil)
	rec := httptest.NewRecorder()
	handler.HandlePool(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandlePoolMethodNotAllowed(t *testing.T) {
	handler := NewPoolHandler(newStubService())

	req := httptest.NewRequest(http.MethodPost, "/v1/pools/pool-0011223344556677", nil)
	rec := httptest.NewRecorder()
	handler.HandlePool(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestHandleRoles(t *testing.T) {
	handler := NewPoolHandler(newStubService())

	req := httptest.NewRequest(http.MethodGet, "/v1/roles", nil)
	rec := httptest.NewRecorder()
	handler.HandleRoles(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var roles types.RolesInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &roles); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if roles.Admin != "cosmos1admin" {
		t.Errorf("expected admin, got %s", roles.Admin)
	}
	if len(roles.Operators) != 1 {
		t.Errorf("expected 1 operator, got %d", len(roles.Operators))
	}
}

func TestHandlePositionsRequiresInvestor(t *testing.T) {
	handler := NewPositionHandler(newStubService())

	req := httptest.NewRequest(http.MethodGet, "/v1/positions", nil)
	rec := httptest.NewRecorder()
	handler.HandlePositions(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandlePositionsByQuery(t *testing.T) {
	handler := NewPositionHandler(newStubService())

	req := httptest.NewRequest(http.MethodGet, "/v1/positions?investor=cosmos1investor", nil)
	rec := httptest.NewRecorder()
	handler.HandlePositions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp types.ListPositionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(resp.Positions))
	}
	if resp.Positions[0].Shares != "500" {
		t.Errorf("expected 500 shares, got %s", resp.Positions[0].Shares)
	}
}

func TestHandlePositionByHeader(t *testing.T) {
	handler := NewPositionHandler(newStubService())

	req := httptest.NewRequest(http.MethodGet, "/v1/positions/pool-0011223344556677", nil)
	req.Header.Set("X-Investor-Address", "cosmos1investor")
	rec := httptest.NewRecorder()
	handler.HandlePosition(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var position types.PositionInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &position); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if position.PoolID != "pool-0011223344556677" {
		t.Errorf("unexpected pool id %s", position.PoolID)
	}
}

func TestHandlePositionUnknownInvestor(t *testing.T) {
	handler := NewPositionHandler(newStubService())

	req := httptest.NewRequest(http.MethodGet, "/v1/positions/pool-0011223344556677?investor=cosmos1stranger", nil)
	rec := httptest.NewRecorder()
	handler.HandlePosition(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
