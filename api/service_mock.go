package api

import (
	"fmt"
	"sync"

	"github.com/structuredfi/notechain/api/types"
)

// MockService serves canned pool data for development and testing.
// It implements both PoolService and PositionService.
type MockService struct {
	mu        sync.RWMutex
	pools     map[string]*types.PoolDetail
	escrows   map[string]*types.EscrowInfo
	positions map[string]map[string]*types.PositionInfo // investor -> poolID -> position
	roles     *types.RolesInfo
}

// NewMockService creates a mock service seeded with sample pools
func NewMockService() *MockService {
	s := &MockService{
		pools:     make(map[string]*types.PoolDetail),
		escrows:   make(map[string]*types.EscrowInfo),
		positions: make(map[string]map[string]*types.PositionInfo),
		roles: &types.RolesInfo{
			Admin:     "cosmos1admin000000000000000000000000000000000",
			Operators: []string{"cosmos1operator00000000000000000000000000000"},
		},
	}
	s.seed()
	return s
}

func (s *MockService) seed() {
	open := &types.PoolDetail{
		PoolSummary: types.PoolSummary{
			PoolID:         "pool-a1b2c3d4e5f60718",
			Issuer:         "cosmos1issuer000000000000000000000000000000",
			InstrumentType: "commercial-paper",
			Denom:          "usdc",
			RateBps:        520,
			Status:         "active",
			TotalShares:    "2500000",
			TotalAssets:    "2500000",
			MaturityDate:   1767225600,
		},
		DocHash:       "0x5f8d2e91c44ab7d3",
		EpochStart:    1756684800,
		EpochEnd:      1759276800,
		MinInvestment: "1000",
		CreatedAt:     1756598400,
	}
	settled := &types.PoolDetail{
		PoolSummary: types.PoolSummary{
			PoolID:         "pool-9e8f7a6b5c4d3e2f",
			Issuer:         "cosmos1issuer000000000000000000000000000000",
			InstrumentType: "treasury-bill",
			Denom:          "usdc",
			RateBps:        480,
			Status:         "settled",
			TotalShares:    "10000000",
			TotalAssets:    "10000000",
			MaturityDate:   1764547200,
		},
		DocHash:       "0x1c3e5a7902b4d6f8",
		EpochStart:    1753920000,
		EpochEnd:      1756598400,
		MinInvestment: "5000",
		IsDiscounted:  true,
		CreatedAt:     1753833600,
	}
	s.pools[open.PoolID] = open
	s.pools[settled.PoolID] = settled

	s.escrows[settled.PoolID] = &types.EscrowInfo{
		PoolID:    settled.PoolID,
		Issuer:    settled.Issuer,
		Amount:    settled.TotalAssets,
		Denom:     settled.Denom,
		IsSettled: true,
	}

	investor := "cosmos1investor0000000000000000000000000000"
	s.positions[investor] = map[string]*types.PositionInfo{
		open.PoolID: {
			PoolID:         open.PoolID,
			Investor:       investor,
			Shares:         "50000",
			InvestedAssets: "50000",
			CurrentValue:   "50000",
		},
		settled.PoolID: {
			PoolID:         settled.PoolID,
			Investor:       investor,
			Shares:         "200000",
			InvestedAssets: "200000",
			CurrentValue:   "200000",
		},
	}
}

// ListPools returns all pools, optionally filtered by status
func (s *MockService) ListPools(status string) ([]types.PoolSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pools := make([]types.PoolSummary, 0, len(s.pools))
	for _, p := range s.pools {
		if status != "" && p.Status != status {
			continue
		}
		pools = append(pools, p.PoolSummary)
	}
	return pools, nil
}

// GetPool returns a single pool by ID
func (s *MockService) GetPool(poolID string) (*types.PoolDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pool, ok := s.pools[poolID]
	if !ok {
		return nil, fmt.Errorf("pool not found: %s", poolID)
	}
	out := *pool
	return &out, nil
}

// GetEscrow returns the escrow record for a pool
func (s *MockService) GetEscrow(poolID string) (*types.EscrowInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	escrow, ok := s.escrows[poolID]
	if !ok {
		return nil, fmt.Errorf("no escrow record for pool: %s", poolID)
	}
	out := *escrow
	return &out, nil
}

// GetRoles returns the registry roles
func (s *MockService) GetRoles() (*types.RolesInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := *s.roles
	return &out, nil
}

// ListPositions returns all positions held by an investor
func (s *MockService) ListPositions(investor string) ([]types.PositionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	positions := make([]types.PositionInfo, 0)
	for _, p := range s.positions[investor] {
		positions = append(positions, *p)
	}
	return positions, nil
}

// GetPosition returns an investor's position in a pool
func (s *MockService) GetPosition(poolID, investor string) (*types.PositionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	position, ok := s.positions[investor][poolID]
	if !ok {
		return nil, fmt.Errorf("no position in pool %s for %s", poolID, investor)
	}
	out := *position
	return &out, nil
}
