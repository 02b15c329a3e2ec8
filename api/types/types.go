package types

import "time"

// PoolSummary is the list view of a pool
type PoolSummary struct {
	PoolID         string `json:"pool_id"`
	Issuer         string `json:"issuer"`
	InstrumentType string `json:"instrument_type"`
	Denom          string `json:"denom"`
	RateBps        int64  `json:"rate_bps"`
	Status         string `json:"status"`
	TotalShares    string `json:"total_shares"`
	TotalAssets    string `json:"total_assets"`
	MaturityDate   int64  `json:"maturity_date"`
}

// PoolDetail is the full view of a pool including its terms
type PoolDetail struct {
	PoolSummary
	DocHash       string `json:"doc_hash"`
	EpochStart    int64  `json:"epoch_start"`
	EpochEnd      int64  `json:"epoch_end"`
	MinInvestment string `json:"min_investment"`
	IsDiscounted  bool   `json:"is_discounted"`
	CreatedAt     int64  `json:"created_at"`
}

// PositionInfo describes an investor's stake in a pool
type PositionInfo struct {
	PoolID         string `json:"pool_id"`
	Investor       string `json:"investor"`
	Shares         string `json:"shares"`
	InvestedAssets string `json:"invested_assets"`
	CurrentValue   string `json:"current_value"`
}

// EscrowInfo describes the custody record for a pool
type EscrowInfo struct {
	PoolID    string `json:"pool_id"`
	Issuer    string `json:"issuer"`
	Amount    string `json:"amount"`
	Denom     string `json:"denom"`
	IsSettled bool   `json:"is_settled"`
	IsMatured bool   `json:"is_matured"`
}

// RolesInfo describes the registry's access control state
type RolesInfo struct {
	Admin     string   `json:"admin"`
	Operators []string `json:"operators"`
}

// ListPoolsResponse is the payload of GET /v1/pools
type ListPoolsResponse struct {
	Pools     []PoolSummary `json:"pools"`
	Total     int           `json:"total"`
	Timestamp int64         `json:"timestamp"`
}

// ListPositionsResponse is the payload of GET /v1/positions
type ListPositionsResponse struct {
	Investor  string         `json:"investor"`
	Positions []PositionInfo `json:"positions"`
	Timestamp int64          `json:"timestamp"`
}

// ErrorResponse is the standard error payload
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PoolService provides read access to pool and escrow state
type PoolService interface {
	ListPools(status string) ([]PoolSummary, error)
	GetPool(poolID string) (*PoolDetail, error)
	GetEscrow(poolID string) (*EscrowInfo, error)
	GetRoles() (*RolesInfo, error)
}

// PositionService provides read access to investor positions
type PositionService interface {
	ListPositions(investor string) ([]PositionInfo, error)
	GetPosition(poolID, investor string) (*PositionInfo, error)
}

// NowMillis returns the current timestamp in milliseconds
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
