package api

import (
	"github.com/structuredfi/notechain/api/types"
)

// Re-export types for convenience
type (
	PoolSummary           = types.PoolSummary
	PoolDetail            = types.PoolDetail
	PositionInfo          = types.PositionInfo
	EscrowInfo            = types.EscrowInfo
	RolesInfo             = types.RolesInfo
	ListPoolsResponse     = types.ListPoolsResponse
	ListPositionsResponse = types.ListPositionsResponse
	PoolService           = types.PoolService
	PositionService       = types.PositionService
)

// nowMillis returns current timestamp in milliseconds
func nowMillis() int64 {
	return types.NowMillis()
}
