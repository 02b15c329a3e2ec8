package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/structuredfi/notechain/x/issuance/types"
)

// QueryServer defines the issuance QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// PoolRecord returns a registry record by pool ID
func (q *QueryServer) PoolRecord(ctx context.Context, poolID string) (*types.PoolRecord, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	record := q.keeper.GetPoolRecord(sdkCtx, poolID)
	if record == nil {
		return nil, types.ErrPoolNotRegistered.Wrap(poolID)
	}
	return record, nil
}

// PoolRecords returns all registry records
func (q *QueryServer) PoolRecords(ctx context.Context) ([]*types.PoolRecord, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return q.keeper.GetAllPoolRecords(sdkCtx), nil
}

// Roles returns the access-control state
func (q *QueryServer) Roles(ctx context.Context) (*types.Roles, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return q.keeper.GetRoles(sdkCtx), nil
}
