package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/structuredfi/notechain/x/debtpool/types"
)

// QueryServer defines the debtpool QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// Pool returns a pool by ID
func (q *QueryServer) Pool(ctx context.Context, poolID string) (*types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool := q.keeper.GetPool(sdkCtx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound.Wrap(poolID)
	}
	return pool, nil
}

// Pools returns all pools with offset/limit pagination
func (q *QueryServer) Pools(ctx context.Context, offset, limit uint64) ([]*types.Pool, uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	allPools := q.keeper.GetAllPools(sdkCtx)

	total := uint64(len(allPools))
	if offset >= total {
		return []*types.Pool{}, total, nil
	}

	end := offset + limit
	if end > total || limit == 0 {
		end = total
	}
	return allPools[offset:end], total, nil
}

// Position returns an investor's position in a pool
func (q *QueryServer) Position(ctx context.Context, poolID, investor string) (*types.Position, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if q.keeper.GetPool(sdkCtx, poolID) == nil {
		return nil, types.ErrPoolNotFound.Wrap(poolID)
	}
	return q.keeper.GetPosition(sdkCtx, poolID, investor), nil
}

// PoolPositions returns all positions in a pool
func (q *QueryServer) PoolPositions(ctx context.Context, poolID string) ([]*types.Position, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if q.keeper.GetPool(sdkCtx, poolID) == nil {
		return nil, types.ErrPoolNotFound.Wrap(poolID)
	}
	return q.keeper.GetPoolPositions(sdkCtx, poolID), nil
}
