package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/structuredfi/notechain/x/debtpool/types"
)

// CheckAccounting verifies the conservation invariants for one pool:
// the sum of position shares always equals TotalShares, and while the pool
// is Active the sum of invested assets equals TotalAssets.
func (k *Keeper) CheckAccounting(ctx sdk.Context, poolID string) error {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return types.ErrPoolNotFound.Wrap(poolID)
	}

	sumShares := math.ZeroInt()
	sumInvested := math.ZeroInt()
	for _, pos := range k.GetPoolPositions(ctx, poolID) {
		sumShares = sumShares.Add(pos.Shares)
		sumInvested = sumInvested.Add(pos.InvestedAssets)
	}

	if !sumShares.Equal(pool.TotalShares) {
		return types.ErrInvalidState.Wrapf("pool %s: position shares %s != total shares %s", poolID, sumShares, pool.TotalShares)
	}
	if pool.Status == types.PoolStatusActive && !sumInvested.Equal(pool.TotalAssets) {
		return types.ErrInvalidState.Wrapf("pool %s: invested assets %s != total assets %s", poolID, sumInvested, pool.TotalAssets)
	}
	return nil
}

// CheckAllAccounting runs CheckAccounting over every pool
func (k *Keeper) CheckAllAccounting(ctx sdk.Context) error {
	for _, pool := range k.GetAllPools(ctx) {
		if err := k.CheckAccounting(ctx, pool.PoolID); err != nil {
			return err
		}
	}
	return nil
}
