package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/structuredfi/notechain/x/debtpool/types"
)

// Deposit pulls assets from the investor and mints shares at the current
// share/asset ratio. Permitted only while the pool is Active and the
// subscription window is open. Pool state is written before the bank
// transfer so a reentrant transfer callback never observes stale totals.
func (k *Keeper) Deposit(ctx context.Context, investor, poolID string, assets math.Int) (minted math.Int, err error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pool := k.GetPool(sdkCtx, poolID)
	if pool == nil {
		return math.ZeroInt(), types.ErrPoolNotFound.Wrap(poolID)
	}
	if pool.Status != types.PoolStatusActive {
		return math.ZeroInt(), types.ErrInvalidState.Wrapf("pool %s is %s", poolID, pool.Status)
	}

	now := sdkCtx.BlockTime().Unix()
	if !pool.InWindow(now) {
		return math.ZeroInt(), types.ErrTimingViolation.Wrapf("subscription window [%d, %d] closed at %d", pool.Terms.EpochStart, pool.Terms.EpochEnd, now)
	}
	if assets.LT(pool.Terms.MinInvestment) {
		return math.ZeroInt(), types.ErrDepositTooSmall.Wrapf("got %s, minimum %s", assets, pool.Terms.MinInvestment)
	}

	minted = pool.SharesForAssets(assets)
	if !minted.IsPositive() {
		return math.ZeroInt(), types.ErrInvalidParameter.Wrapf("deposit of %s mints no shares", assets)
	}

	pos := k.GetPosition(sdkCtx, poolID, investor)
	pos.Shares = pos.Shares.Add(minted)
	pos.InvestedAssets = pos.InvestedAssets.Add(assets)
	pos.UpdatedAt = now

	pool.TotalAssets = pool.TotalAssets.Add(assets)
	pool.TotalShares = pool.TotalShares.Add(minted)
	pool.UpdatedAt = now

	k.SetPosition(sdkCtx, pos)
	k.SetPool(sdkCtx, pool)

	investorAddr, err := sdk.AccAddressFromBech32(investor)
	if err != nil {
		return math.ZeroInt(), types.ErrInvalidParameter.Wrapf("investor address: %s", err)
	}
	coins := sdk.NewCoins(sdk.NewCoin(pool.Terms.Denom, assets))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, investorAddr, types.ModuleName, coins); err != nil {
		return math.ZeroInt(), types.ErrInsufficientFunds.Wrapf("deposit transfer: %s", err)
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"debtpool_deposit",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("investor", investor),
			sdk.NewAttribute("assets", assets.String()),
			sdk.NewAttribute("shares", minted.String()),
		),
	)

	k.logger.Info("deposit processed",
		"pool_id", poolID,
		"investor", investor,
		"assets", assets.String(),
		"shares", minted.String(),
	)

	return minted, nil
}
