package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/structuredfi/notechain/x/debtpool/types"
)

// ApproveWithdraw sets the share allowance a spender may burn on behalf of
// the owner. A later approval replaces the previous amount.
func (k *Keeper) ApproveWithdraw(ctx context.Context, owner, spender, poolID string, shares math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if k.GetPool(sdkCtx, poolID) == nil {
		return types.ErrPoolNotFound.Wrap(poolID)
	}
	if shares.IsNil() || shares.IsNegative() {
		return types.ErrInvalidParameter.Wrap("negative allowance")
	}

	k.SetAllowance(sdkCtx, &types.WithdrawAllowance{
		PoolID:    poolID,
		Owner:     owner,
		Spender:   spender,
		Shares:    shares,
		UpdatedAt: sdkCtx.BlockTime().Unix(),
	})

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"debtpool_approve_withdraw",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("owner", owner),
			sdk.NewAttribute("spender", spender),
			sdk.NewAttribute("shares", shares.String()),
		),
	)
	return nil
}

// Withdraw burns shares from the owner's position and pushes the
// corresponding assets to the receiver. Funds turn illiquid once the
// subscription window closes, even while the pool is still Active.
// A withdrawer other than the owner consumes a pre-approved allowance.
func (k *Keeper) Withdraw(ctx context.Context, withdrawer, owner, receiver, poolID string, shares math.Int) (assets math.Int, err error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pool := k.GetPool(sdkCtx, poolID)
	if pool == nil {
		return math.ZeroInt(), types.ErrPoolNotFound.Wrap(poolID)
	}
	if pool.Status != types.PoolStatusActive {
		return math.ZeroInt(), types.ErrInvalidState.Wrapf("pool %s is %s", poolID, pool.Status)
	}

	now := sdkCtx.BlockTime().Unix()
	if now > pool.Terms.EpochEnd {
		return math.ZeroInt(), types.ErrTimingViolation.Wrapf("subscription window closed at %d, funds are locked until maturity", pool.Terms.EpochEnd)
	}
	if !shares.IsPositive() {
		return math.ZeroInt(), types.ErrInvalidParameter.Wrap("non-positive share amount")
	}

	if owner == "" {
		owner = withdrawer
	}
	if receiver == "" {
		receiver = withdrawer
	}

	// Delegated withdrawal spends allowance
	if withdrawer != owner {
		allowance := k.GetAllowance(sdkCtx, poolID, owner, withdrawer)
		if allowance == nil || allowance.Shares.LT(shares) {
			return math.ZeroInt(), types.ErrInsufficientAllowance.Wrapf("spender %s on owner %s", withdrawer, owner)
		}
		allowance.Shares = allowance.Shares.Sub(shares)
		allowance.UpdatedAt = now
		k.SetAllowance(sdkCtx, allowance)
	}

	pos := k.GetPosition(sdkCtx, poolID, owner)
	if pos.Shares.LT(shares) {
		return math.ZeroInt(), types.ErrInsufficientFunds.Wrapf("owner holds %s shares, requested %s", pos.Shares, shares)
	}

	assets = pool.AssetsForShares(shares)

	// Position and pool totals shrink by the same asset amount, keeping
	// the Active-status conservation invariant exact.
	pos.Shares = pos.Shares.Sub(shares)
	pos.InvestedAssets = pos.InvestedAssets.Sub(math.MinInt(assets, pos.InvestedAssets))
	pos.UpdatedAt = now

	pool.TotalShares = pool.TotalShares.Sub(shares)
	pool.TotalAssets = pool.TotalAssets.Sub(assets)
	pool.UpdatedAt = now

	k.SetPosition(sdkCtx, pos)
	k.SetPool(sdkCtx, pool)

	receiverAddr, err := sdk.AccAddressFromBech32(receiver)
	if err != nil {
		return math.ZeroInt(), types.ErrInvalidParameter.Wrapf("receiver address: %s", err)
	}
	coins := sdk.NewCoins(sdk.NewCoin(pool.Terms.Denom, assets))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, receiverAddr, coins); err != nil {
		return math.ZeroInt(), types.ErrInsufficientFunds.Wrapf("withdraw transfer: %s", err)
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"debtpool_withdraw",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("owner", owner),
			sdk.NewAttribute("withdrawer", withdrawer),
			sdk.NewAttribute("receiver", receiver),
			sdk.NewAttribute("shares", shares.String()),
			sdk.NewAttribute("assets", assets.String()),
		),
	)

	k.logger.Info("withdrawal processed",
		"pool_id", poolID,
		"owner", owner,
		"shares", shares.String(),
		"assets", assets.String(),
	)

	return assets, nil
}
