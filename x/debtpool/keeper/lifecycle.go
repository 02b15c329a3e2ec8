package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/structuredfi/notechain/x/debtpool/types"
)

// Lifecycle transitions are monotone forward and single-use; each is gated
// on its exact precondition and restricted to the lifecycle authority.

func (k *Keeper) requireAuthority(caller string) error {
	if caller != k.authority {
		return types.ErrUnauthorized.Wrapf("caller %s is not the lifecycle authority", caller)
	}
	return nil
}

// Lock transitions Active -> Locked once the subscription window has closed
func (k *Keeper) Lock(ctx sdk.Context, caller, poolID string) error {
	if err := k.requireAuthority(caller); err != nil {
		return err
	}
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return types.ErrPoolNotFound.Wrap(poolID)
	}
	if pool.Status != types.PoolStatusActive {
		return types.ErrInvalidState.Wrapf("cannot lock pool in status %s", pool.Status)
	}
	now := ctx.BlockTime().Unix()
	if now <= pool.Terms.EpochEnd {
		return types.ErrTimingViolation.Wrapf("epoch ends at %d, now %d", pool.Terms.EpochEnd, now)
	}

	pool.Status = types.PoolStatusLocked
	pool.UpdatedAt = now
	k.SetPool(ctx, pool)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"debtpool_locked",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("total_assets", pool.TotalAssets.String()),
		),
	)
	k.logger.Info("pool locked", "pool_id", poolID, "total_assets", pool.TotalAssets.String())
	return nil
}

// MarkSettled transitions Locked -> Settled and reports the principal and
// denom leaving the pool. The fund movement itself is the custody module's
// half of the orchestrated settlement unit.
func (k *Keeper) MarkSettled(ctx sdk.Context, caller, poolID string) (principal math.Int, denom string, err error) {
	if err := k.requireAuthority(caller); err != nil {
		return math.ZeroInt(), "", err
	}
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return math.ZeroInt(), "", types.ErrPoolNotFound.Wrap(poolID)
	}
	if pool.Status != types.PoolStatusLocked {
		return math.ZeroInt(), "", types.ErrInvalidState.Wrapf("cannot settle pool in status %s", pool.Status)
	}

	pool.Status = types.PoolStatusSettled
	pool.UpdatedAt = ctx.BlockTime().Unix()
	k.SetPool(ctx, pool)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"debtpool_settled",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("principal", pool.TotalAssets.String()),
		),
	)
	k.logger.Info("pool settled", "pool_id", poolID, "principal", pool.TotalAssets.String())
	return pool.TotalAssets, pool.Terms.Denom, nil
}

// MarkMatured transitions Settled -> Matured once maturity has been reached.
// The returned amount is the principal-plus-yield payment re-entering the
// pool's holdings for later pro-rata distribution.
func (k *Keeper) MarkMatured(ctx sdk.Context, caller, poolID string, returned math.Int) error {
	if err := k.requireAuthority(caller); err != nil {
		return err
	}
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return types.ErrPoolNotFound.Wrap(poolID)
	}
	if pool.Status != types.PoolStatusSettled {
		return types.ErrInvalidState.Wrapf("cannot mature pool in status %s", pool.Status)
	}
	now := ctx.BlockTime().Unix()
	if now < pool.Terms.MaturityDate {
		return types.ErrTimingViolation.Wrapf("maturity at %d, now %d", pool.Terms.MaturityDate, now)
	}
	if returned.IsNil() || returned.IsNegative() {
		return types.ErrInvalidParameter.Wrap("negative maturity payment")
	}

	pool.Status = types.PoolStatusMatured
	pool.TotalAssets = returned
	pool.UpdatedAt = now
	k.SetPool(ctx, pool)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"debtpool_matured",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("returned", returned.String()),
		),
	)
	k.logger.Info("pool matured", "pool_id", poolID, "returned", returned.String())
	return nil
}

// EmergencyShutdown moves any non-terminal pool to EmergencyShutdown.
// A second shutdown attempt fails.
func (k *Keeper) EmergencyShutdown(ctx sdk.Context, caller, poolID string) error {
	if err := k.requireAuthority(caller); err != nil {
		return err
	}
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return types.ErrPoolNotFound.Wrap(poolID)
	}
	if pool.Status == types.PoolStatusEmergencyShutdown {
		return types.ErrInvalidState.Wrap("pool already shut down")
	}
	if pool.Status == types.PoolStatusMatured {
		return types.ErrInvalidState.Wrap("pool already matured")
	}

	pool.Status = types.PoolStatusEmergencyShutdown
	pool.UpdatedAt = ctx.BlockTime().Unix()
	k.SetPool(ctx, pool)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"debtpool_emergency_shutdown",
			sdk.NewAttribute("pool_id", poolID),
		),
	)
	k.logger.Warn("pool emergency shutdown", "pool_id", poolID)
	return nil
}
