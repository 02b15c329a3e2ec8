package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	debtpooltypes "github.com/structuredfi/notechain/x/debtpool/types"
	"github.com/structuredfi/notechain/x/issuance/types"
)

// Cross-module lifecycle sequencing. Every multi-step operation runs on a
// branched context and commits with a single write, so either all
// constituent state changes and fund movements land or none do.

func (k *Keeper) requireRegistered(ctx sdk.Context, poolID string) (*types.PoolRecord, error) {
	record := k.GetPoolRecord(ctx, poolID)
	if record == nil {
		return nil, types.ErrPoolNotRegistered.Wrap(poolID)
	}
	return record, nil
}

// LockPool closes the subscription window for a registered pool
func (k *Keeper) LockPool(ctx sdk.Context, operator, poolID string) error {
	if err := k.requireOperator(ctx, operator); err != nil {
		return err
	}
	if _, err := k.requireRegistered(ctx, poolID); err != nil {
		return err
	}
	return k.poolKeeper.Lock(ctx, k.authority, poolID)
}

// InitiateSettlement moves a pool's principal into custody and on to the
// issuer. Tolerates operators who skip the explicit lock: a still-Active
// pool is locked first. The lock, the Locked->Settled transition, the
// escrow deposit and the issuer release commit as one unit.
func (k *Keeper) InitiateSettlement(ctx sdk.Context, operator, poolID string) (math.Int, error) {
	if err := k.requireOperator(ctx, operator); err != nil {
		return math.ZeroInt(), err
	}
	record, err := k.requireRegistered(ctx, poolID)
	if err != nil {
		return math.ZeroInt(), err
	}

	cacheCtx, write := ctx.CacheContext()

	pool := k.poolKeeper.GetPool(cacheCtx, poolID)
	if pool == nil {
		return math.ZeroInt(), types.ErrPoolNotRegistered.Wrap(poolID)
	}
	if pool.Status == debtpooltypes.PoolStatusActive {
		if err := k.poolKeeper.Lock(cacheCtx, k.authority, poolID); err != nil {
			return math.ZeroInt(), err
		}
	}

	principal, denom, err := k.poolKeeper.MarkSettled(cacheCtx, k.authority, poolID)
	if err != nil {
		return math.ZeroInt(), err
	}
	if err := k.escrowKeeper.DepositForSettlement(cacheCtx, k.authority, poolID, denom, principal); err != nil {
		return math.ZeroInt(), err
	}
	if err := k.escrowKeeper.ReleaseToIssuer(cacheCtx, k.authority, poolID, record.Issuer, principal); err != nil {
		return math.ZeroInt(), err
	}

	write()

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"issuance_settlement",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("issuer", record.Issuer),
			sdk.NewAttribute("principal", principal.String()),
		),
	)

	k.logger.Info("settlement completed",
		"pool_id", poolID,
		"issuer", record.Issuer,
		"principal", principal.String(),
	)
	return principal, nil
}

// ProcessMaturity computes principal plus yield over the post-subscription
// window and drives the maturity payment from the issuer back into the
// pool, maturing both ledgers atomically. The yield figure is computed
// here, independent of any amount the pool itself might report.
func (k *Keeper) ProcessMaturity(ctx sdk.Context, operator, poolID string) (math.Int, error) {
	if err := k.requireOperator(ctx, operator); err != nil {
		return math.ZeroInt(), err
	}
	record, err := k.requireRegistered(ctx, poolID)
	if err != nil {
		return math.ZeroInt(), err
	}

	pool := k.poolKeeper.GetPool(ctx, poolID)
	if pool == nil {
		return math.ZeroInt(), types.ErrPoolNotRegistered.Wrap(poolID)
	}
	escrow := k.escrowKeeper.GetEscrow(ctx, poolID)
	if escrow == nil {
		return math.ZeroInt(), types.ErrInvalidState.Wrapf("pool %s has no escrow", poolID)
	}

	principal := escrow.Amount
	total := debtpooltypes.MaturityValue(principal, pool.Terms.RateBps, pool.Terms.EpochEnd, pool.Terms.MaturityDate)

	cacheCtx, write := ctx.CacheContext()

	if err := k.escrowKeeper.ProcessMaturityPayment(cacheCtx, k.authority, poolID, record.Issuer, total); err != nil {
		return math.ZeroInt(), err
	}
	if err := k.poolKeeper.MarkMatured(cacheCtx, k.authority, poolID, total); err != nil {
		return math.ZeroInt(), err
	}

	write()

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"issuance_maturity",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("principal", principal.String()),
			sdk.NewAttribute("total_returned", total.String()),
		),
	)

	k.logger.Info("maturity processed",
		"pool_id", poolID,
		"principal", principal.String(),
		"total_returned", total.String(),
	)
	return total, nil
}

// EmergencyShutdown halts a pool. Admin only, a stricter role than the
// operator role used for routine lifecycle calls. An unsettled escrow is
// unwound back into the pool's holdings in the same unit.
func (k *Keeper) EmergencyShutdown(ctx sdk.Context, admin, poolID string) error {
	if err := k.requireAdmin(ctx, admin); err != nil {
		return err
	}
	if _, err := k.requireRegistered(ctx, poolID); err != nil {
		return err
	}

	cacheCtx, write := ctx.CacheContext()

	if err := k.poolKeeper.EmergencyShutdown(cacheCtx, k.authority, poolID); err != nil {
		return err
	}

	escrow := k.escrowKeeper.GetEscrow(cacheCtx, poolID)
	if escrow != nil && !escrow.IsSettled && escrow.Amount.IsPositive() {
		if _, err := k.escrowKeeper.EmergencyReturn(cacheCtx, k.authority, poolID, debtpooltypes.ModuleName); err != nil {
			return err
		}
	}

	write()

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"issuance_emergency_shutdown",
			sdk.NewAttribute("pool_id", poolID),
		),
	)
	k.logger.Warn("emergency shutdown executed", "pool_id", poolID)
	return nil
}
