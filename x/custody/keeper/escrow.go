package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/structuredfi/notechain/x/custody/types"
)

// Custody protocol: one escrow record per pool, created exactly once;
// settle and mature are one-way flags. Every operation records state
// before invoking the bank so escrow bookkeeping is never observed
// mid-transfer.

func (k *Keeper) requireAuthority(caller string) error {
	if caller != k.authority {
		return types.ErrUnauthorized.Wrapf("caller %s is not the custody authority", caller)
	}
	return nil
}

// DepositForSettlement pulls a pool's principal out of the pool module
// account into custody. Callable once per pool; a second call fails.
func (k *Keeper) DepositForSettlement(ctx sdk.Context, caller, poolID, denom string, amount math.Int) error {
	if err := k.requireAuthority(caller); err != nil {
		return err
	}
	if poolID == "" || denom == "" {
		return types.ErrInvalidParameter.Wrap("empty pool id or denom")
	}
	if !amount.IsPositive() {
		return types.ErrInvalidParameter.Wrapf("non-positive escrow amount %s", amount)
	}
	if k.GetEscrow(ctx, poolID) != nil {
		return types.ErrAlreadyExists.Wrapf("escrow for pool %s", poolID)
	}

	record := types.NewEscrowRecord(poolID, denom, amount, ctx.BlockTime())
	k.SetEscrow(ctx, record)

	coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
	if err := k.bankKeeper.SendCoinsFromModuleToModule(ctx, k.poolModule, types.ModuleName, coins); err != nil {
		return types.ErrInsufficientFunds.Wrapf("escrow deposit: %s", err)
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"custody_deposit",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("amount", amount.String()),
			sdk.NewAttribute("denom", denom),
		),
	)
	k.logger.Info("escrow funded", "pool_id", poolID, "amount", amount.String())
	return nil
}

// ReleaseToIssuer delivers escrowed principal to the issuer and marks the
// escrow settled. Terminal: a second release always fails regardless of
// amount. Settled funds cannot be clawed back through EmergencyReturn.
func (k *Keeper) ReleaseToIssuer(ctx sdk.Context, caller, poolID, issuer string, amount math.Int) error {
	if err := k.requireAuthority(caller); err != nil {
		return err
	}
	record := k.GetEscrow(ctx, poolID)
	if record == nil {
		return types.ErrEscrowNotFound.Wrap(poolID)
	}
	if record.IsSettled {
		return types.ErrInvalidState.Wrapf("escrow for pool %s already settled", poolID)
	}
	if amount.GT(record.Amount) {
		return types.ErrInsufficientFunds.Wrapf("release %s exceeds escrowed %s", amount, record.Amount)
	}

	record.IsSettled = true
	record.UpdatedAt = ctx.BlockTime().Unix()
	k.SetEscrow(ctx, record)

	issuerAddr, err := sdk.AccAddressFromBech32(issuer)
	if err != nil {
		return types.ErrInvalidParameter.Wrapf("issuer address: %s", err)
	}
	coins := sdk.NewCoins(sdk.NewCoin(record.Denom, amount))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, issuerAddr, coins); err != nil {
		return types.ErrInsufficientFunds.Wrapf("issuer release: %s", err)
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"custody_release",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("issuer", issuer),
			sdk.NewAttribute("amount", amount.String()),
		),
	)
	k.logger.Info("escrow released to issuer", "pool_id", poolID, "issuer", issuer, "amount", amount.String())
	return nil
}

// ProcessMaturityPayment pulls principal-plus-yield from the funder back
// into the pool module account. Requires a settled, not yet matured escrow.
func (k *Keeper) ProcessMaturityPayment(ctx sdk.Context, caller, poolID, funder string, amount math.Int) error {
	if err := k.requireAuthority(caller); err != nil {
		return err
	}
	record := k.GetEscrow(ctx, poolID)
	if record == nil {
		return types.ErrEscrowNotFound.Wrap(poolID)
	}
	if !record.IsSettled {
		return types.ErrInvalidState.Wrapf("escrow for pool %s not settled", poolID)
	}
	if record.IsMatured {
		return types.ErrInvalidState.Wrapf("escrow for pool %s already matured", poolID)
	}
	if !amount.IsPositive() {
		return types.ErrInvalidParameter.Wrapf("non-positive maturity payment %s", amount)
	}

	record.IsMatured = true
	record.UpdatedAt = ctx.BlockTime().Unix()
	k.SetEscrow(ctx, record)

	funderAddr, err := sdk.AccAddressFromBech32(funder)
	if err != nil {
		return types.ErrInvalidParameter.Wrapf("funder address: %s", err)
	}
	coins := sdk.NewCoins(sdk.NewCoin(record.Denom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, funderAddr, k.poolModule, coins); err != nil {
		return types.ErrInsufficientFunds.Wrapf("maturity payment: %s", err)
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"custody_maturity_payment",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("funder", funder),
			sdk.NewAttribute("amount", amount.String()),
		),
	)
	k.logger.Info("maturity payment processed", "pool_id", poolID, "amount", amount.String())
	return nil
}

// EmergencyReturn unwinds an unsettled escrow: the full escrowed amount
// goes back to the receiver and the record is zeroed. Unavailable once
// settled, since settled funds are committed to the issuer.
func (k *Keeper) EmergencyReturn(ctx sdk.Context, caller, poolID, receiver string) (math.Int, error) {
	if err := k.requireAuthority(caller); err != nil {
		return math.ZeroInt(), err
	}
	record := k.GetEscrow(ctx, poolID)
	if record == nil {
		return math.ZeroInt(), types.ErrEscrowNotFound.Wrap(poolID)
	}
	if record.IsSettled {
		return math.ZeroInt(), types.ErrInvalidState.Wrapf("escrow for pool %s already settled, funds committed to issuer", poolID)
	}

	returned := record.Amount
	record.Amount = math.ZeroInt()
	record.IsSettled = false
	record.IsMatured = false
	record.UpdatedAt = ctx.BlockTime().Unix()
	k.SetEscrow(ctx, record)

	if returned.IsPositive() {
		receiverAddr, err := sdk.AccAddressFromBech32(receiver)
		coins := sdk.NewCoins(sdk.NewCoin(record.Denom, returned))
		if err != nil {
			// Receiver may be a module account rather than a bech32 address
			if err := k.bankKeeper.SendCoinsFromModuleToModule(ctx, types.ModuleName, receiver, coins); err != nil {
				return math.ZeroInt(), types.ErrInsufficientFunds.Wrapf("emergency return: %s", err)
			}
		} else {
			if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, receiverAddr, coins); err != nil {
				return math.ZeroInt(), types.ErrInsufficientFunds.Wrapf("emergency return: %s", err)
			}
		}
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"custody_emergency_return",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("receiver", receiver),
			sdk.NewAttribute("amount", returned.String()),
		),
	)
	k.logger.Warn("escrow emergency return", "pool_id", poolID, "receiver", receiver, "amount", returned.String())
	return returned, nil
}
