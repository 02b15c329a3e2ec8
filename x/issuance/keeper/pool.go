package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	debtpooltypes "github.com/structuredfi/notechain/x/debtpool/types"
	"github.com/structuredfi/notechain/x/issuance/types"
)

// CreatePool registers a new instrument and instantiates its pool ledger.
// All four registry checks must hold together; any failure leaves the
// registry untouched.
func (k *Keeper) CreatePool(ctx sdk.Context, operator, issuer, salt string, terms debtpooltypes.InstrumentTerms) (string, error) {
	if err := k.requireOperator(ctx, operator); err != nil {
		return "", err
	}
	if err := terms.Validate(); err != nil {
		return "", err
	}
	if issuer == "" {
		return "", types.ErrInvalidParameter.Wrap("empty issuer address")
	}

	// Each instrument hash is registered at most once system-wide
	if k.IsDocHashRegistered(ctx, terms.DocHash) {
		return "", types.ErrAlreadyExists.Wrapf("instrument hash %s", terms.DocHash)
	}

	now := ctx.BlockTime().Unix()
	if terms.EpochStart <= now {
		return "", types.ErrTimingViolation.Wrapf("epoch start %d not in the future (now %d)", terms.EpochStart, now)
	}
	if terms.EpochEnd <= terms.EpochStart {
		return "", types.ErrTimingViolation.Wrap("epoch end not after epoch start")
	}
	if terms.MaturityDate <= terms.EpochEnd {
		return "", types.ErrTimingViolation.Wrap("maturity not after epoch end")
	}

	poolID := types.DerivePoolID(terms.DocHash, salt)

	// Creation and registration commit together or not at all
	cacheCtx, write := ctx.CacheContext()

	if k.poolKeeper.GetPool(cacheCtx, poolID) != nil {
		return "", types.ErrDeploymentFailure.Wrapf("derived pool id %s already exists", poolID)
	}
	if err := k.poolKeeper.CreatePool(cacheCtx, k.authority, poolID, issuer, terms); err != nil {
		return "", types.ErrDeploymentFailure.Wrapf("pool instantiation: %s", err)
	}

	record := &types.PoolRecord{
		PoolID:    poolID,
		Issuer:    issuer,
		DocHash:   terms.DocHash,
		Salt:      salt,
		CreatedAt: now,
	}
	k.SetPoolRecord(cacheCtx, record)

	write()

	k.scheduleInsert(maturityItem{MaturityDate: terms.MaturityDate, PoolID: poolID})

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"issuance_pool_created",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("issuer", issuer),
			sdk.NewAttribute("doc_hash", terms.DocHash),
			sdk.NewAttribute("instrument_type", terms.InstrumentType),
		),
	)

	k.logger.Info("pool registered",
		"pool_id", poolID,
		"issuer", issuer,
		"doc_hash", terms.DocHash,
		"epoch_start", terms.EpochStart,
		"epoch_end", terms.EpochEnd,
		"maturity", terms.MaturityDate,
	)

	return poolID, nil
}
