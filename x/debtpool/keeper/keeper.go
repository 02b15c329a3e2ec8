package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/structuredfi/notechain/x/debtpool/types"
)

// Store key prefixes
var (
	PoolKeyPrefix      = []byte{0x01}
	PositionKeyPrefix  = []byte{0x02}
	AllowanceKeyPrefix = []byte{0x03}
)

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
}

// Keeper manages the debtpool module state
type Keeper struct {
	cdc        codec.BinaryCodec
	storeKey   storetypes.StoreKey
	bankKeeper BankKeeper
	logger     log.Logger
	authority  string
}

// NewKeeper creates a new debtpool keeper. The authority is the only caller
// allowed to drive lifecycle transitions.
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	bankKeeper BankKeeper,
	authority string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:        cdc,
		storeKey:   storeKey,
		bankKeeper: bankKeeper,
		authority:  authority,
		logger:     logger.With("module", "x/debtpool"),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the lifecycle authority address
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// ============ Pool Operations ============

func poolKey(poolID string) []byte {
	return append(PoolKeyPrefix, []byte(poolID)...)
}

// SetPool saves a pool to the store
func (k *Keeper) SetPool(ctx sdk.Context, pool *types.Pool) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(pool)
	store.Set(poolKey(pool.PoolID), bz)
}

// GetPool retrieves a pool from the store
func (k *Keeper) GetPool(ctx sdk.Context, poolID string) *types.Pool {
	store := k.GetStore(ctx)
	bz := store.Get(poolKey(poolID))
	if bz == nil {
		return nil
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil
	}
	return &pool
}

// GetAllPools returns all pools
func (k *Keeper) GetAllPools(ctx sdk.Context) []*types.Pool {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, PoolKeyPrefix)
	defer iterator.Close()

	var pools []*types.Pool
	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			continue
		}
		pools = append(pools, &pool)
	}
	return pools
}

// CreatePool instantiates a pool ledger for an instrument. Authority only;
// the registry performs window validation and duplicate checks before calling.
func (k *Keeper) CreatePool(ctx sdk.Context, caller, poolID, issuer string, terms types.InstrumentTerms) error {
	if caller != k.authority {
		return types.ErrUnauthorized.Wrapf("caller %s is not the lifecycle authority", caller)
	}
	if poolID == "" || issuer == "" {
		return types.ErrInvalidParameter.Wrap("empty pool id or issuer")
	}
	if err := terms.Validate(); err != nil {
		return err
	}
	if k.GetPool(ctx, poolID) != nil {
		return types.ErrAlreadyExists.Wrapf("pool %s", poolID)
	}

	pool := types.NewPool(poolID, issuer, terms, ctx.BlockTime())
	k.SetPool(ctx, pool)

	k.logger.Info("pool created",
		"pool_id", poolID,
		"issuer", issuer,
		"instrument_type", terms.InstrumentType,
		"rate_bps", terms.RateBps,
		"maturity", terms.MaturityDate,
	)
	return nil
}

// ============ Position Operations ============

func positionKey(poolID, investor string) []byte {
	return append(PositionKeyPrefix, []byte(poolID+":"+investor)...)
}

// SetPosition saves a position to the store
func (k *Keeper) SetPosition(ctx sdk.Context, pos *types.Position) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(pos)
	store.Set(positionKey(pos.PoolID, pos.Investor), bz)
}

// GetPosition retrieves an investor's position, or an empty one
func (k *Keeper) GetPosition(ctx sdk.Context, poolID, investor string) *types.Position {
	store := k.GetStore(ctx)
	bz := store.Get(positionKey(poolID, investor))
	if bz == nil {
		return types.NewPosition(poolID, investor)
	}
	var pos types.Position
	if err := json.Unmarshal(bz, &pos); err != nil {
		return types.NewPosition(poolID, investor)
	}
	return &pos
}

// GetPoolPositions returns all positions in a pool
func (k *Keeper) GetPoolPositions(ctx sdk.Context, poolID string) []*types.Position {
	store := k.GetStore(ctx)
	prefix := append(PositionKeyPrefix, []byte(poolID+":")...)
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	var positions []*types.Position
	for ; iterator.Valid(); iterator.Next() {
		var pos types.Position
		if err := json.Unmarshal(iterator.Value(), &pos); err != nil {
			continue
		}
		positions = append(positions, &pos)
	}
	return positions
}

// ============ Allowance Operations ============

func allowanceKey(poolID, owner, spender string) []byte {
	return append(AllowanceKeyPrefix, []byte(poolID+":"+owner+":"+spender)...)
}

// SetAllowance saves a withdrawal allowance
func (k *Keeper) SetAllowance(ctx sdk.Context, allowance *types.WithdrawAllowance) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(allowance)
	store.Set(allowanceKey(allowance.PoolID, allowance.Owner, allowance.Spender), bz)
}

// GetAllowance retrieves a withdrawal allowance, nil if none approved
func (k *Keeper) GetAllowance(ctx sdk.Context, poolID, owner, spender string) *types.WithdrawAllowance {
	store := k.GetStore(ctx)
	bz := store.Get(allowanceKey(poolID, owner, spender))
	if bz == nil {
		return nil
	}
	var allowance types.WithdrawAllowance
	if err := json.Unmarshal(bz, &allowance); err != nil {
		return nil
	}
	return &allowance
}
