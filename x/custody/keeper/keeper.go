package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/structuredfi/notechain/x/custody/types"
)

// Store key prefixes
var (
	EscrowKeyPrefix = []byte{0x01}
)

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	SendCoinsFromModuleToModule(ctx context.Context, senderModule, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
}

// Keeper manages the custody module state
type Keeper struct {
	cdc        codec.BinaryCodec
	storeKey   storetypes.StoreKey
	bankKeeper BankKeeper
	logger     log.Logger
	authority  string

	// poolModule is the module holding pool funds; settlement pulls from it
	// and maturity payments flow back into it.
	poolModule string
}

// NewKeeper creates a new custody keeper. The authority is the orchestrating
// module, the only caller allowed to move escrowed funds.
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	bankKeeper BankKeeper,
	authority string,
	poolModule string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:        cdc,
		storeKey:   storeKey,
		bankKeeper: bankKeeper,
		authority:  authority,
		poolModule: poolModule,
		logger:     logger.With("module", "x/custody"),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the custody authority address
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

func escrowKey(poolID string) []byte {
	return append(EscrowKeyPrefix, []byte(poolID)...)
}

// SetEscrow saves an escrow record to the store
func (k *Keeper) SetEscrow(ctx sdk.Context, record *types.EscrowRecord) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(record)
	store.Set(escrowKey(record.PoolID), bz)
}

// GetEscrow retrieves an escrow record from the store
func (k *Keeper) GetEscrow(ctx sdk.Context, poolID string) *types.EscrowRecord {
	store := k.GetStore(ctx)
	bz := store.Get(escrowKey(poolID))
	if bz == nil {
		return nil
	}
	var record types.EscrowRecord
	if err := json.Unmarshal(bz, &record); err != nil {
		return nil
	}
	return &record
}

// GetAllEscrows returns all escrow records
func (k *Keeper) GetAllEscrows(ctx sdk.Context) []*types.EscrowRecord {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, EscrowKeyPrefix)
	defer iterator.Close()

	var records []*types.EscrowRecord
	for ; iterator.Valid(); iterator.Next() {
		var record types.EscrowRecord
		if err := json.Unmarshal(iterator.Value(), &record); err != nil {
			continue
		}
		records = append(records, &record)
	}
	return records
}
