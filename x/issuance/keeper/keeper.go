package keeper

import (
	"encoding/json"
	"sync"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/btree"

	custodytypes "github.com/structuredfi/notechain/x/custody/types"
	debtpooltypes "github.com/structuredfi/notechain/x/debtpool/types"
	"github.com/structuredfi/notechain/x/issuance/types"
)

// Store key prefixes
var (
	PoolRecordKeyPrefix = []byte{0x01}
	DocHashKeyPrefix    = []byte{0x02}
	RolesKey            = []byte{0x03}
)

// PoolKeeper defines the expected interface for the debtpool module
type PoolKeeper interface {
	CreatePool(ctx sdk.Context, caller, poolID, issuer string, terms debtpooltypes.InstrumentTerms) error
	GetPool(ctx sdk.Context, poolID string) *debtpooltypes.Pool
	Lock(ctx sdk.Context, caller, poolID string) error
	MarkSettled(ctx sdk.Context, caller, poolID string) (principal math.Int, denom string, err error)
	MarkMatured(ctx sdk.Context, caller, poolID string, returned math.Int) error
	EmergencyShutdown(ctx sdk.Context, caller, poolID string) error
}

// EscrowKeeper defines the expected interface for the custody module
type EscrowKeeper interface {
	GetEscrow(ctx sdk.Context, poolID string) *custodytypes.EscrowRecord
	DepositForSettlement(ctx sdk.Context, caller, poolID, denom string, amount math.Int) error
	ReleaseToIssuer(ctx sdk.Context, caller, poolID, issuer string, amount math.Int) error
	ProcessMaturityPayment(ctx sdk.Context, caller, poolID, funder string, amount math.Int) error
	EmergencyReturn(ctx sdk.Context, caller, poolID, receiver string) (math.Int, error)
}

// maturityItem orders pools by maturity date in the schedule index
type maturityItem struct {
	MaturityDate int64
	PoolID       string
}

func maturityLess(a, b maturityItem) bool {
	if a.MaturityDate != b.MaturityDate {
		return a.MaturityDate < b.MaturityDate
	}
	return a.PoolID < b.PoolID
}

// Keeper manages the issuance module state and sequences lifecycle
// transitions across the debtpool and custody modules.
type Keeper struct {
	cdc          codec.BinaryCodec
	storeKey     storetypes.StoreKey
	poolKeeper   PoolKeeper
	escrowKeeper EscrowKeeper
	logger       log.Logger

	// authority is this module's account address, the lifecycle authority
	// configured into the debtpool and custody keepers.
	authority string

	// In-memory maturity schedule, rebuilt lazily from state. Guards the
	// btree since queries may run alongside the EndBlocker scan.
	scheduleMu sync.Mutex
	schedule   *btree.BTreeG[maturityItem]
	scheduleOK bool
}

// NewKeeper creates a new issuance keeper
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	poolKeeper PoolKeeper,
	escrowKeeper EscrowKeeper,
	authority string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:          cdc,
		storeKey:     storeKey,
		poolKeeper:   poolKeeper,
		escrowKeeper: escrowKeeper,
		authority:    authority,
		logger:       logger.With("module", "x/issuance"),
		schedule:     btree.NewG(8, maturityLess),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the module authority address
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// ============ Registry Operations ============

func poolRecordKey(poolID string) []byte {
	return append(PoolRecordKeyPrefix, []byte(poolID)...)
}

func docHashKey(hash string) []byte {
	return append(DocHashKeyPrefix, []byte(hash)...)
}

// SetPoolRecord saves a registry record and indexes its instrument hash
func (k *Keeper) SetPoolRecord(ctx sdk.Context, record *types.PoolRecord) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(record)
	store.Set(poolRecordKey(record.PoolID), bz)
	store.Set(docHashKey(record.DocHash), []byte(record.PoolID))
}

// GetPoolRecord retrieves a registry record
func (k *Keeper) GetPoolRecord(ctx sdk.Context, poolID string) *types.PoolRecord {
	store := k.GetStore(ctx)
	bz := store.Get(poolRecordKey(poolID))
	if bz == nil {
		return nil
	}
	var record types.PoolRecord
	if err := json.Unmarshal(bz, &record); err != nil {
		return nil
	}
	return &record
}

// IsDocHashRegistered reports whether an instrument hash is already bound
func (k *Keeper) IsDocHashRegistered(ctx sdk.Context, hash string) bool {
	return k.GetStore(ctx).Has(docHashKey(hash))
}

// GetAllPoolRecords returns all registry records
func (k *Keeper) GetAllPoolRecords(ctx sdk.Context) []*types.PoolRecord {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, PoolRecordKeyPrefix)
	defer iterator.Close()

	var records []*types.PoolRecord
	for ; iterator.Valid(); iterator.Next() {
		var record types.PoolRecord
		if err := json.Unmarshal(iterator.Value(), &record); err != nil {
			continue
		}
		records = append(records, &record)
	}
	return records
}

// ============ Maturity Schedule ============

func (k *Keeper) scheduleInsert(item maturityItem) {
	k.scheduleMu.Lock()
	defer k.scheduleMu.Unlock()
	k.schedule.ReplaceOrInsert(item)
}

func (k *Keeper) ensureSchedule(ctx sdk.Context) {
	k.scheduleMu.Lock()
	defer k.scheduleMu.Unlock()
	if k.scheduleOK {
		return
	}
	for _, record := range k.GetAllPoolRecords(ctx) {
		pool := k.poolKeeper.GetPool(ctx, record.PoolID)
		if pool == nil {
			continue
		}
		k.schedule.ReplaceOrInsert(maturityItem{
			MaturityDate: pool.Terms.MaturityDate,
			PoolID:       record.PoolID,
		})
	}
	k.scheduleOK = true
}

// PoolsDueBy returns the IDs of registered pools whose maturity date is at
// or before the given time, in maturity order.
func (k *Keeper) PoolsDueBy(ctx sdk.Context, now int64) []string {
	k.ensureSchedule(ctx)

	k.scheduleMu.Lock()
	defer k.scheduleMu.Unlock()

	var due []string
	k.schedule.AscendLessThan(maturityItem{MaturityDate: now + 1}, func(item maturityItem) bool {
		due = append(due, item.PoolID)
		return true
	})
	return due
}

// EndBlocker flags settled pools past their maturity date so operators can
// submit the maturity payment; transitions stay operator-driven.
func (k *Keeper) EndBlocker(ctx sdk.Context) error {
	now := ctx.BlockTime().Unix()
	for _, poolID := range k.PoolsDueBy(ctx, now) {
		pool := k.poolKeeper.GetPool(ctx, poolID)
		if pool == nil || pool.Status != debtpooltypes.PoolStatusSettled {
			continue
		}
		k.logger.Info("pool past maturity, awaiting payment",
			"pool_id", poolID,
			"maturity", pool.Terms.MaturityDate,
			"now", now,
		)
	}
	return nil
}
