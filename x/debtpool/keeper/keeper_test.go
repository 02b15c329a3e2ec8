package keeper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/structuredfi/notechain/x/debtpool/types"
)

var (
	testAuthority = sdk.AccAddress([]byte("issuance-authority--")).String()
	testIssuer    = sdk.AccAddress([]byte("issuer--------------")).String()
	testInvestor  = sdk.AccAddress([]byte("investor-1----------")).String()
	testInvestor2 = sdk.AccAddress([]byte("investor-2----------")).String()
	testSpender   = sdk.AccAddress([]byte("spender-------------")).String()
)

// bankCall records one transfer routed through the mock bank
type bankCall struct {
	kind   string // "to_module" or "to_account"
	party  string
	module string
	coins  sdk.Coins
}

// mockBankKeeper records transfers and optionally fails them
type mockBankKeeper struct {
	calls    []bankCall
	failNext bool
}

func (m *mockBankKeeper) SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	if m.failNext {
		m.failNext = false
		return fmt.Errorf("insufficient balance")
	}
	m.calls = append(m.calls, bankCall{kind: "to_module", party: senderAddr.String(), module: recipientModule, coins: amt})
	return nil
}

func (m *mockBankKeeper) SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	if m.failNext {
		m.failNext = false
		return fmt.Errorf("insufficient module balance")
	}
	m.calls = append(m.calls, bankCall{kind: "to_account", party: recipientAddr.String(), module: senderModule, coins: amt})
	return nil
}

// setupKeeper creates a test keeper with an in-memory store
func setupKeeper(t *testing.T) (*Keeper, sdk.Context, *mockBankKeeper) {
	t.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger()).
		WithBlockTime(time.Unix(1500, 0))

	interfaceRegistry := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(interfaceRegistry)

	bank := &mockBankKeeper{}
	keeper := NewKeeper(cdc, storeKey, bank, testAuthority, log.NewNopLogger())

	return keeper, ctx, bank
}

func testTerms() types.InstrumentTerms {
	return types.InstrumentTerms{
		InstrumentType: types.InstrumentCommercialPaper,
		DocHash:        "0xabc123",
		Denom:          "usdc",
		RateBps:        500,
		EpochStart:     1000,
		EpochEnd:       2000,
		MaturityDate:   5000,
		MinInvestment:  math.NewInt(100),
	}
}

// createTestPool creates a pool as the authority, failing the test on error
func createTestPool(t *testing.T, k *Keeper, ctx sdk.Context, poolID string) *types.Pool {
	t.Helper()
	if err := k.CreatePool(ctx, testAuthority, poolID, testIssuer, testTerms()); err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	return k.GetPool(ctx, poolID)
}

// TestCreatePool tests pool instantiation
func TestCreatePool(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	pool := createTestPool(t, k, ctx, "pool-1")
	if pool == nil {
		t.Fatal("pool not stored")
	}
	if pool.Status != types.PoolStatusActive {
		t.Errorf("expected active status, got %s", pool.Status)
	}
	if pool.Issuer != testIssuer {
		t.Errorf("expected issuer %s, got %s", testIssuer, pool.Issuer)
	}
	if !pool.TotalAssets.IsZero() || !pool.TotalShares.IsZero() {
		t.Error("expected zero totals on new pool")
	}
}

// TestCreatePoolUnauthorized tests that only the authority creates pools
func TestCreatePoolUnauthorized(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	err := k.CreatePool(ctx, testInvestor, "pool-1", testIssuer, testTerms())
	if !types.ErrUnauthorized.Is(err) {
		t.Errorf("expected unauthorized error, got %v", err)
	}
}

// TestCreatePoolDuplicate tests duplicate pool rejection
func TestCreatePoolDuplicate(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	createTestPool(t, k, ctx, "pool-1")
	err := k.CreatePool(ctx, testAuthority, "pool-1", testIssuer, testTerms())
	if !types.ErrAlreadyExists.Is(err) {
		t.Errorf("expected already exists error, got %v", err)
	}
}

// TestCreatePoolInvalidTerms tests term validation on creation
func TestCreatePoolInvalidTerms(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	terms := testTerms()
	terms.InstrumentType = "bond"
	if err := k.CreatePool(ctx, testAuthority, "pool-1", testIssuer, terms); err == nil {
		t.Error("expected error for invalid terms")
	}
}

// TestGetAllPools tests pool iteration
func TestGetAllPools(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	createTestPool(t, k, ctx, "pool-1")

	terms := testTerms()
	terms.DocHash = "0xdef456"
	if err := k.CreatePool(ctx, testAuthority, "pool-2", testIssuer, terms); err != nil {
		t.Fatalf("failed to create second pool: %v", err)
	}

	pools := k.GetAllPools(ctx)
	if len(pools) != 2 {
		t.Errorf("expected 2 pools, got %d", len(pools))
	}
}

// TestGetPositionDefault tests the empty position default
func TestGetPositionDefault(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	pos := k.GetPosition(ctx, "pool-1", testInvestor)
	if pos == nil {
		t.Fatal("expected empty position, got nil")
	}
	if !pos.Shares.IsZero() || !pos.InvestedAssets.IsZero() {
		t.Error("expected zero position")
	}
}

// TestGetAllowanceDefault tests that an unapproved allowance is nil
func TestGetAllowanceDefault(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	if allowance := k.GetAllowance(ctx, "pool-1", testInvestor, testSpender); allowance != nil {
		t.Errorf("expected nil allowance, got %+v", allowance)
	}
}
