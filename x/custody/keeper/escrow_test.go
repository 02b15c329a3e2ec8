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

	"github.com/structuredfi/notechain/x/custody/types"
)

var (
	testAuthority = sdk.AccAddress([]byte("issuance-authority--")).String()
	testIssuer    = sdk.AccAddress([]byte("issuer--------------")).String()
)

const testPoolModule = "debtpool"

// bankCall records one transfer routed through the mock bank
type bankCall struct {
	kind string // "module_to_module", "module_to_account", "account_to_module"
	from string
	to   string
	amt  sdk.Coins
}

type mockBankKeeper struct {
	calls    []bankCall
	failNext bool
}

func (m *mockBankKeeper) send(call bankCall) error {
	if m.failNext {
		m.failNext = false
		return fmt.Errorf("insufficient balance")
	}
	m.calls = append(m.calls, call)
	return nil
}

func (m *mockBankKeeper) SendCoinsFromModuleToModule(ctx context.Context, senderModule, recipientModule string, amt sdk.Coins) error {
	return m.send(bankCall{kind: "module_to_module", from: senderModule, to: recipientModule, amt: amt})
}

func (m *mockBankKeeper) SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	return m.send(bankCall{kind: "module_to_account", from: senderModule, to: recipientAddr.String(), amt: amt})
}

func (m *mockBankKeeper) SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	return m.send(bankCall{kind: "account_to_module", from: senderAddr.String(), to: recipientModule, amt: amt})
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
		WithBlockTime(time.Unix(2500, 0))

	interfaceRegistry := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(interfaceRegistry)

	bank := &mockBankKeeper{}
	keeper := NewKeeper(cdc, storeKey, bank, testAuthority, testPoolModule, log.NewNopLogger())

	return keeper, ctx, bank
}

// fundEscrow runs the settlement deposit, failing the test on error
func fundEscrow(t *testing.T, k *Keeper, ctx sdk.Context, poolID string, amount int64) {
	t.Helper()
	if err := k.DepositForSettlement(ctx, testAuthority, poolID, "usdc", math.NewInt(amount)); err != nil {
		t.Fatalf("escrow deposit failed: %v", err)
	}
}

// TestDepositForSettlement tests escrow funding from the pool module
func TestDepositForSettlement(t *testing.T) {
	k, ctx, bank := setupKeeper(t)

	fundEscrow(t, k, ctx, "pool-1", 1000)

	record := k.GetEscrow(ctx, "pool-1")
	if record == nil {
		t.Fatal("escrow record not stored")
	}
	if !record.Amount.Equal(math.NewInt(1000)) {
		t.Errorf("expected escrowed 1000, got %s", record.Amount)
	}
	if record.IsSettled || record.IsMatured {
		t.Error("new escrow must be unsettled and unmatured")
	}

	if len(bank.calls) != 1 {
		t.Fatalf("expected 1 bank call, got %d", len(bank.calls))
	}
	call := bank.calls[0]
	if call.kind != "module_to_module" || call.from != testPoolModule || call.to != types.ModuleName {
		t.Errorf("unexpected bank call: %+v", call)
	}
}

// TestDepositForSettlementOnce tests the at-most-once custody guarantee
func TestDepositForSettlementOnce(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	fundEscrow(t, k, ctx, "pool-1", 1000)

	err := k.DepositForSettlement(ctx, testAuthority, "pool-1", "usdc", math.NewInt(500))
	if !types.ErrAlreadyExists.Is(err) {
		t.Errorf("expected already exists error, got %v", err)
	}

	// The original record is untouched
	record := k.GetEscrow(ctx, "pool-1")
	if !record.Amount.Equal(math.NewInt(1000)) {
		t.Errorf("expected escrowed 1000, got %s", record.Amount)
	}
}

// TestDepositForSettlementInvalid tests parameter validation
func TestDepositForSettlementInvalid(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	if err := k.DepositForSettlement(ctx, testAuthority, "", "usdc", math.NewInt(1)); !types.ErrInvalidParameter.Is(err) {
		t.Errorf("expected invalid parameter for empty pool id, got %v", err)
	}
	if err := k.DepositForSettlement(ctx, testAuthority, "pool-1", "usdc", math.ZeroInt()); !types.ErrInvalidParameter.Is(err) {
		t.Errorf("expected invalid parameter for zero amount, got %v", err)
	}
}

// TestReleaseToIssuer tests the one-way settlement release
func TestReleaseToIssuer(t *testing.T) {
	k, ctx, bank := setupKeeper(t)
	fundEscrow(t, k, ctx, "pool-1", 1000)

	if err := k.ReleaseToIssuer(ctx, testAuthority, "pool-1", testIssuer, math.NewInt(1000)); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	record := k.GetEscrow(ctx, "pool-1")
	if !record.IsSettled {
		t.Error("expected settled escrow")
	}

	call := bank.calls[len(bank.calls)-1]
	if call.kind != "module_to_account" || call.from != types.ModuleName || call.to != testIssuer {
		t.Errorf("unexpected bank call: %+v", call)
	}

	// A second release always fails
	err := k.ReleaseToIssuer(ctx, testAuthority, "pool-1", testIssuer, math.NewInt(1))
	if !types.ErrInvalidState.Is(err) {
		t.Errorf("expected invalid state on repeat release, got %v", err)
	}
}

// TestReleaseExceedsEscrowed tests the escrow balance bound
func TestReleaseExceedsEscrowed(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	fundEscrow(t, k, ctx, "pool-1", 1000)

	err := k.ReleaseToIssuer(ctx, testAuthority, "pool-1", testIssuer, math.NewInt(1001))
	if !types.ErrInsufficientFunds.Is(err) {
		t.Errorf("expected insufficient funds error, got %v", err)
	}
}

// TestProcessMaturityPayment tests the repayment leg
func TestProcessMaturityPayment(t *testing.T) {
	k, ctx, bank := setupKeeper(t)
	fundEscrow(t, k, ctx, "pool-1", 1000)

	// Not settled yet
	err := k.ProcessMaturityPayment(ctx, testAuthority, "pool-1", testIssuer, math.NewInt(1040))
	if !types.ErrInvalidState.Is(err) {
		t.Errorf("expected invalid state before settlement, got %v", err)
	}

	if err := k.ReleaseToIssuer(ctx, testAuthority, "pool-1", testIssuer, math.NewInt(1000)); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	if err := k.ProcessMaturityPayment(ctx, testAuthority, "pool-1", testIssuer, math.NewInt(1040)); err != nil {
		t.Fatalf("maturity payment failed: %v", err)
	}

	record := k.GetEscrow(ctx, "pool-1")
	if !record.IsMatured {
		t.Error("expected matured escrow")
	}

	// Repayment flows from the issuer back into the pool module
	call := bank.calls[len(bank.calls)-1]
	if call.kind != "account_to_module" || call.from != testIssuer || call.to != testPoolModule {
		t.Errorf("unexpected bank call: %+v", call)
	}

	// Maturity is one-way
	err = k.ProcessMaturityPayment(ctx, testAuthority, "pool-1", testIssuer, math.NewInt(1))
	if !types.ErrInvalidState.Is(err) {
		t.Errorf("expected invalid state on repeat payment, got %v", err)
	}
}

// TestEmergencyReturn tests unwinding an unsettled escrow
func TestEmergencyReturn(t *testing.T) {
	k, ctx, bank := setupKeeper(t)
	fundEscrow(t, k, ctx, "pool-1", 1000)

	returned, err := k.EmergencyReturn(ctx, testAuthority, "pool-1", testPoolModule)
	if err != nil {
		t.Fatalf("emergency return failed: %v", err)
	}
	if !returned.Equal(math.NewInt(1000)) {
		t.Errorf("expected returned 1000, got %s", returned)
	}

	record := k.GetEscrow(ctx, "pool-1")
	if !record.Amount.IsZero() {
		t.Errorf("expected zeroed escrow, got %s", record.Amount)
	}

	// Module name receiver routes module to module
	call := bank.calls[len(bank.calls)-1]
	if call.kind != "module_to_module" || call.to != testPoolModule {
		t.Errorf("unexpected bank call: %+v", call)
	}
}

// TestEmergencyReturnAfterSettlement tests that settled funds stay committed
func TestEmergencyReturnAfterSettlement(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	fundEscrow(t, k, ctx, "pool-1", 1000)

	if err := k.ReleaseToIssuer(ctx, testAuthority, "pool-1", testIssuer, math.NewInt(1000)); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	_, err := k.EmergencyReturn(ctx, testAuthority, "pool-1", testPoolModule)
	if !types.ErrInvalidState.Is(err) {
		t.Errorf("expected invalid state error, got %v", err)
	}
}

// TestEscrowAuthority tests the authority gate on every operation
func TestEscrowAuthority(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	intruder := testIssuer

	if err := k.DepositForSettlement(ctx, intruder, "pool-1", "usdc", math.NewInt(1)); !types.ErrUnauthorized.Is(err) {
		t.Errorf("deposit: expected unauthorized, got %v", err)
	}
	if err := k.ReleaseToIssuer(ctx, intruder, "pool-1", testIssuer, math.NewInt(1)); !types.ErrUnauthorized.Is(err) {
		t.Errorf("release: expected unauthorized, got %v", err)
	}
	if err := k.ProcessMaturityPayment(ctx, intruder, "pool-1", testIssuer, math.NewInt(1)); !types.ErrUnauthorized.Is(err) {
		t.Errorf("maturity: expected unauthorized, got %v", err)
	}
	if _, err := k.EmergencyReturn(ctx, intruder, "pool-1", testPoolModule); !types.ErrUnauthorized.Is(err) {
		t.Errorf("return: expected unauthorized, got %v", err)
	}
}

// TestEscrowNotFound tests missing escrow handling
func TestEscrowNotFound(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	if err := k.ReleaseToIssuer(ctx, testAuthority, "pool-x", testIssuer, math.NewInt(1)); !types.ErrEscrowNotFound.Is(err) {
		t.Errorf("expected escrow not found, got %v", err)
	}
	if _, err := k.EmergencyReturn(ctx, testAuthority, "pool-x", testPoolModule); !types.ErrEscrowNotFound.Is(err) {
		t.Errorf("expected escrow not found, got %v", err)
	}
}
