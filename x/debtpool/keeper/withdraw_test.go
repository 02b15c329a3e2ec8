package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/math"

	"github.com/structuredfi/notechain/x/debtpool/types"
)

// TestWithdrawOwn tests a full self-withdrawal during the window
func TestWithdrawOwn(t *testing.T) {
	k, ctx, bank := setupKeeper(t)
	createTestPool(t, k, ctx, "pool-1")

	if _, err := k.Deposit(ctx, testInvestor, "pool-1", math.NewInt(1000)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	assets, err := k.Withdraw(ctx, testInvestor, "", "", "pool-1", math.NewInt(1000))
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if !assets.Equal(math.NewInt(1000)) {
		t.Errorf("expected 1000 assets, got %s", assets)
	}

	pool := k.GetPool(ctx, "pool-1")
	if !pool.TotalAssets.IsZero() || !pool.TotalShares.IsZero() {
		t.Errorf("expected drained pool, got %s/%s", pool.TotalAssets, pool.TotalShares)
	}

	pos := k.GetPosition(ctx, "pool-1", testInvestor)
	if !pos.Shares.IsZero() {
		t.Errorf("expected zero shares, got %s", pos.Shares)
	}

	// First call is the deposit, second is the payout to the investor
	if len(bank.calls) != 2 {
		t.Fatalf("expected 2 bank calls, got %d", len(bank.calls))
	}
	payout := bank.calls[1]
	if payout.kind != "to_account" || payout.party != testInvestor || payout.module != types.ModuleName {
		t.Errorf("unexpected payout call: %+v", payout)
	}
}

// TestWithdrawPartial tests partial redemption and accounting conservation
func TestWithdrawPartial(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	createTestPool(t, k, ctx, "pool-1")

	if _, err := k.Deposit(ctx, testInvestor, "pool-1", math.NewInt(1000)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := k.Deposit(ctx, testInvestor2, "pool-1", math.NewInt(500)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	assets, err := k.Withdraw(ctx, testInvestor, "", "", "pool-1", math.NewInt(400))
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if !assets.Equal(math.NewInt(400)) {
		t.Errorf("expected 400 assets, got %s", assets)
	}

	pool := k.GetPool(ctx, "pool-1")
	if !pool.TotalShares.Equal(math.NewInt(1100)) {
		t.Errorf("expected 1100 total shares, got %s", pool.TotalShares)
	}
	if !pool.TotalAssets.Equal(math.NewInt(1100)) {
		t.Errorf("expected 1100 total assets, got %s", pool.TotalAssets)
	}

	if err := k.CheckAccounting(ctx, "pool-1"); err != nil {
		t.Errorf("accounting check failed: %v", err)
	}
}

// TestWithdrawInsufficientShares tests overdrawing a position
func TestWithdrawInsufficientShares(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	createTestPool(t, k, ctx, "pool-1")

	if _, err := k.Deposit(ctx, testInvestor, "pool-1", math.NewInt(1000)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	_, err := k.Withdraw(ctx, testInvestor, "", "", "pool-1", math.NewInt(1001))
	if !types.ErrInsufficientFunds.Is(err) {
		t.Errorf("expected insufficient funds error, got %v", err)
	}
}

// TestWithdrawAfterWindowCloses tests that funds turn illiquid at epoch end
func TestWithdrawAfterWindowCloses(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	createTestPool(t, k, ctx, "pool-1")

	if _, err := k.Deposit(ctx, testInvestor, "pool-1", math.NewInt(1000)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	// The pool is still Active, but the window has closed
	late := ctx.WithBlockTime(time.Unix(2500, 0))
	_, err := k.Withdraw(late, testInvestor, "", "", "pool-1", math.NewInt(1000))
	if !types.ErrTimingViolation.Is(err) {
		t.Errorf("expected timing violation, got %v", err)
	}
}

// TestWithdrawDelegated tests allowance-backed withdrawal on behalf of an owner
func TestWithdrawDelegated(t *testing.T) {
	k, ctx, bank := setupKeeper(t)
	createTestPool(t, k, ctx, "pool-1")

	if _, err := k.Deposit(ctx, testInvestor, "pool-1", math.NewInt(1000)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if err := k.ApproveWithdraw(ctx, testInvestor, testSpender, "pool-1", math.NewInt(500)); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	assets, err := k.Withdraw(ctx, testSpender, testInvestor, testSpender, "pool-1", math.NewInt(300))
	if err != nil {
		t.Fatalf("delegated withdraw failed: %v", err)
	}
	if !assets.Equal(math.NewInt(300)) {
		t.Errorf("expected 300 assets, got %s", assets)
	}

	// Remaining allowance shrinks by the shares spent
	allowance := k.GetAllowance(ctx, "pool-1", testInvestor, testSpender)
	if allowance == nil || !allowance.Shares.Equal(math.NewInt(200)) {
		t.Errorf("expected remaining allowance 200, got %+v", allowance)
	}

	// Shares burn from the owner's position
	pos := k.GetPosition(ctx, "pool-1", testInvestor)
	if !pos.Shares.Equal(math.NewInt(700)) {
		t.Errorf("expected owner shares 700, got %s", pos.Shares)
	}

	// Payout lands with the spender, not the owner
	payout := bank.calls[len(bank.calls)-1]
	if payout.kind != "to_account" || payout.party != testSpender {
		t.Errorf("unexpected payout call: %+v", payout)
	}
}

// TestWithdrawDelegatedExceedsAllowance tests allowance enforcement
func TestWithdrawDelegatedExceedsAllowance(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	createTestPool(t, k, ctx, "pool-1")

	if _, err := k.Deposit(ctx, testInvestor, "pool-1", math.NewInt(1000)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if err := k.ApproveWithdraw(ctx, testInvestor, testSpender, "pool-1", math.NewInt(200)); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	_, err := k.Withdraw(ctx, testSpender, testInvestor, "", "pool-1", math.NewInt(300))
	if !types.ErrInsufficientAllowance.Is(err) {
		t.Errorf("expected insufficient allowance error, got %v", err)
	}
}

// TestWithdrawDelegatedWithoutApproval tests the unapproved spender case
func TestWithdrawDelegatedWithoutApproval(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	createTestPool(t, k, ctx, "pool-1")

	if _, err := k.Deposit(ctx, testInvestor, "pool-1", math.NewInt(1000)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	_, err := k.Withdraw(ctx, testSpender, testInvestor, "", "pool-1", math.NewInt(100))
	if !types.ErrInsufficientAllowance.Is(err) {
		t.Errorf("expected insufficient allowance error, got %v", err)
	}
}

// TestApproveWithdrawReplaces tests that re-approval overwrites the amount
func TestApproveWithdrawReplaces(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	createTestPool(t, k, ctx, "pool-1")

	if err := k.ApproveWithdraw(ctx, testInvestor, testSpender, "pool-1", math.NewInt(500)); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if err := k.ApproveWithdraw(ctx, testInvestor, testSpender, "pool-1", math.NewInt(50)); err != nil {
		t.Fatalf("re-approve failed: %v", err)
	}

	allowance := k.GetAllowance(ctx, "pool-1", testInvestor, testSpender)
	if allowance == nil || !allowance.Shares.Equal(math.NewInt(50)) {
		t.Errorf("expected allowance 50, got %+v", allowance)
	}
}

// TestWithdrawNonActivePool tests the status gate on withdrawal
func TestWithdrawNonActivePool(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	pool := createTestPool(t, k, ctx, "pool-1")

	if _, err := k.Deposit(ctx, testInvestor, "pool-1", math.NewInt(1000)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	pool = k.GetPool(ctx, "pool-1")
	pool.Status = types.PoolStatusSettled
	k.SetPool(ctx, pool)

	_, err := k.Withdraw(ctx, testInvestor, "", "", "pool-1", math.NewInt(100))
	if !types.ErrInvalidState.Is(err) {
		t.Errorf("expected invalid state error, got %v", err)
	}
}
