package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/math"

	debtpooltypes "github.com/structuredfi/notechain/x/debtpool/types"
	"github.com/structuredfi/notechain/x/issuance/types"
)

// TestLockPool tests the explicit lock path
func TestLockPool(t *testing.T) {
	env := setupEnv(t)
	poolID := createAndFund(t, env, 1000)

	afterWindow := env.ctx.WithBlockTime(time.Unix(2500, 0))
	if err := env.keeper.LockPool(afterWindow, testOperator, poolID); err != nil {
		t.Fatalf("lock failed: %v", err)
	}

	if got := env.pool.GetPool(env.ctx, poolID).Status; got != debtpooltypes.PoolStatusLocked {
		t.Errorf("expected locked, got %s", got)
	}
}

// TestLockPoolEarly tests that the window must have closed
func TestLockPoolEarly(t *testing.T) {
	env := setupEnv(t)
	poolID := createAndFund(t, env, 1000)

	inWindow := env.ctx.WithBlockTime(time.Unix(1500, 0))
	err := env.keeper.LockPool(inWindow, testOperator, poolID)
	if !debtpooltypes.ErrTimingViolation.Is(err) {
		t.Errorf("expected timing violation, got %v", err)
	}
}

// TestInitiateSettlement tests the full settlement unit
func TestInitiateSettlement(t *testing.T) {
	env := setupEnv(t)
	poolID := createAndFund(t, env, 1000)

	afterWindow := env.ctx.WithBlockTime(time.Unix(2500, 0))
	if err := env.keeper.LockPool(afterWindow, testOperator, poolID); err != nil {
		t.Fatalf("lock failed: %v", err)
	}

	principal, err := env.keeper.InitiateSettlement(afterWindow, testOperator, poolID)
	if err != nil {
		t.Fatalf("settlement failed: %v", err)
	}
	if !principal.Equal(math.NewInt(1000)) {
		t.Errorf("expected principal 1000, got %s", principal)
	}

	// Pool is settled, escrow is funded and released in one unit
	if got := env.pool.GetPool(env.ctx, poolID).Status; got != debtpooltypes.PoolStatusSettled {
		t.Errorf("expected settled pool, got %s", got)
	}
	escrow := env.escrow.GetEscrow(env.ctx, poolID)
	if escrow == nil {
		t.Fatal("escrow record missing")
	}
	if !escrow.IsSettled {
		t.Error("expected settled escrow")
	}
	if !escrow.Amount.Equal(math.NewInt(1000)) {
		t.Errorf("expected escrowed 1000, got %s", escrow.Amount)
	}
}

// TestInitiateSettlementAutoLocks tests settling directly from Active
func TestInitiateSettlementAutoLocks(t *testing.T) {
	env := setupEnv(t)
	poolID := createAndFund(t, env, 1000)

	afterWindow := env.ctx.WithBlockTime(time.Unix(2500, 0))
	if _, err := env.keeper.InitiateSettlement(afterWindow, testOperator, poolID); err != nil {
		t.Fatalf("settlement failed: %v", err)
	}

	if got := env.pool.GetPool(env.ctx, poolID).Status; got != debtpooltypes.PoolStatusSettled {
		t.Errorf("expected settled pool, got %s", got)
	}
}

// TestInitiateSettlementRollsBack tests that a failing transfer leaves
// nothing behind in either module
func TestInitiateSettlementRollsBack(t *testing.T) {
	env := setupEnv(t)
	poolID := createAndFund(t, env, 1000)

	// The issuer release is the last transfer in the unit
	env.bank.failKind = "module_to_account"

	afterWindow := env.ctx.WithBlockTime(time.Unix(2500, 0))
	if _, err := env.keeper.InitiateSettlement(afterWindow, testOperator, poolID); err == nil {
		t.Fatal("expected settlement failure")
	}

	// Pool is still Active and no escrow record exists
	if got := env.pool.GetPool(env.ctx, poolID).Status; got != debtpooltypes.PoolStatusActive {
		t.Errorf("expected active pool after rollback, got %s", got)
	}
	if env.escrow.GetEscrow(env.ctx, poolID) != nil {
		t.Error("escrow record survived rollback")
	}
}

// TestProcessMaturity tests the repayment unit and the yield figure
func TestProcessMaturity(t *testing.T) {
	env := setupEnv(t)
	poolID := createAndFund(t, env, 1000)

	afterWindow := env.ctx.WithBlockTime(time.Unix(2500, 0))
	if _, err := env.keeper.InitiateSettlement(afterWindow, testOperator, poolID); err != nil {
		t.Fatalf("settlement failed: %v", err)
	}

	atMaturity := env.ctx.WithBlockTime(time.Unix(5000, 0))
	total, err := env.keeper.ProcessMaturity(atMaturity, testOperator, poolID)
	if err != nil {
		t.Fatalf("maturity failed: %v", err)
	}

	// Yield accrues over [epoch end, maturity date]
	expected := debtpooltypes.MaturityValue(math.NewInt(1000), 500, 2000, 5000)
	if !total.Equal(expected) {
		t.Errorf("expected total %s, got %s", expected, total)
	}

	pool := env.pool.GetPool(env.ctx, poolID)
	if pool.Status != debtpooltypes.PoolStatusMatured {
		t.Errorf("expected matured pool, got %s", pool.Status)
	}
	if !pool.TotalAssets.Equal(total) {
		t.Errorf("expected pool assets %s, got %s", total, pool.TotalAssets)
	}
	if !env.escrow.GetEscrow(env.ctx, poolID).IsMatured {
		t.Error("expected matured escrow")
	}
}

// TestProcessMaturityEarlyRollsBack tests that a premature call matures
// neither ledger, even though the escrow leg alone would have succeeded
func TestProcessMaturityEarlyRollsBack(t *testing.T) {
	env := setupEnv(t)
	poolID := createAndFund(t, env, 1000)

	afterWindow := env.ctx.WithBlockTime(time.Unix(2500, 0))
	if _, err := env.keeper.InitiateSettlement(afterWindow, testOperator, poolID); err != nil {
		t.Fatalf("settlement failed: %v", err)
	}

	early := env.ctx.WithBlockTime(time.Unix(4000, 0))
	_, err := env.keeper.ProcessMaturity(early, testOperator, poolID)
	if !debtpooltypes.ErrTimingViolation.Is(err) {
		t.Fatalf("expected timing violation, got %v", err)
	}

	if env.escrow.GetEscrow(env.ctx, poolID).IsMatured {
		t.Error("escrow matured despite rollback")
	}
	if got := env.pool.GetPool(env.ctx, poolID).Status; got != debtpooltypes.PoolStatusSettled {
		t.Errorf("expected settled pool, got %s", got)
	}
}

// TestProcessMaturityRequiresEscrow tests the missing escrow case
func TestProcessMaturityRequiresEscrow(t *testing.T) {
	env := setupEnv(t)
	poolID := createAndFund(t, env, 1000)

	atMaturity := env.ctx.WithBlockTime(time.Unix(5000, 0))
	_, err := env.keeper.ProcessMaturity(atMaturity, testOperator, poolID)
	if !types.ErrInvalidState.Is(err) {
		t.Errorf("expected invalid state, got %v", err)
	}
}

// TestEmergencyShutdown tests the admin-only halt
func TestEmergencyShutdown(t *testing.T) {
	env := setupEnv(t)
	poolID := createAndFund(t, env, 1000)

	// Operators cannot shut down
	err := env.keeper.EmergencyShutdown(env.ctx, testOperator, poolID)
	if !types.ErrUnauthorized.Is(err) {
		t.Fatalf("expected unauthorized for operator, got %v", err)
	}

	if err := env.keeper.EmergencyShutdown(env.ctx, testAdmin, poolID); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if got := env.pool.GetPool(env.ctx, poolID).Status; got != debtpooltypes.PoolStatusEmergencyShutdown {
		t.Errorf("expected emergency shutdown, got %s", got)
	}

	// Repeat shutdown fails
	err = env.keeper.EmergencyShutdown(env.ctx, testAdmin, poolID)
	if !debtpooltypes.ErrInvalidState.Is(err) {
		t.Errorf("expected invalid state on repeat, got %v", err)
	}
}

// TestEmergencyShutdownUnwindsEscrow tests that an unsettled escrow flows
// back to the pool module during shutdown
func TestEmergencyShutdownUnwindsEscrow(t *testing.T) {
	env := setupEnv(t)
	poolID := createAndFund(t, env, 1000)

	// Fund custody without releasing, leaving an unsettled escrow
	if err := env.escrow.DepositForSettlement(env.ctx, testAuthority, poolID, "usdc", math.NewInt(1000)); err != nil {
		t.Fatalf("escrow deposit failed: %v", err)
	}

	if err := env.keeper.EmergencyShutdown(env.ctx, testAdmin, poolID); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	escrow := env.escrow.GetEscrow(env.ctx, poolID)
	if !escrow.Amount.IsZero() {
		t.Errorf("expected drained escrow, got %s", escrow.Amount)
	}
}

// TestLifecycleUnregisteredPool tests the registry gate on lifecycle calls
func TestLifecycleUnregisteredPool(t *testing.T) {
	env := setupEnv(t)

	if err := env.keeper.LockPool(env.ctx, testOperator, "pool-x"); !types.ErrPoolNotRegistered.Is(err) {
		t.Errorf("lock: expected not registered, got %v", err)
	}
	if _, err := env.keeper.InitiateSettlement(env.ctx, testOperator, "pool-x"); !types.ErrPoolNotRegistered.Is(err) {
		t.Errorf("settle: expected not registered, got %v", err)
	}
	if _, err := env.keeper.ProcessMaturity(env.ctx, testOperator, "pool-x"); !types.ErrPoolNotRegistered.Is(err) {
		t.Errorf("mature: expected not registered, got %v", err)
	}
	if err := env.keeper.EmergencyShutdown(env.ctx, testAdmin, "pool-x"); !types.ErrPoolNotRegistered.Is(err) {
		t.Errorf("shutdown: expected not registered, got %v", err)
	}
}
