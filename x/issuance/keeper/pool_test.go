package keeper

import (
	"testing"
	"time"

	debtpooltypes "github.com/structuredfi/notechain/x/debtpool/types"
	"github.com/structuredfi/notechain/x/issuance/types"
)

// TestCreatePool tests registration plus ledger instantiation
func TestCreatePool(t *testing.T) {
	env := setupEnv(t)

	poolID, err := env.keeper.CreatePool(env.ctx, testOperator, testIssuer, "deal-1", testTerms())
	if err != nil {
		t.Fatalf("create pool failed: %v", err)
	}
	if poolID != types.DerivePoolID("0xabc123", "deal-1") {
		t.Errorf("unexpected pool id %s", poolID)
	}

	// Registry record and pool ledger exist together
	record := env.keeper.GetPoolRecord(env.ctx, poolID)
	if record == nil {
		t.Fatal("registry record not stored")
	}
	if record.Issuer != testIssuer || record.DocHash != "0xabc123" || record.Salt != "deal-1" {
		t.Errorf("unexpected record: %+v", record)
	}

	pool := env.pool.GetPool(env.ctx, poolID)
	if pool == nil {
		t.Fatal("pool ledger not instantiated")
	}
	if pool.Status != debtpooltypes.PoolStatusActive {
		t.Errorf("expected active pool, got %s", pool.Status)
	}
	if !env.keeper.IsDocHashRegistered(env.ctx, "0xabc123") {
		t.Error("doc hash not indexed")
	}
}

// TestCreatePoolAdminAllowed tests that the admin passes the operator gate
func TestCreatePoolAdminAllowed(t *testing.T) {
	env := setupEnv(t)

	if _, err := env.keeper.CreatePool(env.ctx, testAdmin, testIssuer, "deal-1", testTerms()); err != nil {
		t.Errorf("admin create failed: %v", err)
	}
}

// TestCreatePoolUnauthorized tests the operator gate
func TestCreatePoolUnauthorized(t *testing.T) {
	env := setupEnv(t)

	_, err := env.keeper.CreatePool(env.ctx, testInvestor, testIssuer, "deal-1", testTerms())
	if !types.ErrUnauthorized.Is(err) {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

// TestCreatePoolDuplicateDocHash tests system-wide instrument uniqueness
func TestCreatePoolDuplicateDocHash(t *testing.T) {
	env := setupEnv(t)

	if _, err := env.keeper.CreatePool(env.ctx, testOperator, testIssuer, "deal-1", testTerms()); err != nil {
		t.Fatalf("create pool failed: %v", err)
	}

	// Same doc hash with a different salt is still rejected
	_, err := env.keeper.CreatePool(env.ctx, testOperator, testIssuer, "deal-2", testTerms())
	if !types.ErrAlreadyExists.Is(err) {
		t.Errorf("expected already exists, got %v", err)
	}
}

// TestCreatePoolTiming tests the window checks against the block clock
func TestCreatePoolTiming(t *testing.T) {
	env := setupEnv(t)

	// Epoch start must lie in the future
	late := env.ctx.WithBlockTime(time.Unix(1000, 0))
	_, err := env.keeper.CreatePool(late, testOperator, testIssuer, "deal-1", testTerms())
	if !types.ErrTimingViolation.Is(err) {
		t.Errorf("expected timing violation, got %v", err)
	}
}

// TestCreatePoolRegistryUntouchedOnFailure tests all-or-nothing registration
func TestCreatePoolRegistryUntouchedOnFailure(t *testing.T) {
	env := setupEnv(t)

	terms := testTerms()
	terms.Denom = ""
	poolID := types.DerivePoolID(terms.DocHash, "deal-1")

	if _, err := env.keeper.CreatePool(env.ctx, testOperator, testIssuer, "deal-1", terms); err == nil {
		t.Fatal("expected error for invalid terms")
	}

	if env.keeper.GetPoolRecord(env.ctx, poolID) != nil {
		t.Error("registry record written despite failure")
	}
	if env.keeper.IsDocHashRegistered(env.ctx, terms.DocHash) {
		t.Error("doc hash indexed despite failure")
	}
	if env.pool.GetPool(env.ctx, poolID) != nil {
		t.Error("pool ledger written despite failure")
	}
}

// TestPoolsDueBy tests the maturity schedule index
func TestPoolsDueBy(t *testing.T) {
	env := setupEnv(t)

	termsA := testTerms()
	poolA, err := env.keeper.CreatePool(env.ctx, testOperator, testIssuer, "deal-a", termsA)
	if err != nil {
		t.Fatalf("create pool failed: %v", err)
	}

	termsB := testTerms()
	termsB.DocHash = "0xdef456"
	termsB.MaturityDate = 9000
	poolB, err := env.keeper.CreatePool(env.ctx, testOperator, testIssuer, "deal-b", termsB)
	if err != nil {
		t.Fatalf("create pool failed: %v", err)
	}

	due := env.keeper.PoolsDueBy(env.ctx, 5000)
	if len(due) != 1 || due[0] != poolA {
		t.Errorf("expected [%s], got %v", poolA, due)
	}

	due = env.keeper.PoolsDueBy(env.ctx, 9000)
	if len(due) != 2 || due[0] != poolA || due[1] != poolB {
		t.Errorf("expected maturity order [%s %s], got %v", poolA, poolB, due)
	}

	if due = env.keeper.PoolsDueBy(env.ctx, 4999); len(due) != 0 {
		t.Errorf("expected no due pools, got %v", due)
	}
}
