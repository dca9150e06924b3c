package sandwich

import (
	"testing"

	"amm-mev-lab/internal/amm"
	"amm-mev-lab/internal/domain"
)

func TestFrontrunSize_ReferenceScenario(t *testing.T) {
	pool := amm.NewPool(1_000_000_000_000, 1_000_000_000_000, 30)
	opt := NewOptimizer()

	// victim/2 = 5e9, capital = 1e11, reserve/10 = 1e11 -> min is 5e9.
	got := opt.FrontrunSize(pool, 10_000_000_000, domain.DirectionAToB, 100_000_000_000)
	if got != 5_000_000_000 {
		t.Errorf("FrontrunSize = %d, want 5000000000", got)
	}
}

func TestFrontrunSize_CapOrdering(t *testing.T) {
	pool := amm.NewPool(1_000_000_000_000, 1_000_000_000_000, 30)
	opt := NewOptimizer()

	// Capital binds.
	if got := opt.FrontrunSize(pool, 10_000_000_000, domain.DirectionAToB, 1_000_000_000); got != 1_000_000_000 {
		t.Errorf("capital cap: got %d, want 1000000000", got)
	}

	// Reserve cap binds on the input side of the direction.
	small := amm.NewPool(10_000_000_000, 1_000_000_000_000, 30)
	if got := opt.FrontrunSize(small, 10_000_000_000, domain.DirectionAToB, 100_000_000_000); got != 1_000_000_000 {
		t.Errorf("reserve cap: got %d, want 1000000000", got)
	}
	// Opposite direction reads the other reserve.
	if got := opt.FrontrunSize(small, 10_000_000_000, domain.DirectionBToA, 100_000_000_000); got != 5_000_000_000 {
		t.Errorf("reserve cap B->A: got %d, want 5000000000", got)
	}
}

func TestPlanFrontrun_ProfitImpliesVictimLoss(t *testing.T) {
	pool := amm.NewPool(1_000_000_000_000, 1_000_000_000_000, 30)
	opt := NewOptimizer()

	plan := opt.PlanFrontrun(pool, 10_000_000_000, domain.DirectionAToB, 100_000_000_000)

	if plan.FrontrunAmount == 0 {
		t.Fatal("expected a non-zero front-run for a 10-unit victim swap")
	}
	if plan.VictimLoss == 0 {
		t.Error("a sandwich moved the price but victim lost nothing")
	}
	if plan.Profitable() && plan.VictimLoss == 0 {
		t.Error("profitable attack with zero victim loss")
	}
}

func TestPlanFrontrun_LeavesPoolUntouched(t *testing.T) {
	pool := amm.NewPool(1_000_000_000_000, 1_000_000_000_000, 30)
	before := pool

	NewOptimizer().PlanFrontrun(pool, 10_000_000_000, domain.DirectionAToB, 100_000_000_000)

	if pool != before {
		t.Errorf("dry run mutated the live pool: %+v -> %+v", before, pool)
	}
}

func TestPlanFrontrun_ZeroCaps(t *testing.T) {
	pool := amm.NewPool(1_000_000_000_000, 1_000_000_000_000, 30)
	opt := NewOptimizer()

	if plan := opt.PlanFrontrun(pool, 10_000_000_000, domain.DirectionAToB, 0); plan != (Plan{}) {
		t.Errorf("no capital: expected zero plan, got %+v", plan)
	}
	if plan := opt.PlanFrontrun(pool, 1, domain.DirectionAToB, 100_000_000_000); plan != (Plan{}) {
		t.Errorf("dust victim: expected zero plan, got %+v", plan)
	}
}

func TestPlanFrontrun_SmallVictimUnprofitable(t *testing.T) {
	// Fees on three legs swamp the price movement of a tiny victim trade.
	pool := amm.NewPool(1_000_000_000_000, 1_000_000_000_000, 30)
	opt := NewOptimizer()

	plan := opt.PlanFrontrun(pool, 200_000_000, domain.DirectionAToB, 100_000_000_000)

	if plan.Profitable() {
		t.Errorf("tiny victim swap should not be profitable to sandwich: %+v", plan)
	}
}
