package metrics

import (
	"testing"

	"amm-mev-lab/internal/domain"
)

func TestComputeSummary_Empty(t *testing.T) {
	s := ComputeSummary(nil, nil)
	if s != (domain.Summary{}) {
		t.Errorf("empty input produced non-zero summary: %+v", s)
	}
}

func TestComputeSummary_Aggregation(t *testing.T) {
	trades := []*domain.TradeRecord{
		{AmountIn: 1_000, WasAttacked: true},
		{AmountIn: 3_000},
		{AmountIn: 2_000, WasAttacked: true},
	}
	outcomes := []*domain.SandwichOutcome{
		{Executed: true, Success: true, Profit: 500, VictimLoss: 400},
		{Executed: true, Success: false, Profit: -100, VictimLoss: 50},
		{Executed: false}, // skipped, must not count as an attempt
		{Executed: true, Success: true, Profit: 200, VictimLoss: 100},
	}

	s := ComputeSummary(trades, outcomes)

	if s.TotalTransactions != 3 {
		t.Errorf("TotalTransactions = %d, want 3", s.TotalTransactions)
	}
	if s.AttackAttempts != 3 || s.SuccessfulAttacks != 2 {
		t.Errorf("attempts/successes = %d/%d, want 3/2", s.AttackAttempts, s.SuccessfulAttacks)
	}
	if want := 2.0 / 3.0 * 100; s.AttackSuccessRate != want {
		t.Errorf("AttackSuccessRate = %f, want %f", s.AttackSuccessRate, want)
	}
	if s.TotalMEVExtracted != 600 {
		t.Errorf("TotalMEVExtracted = %d, want 600", s.TotalMEVExtracted)
	}
	if s.TotalVictimLosses != 550 {
		t.Errorf("TotalVictimLosses = %d, want 550", s.TotalVictimLosses)
	}
	if want := 550.0 / 2.0; s.AvgLossPerAttack != want {
		t.Errorf("AvgLossPerAttack = %f, want %f", s.AvgLossPerAttack, want)
	}
	if s.TotalProtectedSavings != 550 {
		t.Errorf("TotalProtectedSavings = %d, want 550", s.TotalProtectedSavings)
	}
	if s.TotalVolume != 6_000 {
		t.Errorf("TotalVolume = %d, want 6000", s.TotalVolume)
	}
	if s.AvgTradeAmount != 2_000 {
		t.Errorf("AvgTradeAmount = %f, want 2000", s.AvgTradeAmount)
	}
}

func TestComputeSummary_AllAttacksLose(t *testing.T) {
	outcomes := []*domain.SandwichOutcome{
		{Executed: true, Profit: -300, VictimLoss: 10},
		{Executed: true, Profit: -200, VictimLoss: 5},
	}

	s := ComputeSummary(nil, outcomes)

	if s.AttackSuccessRate != 0 {
		t.Errorf("AttackSuccessRate = %f, want 0", s.AttackSuccessRate)
	}
	if s.AvgLossPerAttack != 0 {
		t.Errorf("AvgLossPerAttack = %f, want 0 with no successful attacks", s.AvgLossPerAttack)
	}
	if s.TotalMEVExtracted != -500 {
		t.Errorf("TotalMEVExtracted = %d, want -500", s.TotalMEVExtracted)
	}
}
