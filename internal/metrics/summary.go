// Package metrics derives run-level aggregates from the raw records a
// simulation run collects. All aggregation happens after the run loop; the
// run itself only appends records.
package metrics

import "amm-mev-lab/internal/domain"

// ComputeSummary recomputes the full summary from the collected records.
// Attempts count only executed sandwiches; skipped candidates carry no
// capital movement and are excluded. Average loss is per successful attack.
//
// Protected savings equal the unprotected branch's total victim losses:
// both branches see the same draws, so every unit the unprotected cohort
// lost to sandwiches is a unit the protected cohort kept.
func ComputeSummary(unprotected []*domain.TradeRecord, outcomes []*domain.SandwichOutcome) domain.Summary {
	s := domain.Summary{TotalTransactions: len(unprotected)}

	for _, o := range outcomes {
		if !o.Executed {
			continue
		}
		s.AttackAttempts++
		if o.Success {
			s.SuccessfulAttacks++
		}
		s.TotalMEVExtracted += o.Profit
		s.TotalVictimLosses += o.VictimLoss
	}

	if s.AttackAttempts > 0 {
		s.AttackSuccessRate = float64(s.SuccessfulAttacks) / float64(s.AttackAttempts) * 100
	}
	if s.SuccessfulAttacks > 0 {
		s.AvgLossPerAttack = float64(s.TotalVictimLosses) / float64(s.SuccessfulAttacks)
	}
	s.TotalProtectedSavings = s.TotalVictimLosses

	for _, t := range unprotected {
		s.TotalVolume += t.AmountIn
	}
	if len(unprotected) > 0 {
		s.AvgTradeAmount = float64(s.TotalVolume) / float64(len(unprotected))
	}

	return s
}
