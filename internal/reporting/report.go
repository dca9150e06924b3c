// Package reporting renders simulation results as a Markdown report plus CSV
// extracts for downstream analysis.
package reporting

import (
	"time"

	"amm-mev-lab/internal/domain"
)

// Report is the rendered view of one or more simulation runs.
type Report struct {
	GeneratedAt time.Time
	Runs        []*domain.Results
}

// Combined sums the per-run summaries into one batch-level summary.
// Ratio fields are recomputed from the combined totals, not averaged.
func (r *Report) Combined() domain.Summary {
	var c domain.Summary
	for _, run := range r.Runs {
		s := run.Summary
		c.TotalTransactions += s.TotalTransactions
		c.AttackAttempts += s.AttackAttempts
		c.SuccessfulAttacks += s.SuccessfulAttacks
		c.TotalMEVExtracted += s.TotalMEVExtracted
		c.TotalVictimLosses += s.TotalVictimLosses
		c.TotalVolume += s.TotalVolume
	}

	if c.AttackAttempts > 0 {
		c.AttackSuccessRate = float64(c.SuccessfulAttacks) / float64(c.AttackAttempts) * 100
	}
	if c.SuccessfulAttacks > 0 {
		c.AvgLossPerAttack = float64(c.TotalVictimLosses) / float64(c.SuccessfulAttacks)
	}
	c.TotalProtectedSavings = c.TotalVictimLosses
	if c.TotalTransactions > 0 {
		c.AvgTradeAmount = float64(c.TotalVolume) / float64(c.TotalTransactions)
	}

	return c
}
