package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# MEV Simulation Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Runs: %d\n\n", len(r.Runs)))

	// Combined summary
	c := r.Combined()
	sb.WriteString("## Combined Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Transactions | %d |\n", c.TotalTransactions))
	sb.WriteString(fmt.Sprintf("| Attack Attempts | %d |\n", c.AttackAttempts))
	sb.WriteString(fmt.Sprintf("| Successful Attacks | %d |\n", c.SuccessfulAttacks))
	sb.WriteString(fmt.Sprintf("| Attack Success Rate | %.2f%% |\n", c.AttackSuccessRate))
	sb.WriteString(fmt.Sprintf("| Total MEV Extracted | %d |\n", c.TotalMEVExtracted))
	sb.WriteString(fmt.Sprintf("| Total Victim Losses | %d |\n", c.TotalVictimLosses))
	sb.WriteString(fmt.Sprintf("| Avg Loss Per Successful Attack | %.2f |\n", c.AvgLossPerAttack))
	sb.WriteString(fmt.Sprintf("| Total Protected Savings | %d |\n", c.TotalProtectedSavings))
	sb.WriteString(fmt.Sprintf("| Total Volume | %d |\n", c.TotalVolume))
	sb.WriteString(fmt.Sprintf("| Avg Trade Amount | %.2f |\n", c.AvgTradeAmount))
	sb.WriteString("\n")

	// Per-run breakdown
	sb.WriteString("## Per-Run Summary\n\n")
	if len(r.Runs) > 0 {
		sb.WriteString("| Run | Seed | Txs | Attacks | Successful | Success% | MEV | Victim Losses | Protected Savings |\n")
		sb.WriteString("|-----|------|-----|---------|------------|----------|-----|---------------|-------------------|\n")
		for _, run := range r.Runs {
			s := run.Summary
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %d | %.2f | %d | %d | %d |\n",
				run.RunID, run.Config.Seed, s.TotalTransactions,
				s.AttackAttempts, s.SuccessfulAttacks, s.AttackSuccessRate,
				s.TotalMEVExtracted, s.TotalVictimLosses, s.TotalProtectedSavings))
		}
	} else {
		sb.WriteString("No runs available.\n")
	}
	sb.WriteString("\n")

	// Configuration echo from the first run; a batch shares everything
	// except the seed.
	if len(r.Runs) > 0 {
		cfg := r.Runs[0].Config
		sb.WriteString("## Configuration\n\n")
		sb.WriteString("| Parameter | Value |\n")
		sb.WriteString("|-----------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Transactions Per Run | %d |\n", cfg.TotalTransactions))
		sb.WriteString(fmt.Sprintf("| Attack Probability | %.2f |\n", cfg.AttackProbability))
		sb.WriteString(fmt.Sprintf("| Swap Amount Range | %d - %d |\n", cfg.MinSwapAmount, cfg.MaxSwapAmount))
		sb.WriteString(fmt.Sprintf("| Initial Reserves | %d / %d |\n", cfg.InitialReserveA, cfg.InitialReserveB))
		sb.WriteString(fmt.Sprintf("| Fee (bps) | %d |\n", cfg.FeeBps))
		sb.WriteString(fmt.Sprintf("| Attacker Capital | %d |\n", cfg.AttackerCapital))
		sb.WriteString(fmt.Sprintf("| Traders | %d |\n", cfg.NumTraders))
		sb.WriteString(fmt.Sprintf("| Slippage (bps) | %d |\n", cfg.SlippageBps))
		sb.WriteString("\n")
	}

	return sb.String()
}
