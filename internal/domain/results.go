package domain

// Summary holds aggregate counters for one run. It is recomputed in full
// from the collected records, never mutated field-by-field.
type Summary struct {
	TotalTransactions int

	AttackAttempts    int
	SuccessfulAttacks int
	AttackSuccessRate float64 // percent of attempts that were profitable

	TotalMEVExtracted int64  // sum of attacker profit, signed
	TotalVictimLosses uint64 // sum of victim losses across attacks
	AvgLossPerAttack  float64

	// TotalProtectedSavings is what the protected cohort avoided losing:
	// the unprotected branch's victim losses for the same draws.
	TotalProtectedSavings uint64

	TotalVolume    uint64 // sum of unprotected amount_in
	AvgTradeAmount float64
}

// Results is the serializable aggregate a run hands to its consumers:
// configuration echo, ordered per-branch records, attack outcomes, pool
// history, and the derived summary. The core never reads it back.
type Results struct {
	RunID  string
	Config Config

	UnprotectedTrades []*TradeRecord
	ProtectedTrades   []*TradeRecord
	SandwichOutcomes  []*SandwichOutcome
	PoolHistory       []*PoolSnapshot

	Summary Summary
}
