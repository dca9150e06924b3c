package domain

// PendingSwap is the victim transaction visible to the attacker before it
// lands. Protected trades never produce one: only the commitment hash is
// observable until reveal.
type PendingSwap struct {
	AmountIn  uint64
	Direction Direction
	Victim    string // victim address (base58)
	MinOut    uint64 // victim's slippage floor; unprotected trades rarely set it
}

// SandwichOutcome records one sandwich attempt: the planned front-run and the
// realized (or predicted, for dry runs) result of the three legs.
type SandwichOutcome struct {
	RunID   string
	TxIndex int

	FrontrunAmount   uint64
	FrontrunReceived uint64
	BackrunAmount    uint64
	BackrunReceived  uint64

	Profit     int64  // backrun output - frontrun input; negative when the attack loses
	VictimLoss uint64 // victim expected - victim actual, floored at zero
	Success    bool   // profit > 0
	Executed   bool   // false for skipped attempts (unprofitable or no capital)

	Timestamp int64
}

// Skipped returns an outcome for an attack the attacker declined to execute.
func Skipped(runID string, txIndex int, ts int64) SandwichOutcome {
	return SandwichOutcome{RunID: runID, TxIndex: txIndex, Timestamp: ts}
}
