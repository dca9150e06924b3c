package domain

// Scenario tags which branch of a transaction produced a record.
type Scenario string

// Scenario constants.
const (
	ScenarioUnprotected Scenario = "unprotected"
	ScenarioProtected   Scenario = "protected"
)

// TradeRecord is the immutable result of one executed trade.
// Produced by trade actors, consumed by the orchestrator and reporting;
// never mutated after creation.
type TradeRecord struct {
	TradeID  string   // deterministic hash, see idhash
	RunID    string   // simulation run this trade belongs to
	TxIndex  int      // transaction index within the run
	Scenario Scenario // which branch executed the trade

	Trader    string    // trader address (base58)
	AmountIn  uint64    // input amount
	Direction Direction // swap direction

	ExpectedOut    uint64 // quoted against the pre-attack pool
	ActualOut      uint64 // amount actually received
	Loss           uint64 // expected - actual, floored at zero
	FeePaid        uint64 // fee charged by the pool
	PriceImpactBps uint64 // price impact of the executed swap

	WasAttacked bool  // true when the trade was the middle leg of a sandwich
	Timestamp   int64 // wall-clock unix seconds, informational only
}

// LossFraction returns the loss as a fraction of expected output.
func (t *TradeRecord) LossFraction() float64 {
	if t.ExpectedOut == 0 {
		return 0
	}
	return float64(t.Loss) / float64(t.ExpectedOut)
}
