package domain

// PoolSnapshot records pool reserves after one branch of a transaction.
// Two snapshots are taken per transaction index, one per scenario.
type PoolSnapshot struct {
	RunID     string
	TxIndex   int
	Scenario  Scenario
	ReserveA  uint64
	ReserveB  uint64
	PriceAInB float64 // display-only spot price, reserve_b / reserve_a
}
