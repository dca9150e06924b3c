package domain

import "errors"

// Config validation errors.
var (
	ErrInvalidFee         = errors.New("fee_bps must be at most 10000")
	ErrInvalidProbability = errors.New("attack probability must be in [0, 1]")
	ErrInvalidAmountRange = errors.New("min swap amount must not exceed max swap amount")
	ErrNoTransactions     = errors.New("total transactions must be positive")
	ErrNoTraders          = errors.New("trader count must be positive")
)

// Config enumerates everything a simulation run needs. Amounts are in base
// units (lamport-scale integers); fees and slippage in basis points.
type Config struct {
	TotalTransactions int     // number of synthetic transactions to replay
	AttackProbability float64 // Bernoulli probability of an attack attempt per tx

	MinSwapAmount uint64 // uniform draw lower bound
	MaxSwapAmount uint64 // uniform draw upper bound (inclusive)

	InitialReserveA uint64
	InitialReserveB uint64
	FeeBps          uint16

	AttackerCapital uint64 // attacker starting balance in each token

	NumTraders     int    // trader actors per scenario
	TraderBalanceA uint64 // starting balance per trader
	TraderBalanceB uint64

	SlippageBps         uint16 // slippage tolerance committed by protected traders
	MinRevealDelaySlots uint64 // logical slots that must elapse before reveal

	// Seed drives all scenario randomness (amounts, directions, attack
	// rolls). Runs with equal seeds and configs produce identical reserves
	// and aggregates.
	Seed int64

	// IndependentPools lets the protected branch keep its own evolving pool
	// instead of re-forking from the unprotected timeline each transaction.
	// Off by default: per-transaction comparability requires the re-fork.
	IndependentPools bool
}

// DefaultConfig mirrors the reference scenario: a 1000/1000 pool at 30 bps,
// 0.1-5 unit swaps, an attacker with 100 units of capital.
func DefaultConfig() Config {
	return Config{
		TotalTransactions:   1000,
		AttackProbability:   0.8,
		MinSwapAmount:       100_000_000,
		MaxSwapAmount:       5_000_000_000,
		InitialReserveA:     1_000_000_000_000,
		InitialReserveB:     1_000_000_000_000,
		FeeBps:              30,
		AttackerCapital:     100_000_000_000,
		NumTraders:          10,
		TraderBalanceA:      50_000_000_000,
		TraderBalanceB:      50_000_000_000,
		SlippageBps:         100,
		MinRevealDelaySlots: 1,
	}
}

// Validate rejects configurations the engine cannot run.
func (c Config) Validate() error {
	if c.TotalTransactions <= 0 {
		return ErrNoTransactions
	}
	if c.AttackProbability < 0 || c.AttackProbability > 1 {
		return ErrInvalidProbability
	}
	if c.MinSwapAmount > c.MaxSwapAmount {
		return ErrInvalidAmountRange
	}
	if c.FeeBps > 10000 {
		return ErrInvalidFee
	}
	if c.NumTraders <= 0 {
		return ErrNoTraders
	}
	return nil
}
