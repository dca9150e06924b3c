// Package simulation runs the paired-branch MEV experiment: every drawn
// transaction is executed once on an unprotected pool lineage where the
// attacker sees it coming, and once through commit-reveal where it cannot.
package simulation

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"amm-mev-lab/internal/actors"
	"amm-mev-lab/internal/amm"
	"amm-mev-lab/internal/domain"
	"amm-mev-lab/internal/idhash"
	"amm-mev-lab/internal/identity"
	"amm-mev-lab/internal/metrics"
	"amm-mev-lab/internal/observability"
	"amm-mev-lab/internal/storage"
)

// Runner executes simulation runs.
type Runner struct {
	tradeStore    storage.TradeRecordStore
	outcomeStore  storage.SandwichOutcomeStore
	snapshotStore storage.PoolSnapshotStore

	observer func(*domain.TradeRecord)
	verbose  bool
}

// RunnerOptions contains configuration for creating a Runner. All stores are
// optional; a nil store skips persistence for that record type. Observer, if
// set, is invoked synchronously for every trade record as it is produced.
type RunnerOptions struct {
	TradeRecordStore     storage.TradeRecordStore
	SandwichOutcomeStore storage.SandwichOutcomeStore
	PoolSnapshotStore    storage.PoolSnapshotStore

	Observer func(*domain.TradeRecord)
	Verbose  bool
}

// NewRunner creates a simulation runner.
func NewRunner(opts RunnerOptions) *Runner {
	return &Runner{
		tradeStore:    opts.TradeRecordStore,
		outcomeStore:  opts.SandwichOutcomeStore,
		snapshotStore: opts.PoolSnapshotStore,
		observer:      opts.Observer,
		verbose:       opts.Verbose,
	}
}

// Run executes one simulation run.
// Steps per transaction:
//  1. Draw amount, direction, trader index and the attack roll from the
//     seeded RNG (fixed draw order; this is what makes a seed reproducible)
//  2. Execute the unprotected branch, sandwiched when the roll says so
//  3. Execute the protected branch from the same pre-transaction pool state
//     via commit, slot advance, reveal
//  4. Snapshot both post-branch pool states
//  5. Carry the unprotected branch's pool into the next transaction; the
//     protected branch's mutation is discarded unless IndependentPools is set
//
// After the loop the summary is recomputed from the collected records and
// everything is persisted through the configured stores.
func (r *Runner) Run(ctx context.Context, cfg domain.Config) (*domain.Results, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	runID := fmt.Sprintf("%d-%x", cfg.Seed, started.UnixNano())
	rng := rand.New(rand.NewSource(cfg.Seed))

	pool := amm.NewPool(cfg.InitialReserveA, cfg.InitialReserveB, cfg.FeeBps)
	protPool := pool // advanced only when IndependentPools

	attackerKey, err := identity.NewKeypair()
	if err != nil {
		return nil, fmt.Errorf("create attacker identity: %w", err)
	}
	attacker := actors.NewSandwichAttacker(attackerKey, cfg.AttackerCapital, cfg.AttackerCapital)

	normals := make([]*actors.NormalTrader, cfg.NumTraders)
	protecteds := make([]*actors.ProtectedTrader, cfg.NumTraders)
	for i := 0; i < cfg.NumTraders; i++ {
		kp, err := identity.NewKeypair()
		if err != nil {
			return nil, fmt.Errorf("create trader identity: %w", err)
		}
		normals[i] = actors.NewNormalTrader(kp, cfg.TraderBalanceA, cfg.TraderBalanceB)
		protecteds[i] = actors.NewProtectedTrader(kp, cfg.TraderBalanceA, cfg.TraderBalanceB, cfg.MinRevealDelaySlots)
	}

	results := &domain.Results{RunID: runID, Config: cfg}

	if r.verbose {
		log.Printf("[simulation] run %s: %d transactions, attack probability %.2f, seed %d",
			runID, cfg.TotalTransactions, cfg.AttackProbability, cfg.Seed)
	}

	for tx := 0; tx < cfg.TotalTransactions; tx++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		amount := randAmount(rng, cfg.MinSwapAmount, cfg.MaxSwapAmount)
		dir := randDirection(rng)
		idx := rng.Intn(cfg.NumTraders)
		attackRoll := rng.Float64() < cfg.AttackProbability

		preTx := pool

		// Unprotected branch.
		if record, outcome := r.runUnprotected(&pool, normals[idx], attacker, amount, dir, attackRoll, cfg.SlippageBps); record != nil {
			record.TradeID = idhash.ComputeTradeID(runID, string(domain.ScenarioUnprotected), tx)
			record.RunID = runID
			record.TxIndex = tx
			record.Scenario = domain.ScenarioUnprotected
			results.UnprotectedTrades = append(results.UnprotectedTrades, record)
			r.observe(record)

			if outcome != nil {
				outcome.RunID = runID
				outcome.TxIndex = tx
				results.SandwichOutcomes = append(results.SandwichOutcomes, outcome)
			}
		}

		// Protected branch. Starts from the same pre-transaction state
		// unless the two lineages evolve independently.
		target := &protPool
		if !cfg.IndependentPools {
			branch := preTx
			target = &branch
		}
		if record, err := protecteds[idx].Trade(amount, dir, target, cfg.SlippageBps); err == nil {
			record.TradeID = idhash.ComputeTradeID(runID, string(domain.ScenarioProtected), tx)
			record.RunID = runID
			record.TxIndex = tx
			record.Scenario = domain.ScenarioProtected
			results.ProtectedTrades = append(results.ProtectedTrades, record)
			r.observe(record)
		} else if r.verbose {
			log.Printf("[simulation] tx %d: protected trade skipped: %v", tx, err)
		}

		results.PoolHistory = append(results.PoolHistory,
			snapshotOf(runID, tx, domain.ScenarioUnprotected, pool),
			snapshotOf(runID, tx, domain.ScenarioProtected, *target),
		)

		if r.verbose && (tx+1)%100 == 0 {
			log.Printf("[simulation] run %s: %d/%d transactions", runID, tx+1, cfg.TotalTransactions)
		}
	}

	results.Summary = metrics.ComputeSummary(results.UnprotectedTrades, results.SandwichOutcomes)

	for _, trade := range results.UnprotectedTrades {
		observability.RecordTrade(string(trade.Scenario))
	}
	for _, trade := range results.ProtectedTrades {
		observability.RecordTrade(string(trade.Scenario))
		observability.RecordCommitment(true)
	}
	for _, o := range results.SandwichOutcomes {
		if o.Executed {
			observability.RecordAttack(o.Success, o.Profit, o.VictimLoss)
		}
	}
	observability.RecordRun("success", time.Since(started).Seconds())

	if r.verbose {
		s := results.Summary
		log.Printf("[simulation] run %s done: %d attacks (%d successful), MEV %d, victim losses %d",
			runID, s.AttackAttempts, s.SuccessfulAttacks, s.TotalMEVExtracted, s.TotalVictimLosses)
	}

	if err := r.persist(ctx, results); err != nil {
		return nil, err
	}

	return results, nil
}

// runUnprotected executes one victim trade on the live pool, letting the
// attacker sandwich it when the roll fires. The returned outcome is nil when
// no attack was rolled; a rolled-but-declined attack returns a skipped
// outcome for the audit trail.
func (r *Runner) runUnprotected(pool *amm.Pool, victim *actors.NormalTrader, attacker *actors.SandwichAttacker, amount uint64, dir domain.Direction, attackRoll bool, slippageBps uint16) (*domain.TradeRecord, *domain.SandwichOutcome) {
	if !victim.CanTrade(amount, dir) {
		return nil, nil
	}

	expectedOut := victim.ExpectedOut(amount, dir, *pool)

	if attackRoll {
		pending := &domain.PendingSwap{
			AmountIn:  amount,
			Direction: dir,
			Victim:    victim.Address(),
			MinOut:    pool.MinOutput(amount, dir, slippageBps),
		}
		outcome, victimOut := attacker.ExecuteSandwich(pending, pool)
		if outcome.Executed {
			record, err := victim.RecordSandwiched(amount, dir, expectedOut, victimOut.AmountOut, victimOut.FeeCharged, victimOut.PriceImpactBps)
			if err != nil {
				return nil, &outcome
			}
			return record, &outcome
		}

		// Declined: the trade lands untouched.
		record, err := victim.Execute(amount, dir, pool, expectedOut)
		if err != nil {
			return nil, &outcome
		}
		return record, &outcome
	}

	record, err := victim.Execute(amount, dir, pool, expectedOut)
	if err != nil {
		return nil, nil
	}
	return record, nil
}

func (r *Runner) observe(record *domain.TradeRecord) {
	if r.observer != nil {
		r.observer(record)
	}
}

func (r *Runner) persist(ctx context.Context, results *domain.Results) error {
	if r.tradeStore != nil {
		if err := r.tradeStore.InsertBulk(ctx, results.UnprotectedTrades); err != nil {
			return fmt.Errorf("persist unprotected trades: %w", err)
		}
		if err := r.tradeStore.InsertBulk(ctx, results.ProtectedTrades); err != nil {
			return fmt.Errorf("persist protected trades: %w", err)
		}
	}
	if r.outcomeStore != nil {
		if err := r.outcomeStore.InsertBulk(ctx, results.SandwichOutcomes); err != nil {
			return fmt.Errorf("persist sandwich outcomes: %w", err)
		}
	}
	if r.snapshotStore != nil {
		if err := r.snapshotStore.InsertBulk(ctx, results.PoolHistory); err != nil {
			return fmt.Errorf("persist pool history: %w", err)
		}
	}
	return nil
}

func snapshotOf(runID string, tx int, scenario domain.Scenario, pool amm.Pool) *domain.PoolSnapshot {
	return &domain.PoolSnapshot{
		RunID:     runID,
		TxIndex:   tx,
		Scenario:  scenario,
		ReserveA:  pool.ReserveA,
		ReserveB:  pool.ReserveB,
		PriceAInB: pool.PriceAInB(),
	}
}

// randAmount draws uniformly from [min, max].
func randAmount(rng *rand.Rand, min, max uint64) uint64 {
	if min == max {
		return min
	}
	return min + uint64(rng.Int63n(int64(max-min+1)))
}

func randDirection(rng *rand.Rand) domain.Direction {
	if rng.Intn(2) == 0 {
		return domain.DirectionAToB
	}
	return domain.DirectionBToA
}
