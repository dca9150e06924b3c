package actors

import (
	"time"

	"amm-mev-lab/internal/amm"
	"amm-mev-lab/internal/domain"
	"amm-mev-lab/internal/identity"
	"amm-mev-lab/internal/sandwich"
)

// SandwichAttacker watches pending swaps and sandwiches the profitable ones.
// Every candidate is dry-run through the optimizer first; capital only moves
// once the plan predicts a positive return.
type SandwichAttacker struct {
	keypair   *identity.Keypair
	balanceA  uint64
	balanceB  uint64
	optimizer sandwich.Optimizer

	totalProfit       int64
	successfulAttacks int
	failedAttacks     int
}

// NewSandwichAttacker creates an attacker with the given capital on both
// sides and the default front-run sizing caps.
func NewSandwichAttacker(keypair *identity.Keypair, balanceA, balanceB uint64) *SandwichAttacker {
	return &SandwichAttacker{
		keypair:   keypair,
		balanceA:  balanceA,
		balanceB:  balanceB,
		optimizer: sandwich.NewOptimizer(),
	}
}

// Address returns the attacker's base58 address.
func (a *SandwichAttacker) Address() string {
	return a.keypair.Address()
}

// Balances returns the current (A, B) balances.
func (a *SandwichAttacker) Balances() (uint64, uint64) {
	return a.balanceA, a.balanceB
}

// Stats returns cumulative profit and the attack counters.
func (a *SandwichAttacker) Stats() (profit int64, successful, failed int) {
	return a.totalProfit, a.successfulAttacks, a.failedAttacks
}

// ShouldAttack dry-runs a sandwich against the pending swap and reports
// whether it clears the profitability bar. The pool is never mutated.
func (a *SandwichAttacker) ShouldAttack(pending *domain.PendingSwap, pool amm.Pool) (sandwich.Plan, bool) {
	plan := a.optimizer.PlanFrontrun(pool, pending.AmountIn, pending.Direction, a.capital(pending.Direction))
	return plan, plan.Profitable()
}

// ExecuteSandwich runs the full attack against the live pool: front-run in
// the victim's direction, the victim's swap, then the back-run selling the
// front-run proceeds. The victim leg's swap outcome is returned alongside so
// the caller can settle the victim's balances; the pool mutation for that leg
// already happened here.
//
// An unprofitable plan skips the attack and leaves the pool untouched. Once
// the front-run has landed there is no rollback: a mid-sandwich shortfall is
// booked as a realized loss of the entire front-run input.
func (a *SandwichAttacker) ExecuteSandwich(pending *domain.PendingSwap, pool *amm.Pool) (domain.SandwichOutcome, amm.SwapOutcome) {
	now := time.Now().Unix()

	plan, ok := a.ShouldAttack(pending, *pool)
	if !ok {
		a.failedAttacks++
		return domain.Skipped("", 0, now), amm.SwapOutcome{}
	}

	dir := pending.Direction
	victimExpected := pool.Quote(pending.AmountIn, dir).AmountOut

	a.debit(plan.FrontrunAmount, dir)
	frontrunOut := pool.Apply(plan.FrontrunAmount, dir)
	a.credit(frontrunOut.AmountOut, dir)

	victimOut := pool.Apply(pending.AmountIn, dir)

	var victimLoss uint64
	if victimExpected > victimOut.AmountOut {
		victimLoss = victimExpected - victimOut.AmountOut
	}

	backrunIn := frontrunOut.AmountOut
	if !a.hasBalance(backrunIn, dir.Opposite()) {
		// Stranded mid-sandwich: the front-run input is gone and the
		// proceeds cannot be sold back.
		loss := -int64(plan.FrontrunAmount)
		a.totalProfit += loss
		a.failedAttacks++
		return domain.SandwichOutcome{
			FrontrunAmount:   plan.FrontrunAmount,
			FrontrunReceived: frontrunOut.AmountOut,
			Profit:           loss,
			VictimLoss:       victimLoss,
			Executed:         true,
			Timestamp:        now,
		}, victimOut
	}

	a.debit(backrunIn, dir.Opposite())
	backrunOut := pool.Apply(backrunIn, dir.Opposite())
	a.credit(backrunOut.AmountOut, dir.Opposite())

	profit := int64(backrunOut.AmountOut) - int64(plan.FrontrunAmount)
	a.totalProfit += profit
	success := profit > 0
	if success {
		a.successfulAttacks++
	} else {
		a.failedAttacks++
	}

	return domain.SandwichOutcome{
		FrontrunAmount:   plan.FrontrunAmount,
		FrontrunReceived: frontrunOut.AmountOut,
		BackrunAmount:    backrunIn,
		BackrunReceived:  backrunOut.AmountOut,
		Profit:           profit,
		VictimLoss:       victimLoss,
		Success:          success,
		Executed:         true,
		Timestamp:        now,
	}, victimOut
}

// capital returns the balance on the input side of the given direction.
func (a *SandwichAttacker) capital(dir domain.Direction) uint64 {
	if dir == domain.DirectionAToB {
		return a.balanceA
	}
	return a.balanceB
}

func (a *SandwichAttacker) hasBalance(amount uint64, dir domain.Direction) bool {
	if dir == domain.DirectionAToB {
		return a.balanceA >= amount
	}
	return a.balanceB >= amount
}

func (a *SandwichAttacker) debit(amount uint64, dir domain.Direction) {
	if dir == domain.DirectionAToB {
		a.balanceA -= amount
	} else {
		a.balanceB -= amount
	}
}

func (a *SandwichAttacker) credit(amount uint64, dir domain.Direction) {
	if dir == domain.DirectionAToB {
		a.balanceB += amount
	} else {
		a.balanceA += amount
	}
}
