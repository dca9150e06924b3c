// Package sandwich implements the attacker's front-run sizing heuristic and
// the three-leg dry run that predicts sandwich profitability before any
// capital is committed.
package sandwich

import (
	"amm-mev-lab/internal/amm"
	"amm-mev-lab/internal/domain"
)

// Plan is the dry-run result for one candidate sandwich: the chosen
// front-run size and the predicted outcome of all three legs against a
// throwaway copy of the pool.
type Plan struct {
	FrontrunAmount uint64
	ExpectedProfit int64 // backrun output - frontrun input; negative when losing
	VictimLoss     uint64

	FrontrunOutput uint64
	BackrunInput   uint64
	BackrunOutput  uint64
}

// Optimizer sizes front-runs. The fractions are heuristics, not derived
// optima: the victim divisor approximates exploiting half the victim's price
// impact, the reserve divisor bounds self-inflicted impact. Defaults match
// the reference settlement model; both are tunable.
type Optimizer struct {
	// VictimDivisor caps the front-run at victim_amount / VictimDivisor.
	VictimDivisor uint64
	// ReserveDivisor caps the front-run at reserve_in / ReserveDivisor.
	ReserveDivisor uint64
}

// NewOptimizer returns an optimizer with the reference /2 and /10 caps.
func NewOptimizer() Optimizer {
	return Optimizer{VictimDivisor: 2, ReserveDivisor: 10}
}

// FrontrunSize applies the three caps in order: half the victim amount,
// then attacker capital, then a tenth of the input-side reserve.
func (o Optimizer) FrontrunSize(pool amm.Pool, victimAmount uint64, dir domain.Direction, capital uint64) uint64 {
	reserveIn := pool.ReserveA
	if dir == domain.DirectionBToA {
		reserveIn = pool.ReserveB
	}

	amount := victimAmount / o.VictimDivisor
	if capital < amount {
		amount = capital
	}
	if cap := reserveIn / o.ReserveDivisor; cap < amount {
		amount = cap
	}
	return amount
}

// PlanFrontrun sizes the front-run and simulates the full three-leg sequence
// (front-run, victim trade, back-run) against a disposable clone of the
// pool. The live pool is never touched. A zero-sized front-run yields a
// zero-value plan, which callers treat as "do not attack".
func (o Optimizer) PlanFrontrun(pool amm.Pool, victimAmount uint64, dir domain.Direction, capital uint64) Plan {
	frontrun := o.FrontrunSize(pool, victimAmount, dir, capital)
	if frontrun == 0 {
		return Plan{}
	}

	// Baseline: what the victim should receive with no attack in flight.
	victimExpected := pool.Quote(victimAmount, dir)

	// pool is a value; from here on we mutate a private copy.
	sim := pool

	frontrunOut := sim.Apply(frontrun, dir)
	victimActual := sim.Apply(victimAmount, dir)
	backrunOut := sim.Apply(frontrunOut.AmountOut, dir.Opposite())

	profit := int64(backrunOut.AmountOut) - int64(frontrun)

	var victimLoss uint64
	if victimExpected.AmountOut > victimActual.AmountOut {
		victimLoss = victimExpected.AmountOut - victimActual.AmountOut
	}

	return Plan{
		FrontrunAmount: frontrun,
		ExpectedProfit: profit,
		VictimLoss:     victimLoss,
		FrontrunOutput: frontrunOut.AmountOut,
		BackrunInput:   frontrunOut.AmountOut,
		BackrunOutput:  backrunOut.AmountOut,
	}
}

// Profitable reports whether the plan clears the attacker's decision rule.
func (p Plan) Profitable() bool {
	return p.FrontrunAmount > 0 && p.ExpectedProfit > 0
}
