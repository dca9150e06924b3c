// Package amm implements constant-product (x*y=k) swap math matching the
// on-chain settlement formula. All arithmetic is integer-only: multiplicative
// intermediates are carried at 128 bits so no realistic reserve magnitude can
// overflow, and reserve updates saturate instead of wrapping.
package amm

import (
	"math"
	"math/bits"

	"amm-mev-lab/internal/domain"
)

// BpsDenominator is the basis-point scale shared by fees and slippage.
const BpsDenominator = 10000

// Pool is the state of a two-asset constant-product pool. It is a plain
// value type: snapshot and restore are value assignment, so the orchestrator
// can fork and rewind branches without aliasing.
type Pool struct {
	ReserveA uint64
	ReserveB uint64
	FeeBps   uint16
}

// SwapOutcome is the derived result of one swap computation.
type SwapOutcome struct {
	AmountOut      uint64
	FeeCharged     uint64
	PriceImpactBps uint64
}

// NewPool creates a pool with the given reserves and fee.
func NewPool(reserveA, reserveB uint64, feeBps uint16) Pool {
	return Pool{ReserveA: reserveA, ReserveB: reserveB, FeeBps: feeBps}
}

// K returns the constant-product invariant as (hi, lo) 128-bit words.
// Only fee revenue may increase it; integer truncation may leave it unchanged.
func (p Pool) K() (hi, lo uint64) {
	return bits.Mul64(p.ReserveA, p.ReserveB)
}

// PriceAInB returns the spot price of A in terms of B. Display only; the
// settlement path never touches floating point.
func (p Pool) PriceAInB() float64 {
	if p.ReserveA == 0 {
		return 0
	}
	return float64(p.ReserveB) / float64(p.ReserveA)
}

// PriceBInA returns the spot price of B in terms of A.
func (p Pool) PriceBInA() float64 {
	if p.ReserveB == 0 {
		return 0
	}
	return float64(p.ReserveA) / float64(p.ReserveB)
}

// reserves returns the (in, out) reserves for a direction.
func (p Pool) reserves(dir domain.Direction) (reserveIn, reserveOut uint64) {
	if dir == domain.DirectionAToB {
		return p.ReserveA, p.ReserveB
	}
	return p.ReserveB, p.ReserveA
}

// Quote computes the swap outcome without touching the pool. It never fails:
// zero liquidity degrades to zero output at maximal (10000 bps) impact, and
// callers are responsible for rejecting zero-amount trades.
func (p Pool) Quote(amountIn uint64, dir domain.Direction) SwapOutcome {
	reserveIn, reserveOut := p.reserves(dir)

	fee := mulDiv(amountIn, uint64(p.FeeBps), BpsDenominator)
	amountInNet := amountIn - fee

	if reserveIn == 0 || reserveOut == 0 {
		return SwapOutcome{FeeCharged: fee, PriceImpactBps: BpsDenominator}
	}

	amountOut := mulDiv(amountInNet, reserveOut, satAdd(reserveIn, amountInNet))

	// Ideal output is the no-impact linear-price quote.
	idealOut := mulDiv(amountInNet, reserveOut, reserveIn)
	var impact uint64
	if idealOut > 0 {
		impact = mulDiv(idealOut-amountOut, BpsDenominator, idealOut)
	}

	return SwapOutcome{
		AmountOut:      amountOut,
		FeeCharged:     fee,
		PriceImpactBps: impact,
	}
}

// Apply computes the same outcome as Quote and then mutates the reserves:
// the full fee-inclusive input is added to the in side and the output
// subtracted from the out side, saturating at zero.
func (p *Pool) Apply(amountIn uint64, dir domain.Direction) SwapOutcome {
	out := p.Quote(amountIn, dir)

	if dir == domain.DirectionAToB {
		p.ReserveA = satAdd(p.ReserveA, amountIn)
		p.ReserveB = satSub(p.ReserveB, out.AmountOut)
	} else {
		p.ReserveB = satAdd(p.ReserveB, amountIn)
		p.ReserveA = satSub(p.ReserveA, out.AmountOut)
	}

	return out
}

// MinOutput returns the quoted output reduced by the slippage tolerance.
func (p Pool) MinOutput(amountIn uint64, dir domain.Direction, slippageBps uint16) uint64 {
	out := p.Quote(amountIn, dir)
	slip := mulDiv(out.AmountOut, uint64(slippageBps), BpsDenominator)
	return satSub(out.AmountOut, slip)
}

// mulDiv returns floor(a*b/d) with a 128-bit intermediate. A quotient that
// would not fit 64 bits saturates at MaxUint64; with realistic reserve
// magnitudes the quotient always fits.
func mulDiv(a, b, d uint64) uint64 {
	if d == 0 {
		return 0
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= d {
		return math.MaxUint64
	}
	q, _ := bits.Div64(hi, lo, d)
	return q
}

func satAdd(a, b uint64) uint64 {
	s, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return s
}

func satSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
