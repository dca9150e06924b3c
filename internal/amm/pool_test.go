package amm

import (
	"math/bits"
	"testing"

	"amm-mev-lab/internal/domain"
)

func TestQuote_ReferenceScenario(t *testing.T) {
	pool := NewPool(1_000_000_000_000, 1_000_000_000_000, 30)

	out := pool.Quote(1_000_000_000, domain.DirectionAToB)

	if out.FeeCharged != 3_000_000 {
		t.Errorf("FeeCharged = %d, want 3000000", out.FeeCharged)
	}
	if out.AmountOut <= 900_000_000 || out.AmountOut >= 1_000_000_000 {
		t.Errorf("AmountOut = %d, want strictly between 900000000 and 1000000000", out.AmountOut)
	}
}

func TestQuote_BelowLinearQuote(t *testing.T) {
	pool := NewPool(1_000_000_000_000, 2_000_000_000_000, 30)
	amountIn := uint64(5_000_000_000)

	out := pool.Quote(amountIn, domain.DirectionAToB)

	// Strictly below the no-fee no-impact linear quote.
	hi, lo := bits.Mul64(amountIn, pool.ReserveB)
	linear, _ := bits.Div64(hi, lo, pool.ReserveA)
	if out.AmountOut >= linear {
		t.Errorf("AmountOut = %d, want < linear quote %d", out.AmountOut, linear)
	}
}

func TestQuote_IsPureAndIdempotent(t *testing.T) {
	pool := NewPool(1_000_000_000_000, 1_000_000_000_000, 30)
	before := pool

	first := pool.Quote(1_000_000_000, domain.DirectionAToB)
	second := pool.Quote(1_000_000_000, domain.DirectionAToB)

	if first != second {
		t.Errorf("repeated quotes differ: %+v vs %+v", first, second)
	}
	if pool != before {
		t.Errorf("Quote mutated pool: %+v -> %+v", before, pool)
	}
}

func TestApply_IsNotIdempotent(t *testing.T) {
	pool := NewPool(1_000_000_000_000, 1_000_000_000_000, 30)

	first := pool.Apply(1_000_000_000, domain.DirectionAToB)
	second := pool.Apply(1_000_000_000, domain.DirectionAToB)

	if second.AmountOut >= first.AmountOut {
		t.Errorf("second apply did not see shifted price: first=%d second=%d",
			first.AmountOut, second.AmountOut)
	}
}

func TestApply_MutatesReserves(t *testing.T) {
	pool := NewPool(1_000_000_000_000, 1_000_000_000_000, 30)

	out := pool.Apply(1_000_000_000, domain.DirectionAToB)

	if pool.ReserveA != 1_000_000_000_000+1_000_000_000 {
		t.Errorf("ReserveA = %d, want full fee-inclusive input added", pool.ReserveA)
	}
	if pool.ReserveB != 1_000_000_000_000-out.AmountOut {
		t.Errorf("ReserveB = %d, want output subtracted", pool.ReserveB)
	}
}

func TestApply_KNonDecreasing(t *testing.T) {
	pool := NewPool(1_000_000_000_000, 800_000_000_000, 30)

	amounts := []uint64{1_000_000_000, 5_000_000_000, 250_000_000, 4_999_999_999}
	dirs := []domain.Direction{
		domain.DirectionAToB, domain.DirectionBToA,
		domain.DirectionAToB, domain.DirectionAToB,
	}

	prevHi, prevLo := pool.K()
	for i, amount := range amounts {
		pool.Apply(amount, dirs[i])
		hi, lo := pool.K()
		if hi < prevHi || (hi == prevHi && lo < prevLo) {
			t.Fatalf("k decreased after swap %d: (%d,%d) -> (%d,%d)", i, prevHi, prevLo, hi, lo)
		}
		prevHi, prevLo = hi, lo
	}
}

func TestQuote_ZeroLiquidity(t *testing.T) {
	pool := NewPool(0, 1_000_000_000_000, 30)

	out := pool.Quote(1_000_000_000, domain.DirectionAToB)

	if out.AmountOut != 0 {
		t.Errorf("AmountOut = %d, want 0 for empty pool", out.AmountOut)
	}
	if out.PriceImpactBps != BpsDenominator {
		t.Errorf("PriceImpactBps = %d, want %d", out.PriceImpactBps, BpsDenominator)
	}
}

func TestApply_SaturatesInsteadOfUnderflowing(t *testing.T) {
	pool := NewPool(10, 10, 0)

	// Huge input drains nearly the whole out side; reserves must not wrap.
	pool.Apply(1<<62, domain.DirectionAToB)

	if pool.ReserveB > 10 {
		t.Errorf("ReserveB = %d, reserve wrapped", pool.ReserveB)
	}
}

func TestMinOutput(t *testing.T) {
	pool := NewPool(1_000_000_000_000, 1_000_000_000_000, 30)
	amountIn := uint64(1_000_000_000)

	quoted := pool.Quote(amountIn, domain.DirectionAToB).AmountOut
	minOut := pool.MinOutput(amountIn, domain.DirectionAToB, 100)

	want := quoted - quoted*100/BpsDenominator
	if minOut != want {
		t.Errorf("MinOutput = %d, want %d", minOut, want)
	}
	if minOut >= quoted {
		t.Errorf("MinOutput %d not below quote %d", minOut, quoted)
	}
}

func TestMulDiv_WideIntermediate(t *testing.T) {
	// a*b overflows 64 bits but the quotient fits.
	a := uint64(1 << 40)
	b := uint64(1 << 40)
	d := uint64(1 << 30)

	got := mulDiv(a, b, d)
	if got != 1<<50 {
		t.Errorf("mulDiv = %d, want %d", got, uint64(1)<<50)
	}
}

func TestPrices(t *testing.T) {
	pool := NewPool(2_000_000_000_000, 1_000_000_000_000, 30)

	if got := pool.PriceAInB(); got != 0.5 {
		t.Errorf("PriceAInB = %f, want 0.5", got)
	}
	if got := pool.PriceBInA(); got != 2.0 {
		t.Errorf("PriceBInA = %f, want 2.0", got)
	}

	empty := NewPool(0, 0, 30)
	if empty.PriceAInB() != 0 || empty.PriceBInA() != 0 {
		t.Error("empty pool prices must be 0")
	}
}
