// Package actors implements the three trade actors of the simulation: the
// unprotected trader, the commit-reveal protected trader, and the sandwich
// attacker. Actors own their token balances and mutate the shared pool only
// through the pricing engine.
package actors

import (
	"time"

	"amm-mev-lab/internal/amm"
	"amm-mev-lab/internal/domain"
	"amm-mev-lab/internal/identity"
)

// NormalTrader makes direct AMM swaps. Its pending trades are visible to the
// attacker before they land, so it is the victim in the unprotected branch.
type NormalTrader struct {
	keypair  *identity.Keypair
	balanceA uint64
	balanceB uint64

	totalTrades int
	totalLoss   uint64
}

// NewNormalTrader creates a trader with the given starting balances.
func NewNormalTrader(keypair *identity.Keypair, balanceA, balanceB uint64) *NormalTrader {
	return &NormalTrader{keypair: keypair, balanceA: balanceA, balanceB: balanceB}
}

// Address returns the trader's base58 address.
func (n *NormalTrader) Address() string {
	return n.keypair.Address()
}

// Balances returns the current (A, B) balances.
func (n *NormalTrader) Balances() (uint64, uint64) {
	return n.balanceA, n.balanceB
}

// Stats returns the trade count and cumulative loss.
func (n *NormalTrader) Stats() (trades int, loss uint64) {
	return n.totalTrades, n.totalLoss
}

// CanTrade reports whether the input-side balance covers amount.
func (n *NormalTrader) CanTrade(amount uint64, dir domain.Direction) bool {
	if dir == domain.DirectionAToB {
		return n.balanceA >= amount
	}
	return n.balanceB >= amount
}

// ExpectedOut quotes the trade against the given pool without executing.
// The orchestrator calls this before any attack can observe the trade.
func (n *NormalTrader) ExpectedOut(amount uint64, dir domain.Direction, pool amm.Pool) uint64 {
	return pool.Quote(amount, dir).AmountOut
}

// Execute performs the swap directly against the pool and settles balances.
// expectedOut is the pre-attack quote; loss is expected minus actual, floored
// at zero. wasAttacked marks records whose swap landed as a sandwich middle
// leg (the sandwich already applied the swap; see RecordSandwiched).
func (n *NormalTrader) Execute(amount uint64, dir domain.Direction, pool *amm.Pool, expectedOut uint64) (*domain.TradeRecord, error) {
	if amount == 0 {
		return nil, ErrZeroAmount
	}
	if !n.CanTrade(amount, dir) {
		return nil, ErrInsufficientBalance
	}

	n.debit(amount, dir)
	out := pool.Apply(amount, dir)
	n.credit(out.AmountOut, dir)

	record := n.buildRecord(amount, dir, expectedOut, out.AmountOut, out.FeeCharged, out.PriceImpactBps, false)
	return record, nil
}

// RecordSandwiched settles balances and builds the record for a trade that
// was executed inside a sandwich. The pool mutation already happened as the
// middle leg; only the victim's balances and bookkeeping remain.
func (n *NormalTrader) RecordSandwiched(amount uint64, dir domain.Direction, expectedOut, actualOut, fee, impactBps uint64) (*domain.TradeRecord, error) {
	if !n.CanTrade(amount, dir) {
		return nil, ErrInsufficientBalance
	}

	n.debit(amount, dir)
	n.credit(actualOut, dir)

	return n.buildRecord(amount, dir, expectedOut, actualOut, fee, impactBps, true), nil
}

func (n *NormalTrader) buildRecord(amount uint64, dir domain.Direction, expectedOut, actualOut, fee, impactBps uint64, attacked bool) *domain.TradeRecord {
	var loss uint64
	if expectedOut > actualOut {
		loss = expectedOut - actualOut
	}
	n.totalTrades++
	n.totalLoss += loss

	return &domain.TradeRecord{
		Trader:         n.Address(),
		AmountIn:       amount,
		Direction:      dir,
		ExpectedOut:    expectedOut,
		ActualOut:      actualOut,
		Loss:           loss,
		FeePaid:        fee,
		PriceImpactBps: impactBps,
		WasAttacked:    attacked,
		Timestamp:      time.Now().Unix(),
	}
}

func (n *NormalTrader) debit(amount uint64, dir domain.Direction) {
	if dir == domain.DirectionAToB {
		n.balanceA -= amount
	} else {
		n.balanceB -= amount
	}
}

func (n *NormalTrader) credit(amount uint64, dir domain.Direction) {
	if dir == domain.DirectionAToB {
		n.balanceB += amount
	} else {
		n.balanceA += amount
	}
}
