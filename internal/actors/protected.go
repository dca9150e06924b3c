package actors

import (
	"time"

	"amm-mev-lab/internal/amm"
	"amm-mev-lab/internal/commitment"
	"amm-mev-lab/internal/domain"
	"amm-mev-lab/internal/identity"
)

// commitmentState is the lifecycle tag of a trader's commitment.
// Transitions: none -> committed -> {revealed | cancelled}. Illegal
// combinations ("revealed but still committed") are unrepresentable because
// the live payload exists only in the committed state.
type commitmentState uint8

const (
	commitmentNone commitmentState = iota
	commitmentCommitted
	commitmentRevealed
	commitmentCancelled
)

// liveCommitment is the payload stored while a commitment is live.
type liveCommitment struct {
	hash       [32]byte
	intent     commitment.SwapIntent
	direction  domain.Direction
	commitSlot uint64
}

// ProtectedTrader trades through the commit-reveal protocol. Parameters are
// hidden behind the commitment hash until reveal, so no observer can
// front-run the trade in between.
type ProtectedTrader struct {
	keypair  *identity.Keypair
	balanceA uint64
	balanceB uint64

	state commitmentState
	live  liveCommitment // valid only when state == commitmentCommitted

	minRevealDelay uint64
	currentSlot    uint64
	totalTrades    int
}

// NewProtectedTrader creates a protected trader. minRevealDelay is the
// number of logical slots that must elapse between commit and reveal.
func NewProtectedTrader(keypair *identity.Keypair, balanceA, balanceB, minRevealDelay uint64) *ProtectedTrader {
	return &ProtectedTrader{
		keypair:        keypair,
		balanceA:       balanceA,
		balanceB:       balanceB,
		minRevealDelay: minRevealDelay,
	}
}

// Address returns the trader's base58 address.
func (p *ProtectedTrader) Address() string {
	return p.keypair.Address()
}

// Balances returns the current (A, B) balances.
func (p *ProtectedTrader) Balances() (uint64, uint64) {
	return p.balanceA, p.balanceB
}

// HasCommitment reports whether a commitment is live.
func (p *ProtectedTrader) HasCommitment() bool {
	return p.state == commitmentCommitted
}

// AdvanceSlot moves the trader's logical clock forward one slot.
func (p *ProtectedTrader) AdvanceSlot() {
	p.currentSlot++
}

// Commit builds a fresh SwapIntent (fresh nonce) and stores its hash as the
// live commitment. Fails without state change if a commitment is already
// live or the input-side balance is insufficient.
func (p *ProtectedTrader) Commit(amountIn, minOut uint64, slippageBps uint16, dir domain.Direction) ([32]byte, error) {
	if p.HasCommitment() {
		return [32]byte{}, ErrCommitmentLive
	}
	if amountIn == 0 {
		return [32]byte{}, ErrZeroAmount
	}
	if !p.hasBalance(amountIn, dir) {
		return [32]byte{}, ErrInsufficientBalance
	}

	intent := commitment.NewIntent(amountIn, minOut, slippageBps)
	hash := commitment.Hash(intent)

	p.state = commitmentCommitted
	p.live = liveCommitment{
		hash:       hash,
		intent:     intent,
		direction:  dir,
		commitSlot: p.currentSlot,
	}
	return hash, nil
}

// Reveal verifies and executes the live commitment against the pool.
// Failures (no commitment, too early, hash mismatch) leave the commitment
// and all balances untouched; early reveals are retryable once the delay has
// passed. On success the expected output is quoted at reveal time, the swap
// applied, balances settled, and the commitment transitions to revealed.
func (p *ProtectedTrader) Reveal(pool *amm.Pool) (*domain.TradeRecord, error) {
	if !p.HasCommitment() {
		return nil, ErrNoCommitment
	}
	if p.currentSlot-p.live.commitSlot < p.minRevealDelay {
		return nil, ErrRevealTooEarly
	}
	if !commitment.Verify(p.live.intent, p.live.hash) {
		return nil, ErrHashMismatch
	}

	amountIn := p.live.intent.AmountIn
	dir := p.live.direction

	if !p.hasBalance(amountIn, dir) {
		return nil, ErrInsufficientBalance
	}

	// Quoted at reveal time: with the amount hidden since commit, no
	// observer could have front-run, so this expectation reflects only
	// ambient fee and price impact.
	expectedOut := pool.Quote(amountIn, dir).AmountOut

	p.debit(amountIn, dir)
	out := pool.Apply(amountIn, dir)
	p.credit(out.AmountOut, dir)

	p.state = commitmentRevealed
	p.live = liveCommitment{}
	p.totalTrades++

	var loss uint64
	if expectedOut > out.AmountOut {
		loss = expectedOut - out.AmountOut
	}

	return &domain.TradeRecord{
		Trader:         p.Address(),
		AmountIn:       amountIn,
		Direction:      dir,
		ExpectedOut:    expectedOut,
		ActualOut:      out.AmountOut,
		Loss:           loss,
		FeePaid:        out.FeeCharged,
		PriceImpactBps: out.PriceImpactBps,
		WasAttacked:    false,
		Timestamp:      time.Now().Unix(),
	}, nil
}

// Cancel abandons the live commitment. Returns ErrNoCommitment when none is
// live; the transition itself is unconditional.
func (p *ProtectedTrader) Cancel() error {
	if !p.HasCommitment() {
		return ErrNoCommitment
	}
	p.state = commitmentCancelled
	p.live = liveCommitment{}
	return nil
}

// Trade runs the full protected flow: commit, wait out the minimum delay,
// reveal.
func (p *ProtectedTrader) Trade(amount uint64, dir domain.Direction, pool *amm.Pool, slippageBps uint16) (*domain.TradeRecord, error) {
	minOut := pool.MinOutput(amount, dir, slippageBps)

	if _, err := p.Commit(amount, minOut, slippageBps, dir); err != nil {
		return nil, err
	}

	for i := uint64(0); i < p.minRevealDelay; i++ {
		p.AdvanceSlot()
	}

	return p.Reveal(pool)
}

// tamperIntent corrupts the live intent in place. Test hook for exercising
// the hash-mismatch path; unreachable from production flows.
func (p *ProtectedTrader) tamperIntent() {
	p.live.intent.AmountIn++
}

func (p *ProtectedTrader) hasBalance(amount uint64, dir domain.Direction) bool {
	if dir == domain.DirectionAToB {
		return p.balanceA >= amount
	}
	return p.balanceB >= amount
}

func (p *ProtectedTrader) debit(amount uint64, dir domain.Direction) {
	if dir == domain.DirectionAToB {
		p.balanceA -= amount
	} else {
		p.balanceB -= amount
	}
}

func (p *ProtectedTrader) credit(amount uint64, dir domain.Direction) {
	if dir == domain.DirectionAToB {
		p.balanceB += amount
	} else {
		p.balanceA += amount
	}
}
