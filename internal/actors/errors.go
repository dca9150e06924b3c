package actors

import "errors"

// Actor errors. All are non-fatal to a simulation run: the orchestrator
// treats them as "no trade occurred" or "retry later", never as a reason to
// abort the batch.
var (
	// ErrInsufficientBalance is returned when a trade or commitment exceeds
	// the actor's balance on the input side.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrZeroAmount is returned for zero-amount trades; pool math would
	// degrade them to no-ops, so actors reject them at the boundary.
	ErrZeroAmount = errors.New("trade amount must be positive")

	// ErrCommitmentLive is returned when committing while a commitment is
	// already live. The existing commitment is untouched.
	ErrCommitmentLive = errors.New("a commitment is already live")

	// ErrNoCommitment is returned when revealing or cancelling without a
	// live commitment.
	ErrNoCommitment = errors.New("no live commitment")

	// ErrRevealTooEarly is returned when revealing before the minimum delay
	// has elapsed. Retryable: the commitment stays live.
	ErrRevealTooEarly = errors.New("reveal before minimum delay elapsed")

	// ErrHashMismatch is returned when the recomputed intent hash does not
	// match the stored commitment. The commitment stays live so the
	// legitimate payload can still be revealed.
	ErrHashMismatch = errors.New("intent hash does not match commitment")
)
