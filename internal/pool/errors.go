package pool

import "errors"

// Precondition errors: detected before any curve computation, always
// recoverable by the caller adjusting input.
var (
	ErrNotFound              = errors.New("pool not found")
	ErrPoolLocked            = errors.New("pool is locked")
	ErrInvalidAmount         = errors.New("amount must be > 0 and within supply")
	ErrInsufficientBalance   = errors.New("caller balance below requested amount")
	ErrLiquidityBelowMinimum = errors.New("pool liquidity below requested minimum")
	ErrNoLiquidityInPool     = errors.New("pool has no liquidity shares outstanding")
	ErrUnauthorized          = errors.New("caller not authorized")
)

// ErrCurve wraps withdrawal-side curve failures, mirroring the single
// curve-error kind surfaced to callers. Computation errors from swaps
// (zero reserve, fee rate, overflow) propagate verbatim instead.
var ErrCurve = errors.New("curve computation failed")
