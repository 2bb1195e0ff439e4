package curve

import "errors"

var (
	// ErrInvalidFeeRate means the configured fee is >= 100%.
	ErrInvalidFeeRate = errors.New("fee rate must be below 10000 bps")

	// ErrInvalidPrecision means 10^decimals does not fit in uint64.
	ErrInvalidPrecision = errors.New("decimal precision overflow")

	// ErrZeroReserve means a swap was attempted against an empty reserve;
	// the pool has no defined price in that state.
	ErrZeroReserve = errors.New("reserve is zero, no price defined")

	// ErrSlippageExceeded means the computed output fell below the
	// caller's minimum.
	ErrSlippageExceeded = errors.New("output below slippage floor")

	// ErrInsufficientLiquidity means the swap would drain the entire
	// output reserve.
	ErrInsufficientLiquidity = errors.New("swap would drain output reserve")

	// ErrZeroSupply means a withdrawal was attempted with no outstanding
	// liquidity shares.
	ErrZeroSupply = errors.New("liquidity share supply is zero")

	// ErrExceedsSupply means the burn amount is larger than the
	// outstanding supply.
	ErrExceedsSupply = errors.New("burn amount exceeds share supply")
)
