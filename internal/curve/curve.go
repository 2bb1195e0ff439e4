// Package curve implements the constant-product pricing engine: pure
// arithmetic over one reserve snapshot, no I/O and no shared state.
//
// All division truncates toward zero so that rounding error always
// accrues to the pool, never to the trading or withdrawing party.
package curve

import (
	"fmt"

	"github.com/solanaforge/amm-engine/internal/fixedmath"
)

// FeeDenominator is the basis-point scale for fee rates.
const FeeDenominator = 10000

// DefaultDecimals is used when a pool does not carry its own decimal
// configuration.
const DefaultDecimals uint8 = 6

// TradePair selects which side of the pool is being deposited in a swap.
type TradePair int

const (
	// PairX deposits asset X and withdraws asset Y.
	PairX TradePair = iota
	// PairY deposits asset Y and withdraws asset X.
	PairY
)

func (p TradePair) String() string {
	switch p {
	case PairX:
		return "x"
	case PairY:
		return "y"
	}
	return fmt.Sprintf("TradePair(%d)", int(p))
}

// SwapResult holds the two transfer amounts of one swap: what the caller
// must deposit and what the pool pays out.
type SwapResult struct {
	Deposit  uint64
	Withdraw uint64
}

// WithdrawResult holds the proportional amounts returned for a share burn.
type WithdrawResult struct {
	X uint64
	Y uint64
}

// ConstantProduct evaluates swap and withdrawal amounts for one reserve
// snapshot. Values are captured at construction; the engine never reads
// live state, so a fresh instance is built per operation.
type ConstantProduct struct {
	reserveX  uint64
	reserveY  uint64
	lpSupply  uint64
	feeBps    uint16
	precision uint64
}

// New builds an engine over a reserve snapshot. decimals scales the
// fixed-point share ratio used by withdrawals; nil falls back to
// DefaultDecimals.
func New(reserveX, reserveY, lpSupply uint64, feeBps uint16, decimals *uint8) (*ConstantProduct, error) {
	if feeBps >= FeeDenominator {
		return nil, ErrInvalidFeeRate
	}

	dec := DefaultDecimals
	if decimals != nil {
		dec = *decimals
	}
	precision, err := fixedmath.Pow10(dec)
	if err != nil {
		return nil, ErrInvalidPrecision
	}

	return &ConstantProduct{
		reserveX:  reserveX,
		reserveY:  reserveY,
		lpSupply:  lpSupply,
		feeBps:    feeBps,
		precision: precision,
	}, nil
}

// K returns the current invariant reserveX*reserveY.
func (c *ConstantProduct) K() (uint64, error) {
	return fixedmath.CheckedMul(c.reserveX, c.reserveY)
}

// Swap computes the output for depositing amountIn on the given side.
//
// The fee is applied to the input before the exchange formula
// (amountIn * (10000 - feeBps) / 10000, truncating) and is retained by
// the pool, so the invariant never decreases. The multiply-then-divide
// order is load-bearing for bit-exact parity with deployed pools.
func (c *ConstantProduct) Swap(pair TradePair, amountIn, minOut uint64) (SwapResult, error) {
	if c.reserveX == 0 || c.reserveY == 0 {
		return SwapResult{}, ErrZeroReserve
	}

	var reserveIn, reserveOut uint64
	switch pair {
	case PairX:
		reserveIn, reserveOut = c.reserveX, c.reserveY
	case PairY:
		reserveIn, reserveOut = c.reserveY, c.reserveX
	default:
		return SwapResult{}, fmt.Errorf("unknown trade pair %d", int(pair))
	}

	inAfterFee, err := fixedmath.MulDiv(amountIn, FeeDenominator-uint64(c.feeBps), FeeDenominator)
	if err != nil {
		return SwapResult{}, err
	}

	denominator, err := fixedmath.CheckedAdd(reserveIn, inAfterFee)
	if err != nil {
		return SwapResult{}, err
	}

	// out = Rout - (Rin*Rout)/(Rin + inAfterFee), truncating toward zero.
	retained, err := fixedmath.MulDiv(reserveIn, reserveOut, denominator)
	if err != nil {
		return SwapResult{}, err
	}
	amountOut := reserveOut - retained

	if amountOut < minOut {
		return SwapResult{}, ErrSlippageExceeded
	}
	if amountOut >= reserveOut {
		return SwapResult{}, ErrInsufficientLiquidity
	}

	return SwapResult{Deposit: amountIn, Withdraw: amountOut}, nil
}

// WithdrawAmounts computes the proportional reserve amounts returned for
// burning lpToBurn shares. Each leg truncates independently; the engine
// never returns more than the reserves hold.
func (c *ConstantProduct) WithdrawAmounts(lpToBurn uint64) (WithdrawResult, error) {
	if c.lpSupply == 0 {
		return WithdrawResult{}, ErrZeroSupply
	}
	if lpToBurn > c.lpSupply {
		return WithdrawResult{}, ErrExceedsSupply
	}

	share, err := fixedmath.MulDiv(lpToBurn, c.precision, c.lpSupply)
	if err != nil {
		return WithdrawResult{}, err
	}

	xOut, err := fixedmath.MulDiv(c.reserveX, share, c.precision)
	if err != nil {
		return WithdrawResult{}, err
	}
	yOut, err := fixedmath.MulDiv(c.reserveY, share, c.precision)
	if err != nil {
		return WithdrawResult{}, err
	}

	return WithdrawResult{X: xOut, Y: yOut}, nil
}

// PriceImpact reports how far the executed rate fell below the marginal
// rate implied by the reserves, as a fraction (0.01 = 1%).
func PriceImpact(amountIn, amountOut, reserveIn, reserveOut uint64) float64 {
	if amountIn == 0 || reserveIn == 0 || reserveOut == 0 {
		return 0
	}
	idealRate := float64(reserveOut) / float64(reserveIn)
	executionRate := float64(amountOut) / float64(amountIn)
	if idealRate <= 0 {
		return 0
	}
	impact := 1 - executionRate/idealRate
	if impact < 0 {
		return 0
	}
	return impact
}

// ApplySlippage returns amountOut reduced by the given tolerance,
// suitable as a minimum-output bound for a follow-up swap.
func ApplySlippage(amountOut uint64, slippageBps uint16) uint64 {
	if slippageBps >= FeeDenominator {
		return 0
	}
	v, err := fixedmath.MulDiv(amountOut, FeeDenominator-uint64(slippageBps), FeeDenominator)
	if err != nil {
		return 0
	}
	return v
}
