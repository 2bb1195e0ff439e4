package pool

import (
	"time"

	"github.com/solanaforge/amm-engine/internal/curve"
)

// Snapshot is the live reserve state read fresh at the start of each
// operation; never cached across calls.
type Snapshot struct {
	ReserveX uint64
	ReserveY uint64
	LPSupply uint64
}

// SwapReceipt reports a settled swap.
type SwapReceipt struct {
	Pool        string          `json:"pool"`
	Pair        curve.TradePair `json:"-"`
	Side        string          `json:"side"` // "x" or "y", the deposited asset
	Deposit     uint64          `json:"deposit"`
	Withdraw    uint64          `json:"withdraw"`
	FeeBps      uint16          `json:"fee_bps"`
	PriceImpact float64         `json:"price_impact"`
	SettledAt   time.Time       `json:"settled_at"`
}

// WithdrawReceipt reports a settled proportional withdrawal.
type WithdrawReceipt struct {
	Pool      string    `json:"pool"`
	Burned    uint64    `json:"burned"`
	XOut      uint64    `json:"x_out"`
	YOut      uint64    `json:"y_out"`
	SettledAt time.Time `json:"settled_at"`
}

// QuoteResult is a curve evaluation without settlement.
type QuoteResult struct {
	Pool        string    `json:"pool"`
	Side        string    `json:"side"`
	AmountIn    uint64    `json:"amount_in"`
	AmountOut   uint64    `json:"amount_out"`
	MinOut      uint64    `json:"min_out"` // amount_out with slippage tolerance applied
	FeeBps      uint16    `json:"fee_bps"`
	PriceImpact float64   `json:"price_impact"`
	ReserveIn   uint64    `json:"reserve_in"`
	ReserveOut  uint64    `json:"reserve_out"`
	QuotedAt    time.Time `json:"quoted_at"`
}
