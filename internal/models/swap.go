package models

import "time"

// Operation kinds recorded for the event stream.
const (
	KindSwap     = "swap"
	KindWithdraw = "withdraw"
)

// SwapEvent is one settled pool operation, published to the live feed
// and persisted to the history store.
type SwapEvent struct {
	Pool        string    `json:"pool"`
	Kind        string    `json:"kind"` // "swap" or "withdraw"
	Side        string    `json:"side"` // deposited asset for swaps, "" for withdrawals
	Caller      string    `json:"caller"`
	AmountIn    uint64    `json:"amount_in"`  // deposit for swaps, lp burned for withdrawals
	AmountOut   uint64    `json:"amount_out"` // withdraw leg for swaps, x_out for withdrawals
	AmountOutY  uint64    `json:"amount_out_y,omitempty"`
	FeeBps      uint16    `json:"fee_bps"`
	PriceImpact float64   `json:"price_impact,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
