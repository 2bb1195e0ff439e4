package server

// ErrorResponse represents a standardized error response format
type ErrorResponse struct {
	Error   string `json:"error"`             // Human-readable error message
	Code    int    `json:"code"`              // HTTP status code
	Details any    `json:"details,omitempty"` // Additional error details (dev mode only)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK bool `json:"ok"` // Service health status
}

// PoolCreateRequest creates a new pool record. Mints and authority are
// base58-encoded public keys.
type PoolCreateRequest struct {
	Seed      uint64 `json:"seed"`
	MintX     string `json:"mint_x"`
	MintY     string `json:"mint_y"`
	MintLP    string `json:"mint_lp"`
	Authority string `json:"authority"`
	FeeBps    uint16 `json:"fee_bps"`
	DecimalsX uint8  `json:"decimals_x"`
}

// PoolLockRequest flips the emergency-halt flag
type PoolLockRequest struct {
	Locked bool `json:"locked"`
}

// SwapRequest executes one exchange against a pool
type SwapRequest struct {
	Pool   string `json:"pool"`
	Caller string `json:"caller"`
	Side   string `json:"side"` // "x" or "y": which asset is deposited
	Amount uint64 `json:"amount"`
	Min    uint64 `json:"min"` // slippage floor / pre-trade liquidity floor
}

// WithdrawRequest burns liquidity shares for both reserve assets
type WithdrawRequest struct {
	Pool     string `json:"pool"`
	Caller   string `json:"caller"`
	LPAmount uint64 `json:"lp_amount"`
	MinX     uint64 `json:"min_x"`
	MinY     uint64 `json:"min_y"`
}

// MintRequest credits test balances (dev mode only)
type MintRequest struct {
	Asset  string `json:"asset"`
	Holder string `json:"holder"`
	Amount uint64 `json:"amount"`
}

// ReservesResponse is the live snapshot of one pool
type ReservesResponse struct {
	Pool     string `json:"pool"`
	ReserveX uint64 `json:"reserve_x"`
	ReserveY uint64 `json:"reserve_y"`
	LPSupply uint64 `json:"lp_supply"`
}
