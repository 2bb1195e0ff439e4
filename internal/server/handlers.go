package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/solanaforge/amm-engine/internal/curve"
	"github.com/solanaforge/amm-engine/internal/ledger"
	"github.com/solanaforge/amm-engine/internal/pool"
	"github.com/solanaforge/amm-engine/internal/storage"
)

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Controller *pool.Controller  // Exchange orchestrator
	Pools      pool.Store        // Pool record store
	Cache      storage.SwapCache // Redis-backed event feed (optional)
	Custody    ledger.Custody    // Balance ledger (dev mint endpoint)
	DevMode    bool              // Enable detailed error responses in development
	Logger     *logrus.Logger    // Structured logger
}

// err returns a standardized JSON error response
// In dev mode, includes additional error details for debugging
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

// coreErr maps a core error to its HTTP status and renders it verbatim,
// so callers always receive the specific error kind.
func (h *Handlers) coreErr(c echo.Context, err error) error {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		h.Logger.WithError(err).Error("operation failed")
		return h.err(c, code, "internal error", err.Error())
	}
	return h.err(c, code, err.Error(), nil)
}

// withTimeout creates a context with timeout, defaulting to 10 seconds if duration <= 0
func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// Health returns a simple health check endpoint
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true})
}

func parseSide(side string) (curve.TradePair, bool) {
	switch strings.ToLower(strings.TrimSpace(side)) {
	case "x":
		return curve.PairX, true
	case "y":
		return curve.PairY, true
	}
	return 0, false
}

func parseKey(s string) (solana.PublicKey, bool) {
	key, err := solana.PublicKeyFromBase58(strings.TrimSpace(s))
	if err != nil {
		return solana.PublicKey{}, false
	}
	return key, true
}

// PoolCreate registers a new pool record
func (h *Handlers) PoolCreate(c echo.Context) error {
	var req PoolCreateRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}

	mintX, okX := parseKey(req.MintX)
	mintY, okY := parseKey(req.MintY)
	mintLP, okLP := parseKey(req.MintLP)
	authority, okAuth := parseKey(req.Authority)
	if !okX || !okY || !okLP || !okAuth {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{
			"mint_x": "base58 public key required", "mint_y": "base58 public key required",
			"mint_lp": "base58 public key required", "authority": "base58 public key required",
		})
	}

	p := &pool.Pool{
		Seed:      req.Seed,
		MintX:     mintX,
		MintY:     mintY,
		MintLP:    mintLP,
		Authority: authority,
		FeeBps:    req.FeeBps,
		DecimalsX: req.DecimalsX,
	}
	if err := p.Validate(); err != nil {
		return h.err(c, http.StatusBadRequest, err.Error(), nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	if err := h.Pools.Upsert(ctx, p); err != nil {
		return h.coreErr(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// PoolList returns all known pool records
func (h *Handlers) PoolList(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	pools, err := h.Pools.List(ctx)
	if err != nil {
		return h.coreErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": pools})
}

// PoolGet returns one pool record by ID
func (h *Handlers) PoolGet(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	p, err := h.Pools.Get(ctx, c.Param("id"))
	if err != nil {
		return h.coreErr(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// PoolLock sets or clears the emergency-halt flag (privileged)
func (h *Handlers) PoolLock(c echo.Context) error {
	var req PoolLockRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	p, err := h.Pools.SetLocked(ctx, c.Param("id"), req.Locked)
	if err != nil {
		return h.coreErr(c, err)
	}

	h.Logger.WithFields(logrus.Fields{"pool": p.ID(), "locked": p.Locked}).Warn("pool lock changed")
	return c.JSON(http.StatusOK, p)
}

// PoolReserves returns the live reserve snapshot for a pool
func (h *Handlers) PoolReserves(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id := c.Param("id")
	snap, err := h.Controller.Reserves(ctx, id)
	if err != nil {
		return h.coreErr(c, err)
	}
	return c.JSON(http.StatusOK, ReservesResponse{
		Pool:     id,
		ReserveX: snap.ReserveX,
		ReserveY: snap.ReserveY,
		LPSupply: snap.LPSupply,
	})
}

// Quote evaluates a swap against the live snapshot without executing
func (h *Handlers) Quote(c echo.Context) error {
	poolID := strings.TrimSpace(c.QueryParam("pool"))
	if poolID == "" {
		return h.err(c, http.StatusBadRequest, "invalid pool", map[string]any{"pool": "required"})
	}

	pair, ok := parseSide(c.QueryParam("side"))
	if !ok {
		return h.err(c, http.StatusBadRequest, "invalid side", map[string]any{"side": "must be x or y"})
	}

	amount, err := strconv.ParseUint(strings.TrimSpace(c.QueryParam("amount")), 10, 64)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid amount", map[string]any{"amount": "must be uint64"})
	}

	var slippageBps uint16
	if v := strings.TrimSpace(c.QueryParam("slippageBps")); v != "" {
		n, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid slippageBps", map[string]any{"slippageBps": "must be uint16"})
		}
		slippageBps = uint16(n)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	q, err := h.Controller.Quote(ctx, poolID, pair, amount, slippageBps)
	if err != nil {
		return h.coreErr(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

// Swap executes one exchange operation
func (h *Handlers) Swap(c echo.Context) error {
	var req SwapRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}

	caller, ok := parseKey(req.Caller)
	if !ok {
		return h.err(c, http.StatusBadRequest, "invalid caller", map[string]any{"caller": "base58 public key required"})
	}
	pair, ok := parseSide(req.Side)
	if !ok {
		return h.err(c, http.StatusBadRequest, "invalid side", map[string]any{"side": "must be x or y"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	receipt, err := h.Controller.Swap(ctx, caller, req.Pool, pair, req.Amount, req.Min)
	if err != nil {
		return h.coreErr(c, err)
	}
	return c.JSON(http.StatusOK, receipt)
}

// Withdraw burns liquidity shares for proportional reserve amounts
func (h *Handlers) Withdraw(c echo.Context) error {
	var req WithdrawRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}

	caller, ok := parseKey(req.Caller)
	if !ok {
		return h.err(c, http.StatusBadRequest, "invalid caller", map[string]any{"caller": "base58 public key required"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	receipt, err := h.Controller.Withdraw(ctx, caller, req.Pool, req.LPAmount, req.MinX, req.MinY)
	if err != nil {
		return h.coreErr(c, err)
	}
	return c.JSON(http.StatusOK, receipt)
}

// RecentSwaps returns the most recent settled operations with optional limit parameter
// Accepts limit query parameter (default: 100, range: 1-200)
func (h *Handlers) RecentSwaps(c echo.Context) error {
	if h.Cache == nil {
		return h.err(c, http.StatusBadRequest, "event feed is not configured", nil)
	}

	limitStr := c.QueryParam("limit")
	limit := 100
	if limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "must be an integer"})
		}
		limit = n
	}
	if limit < 1 || limit > 200 {
		return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "min 1 max 200"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Cache.GetRecentSwaps(ctx, int64(limit))
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to get swaps", nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// Mint credits test balances. Registered only in dev mode.
func (h *Handlers) Mint(c echo.Context) error {
	var req MintRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}

	asset, okA := parseKey(req.Asset)
	holder, okH := parseKey(req.Holder)
	if !okA || !okH {
		return h.err(c, http.StatusBadRequest, "invalid key", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	if err := h.Custody.Mint(ctx, asset, holder, req.Amount); err != nil {
		return h.coreErr(c, err)
	}

	balance, err := h.Custody.BalanceOf(ctx, asset, holder)
	if err != nil {
		return h.coreErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"asset": req.Asset, "holder": req.Holder, "balance": balance})
}
