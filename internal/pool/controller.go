package pool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"github.com/solanaforge/amm-engine/internal/curve"
	"github.com/solanaforge/amm-engine/internal/ledger"
	"github.com/solanaforge/amm-engine/internal/models"
	"github.com/solanaforge/amm-engine/internal/storage"
)

// Controller sequences one user-initiated operation against live state:
// validate, compute via the curve engine, settle via custody. Every
// failure before settlement leaves the ledger untouched, and operations
// on the same pool are serialized by a per-pool mutex so a reserve read
// is never interleaved with another operation's transfers.
type Controller struct {
	store   Store
	custody ledger.Custody
	auth    Authority
	logger  *logrus.Logger

	events storage.SwapCache // optional, best-effort publication

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewController wires the controller to its collaborators.
func NewController(store Store, custody ledger.Custody, auth Authority, logger *logrus.Logger) *Controller {
	if auth == nil {
		auth = AllowAll{}
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Controller{
		store:   store,
		custody: custody,
		auth:    auth,
		logger:  logger,
		locks:   make(map[string]*sync.Mutex),
	}
}

// WithEventSink attaches a feed that receives settled operations.
// Publication is best-effort; sink failures never fail the operation.
func (c *Controller) WithEventSink(sink storage.SwapCache) *Controller {
	c.events = sink
	return c
}

func (c *Controller) poolLock(id string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.locks[id]
	if !ok {
		l = &sync.Mutex{}
		c.locks[id] = l
	}
	return l
}

// snapshot reads the live reserves and share supply. Called fresh per
// operation, under the pool lock.
func (c *Controller) snapshot(ctx context.Context, p *Pool) (Snapshot, error) {
	reserveX, err := c.custody.BalanceOf(ctx, p.MintX, p.Authority)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read reserve x: %w", err)
	}
	reserveY, err := c.custody.BalanceOf(ctx, p.MintY, p.Authority)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read reserve y: %w", err)
	}
	supply, err := c.custody.Supply(ctx, p.MintLP)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read lp supply: %w", err)
	}
	return Snapshot{ReserveX: reserveX, ReserveY: reserveY, LPSupply: supply}, nil
}

// Swap executes one exchange: deposit `amount` of the pair's input asset,
// receive the curve-priced output, rejecting if the output falls below
// `min`. The same `min` also acts as a pre-trade floor on the opposite
// reserve (trading into an already-illiquid pool is rejected up front).
func (c *Controller) Swap(ctx context.Context, caller solana.PublicKey, poolID string, pair curve.TradePair, amount, min uint64) (*SwapReceipt, error) {
	p, err := c.store.Get(ctx, poolID)
	if err != nil {
		return nil, err
	}
	if err := c.auth.Authorize(ctx, caller, p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	lock := c.poolLock(poolID)
	lock.Lock()
	defer lock.Unlock()

	if p.Locked {
		return nil, ErrPoolLocked
	}
	if amount == 0 {
		return nil, ErrInvalidAmount
	}

	snap, err := c.snapshot(ctx, p)
	if err != nil {
		return nil, err
	}

	callerBalance, err := c.custody.BalanceOf(ctx, p.InputMint(pair), caller)
	if err != nil {
		return nil, err
	}
	if callerBalance < amount {
		return nil, ErrInsufficientBalance
	}

	oppositeReserve := snap.ReserveY
	if pair == curve.PairY {
		oppositeReserve = snap.ReserveX
	}
	if oppositeReserve < min {
		return nil, ErrLiquidityBelowMinimum
	}

	eng, err := curve.New(snap.ReserveX, snap.ReserveY, snap.LPSupply, p.FeeBps, &p.DecimalsX)
	if err != nil {
		return nil, err
	}
	res, err := eng.Swap(pair, amount, min)
	if err != nil {
		return nil, err
	}

	// Settlement: deposit must be confirmed before the withdrawal is
	// issued, so the pool is never observed below its implied reserves.
	if err := c.custody.Transfer(ctx, p.InputMint(pair), caller, p.Authority, res.Deposit); err != nil {
		return nil, fmt.Errorf("deposit transfer: %w", err)
	}
	if err := c.custody.Transfer(ctx, p.OutputMint(pair), p.Authority, caller, res.Withdraw); err != nil {
		return nil, fmt.Errorf("withdrawal transfer: %w", err)
	}

	reserveIn, reserveOut := snap.ReserveX, snap.ReserveY
	if pair == curve.PairY {
		reserveIn, reserveOut = snap.ReserveY, snap.ReserveX
	}
	receipt := &SwapReceipt{
		Pool:        poolID,
		Pair:        pair,
		Side:        pair.String(),
		Deposit:     res.Deposit,
		Withdraw:    res.Withdraw,
		FeeBps:      p.FeeBps,
		PriceImpact: curve.PriceImpact(res.Deposit, res.Withdraw, reserveIn, reserveOut),
		SettledAt:   time.Now().UTC(),
	}

	c.logger.WithFields(logrus.Fields{
		"pool":     poolID,
		"side":     receipt.Side,
		"deposit":  receipt.Deposit,
		"withdraw": receipt.Withdraw,
	}).Info("swap settled")

	c.publish(ctx, &models.SwapEvent{
		Pool:        poolID,
		Kind:        models.KindSwap,
		Side:        receipt.Side,
		Caller:      caller.String(),
		AmountIn:    res.Deposit,
		AmountOut:   res.Withdraw,
		FeeBps:      p.FeeBps,
		PriceImpact: receipt.PriceImpact,
		Timestamp:   receipt.SettledAt,
	})

	return receipt, nil
}

// Withdraw burns lpAmount liquidity shares and pays out both reserves
// proportionally, rejecting if either leg falls below its minimum.
// Shares are burned before the reserve transfers so the same shares can
// never be redeemed twice.
func (c *Controller) Withdraw(ctx context.Context, caller solana.PublicKey, poolID string, lpAmount, minX, minY uint64) (*WithdrawReceipt, error) {
	p, err := c.store.Get(ctx, poolID)
	if err != nil {
		return nil, err
	}
	if err := c.auth.Authorize(ctx, caller, p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	lock := c.poolLock(poolID)
	lock.Lock()
	defer lock.Unlock()

	if p.Locked {
		return nil, ErrPoolLocked
	}
	if lpAmount == 0 {
		return nil, ErrInvalidAmount
	}

	snap, err := c.snapshot(ctx, p)
	if err != nil {
		return nil, err
	}
	if snap.LPSupply == 0 {
		return nil, ErrNoLiquidityInPool
	}

	callerShares, err := c.custody.BalanceOf(ctx, p.MintLP, caller)
	if err != nil {
		return nil, err
	}
	if callerShares < lpAmount {
		return nil, ErrInsufficientBalance
	}
	if lpAmount > snap.LPSupply {
		return nil, ErrInvalidAmount
	}

	eng, err := curve.New(snap.ReserveX, snap.ReserveY, snap.LPSupply, p.FeeBps, &p.DecimalsX)
	if err != nil {
		return nil, err
	}
	amounts, err := eng.WithdrawAmounts(lpAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCurve, err)
	}

	if amounts.X < minX || amounts.Y < minY {
		return nil, curve.ErrSlippageExceeded
	}

	// Burn first: irreversible, prevents re-entrant double withdrawal
	// against the same shares.
	if err := c.custody.Burn(ctx, p.MintLP, caller, lpAmount); err != nil {
		return nil, fmt.Errorf("burn shares: %w", err)
	}

	// Both legs are issued even when one amount is zero.
	if err := c.custody.Transfer(ctx, p.MintX, p.Authority, caller, amounts.X); err != nil {
		return nil, fmt.Errorf("withdraw x transfer: %w", err)
	}
	if err := c.custody.Transfer(ctx, p.MintY, p.Authority, caller, amounts.Y); err != nil {
		return nil, fmt.Errorf("withdraw y transfer: %w", err)
	}

	receipt := &WithdrawReceipt{
		Pool:      poolID,
		Burned:    lpAmount,
		XOut:      amounts.X,
		YOut:      amounts.Y,
		SettledAt: time.Now().UTC(),
	}

	c.logger.WithFields(logrus.Fields{
		"pool":   poolID,
		"burned": lpAmount,
		"x_out":  amounts.X,
		"y_out":  amounts.Y,
	}).Info("withdrawal settled")

	c.publish(ctx, &models.SwapEvent{
		Pool:       poolID,
		Kind:       models.KindWithdraw,
		Caller:     caller.String(),
		AmountIn:   lpAmount,
		AmountOut:  amounts.X,
		AmountOutY: amounts.Y,
		FeeBps:     p.FeeBps,
		Timestamp:  receipt.SettledAt,
	})

	return receipt, nil
}

// Quote evaluates a swap against the live snapshot without settling
// anything. slippageBps only shapes the suggested minimum output.
func (c *Controller) Quote(ctx context.Context, poolID string, pair curve.TradePair, amount uint64, slippageBps uint16) (*QuoteResult, error) {
	p, err := c.store.Get(ctx, poolID)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, ErrInvalidAmount
	}

	snap, err := c.snapshot(ctx, p)
	if err != nil {
		return nil, err
	}

	eng, err := curve.New(snap.ReserveX, snap.ReserveY, snap.LPSupply, p.FeeBps, &p.DecimalsX)
	if err != nil {
		return nil, err
	}
	res, err := eng.Swap(pair, amount, 0)
	if err != nil {
		return nil, err
	}

	reserveIn, reserveOut := snap.ReserveX, snap.ReserveY
	if pair == curve.PairY {
		reserveIn, reserveOut = snap.ReserveY, snap.ReserveX
	}

	return &QuoteResult{
		Pool:        poolID,
		Side:        pair.String(),
		AmountIn:    amount,
		AmountOut:   res.Withdraw,
		MinOut:      curve.ApplySlippage(res.Withdraw, slippageBps),
		FeeBps:      p.FeeBps,
		PriceImpact: curve.PriceImpact(amount, res.Withdraw, reserveIn, reserveOut),
		ReserveIn:   reserveIn,
		ReserveOut:  reserveOut,
		QuotedAt:    time.Now().UTC(),
	}, nil
}

// Reserves exposes the live snapshot for a pool.
func (c *Controller) Reserves(ctx context.Context, poolID string) (Snapshot, error) {
	p, err := c.store.Get(ctx, poolID)
	if err != nil {
		return Snapshot{}, err
	}
	return c.snapshot(ctx, p)
}

func (c *Controller) publish(ctx context.Context, ev *models.SwapEvent) {
	if c.events == nil {
		return
	}
	if err := c.events.AddRecentSwap(ctx, ev); err != nil {
		c.logger.WithError(err).Warn("failed to record swap event")
	}
	if err := c.events.PublishSwap(ctx, ev); err != nil {
		c.logger.WithError(err).Warn("failed to publish swap event")
	}
}
