package ledger

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// MemoryLedger is an in-process Custody implementation backed by a
// mutex-guarded balance table. Used by the service in standalone mode
// and by tests; every mutation is all-or-nothing under the lock.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[solana.PublicKey]map[solana.PublicKey]uint64
	supply   map[solana.PublicKey]uint64
}

// NewMemoryLedger returns an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances: make(map[solana.PublicKey]map[solana.PublicKey]uint64),
		supply:   make(map[solana.PublicKey]uint64),
	}
}

func (l *MemoryLedger) Transfer(ctx context.Context, asset, from, to solana.PublicKey, amount uint64) error {
	if amount == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	holders := l.balances[asset]
	if holders == nil || holders[from] < amount {
		return ErrInsufficientFunds
	}

	holders[from] -= amount
	holders[to] += amount
	return nil
}

func (l *MemoryLedger) BalanceOf(ctx context.Context, asset, holder solana.PublicKey) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.balances[asset][holder], nil
}

func (l *MemoryLedger) Supply(ctx context.Context, asset solana.PublicKey) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.supply[asset], nil
}

func (l *MemoryLedger) Mint(ctx context.Context, asset, holder solana.PublicKey, amount uint64) error {
	if amount == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	holders := l.balances[asset]
	if holders == nil {
		holders = make(map[solana.PublicKey]uint64)
		l.balances[asset] = holders
	}
	holders[holder] += amount
	l.supply[asset] += amount
	return nil
}

func (l *MemoryLedger) Burn(ctx context.Context, asset, holder solana.PublicKey, amount uint64) error {
	if amount == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	holders := l.balances[asset]
	if holders == nil || holders[holder] < amount {
		return ErrInsufficientFunds
	}

	holders[holder] -= amount
	l.supply[asset] -= amount
	return nil
}
