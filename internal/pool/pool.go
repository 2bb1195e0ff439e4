// Package pool holds the pool state record and the controller that
// sequences swap and withdraw operations against it.
package pool

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"github.com/solanaforge/amm-engine/internal/curve"
)

// Pool is the persisted configuration for one pool instance. Mints and
// fee are immutable after creation; only Locked is ever mutated, by a
// privileged authority action.
type Pool struct {
	Seed      uint64           `json:"seed"`
	MintX     solana.PublicKey `json:"mint_x"`
	MintY     solana.PublicKey `json:"mint_y"`
	MintLP    solana.PublicKey `json:"mint_lp"`
	Authority solana.PublicKey `json:"authority"` // custody holder of both reserves
	FeeBps    uint16           `json:"fee_bps"`
	DecimalsX uint8            `json:"decimals_x"`
	Locked    bool             `json:"locked"`
}

// Validate checks the creation-time invariants of the record.
func (p *Pool) Validate() error {
	if p.MintX.Equals(p.MintY) {
		return fmt.Errorf("mint_x and mint_y must differ")
	}
	if p.FeeBps >= curve.FeeDenominator {
		return curve.ErrInvalidFeeRate
	}
	if p.MintLP.IsZero() {
		return fmt.Errorf("mint_lp is required")
	}
	if p.Authority.IsZero() {
		return fmt.Errorf("authority is required")
	}
	return nil
}

// ID derives a stable identifier from the seed and the mint pair, so
// two pools over the same mints with different seeds stay distinct.
func (p *Pool) ID() string {
	buf := make([]byte, 8, 8+64)
	binary.LittleEndian.PutUint64(buf, p.Seed)
	buf = append(buf, p.MintX.Bytes()...)
	buf = append(buf, p.MintY.Bytes()...)
	return base58.Encode(buf)
}

// InputMint returns the deposit-side mint for a trade direction.
func (p *Pool) InputMint(pair curve.TradePair) solana.PublicKey {
	if pair == curve.PairX {
		return p.MintX
	}
	return p.MintY
}

// OutputMint returns the withdraw-side mint for a trade direction.
func (p *Pool) OutputMint(pair curve.TradePair) solana.PublicKey {
	if pair == curve.PairX {
		return p.MintY
	}
	return p.MintX
}

// Store persists pool records. Implementations live in
// internal/poolstore (redis for the service, memory for tests).
type Store interface {
	// Upsert writes a record keyed by its ID.
	Upsert(ctx context.Context, p *Pool) error

	// Get returns the record for id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Pool, error)

	// List returns all known records.
	List(ctx context.Context) ([]*Pool, error)

	// SetLocked flips the emergency-halt flag and returns the updated
	// record.
	SetLocked(ctx context.Context, id string, locked bool) (*Pool, error)

	// Delete removes the record for id.
	Delete(ctx context.Context, id string) error
}
