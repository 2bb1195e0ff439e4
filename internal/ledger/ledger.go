// Package ledger defines the custody collaborator: the component that
// actually holds and moves token balances. The exchange core only ever
// talks to the Custody interface; settlement guarantees (a successful
// transfer is final, a failed one changes nothing) live here.
package ledger

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrInsufficientFunds means the source holder does not carry the
	// requested amount. Both balances are left unchanged.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Custody moves token balances between holders. Asset and holder
// identifiers are Solana public keys; a mint identifies an asset, any
// other key identifies a holder (user wallet or pool vault authority).
type Custody interface {
	// Transfer moves amount of asset from one holder to another.
	// A zero amount is a successful no-op.
	Transfer(ctx context.Context, asset, from, to solana.PublicKey, amount uint64) error

	// BalanceOf reports the current balance of holder in asset.
	BalanceOf(ctx context.Context, asset, holder solana.PublicKey) (uint64, error)

	// Supply reports the total outstanding units of asset.
	Supply(ctx context.Context, asset solana.PublicKey) (uint64, error)

	// Mint credits amount of asset to holder and grows the supply.
	Mint(ctx context.Context, asset, holder solana.PublicKey, amount uint64) error

	// Burn debits amount of asset from holder and shrinks the supply.
	Burn(ctx context.Context, asset, holder solana.PublicKey, amount uint64) error
}
