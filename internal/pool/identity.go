package pool

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// Authority verifies that a caller may operate on a pool. Environment-
// specific implementations check signatures and delegated custody
// authority; the controller only requires that a failure surfaces before
// any curve computation.
type Authority interface {
	Authorize(ctx context.Context, caller solana.PublicKey, p *Pool) error
}

// AllowAll authorizes every caller. Used in standalone mode where the
// transport layer (API key) already gates access.
type AllowAll struct{}

func (AllowAll) Authorize(ctx context.Context, caller solana.PublicKey, p *Pool) error {
	return nil
}
