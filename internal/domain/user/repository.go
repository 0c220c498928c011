package user

import "context"

type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByWallet(ctx context.Context, wallet string) (*Account, error)
	Save(ctx context.Context, a *Account) error

	// ApplyDelta increments counters in place (atomic per field).
	ApplyDelta(ctx context.Context, wallet string, d Delta) error

	// UpdateScore persists only the derived credit score, leaving the
	// counter columns untouched by this write.
	UpdateScore(ctx context.Context, wallet string, score int) error
}
