package transaction

import "context"

type Repository interface {
	// Create inserts a record; a duplicate TxHash surfaces as
	// gorm.ErrDuplicatedKey so callers can treat replays as already applied.
	Create(ctx context.Context, r *Record) error

	GetByTxHash(ctx context.Context, txHash string) (*Record, error)
	ListByLoanID(ctx context.Context, loanNumericID uint64) ([]Record, error)
}
