package mysql

import (
	"context"

	"gorm.io/gorm"

	txDomain "github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/transaction"
)

type TransactionRepository struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create relies on TranslateError being enabled at open time, so a replayed
// tx hash surfaces as gorm.ErrDuplicatedKey to every caller.
func (r *TransactionRepository) Create(ctx context.Context, rec *txDomain.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *TransactionRepository) GetByTxHash(ctx context.Context, txHash string) (*txDomain.Record, error) {
	var out txDomain.Record
	res := r.db.WithContext(ctx).Where("tx_hash = ?", txHash).First(&out)
	return &out, res.Error
}

func (r *TransactionRepository) ListByLoanID(ctx context.Context, loanNumericID uint64) ([]txDomain.Record, error) {
	var out []txDomain.Record
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanNumericID).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}
