package transactionmock

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/transaction"
)

// Repo is a function-backed mock satisfying transaction.Repository.
type Repo struct {
	CreateFn       func(ctx context.Context, r *domain.Record) error
	GetByTxHashFn  func(ctx context.Context, txHash string) (*domain.Record, error)
	ListByLoanIDFn func(ctx context.Context, loanNumericID uint64) ([]domain.Record, error)
}

func (m *Repo) Create(ctx context.Context, r *domain.Record) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByTxHash(ctx context.Context, txHash string) (*domain.Record, error) {
	if m.GetByTxHashFn != nil {
		return m.GetByTxHashFn(ctx, txHash)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByLoanID(ctx context.Context, loanNumericID uint64) ([]domain.Record, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanNumericID)
	}
	return nil, nil
}

var _ domain.Repository = (*Repo)(nil)

// InMemory is an append-only store enforcing tx hash uniqueness the way the
// real table's unique index does.
type InMemory struct {
	Records []domain.Record
}

func NewInMemory() *InMemory { return &InMemory{} }

func (m *InMemory) Create(_ context.Context, r *domain.Record) error {
	for _, existing := range m.Records {
		if existing.TxHash == r.TxHash {
			return gorm.ErrDuplicatedKey
		}
	}
	r.ID = uint64(len(m.Records) + 1)
	m.Records = append(m.Records, *r)
	return nil
}

func (m *InMemory) GetByTxHash(_ context.Context, txHash string) (*domain.Record, error) {
	for i := range m.Records {
		if m.Records[i].TxHash == txHash {
			cp := m.Records[i]
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *InMemory) ListByLoanID(_ context.Context, loanNumericID uint64) ([]domain.Record, error) {
	var out []domain.Record
	for _, r := range m.Records {
		if r.LoanID == loanNumericID {
			out = append(out, r)
		}
	}
	return out, nil
}

var _ domain.Repository = (*InMemory)(nil)
