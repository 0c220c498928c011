package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/loanrequest"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Loans:        &LoanRequestRepository{db: tx},
		Users:        &UserRepository{db: tx},
		Transactions: &TransactionRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, requestID string, fn func(r uow.Repos, l *loanrequest.LoanRequest) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the loan request row up-front; this is the single-writer
		// guard for every status transition
		l, err := r.Loans.GetByRequestIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}

var _ uow.UnitOfWork = (*GormUoW)(nil)
