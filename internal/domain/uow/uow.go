package uow

import (
	"context"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/loanrequest"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/transaction"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/user"
)

type Repos struct {
	Loans        loanrequest.Repository
	Users        user.Repository
	Transactions transaction.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan request row first, then pass it in. The row
	// lock is the single-writer-per-transition guard: the loser of a race
	// blocks here and then observes the committed status.
	WithinLoanTx(ctx context.Context, requestID string, fn func(r Repos, l *loanrequest.LoanRequest) error) error
}
