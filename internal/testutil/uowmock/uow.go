package uowmock

import (
	"context"
	"errors"
	"sync"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/loanrequest"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/transaction"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/uow"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/user"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/testutil/loanrequestmock"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/testutil/transactionmock"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/testutil/usermock"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
type UoW struct {
	WithinTxFn     func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLoanTxFn func(ctx context.Context, requestID string, fn func(r uow.Repos, l *loanrequest.LoanRequest) error) error
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinLoanTx(ctx context.Context, requestID string, fn func(r uow.Repos, l *loanrequest.LoanRequest) error) error {
	if m.WithinLoanTxFn != nil {
		return m.WithinLoanTxFn(ctx, requestID, fn)
	}
	return errUnimplemented
}

// Fake is a mutex-serialized unit of work over in-memory stores with
// snapshot rollback, so transition flows behave transactionally in tests:
// the caller's mutations are discarded when fn returns an error, and
// concurrent WithinLoanTx callers serialize the way row locks do.
type Fake struct {
	mu           sync.Mutex
	Loans        *loanrequestmock.InMemory
	Users        *usermock.InMemory
	Transactions *transactionmock.InMemory
}

func NewFake() *Fake {
	return &Fake{
		Loans:        loanrequestmock.NewInMemory(),
		Users:        usermock.NewInMemory(),
		Transactions: transactionmock.NewInMemory(),
	}
}

var _ uow.UnitOfWork = (*Fake)(nil)

func (f *Fake) repos() uow.Repos {
	return uow.Repos{Loans: f.Loans, Users: f.Users, Transactions: f.Transactions}
}

func (f *Fake) snapshot() (map[string]loanrequest.LoanRequest, map[string]user.Account, []transaction.Record) {
	loans := make(map[string]loanrequest.LoanRequest, len(f.Loans.Loans))
	for k, v := range f.Loans.Loans {
		loans[k] = *v
	}
	users := make(map[string]user.Account, len(f.Users.Accounts))
	for k, v := range f.Users.Accounts {
		users[k] = *v
	}
	txs := append([]transaction.Record(nil), f.Transactions.Records...)
	return loans, users, txs
}

func (f *Fake) restore(loans map[string]loanrequest.LoanRequest, users map[string]user.Account, txs []transaction.Record) {
	f.Loans.Loans = make(map[string]*loanrequest.LoanRequest, len(loans))
	for k := range loans {
		v := loans[k]
		f.Loans.Loans[k] = &v
	}
	f.Users.Accounts = make(map[string]*user.Account, len(users))
	for k := range users {
		v := users[k]
		f.Users.Accounts[k] = &v
	}
	f.Transactions.Records = txs
}

func (f *Fake) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	loans, users, txs := f.snapshot()
	if err := fn(f.repos()); err != nil {
		f.restore(loans, users, txs)
		return err
	}
	return nil
}

func (f *Fake) WithinLoanTx(ctx context.Context, requestID string, fn func(r uow.Repos, l *loanrequest.LoanRequest) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, err := f.Loans.GetByRequestID(ctx, requestID)
	if err != nil {
		return err
	}
	loans, users, txs := f.snapshot()
	if err := fn(f.repos(), l); err != nil {
		f.restore(loans, users, txs)
		return err
	}
	return nil
}
