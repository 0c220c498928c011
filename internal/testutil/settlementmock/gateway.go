package settlementmock

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/gateway/settlement"
)

// Gateway is a call-counting, function-backed settlement mock. Counters make
// the "no gateway call on precondition failure" and "exactly one call per
// race" properties assertable.
type Gateway struct {
	CreateLoanFn           func(ctx context.Context, p settlement.CreateParams) (*settlement.CreateResult, error)
	AcceptLoanFn           func(ctx context.Context, externalLoanID int64, amount float64) (*settlement.Receipt, error)
	PayInstallmentFn       func(ctx context.Context, externalLoanID int64, amount float64) (*settlement.Receipt, error)
	MarkAsDefaultFn        func(ctx context.Context, externalLoanID int64) (*settlement.Receipt, error)
	LockFriendCollateralFn func(ctx context.Context, externalLoanID int64, amount float64) (*settlement.Receipt, error)
	GetLoanDetailsFn       func(ctx context.Context, externalLoanID int64) (*settlement.LoanSnapshot, error)
	IsDefaulterFn          func(ctx context.Context, wallet string) (bool, error)
	GetCreditScoreFn       func(ctx context.Context, wallet string) (int64, error)

	CreateCalls  atomic.Int64
	AcceptCalls  atomic.Int64
	PayCalls     atomic.Int64
	DefaultCalls atomic.Int64
	LockCalls    atomic.Int64

	mu     sync.Mutex
	nextTx int64
}

// nextHash fabricates a unique tx hash per call so records stay unique.
func (m *Gateway) nextHash() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextTx++
	return fmt.Sprintf("0x%064x", m.nextTx)
}

func (m *Gateway) CreateLoan(ctx context.Context, p settlement.CreateParams) (*settlement.CreateResult, error) {
	m.CreateCalls.Add(1)
	if m.CreateLoanFn != nil {
		return m.CreateLoanFn(ctx, p)
	}
	return &settlement.CreateResult{TxHash: m.nextHash(), ExternalLoanID: 1, BlockNumber: 100}, nil
}

func (m *Gateway) AcceptLoan(ctx context.Context, externalLoanID int64, amount float64) (*settlement.Receipt, error) {
	m.AcceptCalls.Add(1)
	if m.AcceptLoanFn != nil {
		return m.AcceptLoanFn(ctx, externalLoanID, amount)
	}
	return &settlement.Receipt{TxHash: m.nextHash(), BlockNumber: 101}, nil
}

func (m *Gateway) PayInstallment(ctx context.Context, externalLoanID int64, amount float64) (*settlement.Receipt, error) {
	m.PayCalls.Add(1)
	if m.PayInstallmentFn != nil {
		return m.PayInstallmentFn(ctx, externalLoanID, amount)
	}
	return &settlement.Receipt{TxHash: m.nextHash(), BlockNumber: 102}, nil
}

func (m *Gateway) MarkAsDefault(ctx context.Context, externalLoanID int64) (*settlement.Receipt, error) {
	m.DefaultCalls.Add(1)
	if m.MarkAsDefaultFn != nil {
		return m.MarkAsDefaultFn(ctx, externalLoanID)
	}
	return &settlement.Receipt{TxHash: m.nextHash(), BlockNumber: 103}, nil
}

func (m *Gateway) LockFriendCollateral(ctx context.Context, externalLoanID int64, amount float64) (*settlement.Receipt, error) {
	m.LockCalls.Add(1)
	if m.LockFriendCollateralFn != nil {
		return m.LockFriendCollateralFn(ctx, externalLoanID, amount)
	}
	return &settlement.Receipt{TxHash: m.nextHash(), BlockNumber: 104}, nil
}

func (m *Gateway) GetLoanDetails(ctx context.Context, externalLoanID int64) (*settlement.LoanSnapshot, error) {
	if m.GetLoanDetailsFn != nil {
		return m.GetLoanDetailsFn(ctx, externalLoanID)
	}
	return &settlement.LoanSnapshot{ExternalLoanID: externalLoanID}, nil
}

func (m *Gateway) IsDefaulter(ctx context.Context, wallet string) (bool, error) {
	if m.IsDefaulterFn != nil {
		return m.IsDefaulterFn(ctx, wallet)
	}
	return false, nil
}

func (m *Gateway) GetCreditScore(ctx context.Context, wallet string) (int64, error) {
	if m.GetCreditScoreFn != nil {
		return m.GetCreditScoreFn(ctx, wallet)
	}
	return 0, nil
}

var _ settlement.Gateway = (*Gateway)(nil)
