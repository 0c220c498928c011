// Package settlement is the distributed-ledger boundary. Every call is
// blocking and fallible; callers bound it with a context deadline and treat
// a confirmed transaction as irreversible.
package settlement

import (
	"context"
	"time"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/loanrequest"
)

// DefaultCallTimeout bounds a single gateway call when the caller does not
// configure its own limit. A hung RPC must never hold a row lock forever.
const DefaultCallTimeout = 90 * time.Second

type CreateParams struct {
	Borrower          string
	Amount            float64
	InterestBps       int
	DurationDays      int
	TotalInstallments int
	CollateralType    loanrequest.CollateralType
	FriendWallet      string // FriendETH only
	PhysicalContacts  string // Physical only
}

type CreateResult struct {
	TxHash         string
	ExternalLoanID int64
	BlockNumber    uint64
}

type Receipt struct {
	TxHash      string
	BlockNumber uint64
}

// LoanSnapshot mirrors the on-ledger loan record for reconciliation reads.
type LoanSnapshot struct {
	ExternalLoanID    int64
	Borrower          string
	Lender            string
	Amount            float64
	InterestBps       int
	DurationDays      int
	InstallmentAmount float64
	TotalInstallments int
	PaidInstallments  int
	Status            int
	CollateralLocked  bool
}

type Gateway interface {
	CreateLoan(ctx context.Context, p CreateParams) (*CreateResult, error)
	AcceptLoan(ctx context.Context, externalLoanID int64, amount float64) (*Receipt, error)
	PayInstallment(ctx context.Context, externalLoanID int64, amount float64) (*Receipt, error)
	MarkAsDefault(ctx context.Context, externalLoanID int64) (*Receipt, error)
	LockFriendCollateral(ctx context.Context, externalLoanID int64, amount float64) (*Receipt, error)

	GetLoanDetails(ctx context.Context, externalLoanID int64) (*LoanSnapshot, error)
	IsDefaulter(ctx context.Context, wallet string) (bool, error)
	GetCreditScore(ctx context.Context, wallet string) (int64, error)
}
