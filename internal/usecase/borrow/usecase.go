package borrow

import (
	"context"
	"strings"
	"time"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/apperr"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/loanrequest"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/transaction"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/uow"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/user"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/gateway/settlement"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/pkg/id"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/pkg/installment"
)

// minContactsLen is the minimum trusted-contacts payload for Physical
// collateral.
const minContactsLen = 10

// Usecase owns the loan request registry: creation with its settlement-first
// commit, cancellation, and the read-only projections.
type Usecase struct {
	uow       uow.UnitOfWork
	loans     loanrequest.Repository
	txns      transaction.Repository
	gw        settlement.Gateway
	gwTimeout time.Duration
	now       func() time.Time
}

func NewUsecase(u uow.UnitOfWork, loans loanrequest.Repository, txns transaction.Repository, gw settlement.Gateway) *Usecase {
	return &Usecase{
		uow:       u,
		loans:     loans,
		txns:      txns,
		gw:        gw,
		gwTimeout: settlement.DefaultCallTimeout,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Test hook.
func (u *Usecase) WithClock(now func() time.Time) *Usecase { u.now = now; return u }

// WithSettlementTimeout bounds each ledger call.
func (u *Usecase) WithSettlementTimeout(d time.Duration) *Usecase { u.gwTimeout = d; return u }

func validateCreate(in *CreateInput) error {
	if in.Amount <= 0 {
		return apperr.Validationf("amount must be positive")
	}
	if in.DurationDays < 1 {
		return apperr.Validationf("duration must be at least 1 day")
	}
	if in.InterestBps < 0 {
		return apperr.Validationf("interest rate cannot be negative")
	}
	if in.TotalInstallments < 1 {
		return apperr.Validationf("at least one installment required")
	}
	switch in.CollateralType {
	case loanrequest.CollateralOwnETH:
	case loanrequest.CollateralFriendETH:
		normalized, err := user.NormalizeWallet(in.FriendWallet)
		if err != nil {
			return apperr.Validationf("valid friend wallet address required")
		}
		in.FriendWallet = normalized
	case loanrequest.CollateralPhysical:
		if len(strings.TrimSpace(in.PhysicalContacts)) < minContactsLen {
			return apperr.Validationf("trusted contacts required for physical collateral")
		}
	default:
		return apperr.Validationf("invalid collateral type %q", in.CollateralType)
	}
	return nil
}

// Create validates locally, creates the loan on the ledger, and only after
// the settlement call confirms does it persist the pending request and bump
// the borrower counters. A gateway failure leaves no local trace.
func (u *Usecase) Create(ctx context.Context, borrower *user.Account, in CreateInput) (*RequestDTO, error) {
	if !borrower.Verified() {
		return nil, apperr.Forbidden("account verification required")
	}
	if borrower.IsDefaulter {
		return nil, apperr.Forbidden("defaulters cannot create borrow requests")
	}
	in.BorrowerWallet = borrower.WalletAddress
	if err := validateCreate(&in); err != nil {
		return nil, err
	}

	breakdown := installment.Calculate(in.Amount, in.InterestBps, in.TotalInstallments)

	gwCtx, cancel := context.WithTimeout(ctx, u.gwTimeout)
	res, err := u.gw.CreateLoan(gwCtx, settlement.CreateParams{
		Borrower:          in.BorrowerWallet,
		Amount:            in.Amount,
		InterestBps:       in.InterestBps,
		DurationDays:      in.DurationDays,
		TotalInstallments: in.TotalInstallments,
		CollateralType:    in.CollateralType,
		FriendWallet:      in.FriendWallet,
		PhysicalContacts:  in.PhysicalContacts,
	})
	cancel()
	if err != nil {
		return nil, apperr.Settlement(err)
	}

	l := &loanrequest.LoanRequest{
		RequestID:         id.NewID32(),
		BorrowerWallet:    in.BorrowerWallet,
		Amount:            in.Amount,
		DurationDays:      in.DurationDays,
		InterestBps:       in.InterestBps,
		TotalInstallments: in.TotalInstallments,
		InstallmentAmount: breakdown.InstallmentAmount,
		CollateralType:    in.CollateralType,
		CollateralLocked:  in.CollateralType == loanrequest.CollateralOwnETH,
		Status:            loanrequest.StatusPending,
		ExternalLoanID:    &res.ExternalLoanID,
		CollateralTxHash:  &res.TxHash,
		StatusUpdatedAt:   u.now(),
	}
	if in.FriendWallet != "" {
		l.FriendWallet = &in.FriendWallet
	}
	if in.PhysicalContacts != "" {
		l.PhysicalContacts = &in.PhysicalContacts
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if l.CollateralLocked {
			rec := &transaction.Record{
				RecordID:    id.NewID32(),
				LoanID:      l.ID,
				Type:        transaction.TypeCollateralLock,
				FromWallet:  in.BorrowerWallet,
				ToWallet:    in.BorrowerWallet,
				Amount:      in.Amount,
				TxHash:      res.TxHash,
				BlockNumber: res.BlockNumber,
				Status:      transaction.TxConfirmed,
			}
			if err := r.Transactions.Create(ctx, rec); err != nil {
				return err
			}
		}
		return r.Users.ApplyDelta(ctx, in.BorrowerWallet, user.Delta{
			TotalBorrowed: in.Amount,
			ActiveLoans:   1,
		})
	})
	if err != nil {
		// the ledger call already confirmed; this drift needs reconciliation
		return nil, apperr.Persistence(err)
	}
	return toDTO(l), nil
}

// Cancel is borrower-only and pending-only; it reverses the counters applied
// at creation.
func (u *Usecase) Cancel(ctx context.Context, requestID, actorWallet string) error {
	err := u.uow.WithinLoanTx(ctx, requestID, func(r uow.Repos, l *loanrequest.LoanRequest) error {
		if !l.IsBorrower(actorWallet) {
			return apperr.Forbidden("only the borrower can cancel a request")
		}
		if l.Status != loanrequest.StatusPending {
			return apperr.Conflictf("only pending requests can be cancelled")
		}
		l.Status = loanrequest.StatusCancelled
		l.StatusUpdatedAt = u.now()
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		return r.Users.ApplyDelta(ctx, l.BorrowerWallet, user.Delta{
			TotalBorrowed: -l.Amount,
			ActiveLoans:   -1,
		})
	})
	return translateNotFound(err)
}

func (u *Usecase) Get(ctx context.Context, requestID string) (*RequestDTO, error) {
	l, err := u.loans.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return toDTO(l), nil
}

// ListPending is the open marketplace view.
func (u *Usecase) ListPending(ctx context.Context) ([]RequestDTO, error) {
	ls, err := u.loans.ListByStatus(ctx, loanrequest.StatusPending)
	if err != nil {
		return nil, err
	}
	return toDTOs(ls), nil
}

func (u *Usecase) ListByBorrower(ctx context.Context, wallet string) ([]RequestDTO, error) {
	ls, err := u.loans.ListByBorrower(ctx, wallet)
	if err != nil {
		return nil, err
	}
	return toDTOs(ls), nil
}

func (u *Usecase) ListByLender(ctx context.Context, wallet string) ([]RequestDTO, error) {
	ls, err := u.loans.ListByLender(ctx, wallet)
	if err != nil {
		return nil, err
	}
	return toDTOs(ls), nil
}

// Schedule projects the installment plan. Visible to the two counterparties
// only, and only once the loan has started.
func (u *Usecase) Schedule(ctx context.Context, requestID, actorWallet string) (*ScheduleDTO, error) {
	l, err := u.loans.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if !l.IsBorrower(actorWallet) && !l.IsLender(actorWallet) {
		return nil, apperr.Forbidden("not a party to this loan")
	}
	if l.StartDate == nil {
		return nil, apperr.Conflictf("loan has not started")
	}
	entries := installment.Schedule(*l.StartDate, l.DurationDays, l.TotalInstallments, l.PaidInstallments, l.InstallmentAmount, u.now())
	return &ScheduleDTO{RequestID: l.RequestID, Installments: entries}, nil
}

// Transactions lists the ledger mirror records for a loan.
func (u *Usecase) Transactions(ctx context.Context, requestID, actorWallet string) ([]transaction.Record, error) {
	l, err := u.loans.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if !l.IsBorrower(actorWallet) && !l.IsLender(actorWallet) {
		return nil, apperr.Forbidden("not a party to this loan")
	}
	return u.txns.ListByLoanID(ctx, l.ID)
}
