package lend

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/apperr"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/loanrequest"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/transaction"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/uow"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/user"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/gateway/settlement"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/usecase/credit"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/pkg/id"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/pkg/installment"
)

// GracePeriod is the window after a missed due date before a loan may be
// marked defaulted.
const GracePeriod = 7 * 24 * time.Hour

// Usecase matches lenders to pending requests and owns the default
// transition. All transitions run under the locked-loan unit of work: the
// settlement call executes while the row lock is held, so a racing caller
// either wins the lock first or observes the committed status and issues no
// gateway call at all.
type Usecase struct {
	uow       uow.UnitOfWork
	loans     loanrequest.Repository
	gw        settlement.Gateway
	gwTimeout time.Duration
	now       func() time.Time
}

func NewUsecase(u uow.UnitOfWork, loans loanrequest.Repository, gw settlement.Gateway) *Usecase {
	return &Usecase{
		uow:       u,
		loans:     loans,
		gw:        gw,
		gwTimeout: settlement.DefaultCallTimeout,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Test hook.
func (u *Usecase) WithClock(now func() time.Time) *Usecase { u.now = now; return u }

// WithSettlementTimeout bounds each ledger call issued under the row lock.
func (u *Usecase) WithSettlementTimeout(d time.Duration) *Usecase { u.gwTimeout = d; return u }

type AcceptResult struct {
	RequestID      string    `json:"request_id"`
	Status         string    `json:"status"`
	LenderWallet   string    `json:"lender_wallet"`
	InterestBps    int       `json:"interest_rate_bps"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	NextPaymentDue time.Time `json:"next_payment_due"`
	TxHash         string    `json:"tx_hash"`
	BlockNumber    uint64    `json:"block_number"`
}

// Accept funds a pending request. ProposedBps, when non-nil, overrides the
// rate the borrower asked for.
func (u *Usecase) Accept(ctx context.Context, requestID string, lender *user.Account, proposedBps *int) (*AcceptResult, error) {
	if !lender.Verified() {
		return nil, apperr.Forbidden("account verification required")
	}

	var out *AcceptResult
	err := u.uow.WithinLoanTx(ctx, requestID, func(r uow.Repos, l *loanrequest.LoanRequest) error {
		if l.Status != loanrequest.StatusPending {
			return apperr.Conflictf("request already settled")
		}
		if l.IsBorrower(lender.WalletAddress) {
			return apperr.Conflictf("cannot lend to yourself")
		}
		if l.ExternalLoanID == nil {
			return apperr.Conflictf("request has no ledger reference")
		}

		gwCtx, cancel := context.WithTimeout(ctx, u.gwTimeout)
		receipt, err := u.gw.AcceptLoan(gwCtx, *l.ExternalLoanID, l.Amount)
		cancel()
		if err != nil {
			return apperr.Settlement(err)
		}

		now := u.now()
		interval := installment.Interval(l.DurationDays, l.TotalInstallments)
		end := now.Add(time.Duration(l.DurationDays) * 24 * time.Hour)
		firstDue := now.Add(interval)

		l.Status = loanrequest.StatusActive
		l.LenderWallet = &lender.WalletAddress
		if proposedBps != nil {
			l.InterestBps = *proposedBps
			l.InstallmentAmount = installment.Calculate(l.Amount, l.InterestBps, l.TotalInstallments).InstallmentAmount
		}
		l.StartDate = &now
		l.EndDate = &end
		l.NextPaymentDue = &firstDue
		l.DisbursementTxHash = &receipt.TxHash
		l.StatusUpdatedAt = now
		// the ledger call already confirmed; failures past this point are
		// drift needing reconciliation
		if err := r.Loans.Save(ctx, l); err != nil {
			return apperr.Persistence(err)
		}

		rec := &transaction.Record{
			RecordID:    id.NewID32(),
			LoanID:      l.ID,
			Type:        transaction.TypeDisbursement,
			FromWallet:  lender.WalletAddress,
			ToWallet:    l.BorrowerWallet,
			Amount:      l.Amount,
			TxHash:      receipt.TxHash,
			BlockNumber: receipt.BlockNumber,
			Status:      transaction.TxConfirmed,
		}
		if err := r.Transactions.Create(ctx, rec); err != nil {
			// a replayed confirmation already recorded this hash
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Persistence(err)
			}
		}

		if err := r.Users.ApplyDelta(ctx, lender.WalletAddress, user.Delta{TotalLent: l.Amount}); err != nil {
			return apperr.Persistence(err)
		}

		out = &AcceptResult{
			RequestID:      l.RequestID,
			Status:         string(l.Status),
			LenderWallet:   lender.WalletAddress,
			InterestBps:    l.InterestBps,
			StartDate:      now,
			EndDate:        end,
			NextPaymentDue: firstDue,
			TxHash:         receipt.TxHash,
			BlockNumber:    receipt.BlockNumber,
		}
		return nil
	})
	if err != nil {
		return nil, translateNotFound(err)
	}
	return out, nil
}

// MarkDefault is the lender-initiated default. The grace boundary is strict:
// one unit before nextPaymentDue+grace fails, at or after it succeeds.
func (u *Usecase) MarkDefault(ctx context.Context, requestID, actorWallet string) (*settlement.Receipt, error) {
	var out *settlement.Receipt
	err := u.uow.WithinLoanTx(ctx, requestID, func(r uow.Repos, l *loanrequest.LoanRequest) error {
		if !l.IsLender(actorWallet) {
			return apperr.Forbidden("only the lender can mark a loan as defaulted")
		}
		receipt, err := u.defaultLocked(ctx, r, l)
		if err != nil {
			return err
		}
		out = receipt
		return nil
	})
	if err != nil {
		return nil, translateNotFound(err)
	}
	return out, nil
}

// SweepDefault is the detector-driven variant: same guards minus the actor
// check. Whichever of the two fires first wins; the loser gets a conflict.
func (u *Usecase) SweepDefault(ctx context.Context, requestID string) error {
	err := u.uow.WithinLoanTx(ctx, requestID, func(r uow.Repos, l *loanrequest.LoanRequest) error {
		_, err := u.defaultLocked(ctx, r, l)
		return err
	})
	return translateNotFound(err)
}

// defaultLocked applies the active->defaulted transition on an already
// locked row. recordDefault fires exactly once, inside the same commit.
func (u *Usecase) defaultLocked(ctx context.Context, r uow.Repos, l *loanrequest.LoanRequest) (*settlement.Receipt, error) {
	if l.Status != loanrequest.StatusActive {
		return nil, apperr.Conflictf("loan already settled")
	}
	if l.PaidInstallments >= l.TotalInstallments {
		return nil, apperr.Conflictf("all installments already paid")
	}
	now := u.now()
	if l.NextPaymentDue == nil || now.Before(l.NextPaymentDue.Add(GracePeriod)) {
		return nil, apperr.Conflictf("grace period not over yet")
	}
	if l.ExternalLoanID == nil {
		return nil, apperr.Conflictf("loan has no ledger reference")
	}

	gwCtx, cancel := context.WithTimeout(ctx, u.gwTimeout)
	receipt, err := u.gw.MarkAsDefault(gwCtx, *l.ExternalLoanID)
	cancel()
	if err != nil {
		return nil, apperr.Settlement(err)
	}

	l.Status = loanrequest.StatusDefaulted
	l.NextPaymentDue = nil
	l.StatusUpdatedAt = now
	if err := r.Loans.Save(ctx, l); err != nil {
		return nil, apperr.Persistence(err)
	}

	lender := ""
	if l.LenderWallet != nil {
		lender = *l.LenderWallet
	}
	remaining := float64(l.TotalInstallments-l.PaidInstallments) * l.InstallmentAmount
	rec := &transaction.Record{
		RecordID:    id.NewID32(),
		LoanID:      l.ID,
		Type:        transaction.TypeDefaultClaim,
		FromWallet:  l.BorrowerWallet,
		ToWallet:    lender,
		Amount:      remaining,
		TxHash:      receipt.TxHash,
		BlockNumber: receipt.BlockNumber,
		Status:      transaction.TxConfirmed,
	}
	if err := r.Transactions.Create(ctx, rec); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperr.Persistence(err)
	}

	if err := credit.ApplyEvent(ctx, r.Users, l.BorrowerWallet, credit.EventDefault); err != nil {
		return nil, err
	}
	return receipt, nil
}

// History lists every loan the wallet has funded, newest first.
func (u *Usecase) History(ctx context.Context, lenderWallet string) ([]loanrequest.LoanRequest, error) {
	ls, err := u.loans.ListByLender(ctx, lenderWallet)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return ls, nil
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, loanrequest.ErrNotFound) {
		return apperr.NotFound("loan request")
	}
	return err
}
