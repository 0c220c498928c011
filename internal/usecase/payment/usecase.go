package payment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/apperr"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/loanrequest"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/transaction"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/uow"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/gateway/fiat"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/gateway/settlement"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/usecase/credit"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/pkg/id"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/pkg/installment"
)

// Usecase handles installment payment and the display-only fiat conversion.
type Usecase struct {
	uow       uow.UnitOfWork
	gw        settlement.Gateway
	gwTimeout time.Duration
	rates     fiat.RateSource
	now       func() time.Time
}

func NewUsecase(u uow.UnitOfWork, gw settlement.Gateway, rates fiat.RateSource) *Usecase {
	return &Usecase{
		uow:       u,
		gw:        gw,
		gwTimeout: settlement.DefaultCallTimeout,
		rates:     rates,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Test hook.
func (u *Usecase) WithClock(now func() time.Time) *Usecase { u.now = now; return u }

// WithSettlementTimeout bounds each ledger call issued under the row lock.
func (u *Usecase) WithSettlementTimeout(d time.Duration) *Usecase { u.gwTimeout = d; return u }

type PayResult struct {
	RequestID             string `json:"request_id"`
	InstallmentNumber     int    `json:"installment_number"`
	RemainingInstallments int    `json:"remaining_installments"`
	OnTime                bool   `json:"on_time"`
	LoanCompleted         bool   `json:"loan_completed"`
	TxHash                string `json:"tx_hash"`
}

// Pay settles one installment. The ledger call precedes the local commit so
// the payment counters only ever reflect confirmed settlements; the on-time
// judgement is made against nextPaymentDue before the increment.
func (u *Usecase) Pay(ctx context.Context, requestID, payerWallet string) (*PayResult, error) {
	var out *PayResult
	err := u.uow.WithinLoanTx(ctx, requestID, func(r uow.Repos, l *loanrequest.LoanRequest) error {
		if !l.IsBorrower(payerWallet) {
			return apperr.Forbidden("only the borrower can pay installments")
		}
		if l.Status != loanrequest.StatusActive {
			return apperr.Conflictf("loan is not active")
		}
		if l.PaidInstallments >= l.TotalInstallments {
			return apperr.Conflictf("all installments already paid")
		}
		if l.ExternalLoanID == nil || l.NextPaymentDue == nil || l.StartDate == nil {
			return apperr.Conflictf("loan has no schedule")
		}

		now := u.now()
		onTime := !now.After(*l.NextPaymentDue)

		gwCtx, cancel := context.WithTimeout(ctx, u.gwTimeout)
		receipt, err := u.gw.PayInstallment(gwCtx, *l.ExternalLoanID, l.InstallmentAmount)
		cancel()
		if err != nil {
			return apperr.Settlement(err)
		}

		l.PaidInstallments++
		number := l.PaidInstallments
		completed := l.PaidInstallments == l.TotalInstallments
		if completed {
			l.Status = loanrequest.StatusCompleted
			l.NextPaymentDue = nil
		} else {
			due := installment.DueDate(*l.StartDate, l.DurationDays, l.TotalInstallments, l.PaidInstallments+1)
			l.NextPaymentDue = &due
		}
		l.StatusUpdatedAt = now
		// the ledger call already confirmed; failures past this point are
		// drift needing reconciliation
		if err := r.Loans.Save(ctx, l); err != nil {
			return apperr.Persistence(err)
		}

		lender := ""
		if l.LenderWallet != nil {
			lender = *l.LenderWallet
		}
		rec := &transaction.Record{
			RecordID:          id.NewID32(),
			LoanID:            l.ID,
			Type:              transaction.TypeInstallment,
			FromWallet:        l.BorrowerWallet,
			ToWallet:          lender,
			Amount:            l.InstallmentAmount,
			TxHash:            receipt.TxHash,
			BlockNumber:       receipt.BlockNumber,
			InstallmentNumber: &number,
			Status:            transaction.TxConfirmed,
		}
		if err := r.Transactions.Create(ctx, rec); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Persistence(err)
		}

		if completed {
			if err := credit.ApplyEvent(ctx, r.Users, l.BorrowerWallet, credit.EventCompletion); err != nil {
				return err
			}
		}
		ev := credit.EventLatePayment
		if onTime {
			ev = credit.EventOnTimePayment
		}
		if err := credit.ApplyEvent(ctx, r.Users, l.BorrowerWallet, ev); err != nil {
			return err
		}

		out = &PayResult{
			RequestID:             l.RequestID,
			InstallmentNumber:     number,
			RemainingInstallments: l.TotalInstallments - l.PaidInstallments,
			OnTime:                onTime,
			LoanCompleted:         completed,
			TxHash:                receipt.TxHash,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, loanrequest.ErrNotFound) {
			return nil, apperr.NotFound("loan request")
		}
		return nil, err
	}
	return out, nil
}

type ConversionDTO struct {
	AmountINR    float64 `json:"amount_inr"`
	AmountETH    float64 `json:"amount_eth"`
	ExchangeRate float64 `json:"exchange_rate"`
}

func (u *Usecase) ExchangeRate(ctx context.Context) (float64, error) {
	return u.rates.ETHToINR(ctx)
}

// ConvertINRToETH is a display-only preview; no core invariant depends on it.
func (u *Usecase) ConvertINRToETH(ctx context.Context, amountINR float64) (*ConversionDTO, error) {
	if amountINR <= 0 {
		return nil, apperr.Validationf("amount must be positive")
	}
	rate, err := u.rates.ETHToINR(ctx)
	if err != nil {
		return nil, err
	}
	return &ConversionDTO{AmountINR: amountINR, AmountETH: amountINR / rate, ExchangeRate: rate}, nil
}
