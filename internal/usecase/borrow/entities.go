package borrow

import (
	"time"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/loanrequest"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/pkg/installment"
)

type CreateInput struct {
	BorrowerWallet    string
	Amount            float64
	DurationDays      int
	InterestBps       int
	TotalInstallments int
	CollateralType    loanrequest.CollateralType
	FriendWallet      string
	PhysicalContacts  string
}

type RequestDTO struct {
	RequestID         string                     `json:"request_id"`
	BorrowerWallet    string                     `json:"borrower_wallet"`
	Amount            float64                    `json:"amount"`
	DurationDays      int                        `json:"duration_days"`
	InterestBps       int                        `json:"interest_rate_bps"`
	TotalInstallments int                        `json:"total_installments"`
	InstallmentAmount float64                    `json:"installment_amount"`
	PaidInstallments  int                        `json:"paid_installments"`
	CollateralType    loanrequest.CollateralType `json:"collateral_type"`
	Status            string                     `json:"status"`
	LenderWallet      *string                    `json:"lender_wallet,omitempty"`
	ExternalLoanID    *int64                     `json:"external_loan_id,omitempty"`
	CollateralTxHash  *string                    `json:"collateral_tx_hash,omitempty"`
	StartDate         *time.Time                 `json:"start_date,omitempty"`
	EndDate           *time.Time                 `json:"end_date,omitempty"`
	NextPaymentDue    *time.Time                 `json:"next_payment_due,omitempty"`
	CreatedAt         time.Time                  `json:"created_at"`
}

func toDTO(l *loanrequest.LoanRequest) *RequestDTO {
	return &RequestDTO{
		RequestID:         l.RequestID,
		BorrowerWallet:    l.BorrowerWallet,
		Amount:            l.Amount,
		DurationDays:      l.DurationDays,
		InterestBps:       l.InterestBps,
		TotalInstallments: l.TotalInstallments,
		InstallmentAmount: l.InstallmentAmount,
		PaidInstallments:  l.PaidInstallments,
		CollateralType:    l.CollateralType,
		Status:            string(l.Status),
		LenderWallet:      l.LenderWallet,
		ExternalLoanID:    l.ExternalLoanID,
		CollateralTxHash:  l.CollateralTxHash,
		StartDate:         l.StartDate,
		EndDate:           l.EndDate,
		NextPaymentDue:    l.NextPaymentDue,
		CreatedAt:         l.CreatedAt,
	}
}

func toDTOs(ls []loanrequest.LoanRequest) []RequestDTO {
	out := make([]RequestDTO, 0, len(ls))
	for i := range ls {
		out = append(out, *toDTO(&ls[i]))
	}
	return out
}

type ScheduleDTO struct {
	RequestID    string              `json:"request_id"`
	Installments []installment.Entry `json:"installments"`
}
