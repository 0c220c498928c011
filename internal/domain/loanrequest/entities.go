package loanrequest

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("loan request not found")

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusDefaulted Status = "defaulted"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition may leave this status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusDefaulted || s == StatusCancelled
}

type CollateralType string

const (
	CollateralOwnETH    CollateralType = "OwnETH"
	CollateralFriendETH CollateralType = "FriendETH"
	CollateralPhysical  CollateralType = "Physical"
)

// LoanRequest is the primary state-machine entity. The settlement ledger is
// the source of truth for anything with a tx hash; this row is the local
// record of schedule and state keyed by ExternalLoanID.
//
// Invariants: PaidInstallments <= TotalInstallments; NextPaymentDue is set
// iff Status is active; status transitions are monotone
// (pending -> active|cancelled, active -> completed|defaulted).
type LoanRequest struct {
	ID             uint64         `gorm:"primaryKey;column:id" json:"-"`
	RequestID      string         `gorm:"type:char(32);uniqueIndex:ux_loan_requests_request_id" json:"request_id"`
	BorrowerWallet string         `gorm:"size:42;index:idx_loan_requests_borrower" json:"borrower_wallet"`
	Amount         float64        `gorm:"type:decimal(24,6)" json:"amount"`
	DurationDays   int            `json:"duration_days"`
	InterestBps    int            `gorm:"default:0" json:"interest_rate_bps"`

	TotalInstallments int     `json:"total_installments"`
	InstallmentAmount float64 `gorm:"type:decimal(24,6)" json:"installment_amount"`
	PaidInstallments  int     `gorm:"default:0" json:"paid_installments"`

	CollateralType   CollateralType `gorm:"type:enum('OwnETH','FriendETH','Physical')" json:"collateral_type"`
	FriendWallet     *string        `gorm:"size:42" json:"friend_wallet,omitempty"`
	PhysicalContacts *string        `gorm:"type:text" json:"physical_contacts,omitempty"`
	CollateralLocked bool           `json:"collateral_locked"`

	Status       Status  `gorm:"type:enum('pending','active','completed','defaulted','cancelled');default:'pending'" json:"status"`
	LenderWallet *string `gorm:"size:42;index:idx_loan_requests_lender" json:"lender_wallet,omitempty"`

	// Ledger references; nil until the corresponding settlement call confirms.
	ExternalLoanID     *int64  `json:"external_loan_id,omitempty"`
	CollateralTxHash   *string `gorm:"size:66" json:"collateral_tx_hash,omitempty"`
	DisbursementTxHash *string `gorm:"size:66" json:"disbursement_tx_hash,omitempty"`

	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	NextPaymentDue *time.Time `json:"next_payment_due,omitempty"`

	StatusUpdatedAt time.Time      `gorm:"autoCreateTime" json:"status_updated_at"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LoanRequest) TableName() string { return "loan_requests" }

func (l *LoanRequest) IsBorrower(wallet string) bool { return l.BorrowerWallet == wallet }

func (l *LoanRequest) IsLender(wallet string) bool {
	return l.LenderWallet != nil && *l.LenderWallet == wallet
}
