package transaction

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("transaction not found")

type Type string

const (
	TypeCollateralLock Type = "collateral_lock"
	TypeDisbursement   Type = "disbursement"
	TypeInstallment    Type = "installment"
	TypeCompletion     Type = "completion"
	TypeDefaultClaim   Type = "default_claim"
	TypeCancellation   Type = "cancellation"
)

type TxStatus string

const (
	TxPending   TxStatus = "pending"
	TxConfirmed TxStatus = "confirmed"
	TxFailed    TxStatus = "failed"
)

// Record is an append-only ledger mirror entry. TxHash is unique: a duplicate
// settlement confirmation replayed against the store hits the index instead
// of producing a second record, which makes local commits retryable.
type Record struct {
	ID       uint64 `gorm:"primaryKey;column:id" json:"-"`
	RecordID string `gorm:"type:char(32);uniqueIndex:ux_transactions_record_id" json:"record_id"`
	// FK to loan_requests.id (numeric)
	LoanID uint64 `gorm:"not null;index:idx_transactions_loan" json:"-"`

	Type              Type     `gorm:"type:enum('collateral_lock','disbursement','installment','completion','default_claim','cancellation')" json:"type"`
	FromWallet        string   `gorm:"size:42" json:"from"`
	ToWallet          string   `gorm:"size:42" json:"to"`
	Amount            float64  `gorm:"type:decimal(24,6)" json:"amount"`
	TxHash            string   `gorm:"size:66;uniqueIndex:ux_transactions_tx_hash" json:"tx_hash"`
	BlockNumber       uint64   `json:"block_number"`
	InstallmentNumber *int     `json:"installment_number,omitempty"`
	Status            TxStatus `gorm:"type:enum('pending','confirmed','failed');default:'pending'" json:"status"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Record) TableName() string { return "transactions" }
