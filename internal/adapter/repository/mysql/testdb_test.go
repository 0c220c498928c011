package mysql

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schemas only for tests (no ENUM, no char(n)) ---

type userSQLite struct {
	ID             uint64         `gorm:"primaryKey;column:id"`
	WalletAddress  string         `gorm:"size:42;uniqueIndex;column:wallet_address"`
	Name           string         `gorm:"column:name"`
	Email          string         `gorm:"column:email"`
	Phone          string         `gorm:"column:phone"`
	EmailVerified  bool           `gorm:"column:email_verified"`
	PhoneVerified  bool           `gorm:"column:phone_verified"`
	CreditScore    int            `gorm:"default:500;column:credit_score"`
	IsDefaulter    bool           `gorm:"column:is_defaulter"`
	TotalBorrowed  float64        `gorm:"default:0;column:total_borrowed"`
	TotalLent      float64        `gorm:"default:0;column:total_lent"`
	ActiveLoans    int            `gorm:"default:0;column:active_loans"`
	CompletedLoans int            `gorm:"default:0;column:completed_loans"`
	DefaultedLoans int            `gorm:"default:0;column:defaulted_loans"`
	OnTimePayments int            `gorm:"default:0;column:on_time_payments"`
	LatePayments   int            `gorm:"default:0;column:late_payments"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (userSQLite) TableName() string { return "users" }

type loanRequestSQLite struct {
	ID                 uint64         `gorm:"primaryKey;column:id"`
	RequestID          string         `gorm:"size:32;uniqueIndex;column:request_id"`
	BorrowerWallet     string         `gorm:"size:42;index;column:borrower_wallet"`
	Amount             float64        `gorm:"column:amount"`
	DurationDays       int            `gorm:"column:duration_days"`
	InterestBps        int            `gorm:"default:0;column:interest_bps"`
	TotalInstallments  int            `gorm:"column:total_installments"`
	InstallmentAmount  float64        `gorm:"column:installment_amount"`
	PaidInstallments   int            `gorm:"default:0;column:paid_installments"`
	CollateralType     string         `gorm:"type:text;column:collateral_type"` // ← no enum
	FriendWallet       *string        `gorm:"size:42;column:friend_wallet"`
	PhysicalContacts   *string        `gorm:"type:text;column:physical_contacts"`
	CollateralLocked   bool           `gorm:"column:collateral_locked"`
	Status             string         `gorm:"type:text;column:status"` // ← no enum
	LenderWallet       *string        `gorm:"size:42;index;column:lender_wallet"`
	ExternalLoanID     *int64         `gorm:"column:external_loan_id"`
	CollateralTxHash   *string        `gorm:"size:66;column:collateral_tx_hash"`
	DisbursementTxHash *string        `gorm:"size:66;column:disbursement_tx_hash"`
	StartDate          *time.Time     `gorm:"column:start_date"`
	EndDate            *time.Time     `gorm:"column:end_date"`
	NextPaymentDue     *time.Time     `gorm:"column:next_payment_due"`
	StatusUpdatedAt    time.Time      `gorm:"column:status_updated_at"`
	CreatedAt          time.Time      `gorm:"column:created_at"`
	UpdatedAt          time.Time      `gorm:"column:updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (loanRequestSQLite) TableName() string { return "loan_requests" }

type transactionSQLite struct {
	ID                uint64         `gorm:"primaryKey;column:id"`
	RecordID          string         `gorm:"size:32;uniqueIndex;column:record_id"`
	LoanID            uint64         `gorm:"index;column:loan_id"`
	Type              string         `gorm:"type:text;column:type"` // ← no enum
	FromWallet        string         `gorm:"size:42;column:from_wallet"`
	ToWallet          string         `gorm:"size:42;column:to_wallet"`
	Amount            float64        `gorm:"column:amount"`
	TxHash            string         `gorm:"size:66;uniqueIndex;column:tx_hash"`
	BlockNumber       uint64         `gorm:"column:block_number"`
	InstallmentNumber *int           `gorm:"column:installment_number"`
	Status            string         `gorm:"type:text;column:status"` // ← no enum
	CreatedAt         time.Time      `gorm:"column:created_at"`
	UpdatedAt         time.Time      `gorm:"column:updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (transactionSQLite) TableName() string { return "transactions" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the
// sqlite-safe schemas. TranslateError is on, same as production, so
// duplicate-key behavior matches.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// a second pooled connection to :memory: would see an empty database
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&userSQLite{}, &loanRequestSQLite{}, &transactionSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
