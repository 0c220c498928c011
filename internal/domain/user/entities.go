package user

import (
	"errors"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrInvalidAddress = errors.New("invalid wallet address")
)

// Account keys identity by a normalized (lowercase hex) wallet address.
// Counters are mutated only through Delta by the lifecycle events; they are
// never bulk-recomputed. CreditScore is the one derived column.
type Account struct {
	ID            uint64 `gorm:"primaryKey;column:id" json:"-"`
	WalletAddress string `gorm:"size:42;uniqueIndex:ux_users_wallet" json:"wallet_address"`
	Name          string `gorm:"size:128" json:"name"`
	Email         string `gorm:"size:255" json:"email"`
	Phone         string `gorm:"size:32" json:"phone"`
	EmailVerified bool   `json:"email_verified"`
	PhoneVerified bool   `json:"phone_verified"`

	CreditScore int  `gorm:"default:500" json:"credit_score"`
	IsDefaulter bool `json:"is_defaulter"` // sticky, never auto-cleared

	TotalBorrowed  float64 `gorm:"type:decimal(24,6);default:0" json:"total_borrowed"`
	TotalLent      float64 `gorm:"type:decimal(24,6);default:0" json:"total_lent"`
	ActiveLoans    int     `gorm:"default:0" json:"active_loans"`
	CompletedLoans int     `gorm:"default:0" json:"completed_loans"`
	DefaultedLoans int     `gorm:"default:0" json:"defaulted_loans"`
	OnTimePayments int     `gorm:"default:0" json:"on_time_payments"`
	LatePayments   int     `gorm:"default:0" json:"late_payments"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Account) TableName() string { return "users" }

func (a *Account) Verified() bool { return a.EmailVerified && a.PhoneVerified }

// NormalizeWallet validates an EVM address and lowercases it so lookups and
// the unique index are case-insensitive.
func NormalizeWallet(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if !common.IsHexAddress(addr) {
		return "", ErrInvalidAddress
	}
	return strings.ToLower(common.HexToAddress(addr).Hex()), nil
}

// Delta is a set of counter increments applied atomically in SQL
// (column = column + ?), so concurrent lifecycle events on the same account
// never lose updates. SetDefaulter only ever flips the flag on.
type Delta struct {
	TotalBorrowed  float64
	TotalLent      float64
	ActiveLoans    int
	CompletedLoans int
	DefaultedLoans int
	OnTimePayments int
	LatePayments   int
	SetDefaulter   bool
}
