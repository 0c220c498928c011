package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loanDomain "github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/loanrequest"
)

type LoanRequestRepository struct{ db *gorm.DB }

func NewLoanRequestRepository(db *gorm.DB) *LoanRequestRepository {
	return &LoanRequestRepository{db: db}
}

func (r *LoanRequestRepository) Create(ctx context.Context, l *loanDomain.LoanRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRequestRepository) Save(ctx context.Context, l *loanDomain.LoanRequest) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRequestRepository) GetByRequestID(ctx context.Context, requestID string) (*loanDomain.LoanRequest, error) {
	var out loanDomain.LoanRequest
	res := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&out)
	return &out, res.Error
}

// GetByRequestIDForUpdate locks the row; only meaningful inside a tx.
func (r *LoanRequestRepository) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*loanDomain.LoanRequest, error) {
	var out loanDomain.LoanRequest
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("request_id = ?", requestID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRequestRepository) ListByStatus(ctx context.Context, s loanDomain.Status) ([]loanDomain.LoanRequest, error) {
	var out []loanDomain.LoanRequest
	res := r.db.WithContext(ctx).
		Where("status = ?", s).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRequestRepository) ListByBorrower(ctx context.Context, wallet string) ([]loanDomain.LoanRequest, error) {
	var out []loanDomain.LoanRequest
	res := r.db.WithContext(ctx).
		Where("borrower_wallet = ?", wallet).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRequestRepository) ListByLender(ctx context.Context, wallet string) ([]loanDomain.LoanRequest, error) {
	var out []loanDomain.LoanRequest
	res := r.db.WithContext(ctx).
		Where("lender_wallet = ?", wallet).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRequestRepository) ListActiveDueBefore(ctx context.Context, t time.Time) ([]loanDomain.LoanRequest, error) {
	var out []loanDomain.LoanRequest
	res := r.db.WithContext(ctx).
		Where("status = ? AND next_payment_due < ?", loanDomain.StatusActive, t).
		Find(&out)
	return out, res.Error
}

func (r *LoanRequestRepository) ListActiveDueBetween(ctx context.Context, from, to time.Time) ([]loanDomain.LoanRequest, error) {
	var out []loanDomain.LoanRequest
	res := r.db.WithContext(ctx).
		Where("status = ? AND next_payment_due > ? AND next_payment_due <= ?", loanDomain.StatusActive, from, to).
		Find(&out)
	return out, res.Error
}
