package mysql

import (
	"context"

	"gorm.io/gorm"

	userDomain "github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/user"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, a *userDomain.Account) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *UserRepository) GetByWallet(ctx context.Context, wallet string) (*userDomain.Account, error) {
	var out userDomain.Account
	res := r.db.WithContext(ctx).Where("wallet_address = ?", wallet).First(&out)
	return &out, res.Error
}

func (r *UserRepository) Save(ctx context.Context, a *userDomain.Account) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// ApplyDelta issues column = column + ? updates so increments are atomic per
// field and never race another writer's read-modify-write.
func (r *UserRepository) ApplyDelta(ctx context.Context, wallet string, d userDomain.Delta) error {
	updates := map[string]any{}
	if d.TotalBorrowed != 0 {
		updates["total_borrowed"] = gorm.Expr("total_borrowed + ?", d.TotalBorrowed)
	}
	if d.TotalLent != 0 {
		updates["total_lent"] = gorm.Expr("total_lent + ?", d.TotalLent)
	}
	if d.ActiveLoans != 0 {
		updates["active_loans"] = gorm.Expr("active_loans + ?", d.ActiveLoans)
	}
	if d.CompletedLoans != 0 {
		updates["completed_loans"] = gorm.Expr("completed_loans + ?", d.CompletedLoans)
	}
	if d.DefaultedLoans != 0 {
		updates["defaulted_loans"] = gorm.Expr("defaulted_loans + ?", d.DefaultedLoans)
	}
	if d.OnTimePayments != 0 {
		updates["on_time_payments"] = gorm.Expr("on_time_payments + ?", d.OnTimePayments)
	}
	if d.LatePayments != 0 {
		updates["late_payments"] = gorm.Expr("late_payments + ?", d.LatePayments)
	}
	if d.SetDefaulter {
		updates["is_defaulter"] = true
	}
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&userDomain.Account{}).
		Where("wallet_address = ?", wallet).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *UserRepository) UpdateScore(ctx context.Context, wallet string, score int) error {
	return r.db.WithContext(ctx).
		Model(&userDomain.Account{}).
		Where("wallet_address = ?", wallet).
		Update("credit_score", score).Error
}
