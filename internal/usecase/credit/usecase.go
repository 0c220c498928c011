package credit

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/apperr"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/loanrequest"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/user"
)

// Usecase is the read/refresh surface over the score engine.
type Usecase struct {
	users user.Repository
	loans loanrequest.Repository
}

func NewUsecase(users user.Repository, loans loanrequest.Repository) *Usecase {
	return &Usecase{users: users, loans: loans}
}

type ScoreDTO struct {
	CreditScore    int    `json:"credit_score"`
	Rating         string `json:"rating"`
	IsDefaulter    bool   `json:"is_defaulter"`
	CompletedLoans int    `json:"completed_loans"`
	DefaultedLoans int    `json:"defaulted_loans"`
	OnTimePayments int    `json:"on_time_payments"`
	LatePayments   int    `json:"late_payments"`
}

func scoreDTO(a *user.Account, score int) *ScoreDTO {
	return &ScoreDTO{
		CreditScore:    score,
		Rating:         Rating(score),
		IsDefaulter:    a.IsDefaulter,
		CompletedLoans: a.CompletedLoans,
		DefaultedLoans: a.DefaultedLoans,
		OnTimePayments: a.OnTimePayments,
		LatePayments:   a.LatePayments,
	}
}

// ScoreFor computes the live score from the current counters without
// persisting it.
func (u *Usecase) ScoreFor(ctx context.Context, wallet string) (*ScoreDTO, error) {
	a, err := u.users.GetByWallet(ctx, wallet)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, user.ErrNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}
	return scoreDTO(a, Score(a)), nil
}

// Refresh recomputes the score and persists it.
func (u *Usecase) Refresh(ctx context.Context, wallet string) (*ScoreDTO, error) {
	a, err := u.users.GetByWallet(ctx, wallet)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, user.ErrNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}
	score := Score(a)
	if err := u.users.UpdateScore(ctx, wallet, score); err != nil {
		return nil, apperr.Persistence(err)
	}
	return scoreDTO(a, score), nil
}

// History lists the borrower's loans as the credit-history projection.
func (u *Usecase) History(ctx context.Context, wallet string) ([]loanrequest.LoanRequest, error) {
	return u.loans.ListByBorrower(ctx, wallet)
}
