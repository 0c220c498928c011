package loanrequest

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l *LoanRequest) error
	Save(ctx context.Context, l *LoanRequest) error
	GetByRequestID(ctx context.Context, requestID string) (*LoanRequest, error)

	// GetByRequestIDForUpdate locks the row (SELECT ... FOR UPDATE) so a
	// status transition holds the single-writer guard for its duration.
	GetByRequestIDForUpdate(ctx context.Context, requestID string) (*LoanRequest, error)

	ListByStatus(ctx context.Context, s Status) ([]LoanRequest, error)
	ListByBorrower(ctx context.Context, wallet string) ([]LoanRequest, error)
	ListByLender(ctx context.Context, wallet string) ([]LoanRequest, error)

	// ListActiveDueBefore returns active loans whose next payment was due
	// strictly before t. Used by the default pass.
	ListActiveDueBefore(ctx context.Context, t time.Time) ([]LoanRequest, error)

	// ListActiveDueBetween returns active loans with from < nextPaymentDue <= to.
	// Used by the reminder pass.
	ListActiveDueBetween(ctx context.Context, from, to time.Time) ([]LoanRequest, error)
}
