package loanrequestmock

import (
	"context"
	"sort"
	"time"

	domain "github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/loanrequest"
)

// Repo is a function-backed mock satisfying loanrequest.Repository.
type Repo struct {
	CreateFn                  func(ctx context.Context, l *domain.LoanRequest) error
	SaveFn                    func(ctx context.Context, l *domain.LoanRequest) error
	GetByRequestIDFn          func(ctx context.Context, requestID string) (*domain.LoanRequest, error)
	GetByRequestIDForUpdateFn func(ctx context.Context, requestID string) (*domain.LoanRequest, error)
	ListByStatusFn            func(ctx context.Context, s domain.Status) ([]domain.LoanRequest, error)
	ListByBorrowerFn          func(ctx context.Context, wallet string) ([]domain.LoanRequest, error)
	ListByLenderFn            func(ctx context.Context, wallet string) ([]domain.LoanRequest, error)
	ListActiveDueBeforeFn     func(ctx context.Context, t time.Time) ([]domain.LoanRequest, error)
	ListActiveDueBetweenFn    func(ctx context.Context, from, to time.Time) ([]domain.LoanRequest, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.LoanRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.LoanRequest) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByRequestID(ctx context.Context, requestID string) (*domain.LoanRequest, error) {
	if m.GetByRequestIDFn != nil {
		return m.GetByRequestIDFn(ctx, requestID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*domain.LoanRequest, error) {
	if m.GetByRequestIDForUpdateFn != nil {
		return m.GetByRequestIDForUpdateFn(ctx, requestID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByStatus(ctx context.Context, s domain.Status) ([]domain.LoanRequest, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, s)
	}
	return nil, nil
}

func (m *Repo) ListByBorrower(ctx context.Context, wallet string) ([]domain.LoanRequest, error) {
	if m.ListByBorrowerFn != nil {
		return m.ListByBorrowerFn(ctx, wallet)
	}
	return nil, nil
}

func (m *Repo) ListByLender(ctx context.Context, wallet string) ([]domain.LoanRequest, error) {
	if m.ListByLenderFn != nil {
		return m.ListByLenderFn(ctx, wallet)
	}
	return nil, nil
}

func (m *Repo) ListActiveDueBefore(ctx context.Context, t time.Time) ([]domain.LoanRequest, error) {
	if m.ListActiveDueBeforeFn != nil {
		return m.ListActiveDueBeforeFn(ctx, t)
	}
	return nil, nil
}

func (m *Repo) ListActiveDueBetween(ctx context.Context, from, to time.Time) ([]domain.LoanRequest, error) {
	if m.ListActiveDueBetweenFn != nil {
		return m.ListActiveDueBetweenFn(ctx, from, to)
	}
	return nil, nil
}

var _ domain.Repository = (*Repo)(nil)

// InMemory is a map-backed loan request store used by the fake unit of work.
type InMemory struct {
	Loans  map[string]*domain.LoanRequest
	nextID uint64
}

func NewInMemory() *InMemory { return &InMemory{Loans: map[string]*domain.LoanRequest{}} }

func (m *InMemory) Create(_ context.Context, l *domain.LoanRequest) error {
	m.nextID++
	l.ID = m.nextID
	cp := *l
	m.Loans[l.RequestID] = &cp
	return nil
}

func (m *InMemory) Save(_ context.Context, l *domain.LoanRequest) error {
	cp := *l
	m.Loans[l.RequestID] = &cp
	return nil
}

func (m *InMemory) GetByRequestID(_ context.Context, requestID string) (*domain.LoanRequest, error) {
	l, ok := m.Loans[requestID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *InMemory) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*domain.LoanRequest, error) {
	return m.GetByRequestID(ctx, requestID)
}

func (m *InMemory) list(filter func(*domain.LoanRequest) bool) []domain.LoanRequest {
	var out []domain.LoanRequest
	for _, l := range m.Loans {
		if filter(l) {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *InMemory) ListByStatus(_ context.Context, s domain.Status) ([]domain.LoanRequest, error) {
	return m.list(func(l *domain.LoanRequest) bool { return l.Status == s }), nil
}

func (m *InMemory) ListByBorrower(_ context.Context, wallet string) ([]domain.LoanRequest, error) {
	return m.list(func(l *domain.LoanRequest) bool { return l.BorrowerWallet == wallet }), nil
}

func (m *InMemory) ListByLender(_ context.Context, wallet string) ([]domain.LoanRequest, error) {
	return m.list(func(l *domain.LoanRequest) bool {
		return l.LenderWallet != nil && *l.LenderWallet == wallet
	}), nil
}

func (m *InMemory) ListActiveDueBefore(_ context.Context, t time.Time) ([]domain.LoanRequest, error) {
	return m.list(func(l *domain.LoanRequest) bool {
		return l.Status == domain.StatusActive && l.NextPaymentDue != nil && l.NextPaymentDue.Before(t)
	}), nil
}

func (m *InMemory) ListActiveDueBetween(_ context.Context, from, to time.Time) ([]domain.LoanRequest, error) {
	return m.list(func(l *domain.LoanRequest) bool {
		if l.Status != domain.StatusActive || l.NextPaymentDue == nil {
			return false
		}
		due := *l.NextPaymentDue
		return due.After(from) && !due.After(to)
	}), nil
}

var _ domain.Repository = (*InMemory)(nil)
