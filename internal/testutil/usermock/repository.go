package usermock

import (
	"context"

	domain "github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/user"
)

// Repo is a function-backed mock that satisfies user.Repository.
// Fill in only the function fields a test needs.
type Repo struct {
	CreateFn      func(ctx context.Context, a *domain.Account) error
	GetByWalletFn func(ctx context.Context, wallet string) (*domain.Account, error)
	SaveFn        func(ctx context.Context, a *domain.Account) error
	ApplyDeltaFn  func(ctx context.Context, wallet string, d domain.Delta) error
	UpdateScoreFn func(ctx context.Context, wallet string, score int) error
}

func (m *Repo) Create(ctx context.Context, a *domain.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByWallet(ctx context.Context, wallet string) (*domain.Account, error) {
	if m.GetByWalletFn != nil {
		return m.GetByWalletFn(ctx, wallet)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, a *domain.Account) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}

func (m *Repo) ApplyDelta(ctx context.Context, wallet string, d domain.Delta) error {
	if m.ApplyDeltaFn != nil {
		return m.ApplyDeltaFn(ctx, wallet, d)
	}
	return nil
}

func (m *Repo) UpdateScore(ctx context.Context, wallet string, score int) error {
	if m.UpdateScoreFn != nil {
		return m.UpdateScoreFn(ctx, wallet, score)
	}
	return nil
}

var _ domain.Repository = (*Repo)(nil)

// InMemory is a map-backed repository for flows that need real read-after-
// write behavior (counter deltas followed by score recompute).
type InMemory struct {
	Accounts map[string]*domain.Account
}

func NewInMemory() *InMemory { return &InMemory{Accounts: map[string]*domain.Account{}} }

func (m *InMemory) Create(_ context.Context, a *domain.Account) error {
	cp := *a
	m.Accounts[a.WalletAddress] = &cp
	return nil
}

func (m *InMemory) GetByWallet(_ context.Context, wallet string) (*domain.Account, error) {
	a, ok := m.Accounts[wallet]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *InMemory) Save(_ context.Context, a *domain.Account) error {
	cp := *a
	m.Accounts[a.WalletAddress] = &cp
	return nil
}

func (m *InMemory) ApplyDelta(_ context.Context, wallet string, d domain.Delta) error {
	a, ok := m.Accounts[wallet]
	if !ok {
		return domain.ErrNotFound
	}
	a.TotalBorrowed += d.TotalBorrowed
	a.TotalLent += d.TotalLent
	a.ActiveLoans += d.ActiveLoans
	a.CompletedLoans += d.CompletedLoans
	a.DefaultedLoans += d.DefaultedLoans
	a.OnTimePayments += d.OnTimePayments
	a.LatePayments += d.LatePayments
	if d.SetDefaulter {
		a.IsDefaulter = true
	}
	return nil
}

func (m *InMemory) UpdateScore(_ context.Context, wallet string, score int) error {
	a, ok := m.Accounts[wallet]
	if !ok {
		return domain.ErrNotFound
	}
	a.CreditScore = score
	return nil
}

var _ domain.Repository = (*InMemory)(nil)
