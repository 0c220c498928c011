package mysql

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gorm.io/gorm"

	domain "github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/user"
)

func makeAccount(wallet string) *domain.Account {
	return &domain.Account{
		WalletAddress: wallet,
		Name:          "Test Borrower",
		Email:         "borrower@example.com",
		Phone:         "+911234567890",
		EmailVerified: true,
		PhoneVerified: true,
		CreditScore:   500,
	}
}

func TestUser_CreateAndGetByWallet(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeAccount(testBorrower)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByWallet(ctx, testBorrower)
	if err != nil {
		t.Fatalf("GetByWallet: %v", err)
	}
	if got.WalletAddress != testBorrower || got.CreditScore != 500 {
		t.Errorf("unexpected account: %+v", got)
	}
}

func TestUser_DuplicateWallet(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeAccount(testBorrower)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := repo.Create(ctx, makeAccount(testBorrower))
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("err = %v, want ErrDuplicatedKey", err)
	}
}

func TestUser_ApplyDelta(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeAccount(testBorrower)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := repo.ApplyDelta(ctx, testBorrower, domain.Delta{
		TotalBorrowed: 2.5,
		ActiveLoans:   1,
	})
	if err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	err = repo.ApplyDelta(ctx, testBorrower, domain.Delta{
		TotalBorrowed:  -1.0,
		ActiveLoans:    -1,
		CompletedLoans: 1,
		OnTimePayments: 1,
	})
	if err != nil {
		t.Fatalf("ApplyDelta 2: %v", err)
	}

	got, err := repo.GetByWallet(ctx, testBorrower)
	if err != nil {
		t.Fatalf("GetByWallet: %v", err)
	}
	if got.TotalBorrowed != 1.5 || got.ActiveLoans != 0 || got.CompletedLoans != 1 || got.OnTimePayments != 1 {
		t.Errorf("counters wrong after deltas: %+v", got)
	}
}

func TestUser_ApplyDelta_SetDefaulterIsSticky(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeAccount(testBorrower)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.ApplyDelta(ctx, testBorrower, domain.Delta{DefaultedLoans: 1, SetDefaulter: true}); err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	// later positive events never clear the flag
	if err := repo.ApplyDelta(ctx, testBorrower, domain.Delta{CompletedLoans: 1}); err != nil {
		t.Fatalf("ApplyDelta 2: %v", err)
	}

	got, _ := repo.GetByWallet(ctx, testBorrower)
	if !got.IsDefaulter {
		t.Fatalf("IsDefaulter must stay true")
	}
}

func TestUser_ApplyDelta_MissingWallet(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)

	err := repo.ApplyDelta(context.Background(), testLender, domain.Delta{ActiveLoans: 1})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestUser_ApplyDelta_ConcurrentIncrements(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeAccount(testBorrower)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.ApplyDelta(ctx, testBorrower, domain.Delta{OnTimePayments: 1})
		}()
	}
	wg.Wait()

	got, err := repo.GetByWallet(ctx, testBorrower)
	if err != nil {
		t.Fatalf("GetByWallet: %v", err)
	}
	if got.OnTimePayments != workers {
		t.Fatalf("OnTimePayments = %d, want %d (lost increments)", got.OnTimePayments, workers)
	}
}

func TestUser_UpdateScore(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeAccount(testBorrower)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.UpdateScore(ctx, testBorrower, 640); err != nil {
		t.Fatalf("UpdateScore: %v", err)
	}
	got, _ := repo.GetByWallet(ctx, testBorrower)
	if got.CreditScore != 640 {
		t.Fatalf("score = %d, want 640", got.CreditScore)
	}
}
