package mysql

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	domain "github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/transaction"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/pkg/id"
)

func makeRecord(loanID uint64, txHash string) *domain.Record {
	return &domain.Record{
		RecordID:    id.NewID32(),
		LoanID:      loanID,
		Type:        domain.TypeInstallment,
		FromWallet:  testBorrower,
		ToWallet:    testLender,
		Amount:      0.11,
		TxHash:      txHash,
		BlockNumber: 42,
		Status:      domain.TxConfirmed,
	}
}

func txHash(fill string) string { return "0x" + strings.Repeat(fill, 64) }

func TestTransaction_CreateAndGetByTxHash(t *testing.T) {
	db := openTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	rec := makeRecord(1, txHash("a"))
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByTxHash(ctx, txHash("a"))
	if err != nil {
		t.Fatalf("GetByTxHash: %v", err)
	}
	if got.RecordID != rec.RecordID || got.Type != domain.TypeInstallment || got.Amount != 0.11 {
		t.Errorf("unexpected record: %+v", got)
	}
}

// The tx hash unique index is the replay guard: a settlement confirmation
// delivered twice must surface as ErrDuplicatedKey, not a second row.
func TestTransaction_DuplicateTxHash(t *testing.T) {
	db := openTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeRecord(1, txHash("b"))); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := repo.Create(ctx, makeRecord(1, txHash("b")))
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("err = %v, want ErrDuplicatedKey", err)
	}

	var count int64
	db.Model(&transactionSQLite{}).Count(&count)
	if count != 1 {
		t.Fatalf("rows = %d, want 1 after replay", count)
	}
}

func TestTransaction_ListByLoanID_OrderedOldestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	first := makeRecord(7, txHash("c"))
	first.Type = domain.TypeDisbursement
	second := makeRecord(7, txHash("d"))
	other := makeRecord(8, txHash("e"))

	for _, r := range []*domain.Record{first, second, other} {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.ListByLoanID(ctx, 7)
	if err != nil {
		t.Fatalf("ListByLoanID: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("records = %d, want 2", len(got))
	}
	if got[0].Type != domain.TypeDisbursement || got[1].TxHash != txHash("d") {
		t.Errorf("order wrong: %+v", got)
	}
}

func TestTransaction_InstallmentNumberRoundTrips(t *testing.T) {
	db := openTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	n := 4
	rec := makeRecord(1, txHash("f"))
	rec.InstallmentNumber = &n
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByTxHash(ctx, txHash("f"))
	if err != nil {
		t.Fatalf("GetByTxHash: %v", err)
	}
	if got.InstallmentNumber == nil || *got.InstallmentNumber != 4 {
		t.Fatalf("installment number = %v, want 4", got.InstallmentNumber)
	}
}
