package borrow

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/apperr"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/loanrequest"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/transaction"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/user"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/gateway/settlement"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/testutil/settlementmock"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/testutil/uowmock"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/pkg/installment"
)

const (
	borrowerWallet = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	lenderWallet   = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	friendWallet   = "0xcccccccccccccccccccccccccccccccccccccccc"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func verifiedBorrower() *user.Account {
	return &user.Account{WalletAddress: borrowerWallet, EmailVerified: true, PhoneVerified: true}
}

func newFixture() (*uowmock.Fake, *settlementmock.Gateway, *Usecase) {
	fake := uowmock.NewFake()
	fake.Users.Accounts[borrowerWallet] = verifiedBorrower()
	gw := &settlementmock.Gateway{}
	uc := NewUsecase(fake, fake.Loans, fake.Transactions, gw).WithClock(func() time.Time { return fixedNow })
	return fake, gw, uc
}

func baseInput() CreateInput {
	return CreateInput{
		Amount:            1.0,
		DurationDays:      100,
		InterestBps:       1000,
		TotalInstallments: 10,
		CollateralType:    loanrequest.CollateralOwnETH,
	}
}

func TestCreate_OwnETH_LocksCollateralAndBumpsCounters(t *testing.T) {
	fake, gw, uc := newFixture()

	dto, err := uc.Create(context.Background(), verifiedBorrower(), baseInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.Status != string(loanrequest.StatusPending) {
		t.Fatalf("status = %q, want pending", dto.Status)
	}
	if dto.InstallmentAmount != 0.11 {
		t.Fatalf("installment = %v, want 0.11", dto.InstallmentAmount)
	}
	if gw.CreateCalls.Load() != 1 {
		t.Fatalf("CreateLoan calls = %d, want 1", gw.CreateCalls.Load())
	}

	l := fake.Loans.Loans[dto.RequestID]
	if l == nil || !l.CollateralLocked || l.ExternalLoanID == nil || l.CollateralTxHash == nil {
		t.Fatalf("persisted request incomplete: %+v", l)
	}
	if len(fake.Transactions.Records) != 1 || fake.Transactions.Records[0].Type != transaction.TypeCollateralLock {
		t.Fatalf("expected a collateral lock record, have %+v", fake.Transactions.Records)
	}

	b := fake.Users.Accounts[borrowerWallet]
	if b.ActiveLoans != 1 || b.TotalBorrowed != 1.0 {
		t.Fatalf("borrower counters = %+v", b)
	}
}

func TestCreate_FriendETH_NormalizesWallet(t *testing.T) {
	fake, _, uc := newFixture()

	in := baseInput()
	in.CollateralType = loanrequest.CollateralFriendETH
	in.FriendWallet = "0X" + strings.ToUpper(friendWallet[2:])

	dto, err := uc.Create(context.Background(), verifiedBorrower(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	l := fake.Loans.Loans[dto.RequestID]
	if l.FriendWallet == nil || *l.FriendWallet != friendWallet {
		t.Fatalf("friend wallet = %v, want normalized %s", l.FriendWallet, friendWallet)
	}
	if l.CollateralLocked {
		t.Fatalf("friend collateral is not locked at creation")
	}
}

func TestCreate_FriendETH_RequiresValidAddress(t *testing.T) {
	_, gw, uc := newFixture()

	in := baseInput()
	in.CollateralType = loanrequest.CollateralFriendETH
	in.FriendWallet = "not-an-address"

	if _, err := uc.Create(context.Background(), verifiedBorrower(), in); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
	if gw.CreateCalls.Load() != 0 {
		t.Fatalf("invalid input must not reach the gateway")
	}
}

func TestCreate_Physical_RequiresContacts(t *testing.T) {
	_, gw, uc := newFixture()

	in := baseInput()
	in.CollateralType = loanrequest.CollateralPhysical
	in.PhysicalContacts = "  short  "

	if _, err := uc.Create(context.Background(), verifiedBorrower(), in); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
	if gw.CreateCalls.Load() != 0 {
		t.Fatalf("invalid input must not reach the gateway")
	}
}

func TestCreate_InvalidCollateralType(t *testing.T) {
	_, _, uc := newFixture()

	in := baseInput()
	in.CollateralType = loanrequest.CollateralType("Gold")
	if _, err := uc.Create(context.Background(), verifiedBorrower(), in); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func seedActive(fake *uowmock.Fake, requestID string) *loanrequest.LoanRequest {
	extID := int64(7)
	lw := lenderWallet
	start := fixedNow.Add(-10 * 24 * time.Hour)
	due := fixedNow.Add(10 * 24 * time.Hour)
	l := &loanrequest.LoanRequest{
		ID:                1,
		RequestID:         requestID,
		BorrowerWallet:    borrowerWallet,
		Amount:            1.0,
		DurationDays:      100,
		InterestBps:       1000,
		TotalInstallments: 10,
		InstallmentAmount: 0.11,
		PaidInstallments:  1,
		Status:            loanrequest.StatusActive,
		LenderWallet:      &lw,
		ExternalLoanID:    &extID,
		StartDate:         &start,
		NextPaymentDue:    &due,
	}
	fake.Loans.Loans[requestID] = l
	return l
}

func TestSchedule_PartyOnly(t *testing.T) {
	fake, _, uc := newFixture()
	reqID := strings.Repeat("a", 32)
	seedActive(fake, reqID)

	if _, err := uc.Schedule(context.Background(), reqID, friendWallet); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("stranger err = %v, want forbidden", err)
	}

	dto, err := uc.Schedule(context.Background(), reqID, lenderWallet)
	if err != nil {
		t.Fatalf("Schedule for lender: %v", err)
	}
	if len(dto.Installments) != 10 {
		t.Fatalf("entries = %d, want 10", len(dto.Installments))
	}
	if dto.Installments[0].Status != installment.EntryPaid {
		t.Fatalf("first entry = %q, want paid", dto.Installments[0].Status)
	}
}

func TestSchedule_NotStarted(t *testing.T) {
	fake, _, uc := newFixture()
	reqID := strings.Repeat("b", 32)
	l := seedActive(fake, reqID)
	l.Status = loanrequest.StatusPending
	l.StartDate = nil

	if _, err := uc.Schedule(context.Background(), reqID, borrowerWallet); !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestTransactions_PartyOnly(t *testing.T) {
	fake, _, uc := newFixture()
	reqID := strings.Repeat("c", 32)
	l := seedActive(fake, reqID)
	_ = fake.Transactions.Create(context.Background(), &transaction.Record{
		RecordID: strings.Repeat("1", 32),
		LoanID:   l.ID,
		Type:     transaction.TypeDisbursement,
		TxHash:   "0x" + strings.Repeat("1", 64),
	})

	if _, err := uc.Transactions(context.Background(), reqID, friendWallet); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("stranger err = %v, want forbidden", err)
	}

	recs, err := uc.Transactions(context.Background(), reqID, borrowerWallet)
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
}

func TestListPending_FiltersByStatus(t *testing.T) {
	fake, _, uc := newFixture()
	reqA, reqB := strings.Repeat("d", 32), strings.Repeat("e", 32)
	seedActive(fake, reqA)
	fake.Loans.Loans[reqB] = &loanrequest.LoanRequest{
		ID: 2, RequestID: reqB, BorrowerWallet: borrowerWallet,
		Status: loanrequest.StatusPending, Amount: 2,
	}

	dtos, err := uc.ListPending(context.Background())
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(dtos) != 1 || dtos[0].RequestID != reqB {
		t.Fatalf("pending list = %+v, want only %s", dtos, reqB)
	}
}

func TestCreate_SettlementCallIsBounded(t *testing.T) {
	fake, gw, uc := newFixture()
	uc.WithSettlementTimeout(50 * time.Millisecond)

	// a gateway that only returns once its context is cancelled: without a
	// deadline the request handler would hang indefinitely
	gw.CreateLoanFn = func(ctx context.Context, _ settlement.CreateParams) (*settlement.CreateResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	errCh := make(chan error, 1)
	go func() {
		_, err := uc.Create(context.Background(), verifiedBorrower(), baseInput())
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if !apperr.IsKind(err, apperr.KindSettlement) {
			t.Fatalf("err = %v, want settlement kind", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Create still blocked long after the settlement deadline")
	}

	if len(fake.Loans.Loans) != 0 {
		t.Fatalf("no request may persist after a timed-out settlement, have %+v", fake.Loans.Loans)
	}
}
