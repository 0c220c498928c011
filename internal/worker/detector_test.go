package worker

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/loanrequest"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/user"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/testutil/settlementmock"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/testutil/uowmock"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/usecase/lend"
)

const (
	borrowerWallet = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	lenderWallet   = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type captureNotifier struct {
	mu     sync.Mutex
	emails []string
	sms    []string
}

func (n *captureNotifier) SendEmail(_ context.Context, to, _, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, to)
	return nil
}

func (n *captureNotifier) SendSMS(_ context.Context, to, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sms = append(n.sms, to)
	return nil
}

func newDetectorFixture() (*uowmock.Fake, *settlementmock.Gateway, *captureNotifier, *Detector) {
	fake := uowmock.NewFake()
	gw := &settlementmock.Gateway{}
	clock := func() time.Time { return fixedNow }
	lendUC := lend.NewUsecase(fake, fake.Loans, gw).WithClock(clock)
	n := &captureNotifier{}
	d := NewDetector(fake.Loans, fake.Users, lendUC, n, time.Hour).WithClock(clock)
	fake.Users.Accounts[borrowerWallet] = &user.Account{
		WalletAddress: borrowerWallet,
		Email:         "borrower@example.com",
		Phone:         "+911234567890",
		ActiveLoans:   1,
	}
	return fake, gw, n, d
}

func seedActive(fake *uowmock.Fake, requestID string, due time.Time) *loanrequest.LoanRequest {
	extID := int64(7)
	lw := lenderWallet
	start := fixedNow.Add(-30 * 24 * time.Hour)
	l := &loanrequest.LoanRequest{
		ID:                1,
		RequestID:         requestID,
		BorrowerWallet:    borrowerWallet,
		Amount:            1.0,
		DurationDays:      100,
		TotalInstallments: 10,
		InstallmentAmount: 0.11,
		PaidInstallments:  2,
		Status:            loanrequest.StatusActive,
		LenderWallet:      &lw,
		ExternalLoanID:    &extID,
		StartDate:         &start,
		NextPaymentDue:    &due,
	}
	fake.Loans.Loans[requestID] = l
	return l
}

func TestSweep_DefaultsOverdueLoan(t *testing.T) {
	fake, gw, _, d := newDetectorFixture()
	reqID := strings.Repeat("a", 32)
	seedActive(fake, reqID, fixedNow.Add(-lend.GracePeriod-time.Hour))

	d.Sweep(context.Background())

	if gw.DefaultCalls.Load() != 1 {
		t.Fatalf("MarkAsDefault calls = %d, want 1", gw.DefaultCalls.Load())
	}
	if fake.Loans.Loans[reqID].Status != loanrequest.StatusDefaulted {
		t.Fatalf("status = %q, want defaulted", fake.Loans.Loans[reqID].Status)
	}
	if !fake.Users.Accounts[borrowerWallet].IsDefaulter {
		t.Fatalf("borrower must be flagged defaulter")
	}
}

func TestSweep_LeavesLoanInsideGraceAlone(t *testing.T) {
	fake, gw, _, d := newDetectorFixture()
	reqID := strings.Repeat("b", 32)
	// overdue but the grace period has not run out
	seedActive(fake, reqID, fixedNow.Add(-lend.GracePeriod).Add(time.Minute))

	d.Sweep(context.Background())

	if gw.DefaultCalls.Load() != 0 {
		t.Fatalf("loan inside grace must not default, calls=%d", gw.DefaultCalls.Load())
	}
	if fake.Loans.Loans[reqID].Status != loanrequest.StatusActive {
		t.Fatalf("status = %q, want active", fake.Loans.Loans[reqID].Status)
	}
}

func TestSweep_SecondRunIsIdempotent(t *testing.T) {
	fake, gw, _, d := newDetectorFixture()
	reqID := strings.Repeat("c", 32)
	seedActive(fake, reqID, fixedNow.Add(-lend.GracePeriod-time.Hour))

	d.Sweep(context.Background())
	d.Sweep(context.Background())

	if gw.DefaultCalls.Load() != 1 {
		t.Fatalf("repeat sweep must not re-default, calls=%d", gw.DefaultCalls.Load())
	}
	if got := fake.Users.Accounts[borrowerWallet].DefaultedLoans; got != 1 {
		t.Fatalf("DefaultedLoans = %d, want exactly 1", got)
	}
}

func TestSweep_RemindsUpcomingDueDates(t *testing.T) {
	fake, gw, n, d := newDetectorFixture()
	reqID := strings.Repeat("d", 32)
	seedActive(fake, reqID, fixedNow.Add(24*time.Hour))

	d.Sweep(context.Background())

	if gw.DefaultCalls.Load() != 0 {
		t.Fatalf("reminder pass must not default anything")
	}
	if len(n.emails) != 1 || n.emails[0] != "borrower@example.com" {
		t.Fatalf("emails = %v, want one to the borrower", n.emails)
	}
	if len(n.sms) != 1 {
		t.Fatalf("sms = %v, want one to the borrower", n.sms)
	}
	// reminders never mutate the loan
	l := fake.Loans.Loans[reqID]
	if l.Status != loanrequest.StatusActive || l.PaidInstallments != 2 {
		t.Fatalf("reminder pass mutated the loan: %+v", l)
	}
}

func TestSweep_DueBeyondWindowNotReminded(t *testing.T) {
	fake, _, n, d := newDetectorFixture()
	reqID := strings.Repeat("e", 32)
	seedActive(fake, reqID, fixedNow.Add(4*24*time.Hour))

	d.Sweep(context.Background())

	if len(n.emails) != 0 || len(n.sms) != 0 {
		t.Fatalf("due date beyond the window must not notify: emails=%v sms=%v", n.emails, n.sms)
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	_, _, _, d := newDetectorFixture()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}
