// Package worker runs the background reconciliation passes. They share the
// guarded status transitions with the interactive flows, so a detector sweep
// racing a manual default leaves exactly one winner.
package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/apperr"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/loanrequest"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/user"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/gateway/notify"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/usecase/lend"
)

// reminderWindow is how far ahead of a due date the reminder pass notifies.
const reminderWindow = 3 * 24 * time.Hour

// Detector periodically converts silently-overdue loans to defaulted and
// sends payment reminders. Detection is lazy: an overdue loan may sit for up
// to one scan interval before it is caught.
type Detector struct {
	loans    loanrequest.Repository
	users    user.Repository
	lend     *lend.Usecase
	notifier notify.Notifier
	interval time.Duration
	now      func() time.Time
}

func NewDetector(loans loanrequest.Repository, users user.Repository, lendUC *lend.Usecase, notifier notify.Notifier, interval time.Duration) *Detector {
	return &Detector{
		loans:    loans,
		users:    users,
		lend:     lendUC,
		notifier: notifier,
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Test hook.
func (d *Detector) WithClock(now func() time.Time) *Detector { d.now = now; return d }

// Run blocks until ctx is cancelled, sweeping once per interval. An initial
// sweep fires immediately so a restart doesn't wait a full interval to catch
// up.
func (d *Detector) Run(ctx context.Context) {
	d.Sweep(ctx)
	t := time.NewTicker(d.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			d.Sweep(ctx)
		}
	}
}

// Sweep executes one default pass and one reminder pass.
func (d *Detector) Sweep(ctx context.Context) {
	if err := d.defaultPass(ctx); err != nil {
		log.Printf("detector: default pass: %v", err)
	}
	if err := d.reminderPass(ctx); err != nil {
		log.Printf("detector: reminder pass: %v", err)
	}
}

func (d *Detector) defaultPass(ctx context.Context) error {
	now := d.now()
	overdue, err := d.loans.ListActiveDueBefore(ctx, now.Add(-lend.GracePeriod))
	if err != nil {
		return fmt.Errorf("list overdue: %w", err)
	}
	for i := range overdue {
		l := &overdue[i]
		if l.PaidInstallments >= l.TotalInstallments {
			continue
		}
		err := d.lend.SweepDefault(ctx, l.RequestID)
		switch {
		case err == nil:
			log.Printf("detector: marked %s defaulted", l.RequestID)
		case apperr.IsKind(err, apperr.KindConflict):
			// lost the race to a manual markDefault or a concurrent payment
		default:
			log.Printf("detector: default %s: %v", l.RequestID, err)
		}
	}
	return nil
}

// reminderPass notifies each borrower whose next payment falls due within
// the window. No state is mutated; delivery failures are logged only.
func (d *Detector) reminderPass(ctx context.Context) error {
	now := d.now()
	upcoming, err := d.loans.ListActiveDueBetween(ctx, now, now.Add(reminderWindow))
	if err != nil {
		return fmt.Errorf("list upcoming: %w", err)
	}
	for i := range upcoming {
		l := &upcoming[i]
		a, err := d.users.GetByWallet(ctx, l.BorrowerWallet)
		if err != nil {
			log.Printf("detector: reminder %s: borrower lookup: %v", l.RequestID, err)
			continue
		}
		due := l.NextPaymentDue.Format(time.RFC1123)
		body := fmt.Sprintf("Installment of %.6f ETH for loan %s is due on %s.", l.InstallmentAmount, l.RequestID, due)
		if a.Email != "" {
			if err := d.notifier.SendEmail(ctx, a.Email, "Upcoming loan installment", body); err != nil {
				log.Printf("detector: reminder email %s: %v", l.RequestID, err)
			}
		}
		if a.Phone != "" {
			if err := d.notifier.SendSMS(ctx, a.Phone, body); err != nil {
				log.Printf("detector: reminder sms %s: %v", l.RequestID, err)
			}
		}
	}
	return nil
}
