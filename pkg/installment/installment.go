// Package installment holds the pure schedule arithmetic shared by the
// registry, the payment flow and the default detector. No side effects.
package installment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Breakdown struct {
	InstallmentAmount float64 `json:"installment_amount"`
	TotalRepayment    float64 `json:"total_repayment"`
	TotalInterest     float64 `json:"total_interest"`
}

// Calculate derives the per-installment amount for a principal with a flat
// interest rate in basis points (10,000 = 100%). All three figures are
// rounded to 6 decimal places.
func Calculate(principal float64, interestBps int, totalInstallments int) Breakdown {
	p := decimal.NewFromFloat(principal)
	interest := p.Mul(decimal.NewFromInt(int64(interestBps))).Div(decimal.NewFromInt(10000))
	total := p.Add(interest)
	per := total.Div(decimal.NewFromInt(int64(totalInstallments)))
	return Breakdown{
		InstallmentAmount: per.Round(6).InexactFloat64(),
		TotalRepayment:    total.Round(6).InexactFloat64(),
		TotalInterest:     total.Sub(p).Round(6).InexactFloat64(),
	}
}

// Interval is the spacing between due dates: duration in days spread evenly
// (in milliseconds) across the installments.
func Interval(durationDays, totalInstallments int) time.Duration {
	totalMs := int64(durationDays) * 86_400_000
	return time.Duration(totalMs/int64(totalInstallments)) * time.Millisecond
}

// DueDate returns the due date of the n-th installment (1-based).
func DueDate(start time.Time, durationDays, totalInstallments, n int) time.Time {
	return start.Add(Interval(durationDays, totalInstallments) * time.Duration(n))
}

type EntryStatus string

const (
	EntryPaid    EntryStatus = "paid"
	EntryOverdue EntryStatus = "overdue"
	EntryPending EntryStatus = "pending"
)

type Entry struct {
	Number  int         `json:"number"`
	Amount  float64     `json:"amount"`
	DueDate time.Time   `json:"due_date"`
	IsPaid  bool        `json:"is_paid"`
	Status  EntryStatus `json:"status"`
}

// Schedule is the recomputed-on-read projection of all installments; it is
// never persisted.
func Schedule(start time.Time, durationDays, totalInstallments, paidInstallments int, amount float64, now time.Time) []Entry {
	out := make([]Entry, 0, totalInstallments)
	for i := 0; i < totalInstallments; i++ {
		due := DueDate(start, durationDays, totalInstallments, i+1)
		e := Entry{Number: i + 1, Amount: amount, DueDate: due}
		switch {
		case i < paidInstallments:
			e.IsPaid = true
			e.Status = EntryPaid
		case now.After(due):
			e.Status = EntryOverdue
		default:
			e.Status = EntryPending
		}
		out = append(out, e)
	}
	return out
}
