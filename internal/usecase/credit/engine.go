package credit

import (
	"context"
	"math"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/apperr"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/user"
)

const (
	baseScore = 500
	minScore  = 300
	maxScore  = 900
)

// Score is the deterministic function of the account counters. Given the
// same counters it always reproduces the same value, including the min/
// division semantics on totalLent.
func Score(a *user.Account) int {
	score := float64(baseScore)
	score += 20 * float64(a.CompletedLoans)
	score += 5 * float64(a.OnTimePayments)
	score += math.Min(a.TotalLent/10, 50)
	score -= 100 * float64(a.DefaultedLoans)
	score -= 10 * float64(a.LatePayments)
	if a.ActiveLoans > 3 {
		score -= 15 * float64(a.ActiveLoans-3)
	}
	score = math.Max(minScore, math.Min(maxScore, score))
	return int(math.Round(score))
}

// Rating maps a score onto its band; boundaries are inclusive at the lower
// edge of each band.
func Rating(score int) string {
	switch {
	case score >= 750:
		return "Excellent"
	case score >= 650:
		return "Good"
	case score >= 550:
		return "Fair"
	case score >= 450:
		return "Poor"
	default:
		return "Very Poor"
	}
}

// Event is a lifecycle fact that mutates exactly the stated counters.
// Each triggering transition applies its event exactly once; replays corrupt
// the score, so the lifecycle usecases fire these only inside the committed
// half of a guarded transition.
type Event int

const (
	EventOnTimePayment Event = iota + 1
	EventLatePayment
	EventCompletion
	EventDefault
)

func (e Event) delta() user.Delta {
	switch e {
	case EventOnTimePayment:
		return user.Delta{OnTimePayments: 1}
	case EventLatePayment:
		return user.Delta{LatePayments: 1}
	case EventCompletion:
		return user.Delta{CompletedLoans: 1, ActiveLoans: -1}
	case EventDefault:
		return user.Delta{DefaultedLoans: 1, ActiveLoans: -1, SetDefaulter: true}
	default:
		return user.Delta{}
	}
}

// ApplyEvent increments the counters for ev, then eagerly recomputes and
// persists the derived score. It takes the repository as an argument so the
// caller can pass a transaction-bound repo and keep the event inside the
// same commit as the status transition.
func ApplyEvent(ctx context.Context, r user.Repository, wallet string, ev Event) error {
	if err := r.ApplyDelta(ctx, wallet, ev.delta()); err != nil {
		return apperr.Persistence(err)
	}
	a, err := r.GetByWallet(ctx, wallet)
	if err != nil {
		return apperr.Persistence(err)
	}
	if err := r.UpdateScore(ctx, wallet, Score(a)); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}
