// Package scheduler owns the session's loan collection and keeps it ranked by
// priority. The ranking is derived state: it is rebuilt in full from the loan
// collection after every mutation rather than maintained incrementally, which
// keeps ordering trivially correct at the loan counts a session holds.
package scheduler

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"loan-scheduler/internal/model"
	"loan-scheduler/internal/scoring"
	"loan-scheduler/pkg/mathutil"
)

// Reportable conditions. All of these are locally recoverable; none leave the
// loan collection partially updated.
var (
	// ErrNoLoans indicates an operation against an empty loan collection.
	ErrNoLoans = errors.New("no loans in session")

	// ErrAllSettled indicates every loan is already at or below the
	// settlement threshold.
	ErrAllSettled = errors.New("all loans settled")

	// ErrInvalidAmount indicates a non-positive payment amount.
	ErrInvalidAmount = errors.New("payment amount must be positive")

	// ErrNoOp indicates a simulation of zero days.
	ErrNoOp = errors.New("no days to simulate")
)

// RankedLoan pairs a loan snapshot with its priority score. Ranked views are
// read-only projections; mutations always go through the master collection.
type RankedLoan struct {
	Loan  model.Loan
	Score float64
}

// PaymentStep records one sub-payment made during allocation.
type PaymentStep struct {
	LoanName           string
	AmountPaid         float64
	RemainingPrincipal float64
}

// PaymentResult is the trace of a full allocation pass.
type PaymentResult struct {
	Steps    []PaymentStep
	Leftover float64
}

// Scheduler ranks a session's loans by priority and reallocates payments in
// priority order. It is not safe for concurrent use; callers that serve
// multiple goroutines must serialize access.
type Scheduler struct {
	logger        *zap.Logger
	inflationRate float64
	loans         []model.Loan
}

// New creates a Scheduler with the given session inflation rate. If logger is
// nil, it will use a no-op logger to prevent panics.
func New(logger *zap.Logger, inflationRate float64) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		logger:        logger,
		inflationRate: inflationRate,
	}
}

// InflationRate returns the session inflation rate the scheduler was built with.
func (s *Scheduler) InflationRate() float64 {
	return s.inflationRate
}

// Loans returns a copy of the master loan collection in insertion order.
func (s *Scheduler) Loans() []model.Loan {
	loans := make([]model.Loan, len(s.loans))
	copy(loans, s.loans)
	return loans
}

// AddLoan appends a loan to the session. Ids are assigned by the caller and
// must be unique; the scheduler rejects reuse to protect the ranking's
// tie-break and payment write-back, both of which key on id.
func (s *Scheduler) AddLoan(loan model.Loan) error {
	if err := loan.Validate(); err != nil {
		return err
	}
	for _, existing := range s.loans {
		if existing.ID == loan.ID {
			return fmt.Errorf("loan id %d already in use by %s", loan.ID, existing.Name)
		}
	}

	s.loans = append(s.loans, loan)
	s.logger.Debug(fmt.Sprintf("added loan %s with principal %.2f due in %d days", loan.Name, loan.Principal, loan.DaysUntilDue),
		zap.String("op", "scheduler.AddLoan"),
		zap.Int("id", loan.ID),
	)
	return nil
}

// rebuildRanking recomputes scores for every loan and returns them in
// descending score order. Equal scores break ties on ascending id so a
// rebuild is deterministic.
func (s *Scheduler) rebuildRanking() []RankedLoan {
	ranking := make([]RankedLoan, 0, len(s.loans))
	for _, loan := range s.loans {
		ranking = append(ranking, RankedLoan{
			Loan:  loan,
			Score: scoring.ComputePriority(loan, s.inflationRate),
		})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Score == ranking[j].Score {
			return ranking[i].Loan.ID < ranking[j].Loan.ID
		}
		return ranking[i].Score > ranking[j].Score
	})
	return ranking
}

// DisplayPriorities rebuilds the ranking and returns all active loans in
// descending priority order. Returns ErrNoLoans for an empty session and
// ErrAllSettled when every loan is repaid, so callers can phrase the two
// cases differently.
func (s *Scheduler) DisplayPriorities() ([]RankedLoan, error) {
	if len(s.loans) == 0 {
		return nil, ErrNoLoans
	}

	var active []RankedLoan
	for _, entry := range s.rebuildRanking() {
		if entry.Loan.Settled() {
			continue
		}
		active = append(active, entry)
	}
	if len(active) == 0 {
		return nil, ErrAllSettled
	}
	return active, nil
}

// AllocatePayment distributes amount across loans greedily in priority order.
// After every sub-payment the full ranking is rebuilt, since paying a loan
// down changes its own score and can reorder it against the rest. Any cash
// remaining once every loan is settled is reported as leftover.
func (s *Scheduler) AllocatePayment(amount float64) (*PaymentResult, error) {
	if len(s.loans) == 0 {
		return nil, ErrNoLoans
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if s.activeCount() == 0 {
		return nil, ErrAllSettled
	}

	result := &PaymentResult{}
	remaining := amount
	for remaining > 0 {
		ranking := s.rebuildRanking()
		top := ranking[0]
		if top.Loan.Settled() {
			// Settled loans sort last, so a settled head means nothing is
			// left to pay.
			break
		}

		pay := mathutil.Min(remaining, top.Loan.Principal)
		remaining -= pay
		updated := s.applyPayment(top.Loan.ID, pay)

		result.Steps = append(result.Steps, PaymentStep{
			LoanName:           top.Loan.Name,
			AmountPaid:         pay,
			RemainingPrincipal: updated,
		})
		s.logger.Debug(fmt.Sprintf("paid %.2f to %s, remaining principal %.2f", pay, top.Loan.Name, updated),
			zap.String("op", "scheduler.AllocatePayment"),
			zap.Int("id", top.Loan.ID),
		)
	}

	result.Leftover = remaining
	if remaining > 0 {
		s.logger.Info(fmt.Sprintf("leftover cash %.2f after settling all loans", remaining),
			zap.String("op", "scheduler.AllocatePayment"),
		)
	}
	return result, nil
}

// SimulateDays shifts every loan's due date by days (negative days push due
// dates further out) and returns the refreshed ranking. Zero days is a
// reported no-op, not an error in the fatal sense.
func (s *Scheduler) SimulateDays(days int) ([]RankedLoan, error) {
	if days == 0 {
		return nil, ErrNoOp
	}

	for i := range s.loans {
		s.loans[i].DaysUntilDue -= days
	}
	s.logger.Debug(fmt.Sprintf("simulated %d days across %d loans", days, len(s.loans)),
		zap.String("op", "scheduler.SimulateDays"),
	)

	return s.DisplayPriorities()
}

// activeCount returns how many loans still carry principal.
func (s *Scheduler) activeCount() int {
	count := 0
	for _, loan := range s.loans {
		if !loan.Settled() {
			count++
		}
	}
	return count
}

// applyPayment writes a payment back into the master collection and returns
// the loan's updated principal. Principal never drops below zero because
// payments are capped at the outstanding principal.
func (s *Scheduler) applyPayment(id int, pay float64) float64 {
	for i := range s.loans {
		if s.loans[i].ID == id {
			s.loans[i].Principal -= pay
			if s.loans[i].Principal < 0 {
				s.loans[i].Principal = 0
			}
			return s.loans[i].Principal
		}
	}
	return 0
}
