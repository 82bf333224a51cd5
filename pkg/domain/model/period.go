package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/horai/pkg/domain/types"
)

// Period is a bounded evaluation window: a calendar year, optionally
// subdivided by a Term. Start and end dates are derived from year and term,
// never stored independently.
type Period struct {
	ID            types.PeriodID
	Year          int
	Term          Term
	InputDeadline time.Time
	Status        types.PeriodStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ClosedAt      time.Time
}

// NewPeriod builds an open period candidate for the given year and term
func NewPeriod(year int, term Term, inputDeadline time.Time) *Period {
	return &Period{
		ID:            types.NewPeriodID(),
		Year:          year,
		Term:          term,
		InputDeadline: inputDeadline,
		Status:        types.PeriodStatusOpen,
	}
}

// Validate checks the period attributes
func (p *Period) Validate() error {
	if err := p.ID.Validate(); err != nil {
		return err
	}
	if p.Year < 1900 || p.Year > 9999 {
		return goerr.New("period year out of range", goerr.V("year", p.Year), goerr.T(types.ErrTagValidation))
	}
	if err := p.Term.Validate(); err != nil {
		return err
	}
	if !p.Status.IsValid() {
		return goerr.New("invalid period status", goerr.V("status", p.Status), goerr.T(types.ErrTagValidation))
	}
	return nil
}

// Key returns the canonical period key ("2025", "S1-2025", ...)
func (p *Period) Key() string {
	return p.Term.Key(p.Year)
}

// StartDate returns the first calendar day covered by the period
func (p *Period) StartDate() time.Time {
	return p.Term.StartDate(p.Year)
}

// EndDate returns the last calendar day covered by the period
func (p *Period) EndDate() time.Time {
	return p.Term.EndDate(p.Year)
}

// IsOpen reports whether the period is still accepting evaluations
func (p *Period) IsOpen() bool {
	return p.Status == types.PeriodStatusOpen
}

// IsClosed reports whether the period has been irreversibly closed
func (p *Period) IsClosed() bool {
	return p.Status == types.PeriodStatusClosed
}
