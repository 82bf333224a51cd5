package model

import (
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/horai/pkg/domain/types"
)

// Term is the sub-division of a calendar year covered by a period. It is a
// tagged value (kind + ordinal) rather than four nullable fields, so mutual
// exclusivity holds by construction: annual terms carry no ordinal, the
// others exactly one within their range.
type Term struct {
	Kind    types.TermKind
	Ordinal int
}

// AnnualTerm returns a term covering the whole calendar year
func AnnualTerm() Term {
	return Term{Kind: types.TermAnnual}
}

// SemesterTerm returns a term covering semester n (1-2)
func SemesterTerm(n int) Term {
	return Term{Kind: types.TermSemester, Ordinal: n}
}

// QuarterTerm returns a term covering quarter n (1-4)
func QuarterTerm(n int) Term {
	return Term{Kind: types.TermQuarter, Ordinal: n}
}

// MonthTerm returns a term covering month n (1-12)
func MonthTerm(n int) Term {
	return Term{Kind: types.TermMonth, Ordinal: n}
}

// Validate checks the kind and its ordinal range
func (t Term) Validate() error {
	if !t.Kind.IsValid() {
		return goerr.New("invalid term kind", goerr.V("kind", t.Kind), goerr.T(types.ErrTagValidation))
	}
	if t.Kind == types.TermAnnual {
		if t.Ordinal != 0 {
			return goerr.New("annual term must not carry an ordinal", goerr.V("ordinal", t.Ordinal), goerr.T(types.ErrTagValidation))
		}
		return nil
	}
	if t.Ordinal < 1 || t.Ordinal > t.Kind.MaxOrdinal() {
		return goerr.New("term ordinal out of range",
			goerr.V("kind", t.Kind),
			goerr.V("ordinal", t.Ordinal),
			goerr.V("max", t.Kind.MaxOrdinal()),
			goerr.T(types.ErrTagValidation))
	}
	return nil
}

// months returns the first month and the month span of the term
func (t Term) months() (time.Month, int) {
	switch t.Kind {
	case types.TermSemester:
		return time.Month((t.Ordinal-1)*6 + 1), 6
	case types.TermQuarter:
		return time.Month((t.Ordinal-1)*3 + 1), 3
	case types.TermMonth:
		return time.Month(t.Ordinal), 1
	default:
		return time.January, 12
	}
}

// StartDate returns the first calendar day of the term in the given year
func (t Term) StartDate(year int) time.Time {
	first, _ := t.months()
	return time.Date(year, first, 1, 0, 0, 0, 0, time.UTC)
}

// EndDate returns the last calendar day of the term in the given year
func (t Term) EndDate(year int) time.Time {
	first, span := t.months()
	return time.Date(year, first+time.Month(span), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

// Key returns the canonical period key for the term in the given year:
// "YYYY", "S1-YYYY", "T3-YYYY" or "M01-YYYY".
func (t Term) Key(year int) string {
	switch t.Kind {
	case types.TermSemester:
		return fmt.Sprintf("S%d-%d", t.Ordinal, year)
	case types.TermQuarter:
		return fmt.Sprintf("T%d-%d", t.Ordinal, year)
	case types.TermMonth:
		return fmt.Sprintf("M%02d-%d", t.Ordinal, year)
	default:
		return fmt.Sprintf("%d", year)
	}
}
