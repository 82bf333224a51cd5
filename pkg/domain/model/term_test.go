package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/secmon-lab/horai/pkg/domain/model"
)

func TestTermKeys(t *testing.T) {
	gt.Value(t, model.AnnualTerm().Key(2025)).Equal("2025")
	gt.Value(t, model.SemesterTerm(1).Key(2025)).Equal("S1-2025")
	gt.Value(t, model.SemesterTerm(2).Key(2025)).Equal("S2-2025")
	gt.Value(t, model.QuarterTerm(3).Key(2024)).Equal("T3-2024")
	gt.Value(t, model.MonthTerm(1).Key(2026)).Equal("M01-2026")
	gt.Value(t, model.MonthTerm(12).Key(2026)).Equal("M12-2026")
}

func TestTermDates(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		name  string
		term  model.Term
		year  int
		start time.Time
		end   time.Time
	}{
		{"annual", model.AnnualTerm(), 2025, day(2025, 1, 1), day(2025, 12, 31)},
		{"first semester", model.SemesterTerm(1), 2025, day(2025, 1, 1), day(2025, 6, 30)},
		{"second semester", model.SemesterTerm(2), 2025, day(2025, 7, 1), day(2025, 12, 31)},
		{"first quarter", model.QuarterTerm(1), 2024, day(2024, 1, 1), day(2024, 3, 31)},
		{"fourth quarter", model.QuarterTerm(4), 2024, day(2024, 10, 1), day(2024, 12, 31)},
		{"february leap year", model.MonthTerm(2), 2024, day(2024, 2, 1), day(2024, 2, 29)},
		{"february common year", model.MonthTerm(2), 2025, day(2025, 2, 1), day(2025, 2, 28)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Value(t, tc.term.StartDate(tc.year)).Equal(tc.start)
			gt.Value(t, tc.term.EndDate(tc.year)).Equal(tc.end)
		})
	}
}

func TestTermValidate(t *testing.T) {
	gt.NoError(t, model.AnnualTerm().Validate())
	gt.NoError(t, model.SemesterTerm(2).Validate())
	gt.NoError(t, model.QuarterTerm(4).Validate())
	gt.NoError(t, model.MonthTerm(12).Validate())

	gt.Error(t, model.SemesterTerm(3).Validate())
	gt.Error(t, model.QuarterTerm(0).Validate())
	gt.Error(t, model.MonthTerm(13).Validate())

	// Annual terms carry no ordinal
	gt.Error(t, model.Term{Kind: "ANNUAL", Ordinal: 1}.Validate())
}

func TestPeriodDerivedDates(t *testing.T) {
	deadline := time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC)
	period := model.NewPeriod(2024, model.QuarterTerm(3), deadline)

	gt.Value(t, period.Key()).Equal("T3-2024")
	gt.Value(t, period.StartDate()).Equal(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	gt.Value(t, period.EndDate()).Equal(time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC))
	gt.Bool(t, period.IsOpen()).True()
	gt.Bool(t, period.IsClosed()).False()
}
