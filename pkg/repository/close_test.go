package repository_test

import (
	"context"
	"testing"

	"github.com/secmon-lab/horai/pkg/domain/interfaces"
	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
	"github.com/secmon-lab/horai/pkg/repository/memory"
)

func runClosePeriodTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	value := func(v float64) *float64 { return &v }

	t.Run("Close freezes records, archives occurrences and flips status", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		period, err := repo.Period().Create(ctx,
			model.NewPeriod(2025, model.SemesterTerm(1), deadline(2025, 7, 15)))
		if err != nil {
			t.Fatalf("failed to create period: %v", err)
		}

		if err := repo.Occurrence().Put(ctx, &model.IndicatorOccurrence{
			IndicatorID: "ind-1",
			PeriodKey:   "S1-2025",
			Value:       value(120),
		}); err != nil {
			t.Fatalf("failed to put occurrence: %v", err)
		}

		records := []*model.ProbabilityRecord{{
			RiskID:                     "risk-1",
			PeriodKey:                  "S1-2025",
			Probability:                rating(3),
			Provenance:                 types.ProvenanceIndicator,
			Frozen:                     true,
			FrozenImpact:               rating(4),
			FrozenControlEffectiveness: rating(2),
			IndicatorObtained:          true,
		}}
		if err := repo.ClosePeriod(ctx, period.ID, records); err != nil {
			t.Fatalf("failed to close period: %v", err)
		}

		closed, err := repo.Period().Get(ctx, period.ID)
		if err != nil {
			t.Fatalf("failed to get period: %v", err)
		}
		if !closed.IsClosed() {
			t.Error("expected closed status")
		}
		if closed.ClosedAt.IsZero() {
			t.Error("expected non-zero ClosedAt")
		}

		frozen, err := repo.Probability().Get(ctx, "risk-1", "S1-2025")
		if err != nil {
			t.Fatalf("failed to get frozen record: %v", err)
		}
		if !frozen.Frozen {
			t.Error("expected frozen record")
		}
		if frozen.FrozenImpact == nil || *frozen.FrozenImpact != 4 {
			t.Errorf("expected frozen impact 4, got %v", frozen.FrozenImpact)
		}
		if !frozen.IndicatorObtained {
			t.Error("expected indicator-obtained flag")
		}

		occ, err := repo.Occurrence().Get(ctx, "ind-1", "S1-2025")
		if err != nil {
			t.Fatalf("failed to get occurrence: %v", err)
		}
		if !occ.Archived {
			t.Error("expected archived occurrence")
		}
	})

	t.Run("Close rejects an already closed period", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		period, err := repo.Period().Create(ctx,
			model.NewPeriod(2024, model.QuarterTerm(2), deadline(2024, 7, 15)))
		if err != nil {
			t.Fatalf("failed to create period: %v", err)
		}
		if err := repo.ClosePeriod(ctx, period.ID, nil); err != nil {
			t.Fatalf("failed to close period: %v", err)
		}

		if err := repo.ClosePeriod(ctx, period.ID, nil); err == nil {
			t.Fatal("expected error closing twice")
		}
	})

	t.Run("Close with an invalid record leaves everything untouched", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		period, err := repo.Period().Create(ctx,
			model.NewPeriod(2025, model.MonthTerm(3), deadline(2025, 4, 10)))
		if err != nil {
			t.Fatalf("failed to create period: %v", err)
		}

		records := []*model.ProbabilityRecord{
			{
				RiskID:      "risk-1",
				PeriodKey:   "M03-2025",
				Probability: rating(2),
				Frozen:      true,
			},
			{
				// Out-of-domain probability makes the whole batch invalid
				RiskID:      "risk-2",
				PeriodKey:   "M03-2025",
				Probability: rating(9),
				Frozen:      true,
			},
		}
		if err := repo.ClosePeriod(ctx, period.ID, records); err == nil {
			t.Fatal("expected error for invalid snapshot batch")
		}

		still, err := repo.Period().Get(ctx, period.ID)
		if err != nil {
			t.Fatalf("failed to get period: %v", err)
		}
		if !still.IsOpen() {
			t.Error("expected period to stay open after failed close")
		}
		if _, err := repo.Probability().Get(ctx, "risk-1", "M03-2025"); err == nil {
			t.Error("expected no record written after failed close")
		}
	})
}

func TestMemoryClosePeriod(t *testing.T) {
	runClosePeriodTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreClosePeriod(t *testing.T) {
	runClosePeriodTest(t, newFirestoreRepository)
}
