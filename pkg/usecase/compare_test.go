package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/secmon-lab/horai/pkg/domain/interfaces"
	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
	"github.com/secmon-lab/horai/pkg/repository/memory"
	"github.com/secmon-lab/horai/pkg/usecase"
)

// newCompareFixture builds a repo with a closed S2-2024 holding a frozen
// record for one risk, and an open S1-2025.
func newCompareFixture(t *testing.T, withPrevRecord bool) (interfaces.Repository, *model.Risk) {
	t.Helper()
	ctx := context.Background()
	repo := memory.New()

	risk, err := repo.Risk().Create(ctx, &model.Risk{
		Name:                 "third party outage",
		Qualitative:          true,
		Impact:               3,
		ControlEffectiveness: 2,
		Active:               true,
	})
	if err != nil {
		t.Fatalf("failed to create risk: %v", err)
	}

	previous, err := repo.Period().Create(ctx,
		model.NewPeriod(2024, model.SemesterTerm(2), time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("failed to create previous period: %v", err)
	}

	var records []*model.ProbabilityRecord
	if withPrevRecord {
		records = []*model.ProbabilityRecord{{
			RiskID:       risk.ID,
			PeriodKey:    "S2-2024",
			Probability:  ratingPtr(4),
			Provenance:   types.ProvenanceManual,
			Frozen:       true,
			FrozenImpact: ratingPtr(4),
		}}
	}
	if err := repo.ClosePeriod(ctx, previous.ID, records); err != nil {
		t.Fatalf("failed to close previous period: %v", err)
	}

	if _, err := repo.Period().Create(ctx,
		model.NewPeriod(2025, model.SemesterTerm(1), time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC))); err != nil {
		t.Fatalf("failed to create filter period: %v", err)
	}

	return repo, risk
}

func TestCompareComputesAttenuation(t *testing.T) {
	ctx := context.Background()
	repo, risk := newCompareFixture(t, true)
	uc := usecase.New(repo)

	// Current period: probability 2 over raw impact 3 scores Moderate;
	// previous frozen record scores Critical (4 x 4).
	_, err := uc.Resolve.WriteManual(ctx, risk.ID, "S1-2025", ratingPtr(2), "mitigations deployed")
	gt.NoError(t, err).Required()

	result, err := uc.Compare.Compare(ctx, "S1-2025", "S2-2024", types.ScoreModeBrute)
	gt.NoError(t, err).Required()

	gt.Bool(t, result.Available).True()
	gt.Value(t, result.FilterKey).Equal("S1-2025")
	gt.Value(t, result.ComparisonKey).Equal("S2-2024")
	gt.Value(t, len(result.Rows)).Equal(1)

	row := result.Rows[0]
	gt.Value(t, row.RiskID).Equal(risk.ID)
	gt.Value(t, row.PreviousLevel).Equal(types.LevelCritical)
	gt.Value(t, row.CurrentLevel).Equal(types.LevelModerate)
	gt.Value(t, row.AttenuationRate).Equal(75)
}

func TestCompareAcceptsTextualKeys(t *testing.T) {
	ctx := context.Background()
	repo, risk := newCompareFixture(t, true)
	uc := usecase.New(repo)

	_, err := uc.Resolve.WriteManual(ctx, risk.ID, "S1-2025", ratingPtr(2), "mitigations deployed")
	gt.NoError(t, err).Required()

	result, err := uc.Compare.Compare(ctx, "Semestre 1 2025", "2nd semester 2024", types.ScoreModeBrute)
	gt.NoError(t, err).Required()
	gt.Bool(t, result.Available).True()
	gt.Value(t, result.FilterKey).Equal("S1-2025")
	gt.Value(t, result.ComparisonKey).Equal("S2-2024")
}

func TestCompareUnavailable(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown filter period", func(t *testing.T) {
		repo, _ := newCompareFixture(t, true)
		uc := usecase.New(repo)

		result, err := uc.Compare.Compare(ctx, "S1-2030", "S2-2024", types.ScoreModeBrute)
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Available).False()
		gt.Value(t, result.FailedPrecondition).Equal("unknown filter period")
		gt.Value(t, len(result.Rows)).Equal(0)
	})

	t.Run("unknown comparison period", func(t *testing.T) {
		repo, _ := newCompareFixture(t, true)
		uc := usecase.New(repo)

		result, err := uc.Compare.Compare(ctx, "S1-2025", "S1-2020", types.ScoreModeBrute)
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Available).False()
		gt.Value(t, result.FailedPrecondition).Equal("unknown comparison period")
	})

	t.Run("comparison period must precede the filter period", func(t *testing.T) {
		repo, _ := newCompareFixture(t, true)
		uc := usecase.New(repo)

		result, err := uc.Compare.Compare(ctx, "S2-2024", "S1-2025", types.ScoreModeBrute)
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Available).False()
		gt.Value(t, result.FailedPrecondition).Equal("comparison period does not precede the filter period")

		// A period never precedes itself
		same, err := uc.Compare.Compare(ctx, "S1-2025", "S1-2025", types.ScoreModeBrute)
		gt.NoError(t, err).Required()
		gt.Bool(t, same.Available).False()
	})

	t.Run("no probability in the comparison period", func(t *testing.T) {
		repo, _ := newCompareFixture(t, false)
		uc := usecase.New(repo)

		result, err := uc.Compare.Compare(ctx, "S1-2025", "S2-2024", types.ScoreModeBrute)
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Available).False()
		gt.Value(t, result.FailedPrecondition).Equal("no risk resolves to a probability in the comparison period")
	})
}
