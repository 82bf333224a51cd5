package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
	"github.com/secmon-lab/horai/pkg/repository/memory"
	"github.com/secmon-lab/horai/pkg/service/docstore"
	"github.com/secmon-lab/horai/pkg/usecase"
)

func completeChecklist() model.ClosingChecklist {
	return model.ClosingChecklist{
		DocumentAttached:    true,
		DataImmutable:       true,
		EditsNotRetroactive: true,
		OccurrencesArchived: true,
	}
}

func TestClosingBlockedByUnevaluatedRisk(t *testing.T) {
	ctx := context.Background()
	repo, risk, _, period := newQuantitativeFixture(t)
	uc := usecase.New(repo, usecase.WithDocumentStore(docstore.NewMemory()))

	// No probability for the risk: the verification scan must block.
	state, err := uc.Closing.Begin(ctx, period.ID)
	gt.NoError(t, err).Required()

	gt.Value(t, state.Phase).Equal(types.ClosingPhaseBlocked)
	gt.Value(t, state.Blocking).Equal([]types.RiskID{risk.ID})

	_, err = uc.Closing.Confirm(ctx, period.ID, completeChecklist(),
		"closing.pdf", strings.NewReader("signed"))
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, types.ErrTagPrecondition)).True()
}

func TestClosingWarnsWithoutMeasurement(t *testing.T) {
	ctx := context.Background()
	repo, risk, _, period := newQuantitativeFixture(t)
	uc := usecase.New(repo, usecase.WithDocumentStore(docstore.NewMemory()))

	// Manual probability without a measured occurrence: warn, don't block.
	_, err := uc.Resolve.WriteManual(ctx, risk.ID, "S1-2025", ratingPtr(2), "estimated without telemetry")
	gt.NoError(t, err).Required()

	state, err := uc.Closing.Begin(ctx, period.ID)
	gt.NoError(t, err).Required()

	gt.Value(t, state.Phase).Equal(types.ClosingPhaseConfirming)
	gt.Value(t, len(state.Blocking)).Equal(0)
	gt.Value(t, state.Warnings).Equal([]types.RiskID{risk.ID})
}

func TestClosingConfirmFlow(t *testing.T) {
	ctx := context.Background()
	repo, risk, indicator, period := newQuantitativeFixture(t)

	docs := docstore.NewMemory()
	uc := usecase.New(repo, usecase.WithDocumentStore(docs))

	gt.NoError(t, repo.Occurrence().Put(ctx, &model.IndicatorOccurrence{
		IndicatorID: indicator.ID,
		PeriodKey:   "S1-2025",
		Value:       floatPtr(120),
	})).Required()

	state, err := uc.Closing.Begin(ctx, period.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, state.Phase).Equal(types.ClosingPhaseConfirming)

	t.Run("incomplete checklist is rejected", func(t *testing.T) {
		checklist := completeChecklist()
		checklist.DataImmutable = false
		_, err := uc.Closing.Confirm(ctx, period.ID, checklist,
			"closing.pdf", strings.NewReader("signed"))
		gt.Error(t, err)
		gt.Bool(t, goerr.HasTag(err, types.ErrTagValidation)).True()
	})

	t.Run("document is required", func(t *testing.T) {
		_, err := uc.Closing.Confirm(ctx, period.ID, completeChecklist(), "", nil)
		gt.Error(t, err)
		gt.Bool(t, goerr.HasTag(err, types.ErrTagValidation)).True()
	})

	final, err := uc.Closing.Confirm(ctx, period.ID, completeChecklist(),
		"closing.pdf", strings.NewReader("signed"))
	gt.NoError(t, err).Required()

	gt.Value(t, final.Phase).Equal(types.ClosingPhaseClosed)
	gt.Bool(t, strings.HasPrefix(final.DocumentRef, "mem://")).True()

	closed, err := repo.Period().Get(ctx, period.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, closed.IsClosed()).True()

	record, err := repo.Probability().Get(ctx, risk.ID, "S1-2025")
	gt.NoError(t, err).Required()
	gt.Bool(t, record.Frozen).True()
	gt.Value(t, *record.Probability).Equal(types.Rating(3))
	gt.Value(t, record.Provenance).Equal(types.ProvenanceIndicator)
	gt.Bool(t, record.IndicatorObtained).True()
	gt.Value(t, *record.FrozenImpact).Equal(types.Rating(3))

	occ, err := repo.Occurrence().Get(ctx, indicator.ID, "S1-2025")
	gt.NoError(t, err).Required()
	gt.Bool(t, occ.Archived).True()

	t.Run("Begin rejects a closed period", func(t *testing.T) {
		_, err := uc.Closing.Begin(ctx, period.ID)
		gt.Error(t, err)
		gt.Bool(t, goerr.HasTag(err, types.ErrTagInvariant)).True()
	})
}

func TestClosingCancel(t *testing.T) {
	ctx := context.Background()
	repo, risk, _, period := newQuantitativeFixture(t)
	uc := usecase.New(repo, usecase.WithDocumentStore(docstore.NewMemory()))

	_, err := uc.Resolve.WriteManual(ctx, risk.ID, "S1-2025", ratingPtr(2), "estimate")
	gt.NoError(t, err).Required()

	_, err = uc.Closing.Begin(ctx, period.ID)
	gt.NoError(t, err).Required()

	gt.NoError(t, uc.Closing.Cancel(ctx, period.ID)).Required()

	// The session is gone and the period is untouched
	_, err = uc.Closing.Status(ctx, period.ID)
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, types.ErrTagNotFound)).True()

	still, err := repo.Period().Get(ctx, period.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, still.IsOpen()).True()

	t.Run("Cancel without a session fails", func(t *testing.T) {
		err := uc.Closing.Cancel(ctx, period.ID)
		gt.Error(t, err)
	})
}

func TestClosingStatusForClosedPeriod(t *testing.T) {
	ctx := context.Background()
	repo, _, _, period := newQuantitativeFixture(t)

	gt.NoError(t, repo.ClosePeriod(ctx, period.ID, nil)).Required()

	// A fresh use case has no session; status still reports the terminal
	// phase for a closed period.
	uc := usecase.New(repo)
	state, err := uc.Closing.Status(ctx, period.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, state.Phase).Equal(types.ClosingPhaseClosed)
	gt.Bool(t, state.UpdatedAt.IsZero()).False()
}

func TestPeriodOpenRejectsFutureEndDate(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	uc := usecase.New(repo, usecase.WithClock(fixedClock(
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))))

	// S1-2025 ends 2025-06-30, after the clock: rejected
	_, err := uc.Period.Open(ctx, 2025, model.SemesterTerm(1),
		time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC))
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, types.ErrTagValidation)).True()

	// S2-2024 ended 2024-12-31: accepted
	period, err := uc.Period.Open(ctx, 2024, model.SemesterTerm(2),
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	gt.NoError(t, err).Required()
	gt.Value(t, period.Key()).Equal("S2-2024")
	gt.Bool(t, period.IsOpen()).True()
}
