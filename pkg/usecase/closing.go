package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/secmon-lab/horai/pkg/domain/interfaces"
	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
	"github.com/secmon-lab/horai/pkg/utils/logging"
)

// verifyConcurrency bounds the fan-out of the closing verification scan
const verifyConcurrency = 8

// ClosingUseCase drives the period closing workflow: Verifying ->
// {Blocked, Confirming} -> Archiving -> Closed. Sessions are short-lived
// and in-memory; abandoning one before archiving has no side effects.
type ClosingUseCase struct {
	repo    interfaces.Repository
	docs    interfaces.DocumentStore
	resolve *ResolveUseCase
	clock   func() time.Time

	mu       sync.Mutex
	sessions map[types.PeriodID]*model.ClosingState
}

func NewClosingUseCase(repo interfaces.Repository, docs interfaces.DocumentStore, resolve *ResolveUseCase, clock func() time.Time) *ClosingUseCase {
	return &ClosingUseCase{
		repo:     repo,
		docs:     docs,
		resolve:  resolve,
		clock:    clock,
		sessions: make(map[types.PeriodID]*model.ClosingState),
	}
}

func cloneState(s *model.ClosingState) *model.ClosingState {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Blocking = append([]types.RiskID(nil), s.Blocking...)
	cp.Warnings = append([]types.RiskID(nil), s.Warnings...)
	return &cp
}

// Begin starts (or restarts) a closing session for the given open period
// and runs the verification scan. Risks that are entirely unevaluated
// block the close; risks whose linked indicator has no measured occurrence
// only warn.
func (uc *ClosingUseCase) Begin(ctx context.Context, periodID types.PeriodID) (*model.ClosingState, error) {
	period, err := uc.repo.Period().Get(ctx, periodID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get period", goerr.V(PeriodIDKey, periodID))
	}
	if period.IsClosed() {
		return nil, goerr.New("period is already closed",
			goerr.V(PeriodIDKey, periodID), goerr.T(types.ErrTagInvariant))
	}

	risks, err := uc.repo.Risk().ListActive(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list active risks")
	}

	key := period.Key()
	var mu sync.Mutex
	var blocking, warnings []types.RiskID

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(verifyConcurrency)
	for _, risk := range risks {
		eg.Go(func() error {
			res, err := uc.resolve.Resolve(egCtx, risk.ID, key)
			if err != nil {
				return err
			}

			blocked := !risk.IsEvaluated() || !res.HasProbability
			warned := false
			if !risk.Qualitative {
				occ, err := uc.repo.Occurrence().Get(egCtx, risk.IndicatorID, key)
				if err != nil && !isNotFound(err) {
					return err
				}
				warned = !occ.HasValue()
			}

			mu.Lock()
			defer mu.Unlock()
			if blocked {
				blocking = append(blocking, risk.ID)
			} else if warned {
				warnings = append(warnings, risk.ID)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, goerr.Wrap(err, "closing verification scan failed", goerr.V(PeriodIDKey, periodID))
	}

	sort.Slice(blocking, func(i, j int) bool { return blocking[i] < blocking[j] })
	sort.Slice(warnings, func(i, j int) bool { return warnings[i] < warnings[j] })

	now := uc.clock()
	state := &model.ClosingState{
		PeriodID:  periodID,
		Phase:     types.ClosingPhaseConfirming,
		Blocking:  blocking,
		Warnings:  warnings,
		StartedAt: now,
		UpdatedAt: now,
	}
	if len(blocking) > 0 {
		state.Phase = types.ClosingPhaseBlocked
	}

	uc.mu.Lock()
	uc.sessions[periodID] = state
	uc.mu.Unlock()

	logging.From(ctx).Info("Closing verification completed",
		"period_id", periodID, "phase", state.Phase,
		"blocking", len(blocking), "warnings", len(warnings))

	return cloneState(state), nil
}

// Status returns the state of the closing session for a period. A closed
// period with no live session reports the terminal phase.
func (uc *ClosingUseCase) Status(ctx context.Context, periodID types.PeriodID) (*model.ClosingState, error) {
	uc.mu.Lock()
	state, ok := uc.sessions[periodID]
	uc.mu.Unlock()
	if ok {
		return cloneState(state), nil
	}

	period, err := uc.repo.Period().Get(ctx, periodID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get period", goerr.V(PeriodIDKey, periodID))
	}
	if period.IsClosed() {
		return &model.ClosingState{
			PeriodID:  periodID,
			Phase:     types.ClosingPhaseClosed,
			UpdatedAt: period.ClosedAt,
		}, nil
	}

	return nil, goerr.Wrap(ErrClosingNotStarted, "no closing session for period",
		goerr.V(PeriodIDKey, periodID), goerr.T(types.ErrTagNotFound))
}

// Cancel abandons a session before archiving begins. It has no side
// effects: the period stays open and no record is touched.
func (uc *ClosingUseCase) Cancel(ctx context.Context, periodID types.PeriodID) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	state, ok := uc.sessions[periodID]
	if !ok {
		return goerr.Wrap(ErrClosingNotStarted, "no closing session for period",
			goerr.V(PeriodIDKey, periodID), goerr.T(types.ErrTagNotFound))
	}
	if state.Phase == types.ClosingPhaseArchiving || state.Phase == types.ClosingPhaseClosed {
		return goerr.New("closing can no longer be cancelled",
			goerr.V(PeriodIDKey, periodID), goerr.V("phase", state.Phase),
			goerr.T(types.ErrTagInvariant))
	}

	delete(uc.sessions, periodID)
	return nil
}

// Confirm accepts the operator checklist and the signed supporting
// document, then runs the atomic archival transaction. On transaction
// failure the session returns to Confirming and the call is safe to retry.
func (uc *ClosingUseCase) Confirm(ctx context.Context, periodID types.PeriodID, checklist model.ClosingChecklist, filename string, document io.Reader) (*model.ClosingState, error) {
	uc.mu.Lock()
	state, ok := uc.sessions[periodID]
	if !ok {
		uc.mu.Unlock()
		return nil, goerr.Wrap(ErrClosingNotStarted, "no closing session for period",
			goerr.V(PeriodIDKey, periodID), goerr.T(types.ErrTagNotFound))
	}
	if state.Phase == types.ClosingPhaseBlocked {
		blocking := append([]types.RiskID(nil), state.Blocking...)
		uc.mu.Unlock()
		return nil, goerr.New("closing is blocked by unevaluated risks",
			goerr.V(PeriodIDKey, periodID), goerr.V("blocking", blocking),
			goerr.T(types.ErrTagPrecondition))
	}
	if !state.CanConfirm() {
		uc.mu.Unlock()
		return nil, goerr.New("closing session cannot be confirmed",
			goerr.V(PeriodIDKey, periodID), goerr.V("phase", state.Phase),
			goerr.T(types.ErrTagInvariant))
	}
	uc.mu.Unlock()

	if err := checklist.Validate(); err != nil {
		return nil, err
	}
	if document == nil {
		return nil, goerr.New("signed supporting document is required",
			goerr.V(PeriodIDKey, periodID), goerr.T(types.ErrTagValidation))
	}

	docRef := ""
	if uc.docs != nil {
		ref, err := uc.docs.Put(ctx, periodID, filename, document)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to store closing document",
				goerr.V(PeriodIDKey, periodID))
		}
		docRef = ref
	}

	uc.setPhase(periodID, types.ClosingPhaseArchiving, docRef)

	records, err := uc.buildSnapshots(ctx, periodID)
	if err != nil {
		uc.setPhase(periodID, types.ClosingPhaseConfirming, docRef)
		return nil, err
	}

	if err := uc.repo.ClosePeriod(ctx, periodID, records); err != nil {
		// The transaction rolled back: the period is still open and no
		// snapshot was written. Returning to Confirming makes the call
		// retryable.
		uc.setPhase(periodID, types.ClosingPhaseConfirming, docRef)
		return nil, goerr.Wrap(err, "archival transaction failed", goerr.V(PeriodIDKey, periodID))
	}

	uc.setPhase(periodID, types.ClosingPhaseClosed, docRef)

	logging.From(ctx).Info("Period closed",
		"period_id", periodID, "records", len(records), "document", docRef)

	uc.mu.Lock()
	state = uc.sessions[periodID]
	uc.mu.Unlock()
	return cloneState(state), nil
}

func (uc *ClosingUseCase) setPhase(periodID types.PeriodID, phase types.ClosingPhase, docRef string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if state, ok := uc.sessions[periodID]; ok {
		state.Phase = phase
		state.UpdatedAt = uc.clock()
		if docRef != "" {
			state.DocumentRef = docRef
		}
	}
}

// buildSnapshots resolves every active risk against the period and turns
// the result into frozen probability records.
func (uc *ClosingUseCase) buildSnapshots(ctx context.Context, periodID types.PeriodID) ([]*model.ProbabilityRecord, error) {
	period, err := uc.repo.Period().Get(ctx, periodID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get period", goerr.V(PeriodIDKey, periodID))
	}

	risks, err := uc.repo.Risk().ListActive(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list active risks")
	}

	key := period.Key()
	records := make([]*model.ProbabilityRecord, 0, len(risks))
	for _, risk := range risks {
		res, err := uc.resolve.Resolve(ctx, risk.ID, key)
		if err != nil {
			return nil, err
		}

		record := &model.ProbabilityRecord{
			RiskID:            risk.ID,
			PeriodKey:         key,
			Frozen:            true,
			IndicatorObtained: res.Provenance == types.ProvenanceIndicator,
		}
		impact := risk.Impact
		control := risk.ControlEffectiveness
		record.FrozenImpact = &impact
		record.FrozenControlEffectiveness = &control
		if res.HasProbability {
			probability := res.Probability
			record.Probability = &probability
			record.Provenance = res.Provenance
		}

		// Carry the operator's justification into the snapshot when one
		// was entered.
		if existing, err := uc.repo.Probability().Get(ctx, risk.ID, key); err == nil {
			record.ID = existing.ID
			record.Justification = existing.Justification
		} else if !isNotFound(err) {
			return nil, err
		}

		records = append(records, record)
	}
	return records, nil
}
