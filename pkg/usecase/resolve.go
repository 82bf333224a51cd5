package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/horai/pkg/domain/interfaces"
	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
	"github.com/secmon-lab/horai/pkg/service/criticality"
	"github.com/secmon-lab/horai/pkg/service/periodkey"
)

// ResolveUseCase answers "what is the authoritative probability of this
// risk for this period" by applying a strict precedence chain: frozen
// record on closed periods, then loaded archive snapshot, then computed
// indicator value, then manual record. Resolution is a pure read path and
// may run concurrently.
type ResolveUseCase struct {
	repo  interfaces.Repository
	codec *periodkey.Codec

	archiveMu sync.RWMutex
	archive   *model.ArchiveSnapshot
}

func NewResolveUseCase(repo interfaces.Repository, codec *periodkey.Codec) *ResolveUseCase {
	return &ResolveUseCase{
		repo:  repo,
		codec: codec,
	}
}

// LoadArchive activates an archive snapshot for the legacy inspection
// path; pass nil to deactivate.
func (uc *ResolveUseCase) LoadArchive(archive *model.ArchiveSnapshot) {
	uc.archiveMu.Lock()
	defer uc.archiveMu.Unlock()
	uc.archive = archive
}

func (uc *ResolveUseCase) activeArchive(periodKey string) *model.ArchiveSnapshot {
	uc.archiveMu.RLock()
	defer uc.archiveMu.RUnlock()
	if uc.archive != nil && uc.archive.PeriodKey == periodKey {
		return uc.archive
	}
	return nil
}

// isNotFound treats repository misses as absence, never as failure
func isNotFound(err error) bool {
	return goerr.HasTag(err, types.ErrTagNotFound)
}

// lookupPeriod finds the period for a raw key, accepting canonical keys,
// textual variants and opaque period identifiers. A miss returns (nil, nil).
func (uc *ResolveUseCase) lookupPeriod(ctx context.Context, rawKey string) (*model.Period, string, error) {
	key := periodkey.Normalize(rawKey)

	period, err := uc.repo.Period().GetByKey(ctx, key)
	if err == nil {
		return period, key, nil
	}
	if !isNotFound(err) {
		return nil, key, err
	}

	period, err = uc.repo.Period().Get(ctx, types.PeriodID(key))
	if err == nil {
		return period, period.Key(), nil
	}
	if !isNotFound(err) {
		return nil, key, err
	}

	return nil, key, nil
}

// Resolve returns the authoritative probability and its provenance for one
// (risk, period key) pair. Absence of a probability is a valid result;
// resolving against an unknown period key yields an empty resolution, not
// an error.
func (uc *ResolveUseCase) Resolve(ctx context.Context, riskID types.RiskID, rawKey string) (*model.Resolution, error) {
	risk, err := uc.repo.Risk().Get(ctx, riskID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V(RiskIDKey, riskID))
	}

	period, key, err := uc.lookupPeriod(ctx, rawKey)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return model.EmptyResolution(risk), nil
	}

	// A closed period answers from its frozen record alone. Indicators,
	// archives and any other table are never consulted.
	if period.IsClosed() {
		return uc.resolveClosed(ctx, risk, key)
	}

	return uc.resolveOpen(ctx, risk, key)
}

func (uc *ResolveUseCase) resolveClosed(ctx context.Context, risk *model.Risk, key string) (*model.Resolution, error) {
	record, err := uc.repo.Probability().Get(ctx, risk.ID, key)
	if err != nil {
		if isNotFound(err) {
			return model.EmptyResolution(risk), nil
		}
		return nil, err
	}

	res := &model.Resolution{
		Impact:               risk.Impact,
		ControlEffectiveness: risk.ControlEffectiveness,
	}
	if record.FrozenImpact != nil {
		res.Impact = *record.FrozenImpact
	}
	if record.FrozenControlEffectiveness != nil {
		res.ControlEffectiveness = *record.FrozenControlEffectiveness
	}
	if record.HasProbability() {
		res.Probability = *record.Probability
		res.HasProbability = true
		res.Provenance = record.Provenance
		if res.Provenance == "" {
			res.Provenance = types.ProvenanceManual
		}
	}
	return res, nil
}

func (uc *ResolveUseCase) resolveOpen(ctx context.Context, risk *model.Risk, key string) (*model.Resolution, error) {
	record, err := uc.repo.Probability().Get(ctx, risk.ID, key)
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	// Legacy inspection path: a loaded archive snapshot for this exact key
	// takes precedence over live indicator data, with a manual record
	// still winning over the archive.
	if archive := uc.activeArchive(key); archive != nil {
		if record.HasProbability() {
			return manualResolution(risk, record), nil
		}
		if entry, ok := archive.Lookup(risk.ID); ok && entry.Probability != nil {
			return &model.Resolution{
				Probability:          *entry.Probability,
				HasProbability:       true,
				Provenance:           types.ProvenanceArchive,
				Impact:               risk.Impact,
				ControlEffectiveness: risk.ControlEffectiveness,
				IndicatorValue:       entry.IndicatorValue,
			}, nil
		}
		return model.EmptyResolution(risk), nil
	}

	// Qualitative risks have no computed alternative.
	if risk.Qualitative {
		if record.HasProbability() {
			return manualResolution(risk, record), nil
		}
		return model.EmptyResolution(risk), nil
	}

	indicator, err := uc.repo.Indicator().Get(ctx, risk.IndicatorID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	var occurrence *model.IndicatorOccurrence
	if indicator != nil {
		occurrence, err = uc.repo.Occurrence().Get(ctx, indicator.ID, key)
		if err != nil && !isNotFound(err) {
			return nil, err
		}
	}

	// A measured value computed through usable thresholds wins; the manual
	// record is only a fallback when no value exists or the thresholds are
	// unusable.
	if occurrence.HasValue() {
		if probability, ok := indicator.ProbabilityFor(*occurrence.Value); ok {
			return &model.Resolution{
				Probability:          probability,
				HasProbability:       true,
				Provenance:           types.ProvenanceIndicator,
				Impact:               risk.Impact,
				ControlEffectiveness: risk.ControlEffectiveness,
				IndicatorValue:       occurrence.Value,
			}, nil
		}
	}

	if record.HasProbability() {
		res := manualResolution(risk, record)
		if occurrence.HasValue() {
			res.IndicatorValue = occurrence.Value
		}
		return res, nil
	}

	res := model.EmptyResolution(risk)
	if occurrence.HasValue() {
		res.IndicatorValue = occurrence.Value
	}
	return res, nil
}

func manualResolution(risk *model.Risk, record *model.ProbabilityRecord) *model.Resolution {
	return &model.Resolution{
		Probability:          *record.Probability,
		HasProbability:       true,
		Provenance:           types.ProvenanceManual,
		Impact:               risk.Impact,
		ControlEffectiveness: risk.ControlEffectiveness,
	}
}

// WriteManual sets or clears the manual probability for one (risk, period
// key) pair. Writes are only legal while the period is open, and for
// quantitative risks only when no measured indicator value exists for the
// period. Clearing removes the record entirely.
func (uc *ResolveUseCase) WriteManual(ctx context.Context, riskID types.RiskID, rawKey string, probability *types.Rating, justification string) (*model.ProbabilityRecord, error) {
	risk, err := uc.repo.Risk().Get(ctx, riskID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V(RiskIDKey, riskID))
	}

	period, key, err := uc.lookupPeriod(ctx, rawKey)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return nil, goerr.New("unknown period",
			goerr.V(PeriodKeyKey, rawKey), goerr.T(types.ErrTagValidation))
	}
	if period.IsClosed() {
		return nil, goerr.New("cannot write probability on a closed period",
			goerr.V(PeriodKeyKey, key), goerr.T(types.ErrTagInvariant))
	}

	if !risk.Qualitative {
		occurrence, err := uc.repo.Occurrence().Get(ctx, risk.IndicatorID, key)
		if err != nil && !isNotFound(err) {
			return nil, err
		}
		if occurrence.HasValue() {
			return nil, goerr.New("a measured indicator value exists for this period",
				goerr.V(RiskIDKey, riskID), goerr.V(PeriodKeyKey, key),
				goerr.T(types.ErrTagInvariant))
		}
	}

	if probability == nil {
		if err := uc.repo.Probability().Delete(ctx, riskID, key); err != nil && !isNotFound(err) {
			return nil, err
		}
		return nil, nil
	}

	if err := probability.Validate(); err != nil {
		return nil, err
	}
	if justification == "" {
		return nil, goerr.New("justification is required",
			goerr.V(RiskIDKey, riskID), goerr.V(PeriodKeyKey, key),
			goerr.T(types.ErrTagValidation))
	}

	record := &model.ProbabilityRecord{
		RiskID:        riskID,
		PeriodKey:     key,
		Probability:   probability,
		Provenance:    types.ProvenanceManual,
		Justification: justification,
	}
	return uc.repo.Probability().Put(ctx, record)
}

// Synthesis resolves every active risk against a period and derives its
// criticality. This is the projection all downstream views reduce to.
func (uc *ResolveUseCase) Synthesis(ctx context.Context, rawKey string, mode types.ScoreMode) ([]*model.SynthesisRow, error) {
	risks, err := uc.repo.Risk().ListActive(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list active risks")
	}

	rows := make([]*model.SynthesisRow, 0, len(risks))
	for _, risk := range risks {
		res, err := uc.Resolve(ctx, risk.ID, rawKey)
		if err != nil {
			return nil, err
		}
		rows = append(rows, &model.SynthesisRow{
			RiskID:     risk.ID,
			RiskName:   risk.Name,
			Resolution: *res,
			Criticality: criticality.Compute(
				res.Impact, res.ControlEffectiveness,
				res.Probability, res.HasProbability, mode),
		})
	}
	return rows, nil
}
