package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/horai/pkg/domain/interfaces"
	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
)

// OccurrenceUseCase records per-period indicator measurements. Occurrences
// are only writable while their period is open; closing archives them.
type OccurrenceUseCase struct {
	repo    interfaces.Repository
	resolve *ResolveUseCase
	clock   func() time.Time
}

func NewOccurrenceUseCase(repo interfaces.Repository, resolve *ResolveUseCase, clock func() time.Time) *OccurrenceUseCase {
	return &OccurrenceUseCase{
		repo:    repo,
		resolve: resolve,
		clock:   clock,
	}
}

// Record stores the measured value of an indicator for a period. A nil
// value records that the measurement was attempted but nothing was
// obtained.
func (uc *OccurrenceUseCase) Record(ctx context.Context, indicatorID types.IndicatorID, rawKey string, value *float64) (*model.IndicatorOccurrence, error) {
	if _, err := uc.repo.Indicator().Get(ctx, indicatorID); err != nil {
		return nil, goerr.Wrap(err, "failed to get indicator", goerr.V("indicator_id", indicatorID))
	}

	period, key, err := uc.resolve.lookupPeriod(ctx, rawKey)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return nil, goerr.New("unknown period",
			goerr.V(PeriodKeyKey, rawKey), goerr.T(types.ErrTagValidation))
	}
	if period.IsClosed() {
		return nil, goerr.New("cannot record occurrence on a closed period",
			goerr.V(PeriodKeyKey, key), goerr.T(types.ErrTagInvariant))
	}

	occurrence := &model.IndicatorOccurrence{
		IndicatorID: indicatorID,
		PeriodKey:   key,
		Value:       value,
		CapturedAt:  uc.clock(),
	}
	if err := uc.repo.Occurrence().Put(ctx, occurrence); err != nil {
		return nil, err
	}
	return occurrence, nil
}

// ListByPeriod returns the occurrences recorded for a period key
func (uc *OccurrenceUseCase) ListByPeriod(ctx context.Context, rawKey string) ([]*model.IndicatorOccurrence, error) {
	_, key, err := uc.resolve.lookupPeriod(ctx, rawKey)
	if err != nil {
		return nil, err
	}
	return uc.repo.Occurrence().ListByPeriod(ctx, key)
}
