package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
)

type periodRepository struct {
	mu      sync.RWMutex
	periods map[types.PeriodID]*model.Period
}

func newPeriodRepository() *periodRepository {
	return &periodRepository{
		periods: make(map[types.PeriodID]*model.Period),
	}
}

func clonePeriod(p *model.Period) *model.Period {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

func (r *periodRepository) Create(ctx context.Context, period *model.Period) (*model.Period, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Invariant checks run under the same lock as the write.
	for _, existing := range r.periods {
		if existing.IsOpen() {
			return nil, goerr.New("another period is already open",
				goerr.V("open_period", existing.Key()), goerr.T(types.ErrTagInvariant))
		}
		if existing.Key() == period.Key() {
			return nil, goerr.New("a closed period already exists for this year and term",
				goerr.V("key", period.Key()), goerr.T(types.ErrTagInvariant))
		}
	}

	now := time.Now().UTC()
	created := clonePeriod(period)
	if created.ID == "" {
		created.ID = types.NewPeriodID()
	}
	created.Status = types.PeriodStatusOpen
	created.CreatedAt = now
	created.UpdatedAt = now

	r.periods[created.ID] = created
	return clonePeriod(created), nil
}

func (r *periodRepository) Get(ctx context.Context, id types.PeriodID) (*model.Period, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	period, exists := r.periods[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "period not found", goerr.V("id", id))
	}
	return clonePeriod(period), nil
}

func (r *periodRepository) GetByKey(ctx context.Context, key string) (*model.Period, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, period := range r.periods {
		if period.Key() == key {
			return clonePeriod(period), nil
		}
	}
	return nil, goerr.Wrap(ErrNotFound, "period not found", goerr.V("key", key))
}

func (r *periodRepository) List(ctx context.Context) ([]*model.Period, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	periods := make([]*model.Period, 0, len(r.periods))
	for _, period := range r.periods {
		periods = append(periods, clonePeriod(period))
	}
	return periods, nil
}

func (r *periodRepository) GetOpen(ctx context.Context) (*model.Period, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, period := range r.periods {
		if period.IsOpen() {
			return clonePeriod(period), nil
		}
	}
	return nil, nil
}

func (r *periodRepository) GetMostRecent(ctx context.Context) (*model.Period, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var recent *model.Period
	for _, period := range r.periods {
		if recent == nil || period.EndDate().After(recent.EndDate()) {
			recent = period
		}
	}
	return clonePeriod(recent), nil
}
