package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
)

type indicatorRepository struct {
	mu         sync.RWMutex
	indicators map[types.IndicatorID]*model.Indicator
}

func newIndicatorRepository() *indicatorRepository {
	return &indicatorRepository{
		indicators: make(map[types.IndicatorID]*model.Indicator),
	}
}

func cloneIndicator(i *model.Indicator) *model.Indicator {
	if i == nil {
		return nil
	}
	cp := *i
	cp.Threshold1 = cloneFloat(i.Threshold1)
	cp.Threshold2 = cloneFloat(i.Threshold2)
	cp.Threshold3 = cloneFloat(i.Threshold3)
	return &cp
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func (r *indicatorRepository) Create(ctx context.Context, indicator *model.Indicator) (*model.Indicator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := cloneIndicator(indicator)
	if created.ID == "" {
		created.ID = types.IndicatorID(uuid.New().String())
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.indicators[created.ID] = created
	return cloneIndicator(created), nil
}

func (r *indicatorRepository) Get(ctx context.Context, id types.IndicatorID) (*model.Indicator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indicator, exists := r.indicators[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "indicator not found", goerr.V("id", id))
	}
	return cloneIndicator(indicator), nil
}

func (r *indicatorRepository) List(ctx context.Context) ([]*model.Indicator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indicators := make([]*model.Indicator, 0, len(r.indicators))
	for _, indicator := range r.indicators {
		indicators = append(indicators, cloneIndicator(indicator))
	}
	return indicators, nil
}

func (r *indicatorRepository) Update(ctx context.Context, indicator *model.Indicator) (*model.Indicator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.indicators[indicator.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "indicator not found", goerr.V("id", indicator.ID))
	}

	updated := cloneIndicator(indicator)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.indicators[updated.ID] = updated
	return cloneIndicator(updated), nil
}
