package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
)

type occurrenceRepository struct {
	mu          sync.RWMutex
	occurrences map[string]*model.IndicatorOccurrence
}

func newOccurrenceRepository() *occurrenceRepository {
	return &occurrenceRepository{
		occurrences: make(map[string]*model.IndicatorOccurrence),
	}
}

func occurrenceKey(indicatorID types.IndicatorID, periodKey string) string {
	return string(indicatorID) + "|" + periodKey
}

func cloneOccurrence(o *model.IndicatorOccurrence) *model.IndicatorOccurrence {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Value = cloneFloat(o.Value)
	return &cp
}

func (r *occurrenceRepository) Put(ctx context.Context, occurrence *model.IndicatorOccurrence) error {
	if err := occurrence.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneOccurrence(occurrence)
	if stored.CapturedAt.IsZero() {
		stored.CapturedAt = time.Now().UTC()
	}
	r.occurrences[occurrenceKey(stored.IndicatorID, stored.PeriodKey)] = stored
	return nil
}

func (r *occurrenceRepository) Get(ctx context.Context, indicatorID types.IndicatorID, periodKey string) (*model.IndicatorOccurrence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	occ, exists := r.occurrences[occurrenceKey(indicatorID, periodKey)]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "occurrence not found",
			goerr.V("indicator_id", indicatorID), goerr.V("period_key", periodKey))
	}
	return cloneOccurrence(occ), nil
}

func (r *occurrenceRepository) ListByPeriod(ctx context.Context, periodKey string) ([]*model.IndicatorOccurrence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var occurrences []*model.IndicatorOccurrence
	for _, occ := range r.occurrences {
		if occ.PeriodKey == periodKey {
			occurrences = append(occurrences, cloneOccurrence(occ))
		}
	}
	return occurrences, nil
}
