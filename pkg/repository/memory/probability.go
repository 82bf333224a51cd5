package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
)

type probabilityRepository struct {
	mu      sync.RWMutex
	records map[string]*model.ProbabilityRecord
}

func newProbabilityRepository() *probabilityRepository {
	return &probabilityRepository{
		records: make(map[string]*model.ProbabilityRecord),
	}
}

func recordKey(riskID types.RiskID, periodKey string) string {
	return string(riskID) + "|" + periodKey
}

func cloneRecord(r *model.ProbabilityRecord) *model.ProbabilityRecord {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Probability = cloneRating(r.Probability)
	cp.FrozenImpact = cloneRating(r.FrozenImpact)
	cp.FrozenControlEffectiveness = cloneRating(r.FrozenControlEffectiveness)
	return &cp
}

func cloneRating(r *types.Rating) *types.Rating {
	if r == nil {
		return nil
	}
	v := *r
	return &v
}

func (r *probabilityRepository) Put(ctx context.Context, record *model.ProbabilityRecord) (*model.ProbabilityRecord, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := recordKey(record.RiskID, record.PeriodKey)
	if existing, ok := r.records[key]; ok && existing.Frozen {
		return nil, goerr.New("record is frozen",
			goerr.V("risk_id", record.RiskID), goerr.V("period_key", record.PeriodKey),
			goerr.T(types.ErrTagInvariant))
	}

	stored := cloneRecord(record)
	if stored.ID == "" {
		stored.ID = types.NewRecordID()
	}
	stored.UpdatedAt = time.Now().UTC()

	r.records[key] = stored
	return cloneRecord(stored), nil
}

func (r *probabilityRepository) Get(ctx context.Context, riskID types.RiskID, periodKey string) (*model.ProbabilityRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[recordKey(riskID, periodKey)]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "probability record not found",
			goerr.V("risk_id", riskID), goerr.V("period_key", periodKey))
	}
	return cloneRecord(record), nil
}

func (r *probabilityRepository) Delete(ctx context.Context, riskID types.RiskID, periodKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := recordKey(riskID, periodKey)
	record, exists := r.records[key]
	if !exists {
		return goerr.Wrap(ErrNotFound, "probability record not found",
			goerr.V("risk_id", riskID), goerr.V("period_key", periodKey))
	}
	if record.Frozen {
		return goerr.New("record is frozen",
			goerr.V("risk_id", riskID), goerr.V("period_key", periodKey),
			goerr.T(types.ErrTagInvariant))
	}

	delete(r.records, key)
	return nil
}

func (r *probabilityRepository) ListByPeriod(ctx context.Context, periodKey string) ([]*model.ProbabilityRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*model.ProbabilityRecord
	for _, record := range r.records {
		if record.PeriodKey == periodKey {
			records = append(records, cloneRecord(record))
		}
	}
	return records, nil
}
