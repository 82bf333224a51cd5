// Package memory provides an in-memory repository backend for development
// and tests. Semantics mirror the firestore backend, including the atomic
// period close.
package memory

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/horai/pkg/domain/interfaces"
	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
)

type Memory struct {
	period      *periodRepository
	risk        *riskRepository
	indicator   *indicatorRepository
	occurrence  *occurrenceRepository
	probability *probabilityRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		period:      newPeriodRepository(),
		risk:        newRiskRepository(),
		indicator:   newIndicatorRepository(),
		occurrence:  newOccurrenceRepository(),
		probability: newProbabilityRepository(),
	}
}

func (m *Memory) Period() interfaces.PeriodRepository {
	return m.period
}

func (m *Memory) Risk() interfaces.RiskRepository {
	return m.risk
}

func (m *Memory) Indicator() interfaces.IndicatorRepository {
	return m.indicator
}

func (m *Memory) Occurrence() interfaces.OccurrenceRepository {
	return m.occurrence
}

func (m *Memory) Probability() interfaces.ProbabilityRepository {
	return m.probability
}

// ClosePeriod freezes the given records, archives the period's occurrences
// and flips the period to closed under every store lock at once, so no
// reader or concurrent write can observe a half-closed period.
func (m *Memory) ClosePeriod(ctx context.Context, periodID types.PeriodID, records []*model.ProbabilityRecord) error {
	m.period.mu.Lock()
	defer m.period.mu.Unlock()
	m.probability.mu.Lock()
	defer m.probability.mu.Unlock()
	m.occurrence.mu.Lock()
	defer m.occurrence.mu.Unlock()

	period, exists := m.period.periods[periodID]
	if !exists {
		return goerr.Wrap(ErrNotFound, "period not found", goerr.V("id", periodID))
	}
	if period.IsClosed() {
		return goerr.New("period is already closed",
			goerr.V("id", periodID), goerr.T(types.ErrTagInvariant))
	}

	// Validate everything before mutating anything.
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return goerr.Wrap(err, "invalid snapshot record", goerr.T(types.ErrTagTransaction))
		}
	}

	now := time.Now().UTC()
	for _, record := range records {
		stored := cloneRecord(record)
		if stored.ID == "" {
			stored.ID = types.NewRecordID()
		}
		stored.Frozen = true
		stored.UpdatedAt = now
		m.probability.records[recordKey(stored.RiskID, stored.PeriodKey)] = stored
	}

	key := period.Key()
	for _, occ := range m.occurrence.occurrences {
		if occ.PeriodKey == key {
			occ.Archived = true
		}
	}

	period.Status = types.PeriodStatusClosed
	period.ClosedAt = now
	period.UpdatedAt = now

	return nil
}

func (m *Memory) Close() error {
	return nil
}
