package interfaces

import (
	"context"

	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
)

// Repository defines the interface for data persistence
type Repository interface {
	Period() PeriodRepository
	Risk() RiskRepository
	Indicator() IndicatorRepository
	Occurrence() OccurrenceRepository
	Probability() ProbabilityRepository

	// ClosePeriod atomically freezes the given probability records, marks
	// the period's indicator occurrences as archived, and flips the period
	// status to closed. Partial completion is not a valid outcome: any
	// failure leaves the period open and the records untouched.
	ClosePeriod(ctx context.Context, periodID types.PeriodID, records []*model.ProbabilityRecord) error

	Close() error
}

// PeriodRepository persists evaluation periods
type PeriodRepository interface {
	// Create stores a new open period. It rejects the write when another
	// open period exists or a closed period already covers the same
	// year/term; both checks run inside the same transaction as the write.
	Create(ctx context.Context, period *model.Period) (*model.Period, error)
	Get(ctx context.Context, id types.PeriodID) (*model.Period, error)
	GetByKey(ctx context.Context, key string) (*model.Period, error)
	List(ctx context.Context) ([]*model.Period, error)
	// GetOpen returns the single open period, or nil when none is open.
	GetOpen(ctx context.Context) (*model.Period, error)
	// GetMostRecent returns the period with the latest end date.
	GetMostRecent(ctx context.Context) (*model.Period, error)
}

// RiskRepository persists the risk catalog
type RiskRepository interface {
	Create(ctx context.Context, risk *model.Risk) (*model.Risk, error)
	Get(ctx context.Context, id types.RiskID) (*model.Risk, error)
	List(ctx context.Context) ([]*model.Risk, error)
	ListActive(ctx context.Context) ([]*model.Risk, error)
	Update(ctx context.Context, risk *model.Risk) (*model.Risk, error)
}

// IndicatorRepository persists the indicator catalog
type IndicatorRepository interface {
	Create(ctx context.Context, indicator *model.Indicator) (*model.Indicator, error)
	Get(ctx context.Context, id types.IndicatorID) (*model.Indicator, error)
	List(ctx context.Context) ([]*model.Indicator, error)
	Update(ctx context.Context, indicator *model.Indicator) (*model.Indicator, error)
}

// OccurrenceRepository persists per-period indicator measurements
type OccurrenceRepository interface {
	Put(ctx context.Context, occurrence *model.IndicatorOccurrence) error
	Get(ctx context.Context, indicatorID types.IndicatorID, periodKey string) (*model.IndicatorOccurrence, error)
	ListByPeriod(ctx context.Context, periodKey string) ([]*model.IndicatorOccurrence, error)
}

// ProbabilityRepository persists manual and frozen probability records
type ProbabilityRepository interface {
	Put(ctx context.Context, record *model.ProbabilityRecord) (*model.ProbabilityRecord, error)
	Get(ctx context.Context, riskID types.RiskID, periodKey string) (*model.ProbabilityRecord, error)
	Delete(ctx context.Context, riskID types.RiskID, periodKey string) error
	ListByPeriod(ctx context.Context, periodKey string) ([]*model.ProbabilityRecord, error)
}
