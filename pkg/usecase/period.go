package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/horai/pkg/domain/interfaces"
	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
	"github.com/secmon-lab/horai/pkg/utils/logging"
)

type PeriodUseCase struct {
	repo  interfaces.Repository
	clock func() time.Time
}

func NewPeriodUseCase(repo interfaces.Repository, clock func() time.Time) *PeriodUseCase {
	return &PeriodUseCase{
		repo:  repo,
		clock: clock,
	}
}

// Open creates a new open evaluation period. The single-open-period and
// year/term uniqueness invariants are enforced by the repository inside the
// same transaction as the write; this method rejects candidates whose end
// date lies in the future relative to today, since a period can only be
// evaluated once it has fully elapsed.
func (uc *PeriodUseCase) Open(ctx context.Context, year int, term model.Term, inputDeadline time.Time) (*model.Period, error) {
	period := model.NewPeriod(year, term, inputDeadline)
	if err := period.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid period candidate")
	}

	today := uc.clock()
	if period.EndDate().After(today) {
		return nil, goerr.New("period end date is in the future",
			goerr.V(PeriodKeyKey, period.Key()),
			goerr.V("end_date", period.EndDate()),
			goerr.T(types.ErrTagValidation))
	}

	created, err := uc.repo.Period().Create(ctx, period)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open period", goerr.V(PeriodKeyKey, period.Key()))
	}

	logging.From(ctx).Info("Opened evaluation period",
		"period_id", created.ID, "key", created.Key())
	return created, nil
}

// List returns all known periods
func (uc *PeriodUseCase) List(ctx context.Context) ([]*model.Period, error) {
	return uc.repo.Period().List(ctx)
}

// GetOpen returns the single open period, or nil when none is open
func (uc *PeriodUseCase) GetOpen(ctx context.Context) (*model.Period, error) {
	return uc.repo.Period().GetOpen(ctx)
}

// GetMostRecent returns the period with the latest end date
func (uc *PeriodUseCase) GetMostRecent(ctx context.Context) (*model.Period, error) {
	return uc.repo.Period().GetMostRecent(ctx)
}

// Get returns one period by identifier
func (uc *PeriodUseCase) Get(ctx context.Context, id types.PeriodID) (*model.Period, error) {
	return uc.repo.Period().Get(ctx, id)
}
