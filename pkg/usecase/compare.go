package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/horai/pkg/domain/interfaces"
	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
	"github.com/secmon-lab/horai/pkg/service/criticality"
)

// CompareUseCase computes period-over-period criticality changes behind a
// strict precondition gate. A failed precondition degrades the result to
// unavailable with the failure named, never to zero-valued rates.
type CompareUseCase struct {
	repo    interfaces.Repository
	resolve *ResolveUseCase
}

func NewCompareUseCase(repo interfaces.Repository, resolve *ResolveUseCase) *CompareUseCase {
	return &CompareUseCase{
		repo:    repo,
		resolve: resolve,
	}
}

func unavailable(filterKey, comparisonKey, reason string) *model.Comparison {
	return &model.Comparison{
		Available:          false,
		FailedPrecondition: reason,
		FilterKey:          filterKey,
		ComparisonKey:      comparisonKey,
	}
}

// Compare evaluates the filter period against an earlier comparison period.
// The comparison is valid only when the comparison period ends strictly
// before the filter period and at least one active risk resolves to a
// probability within the comparison period.
func (uc *CompareUseCase) Compare(ctx context.Context, filterKey, comparisonKey string, mode types.ScoreMode) (*model.Comparison, error) {
	filter, fKey, err := uc.resolve.lookupPeriod(ctx, filterKey)
	if err != nil {
		return nil, err
	}
	comparison, cKey, err := uc.resolve.lookupPeriod(ctx, comparisonKey)
	if err != nil {
		return nil, err
	}

	if filter == nil {
		return unavailable(fKey, cKey, "unknown filter period"), nil
	}
	if comparison == nil {
		return unavailable(fKey, cKey, "unknown comparison period"), nil
	}
	if !comparison.EndDate().Before(filter.EndDate()) {
		return unavailable(fKey, cKey, "comparison period does not precede the filter period"), nil
	}

	risks, err := uc.repo.Risk().ListActive(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list active risks")
	}

	result := &model.Comparison{
		FilterKey:     fKey,
		ComparisonKey: cKey,
	}
	for _, risk := range risks {
		prev, err := uc.resolve.Resolve(ctx, risk.ID, cKey)
		if err != nil {
			return nil, err
		}
		if !prev.HasProbability {
			continue
		}
		cur, err := uc.resolve.Resolve(ctx, risk.ID, fKey)
		if err != nil {
			return nil, err
		}

		prevCrit := criticality.Compute(prev.Impact, prev.ControlEffectiveness,
			prev.Probability, prev.HasProbability, mode)
		curCrit := criticality.Compute(cur.Impact, cur.ControlEffectiveness,
			cur.Probability, cur.HasProbability, mode)

		result.Rows = append(result.Rows, model.ComparisonRow{
			RiskID:          risk.ID,
			RiskName:        risk.Name,
			PreviousLevel:   prevCrit.Level,
			CurrentLevel:    curCrit.Level,
			AttenuationRate: criticality.AttenuationRate(prevCrit.Level, curCrit.Level),
		})
	}

	if len(result.Rows) == 0 {
		return unavailable(fKey, cKey, "no risk resolves to a probability in the comparison period"), nil
	}

	result.Available = true
	return result, nil
}
