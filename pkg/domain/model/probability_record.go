package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/horai/pkg/domain/types"
)

// ProbabilityRecord holds the manually-entered or snapshotted probability
// for one (risk, period key) pair. While the period is open it carries only
// the manual value; at close time the frozen fields are populated and the
// record becomes the single source of truth for the period forever.
type ProbabilityRecord struct {
	ID          types.RecordID
	RiskID      types.RiskID
	PeriodKey   string
	Probability *types.Rating
	Provenance  types.Provenance
	// Justification is mandatory whenever Probability is non-nil.
	Justification string
	// Frozen fields are populated only by the closing workflow.
	Frozen                     bool
	FrozenImpact               *types.Rating
	FrozenControlEffectiveness *types.Rating
	IndicatorObtained          bool
	UpdatedAt                  time.Time
}

// Validate checks the record attributes
func (p *ProbabilityRecord) Validate() error {
	if err := p.RiskID.Validate(); err != nil {
		return err
	}
	if p.PeriodKey == "" {
		return goerr.New("record period key is required", goerr.V("risk_id", p.RiskID), goerr.T(types.ErrTagValidation))
	}
	if p.Probability != nil {
		if err := p.Probability.Validate(); err != nil {
			return goerr.Wrap(err, "invalid probability", goerr.V("risk_id", p.RiskID))
		}
		// Frozen snapshots may carry indicator-derived probabilities that
		// never had an operator justification.
		if !p.Frozen && p.Justification == "" {
			return goerr.New("justification is required for a non-empty probability",
				goerr.V("risk_id", p.RiskID), goerr.V("period_key", p.PeriodKey), goerr.T(types.ErrTagValidation))
		}
	}
	if p.Provenance != "" && !p.Provenance.IsValid() {
		return goerr.New("invalid provenance", goerr.V("provenance", p.Provenance), goerr.T(types.ErrTagValidation))
	}
	return nil
}

// HasProbability reports whether the record carries a probability value
func (p *ProbabilityRecord) HasProbability() bool {
	return p != nil && p.Probability != nil
}
