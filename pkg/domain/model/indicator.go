package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/horai/pkg/domain/types"
)

// Indicator is an externally-owned measurement definition with three
// ordered thresholds and a direction.
type Indicator struct {
	ID         types.IndicatorID
	Name       string
	Threshold1 *float64
	Threshold2 *float64
	Threshold3 *float64
	Direction  types.ThresholdDirection
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks the indicator attributes
func (i *Indicator) Validate() error {
	if err := i.ID.Validate(); err != nil {
		return err
	}
	if i.Name == "" {
		return goerr.New("indicator name is required", goerr.V("id", i.ID), goerr.T(types.ErrTagValidation))
	}
	if i.Direction != "" && !i.Direction.IsValid() {
		return goerr.New("invalid threshold direction",
			goerr.V("id", i.ID), goerr.V("direction", i.Direction), goerr.T(types.ErrTagValidation))
	}
	return nil
}

// HasUsableThresholds reports whether all three thresholds are present,
// strictly ordered, and the direction is set. Probability computation is
// undefined otherwise and callers fall back to the manual record.
func (i *Indicator) HasUsableThresholds() bool {
	if i.Threshold1 == nil || i.Threshold2 == nil || i.Threshold3 == nil {
		return false
	}
	if !(*i.Threshold1 < *i.Threshold2 && *i.Threshold2 < *i.Threshold3) {
		return false
	}
	return i.Direction.IsValid()
}

// ProbabilityFor computes the 1-4 probability for a measured value through
// the thresholds. The second return value is false when the thresholds are
// unusable.
func (i *Indicator) ProbabilityFor(value float64) (types.Rating, bool) {
	if !i.HasUsableThresholds() {
		return 0, false
	}
	t1, t2, t3 := *i.Threshold1, *i.Threshold2, *i.Threshold3

	if i.Direction == types.DirectionPositive {
		switch {
		case value >= t3:
			return 1, true
		case value >= t2:
			return 2, true
		case value >= t1:
			return 3, true
		default:
			return 4, true
		}
	}

	switch {
	case value <= t1:
		return 1, true
	case value <= t2:
		return 2, true
	case value <= t3:
		return 3, true
	default:
		return 4, true
	}
}

// IndicatorOccurrence is one per-period measurement of an indicator. The
// resolver consumes it read-only while the owning period is open; closing
// marks it archived.
type IndicatorOccurrence struct {
	IndicatorID types.IndicatorID
	PeriodKey   string
	Value       *float64
	CapturedAt  time.Time
	Archived    bool
}

// Validate checks the occurrence attributes
func (o *IndicatorOccurrence) Validate() error {
	if err := o.IndicatorID.Validate(); err != nil {
		return err
	}
	if o.PeriodKey == "" {
		return goerr.New("occurrence period key is required",
			goerr.V("indicator_id", o.IndicatorID), goerr.T(types.ErrTagValidation))
	}
	return nil
}

// HasValue reports whether a measured value is present
func (o *IndicatorOccurrence) HasValue() bool {
	return o != nil && o.Value != nil
}
