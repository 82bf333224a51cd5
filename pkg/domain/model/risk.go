package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/horai/pkg/domain/types"
)

// Risk is a cataloged hazard. The evaluation engine consumes it read-only;
// ownership of the catalog stays with the CRUD surface.
type Risk struct {
	ID          types.RiskID
	Name        string
	Description string
	// Qualitative risks have no linked indicator; their probability can
	// only be entered manually.
	Qualitative bool
	IndicatorID types.IndicatorID
	// Impact and ControlEffectiveness are 0 when not yet evaluated.
	Impact               types.Rating
	ControlEffectiveness types.Rating
	Active               bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Validate checks the risk attributes
func (r *Risk) Validate() error {
	if err := r.ID.Validate(); err != nil {
		return err
	}
	if r.Name == "" {
		return goerr.New("risk name is required", goerr.V("id", r.ID), goerr.T(types.ErrTagValidation))
	}
	if r.Qualitative && r.IndicatorID != "" {
		return goerr.New("qualitative risk cannot link an indicator",
			goerr.V("id", r.ID), goerr.V("indicator_id", r.IndicatorID), goerr.T(types.ErrTagValidation))
	}
	if !r.Qualitative && r.IndicatorID == "" {
		return goerr.New("quantitative risk requires a linked indicator",
			goerr.V("id", r.ID), goerr.T(types.ErrTagValidation))
	}
	if r.Impact != 0 && !r.Impact.IsValid() {
		return goerr.New("invalid impact rating", goerr.V("id", r.ID), goerr.V("impact", r.Impact), goerr.T(types.ErrTagValidation))
	}
	if r.ControlEffectiveness != 0 && !r.ControlEffectiveness.IsValid() {
		return goerr.New("invalid control effectiveness rating",
			goerr.V("id", r.ID), goerr.V("control_effectiveness", r.ControlEffectiveness), goerr.T(types.ErrTagValidation))
	}
	return nil
}

// IsEvaluated reports whether impact and control effectiveness are both set
func (r *Risk) IsEvaluated() bool {
	return r.Impact.IsValid() && r.ControlEffectiveness.IsValid()
}
