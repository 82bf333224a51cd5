package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/horai/pkg/domain/types"
)

// ClosingChecklist carries the four operator acknowledgements required
// before a period may be archived.
type ClosingChecklist struct {
	DocumentAttached    bool
	DataImmutable       bool
	EditsNotRetroactive bool
	OccurrencesArchived bool
}

// Validate returns an error naming the first missing acknowledgement
func (c ClosingChecklist) Validate() error {
	missing := ""
	switch {
	case !c.DocumentAttached:
		missing = "document_attached"
	case !c.DataImmutable:
		missing = "data_immutable"
	case !c.EditsNotRetroactive:
		missing = "edits_not_retroactive"
	case !c.OccurrencesArchived:
		missing = "occurrences_archived"
	}
	if missing != "" {
		return goerr.New("closing checklist is incomplete",
			goerr.V("missing", missing), goerr.T(types.ErrTagValidation))
	}
	return nil
}

// ClosingState is the observable state of one closing workflow session
type ClosingState struct {
	PeriodID types.PeriodID
	Phase    types.ClosingPhase
	// Blocking lists active risks that are entirely unevaluated; closing
	// is forbidden while it is non-empty.
	Blocking []types.RiskID
	// Warnings lists risks whose linked indicator has no measured
	// occurrence. They are surfaced but do not forbid closing.
	Warnings    []types.RiskID
	DocumentRef string
	StartedAt   time.Time
	UpdatedAt   time.Time
}

// CanConfirm reports whether the session may accept a confirmation
func (s *ClosingState) CanConfirm() bool {
	return s != nil && s.Phase == types.ClosingPhaseConfirming
}
