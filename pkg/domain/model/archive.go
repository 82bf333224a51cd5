package model

import "github.com/secmon-lab/horai/pkg/domain/types"

// ArchiveEntry is one risk's archived probability/indicator-value pair
type ArchiveEntry struct {
	Probability    *types.Rating
	IndicatorValue *float64
}

// ArchiveSnapshot is an externally-loaded snapshot of a previously closed
// period, used by the legacy inspection path: while an open period is
// selected, a caller may load the archive of another period and resolve
// risks against it.
type ArchiveSnapshot struct {
	PeriodKey string
	Entries   map[types.RiskID]ArchiveEntry
}

// Lookup returns the archived entry for a risk, if any
func (a *ArchiveSnapshot) Lookup(riskID types.RiskID) (ArchiveEntry, bool) {
	if a == nil {
		return ArchiveEntry{}, false
	}
	entry, ok := a.Entries[riskID]
	return entry, ok
}
