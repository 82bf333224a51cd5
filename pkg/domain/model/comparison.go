package model

import "github.com/secmon-lab/horai/pkg/domain/types"

// ComparisonRow is one risk's period-over-period criticality change
type ComparisonRow struct {
	RiskID        types.RiskID
	RiskName      string
	PreviousLevel types.CriticalityLevel
	CurrentLevel  types.CriticalityLevel
	// AttenuationRate is a signed percentage: positive means improvement
	// or stability, negative means degradation.
	AttenuationRate int
}

// Comparison is the result of comparing a filter period against an earlier
// comparison period. When a precondition fails the comparison degrades to
// unavailable with the failed precondition named, never to zero values.
type Comparison struct {
	Available          bool
	FailedPrecondition string
	FilterKey          string
	ComparisonKey      string
	Rows               []ComparisonRow
}

// SynthesisRow is one risk's resolved evaluation within a period, the
// common projection consumed by the analysis, cartography and synthesis
// views.
type SynthesisRow struct {
	RiskID      types.RiskID
	RiskName    string
	Resolution  Resolution
	Criticality Criticality
}
