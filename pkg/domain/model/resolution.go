package model

import "github.com/secmon-lab/horai/pkg/domain/types"

// Resolution is the authoritative answer for one (risk, period key) pair.
// Absence of a probability is a valid result, never an error.
type Resolution struct {
	Probability          types.Rating
	HasProbability       bool
	Provenance           types.Provenance
	Impact               types.Rating
	ControlEffectiveness types.Rating
	IndicatorValue       *float64
}

// EmptyResolution returns a resolution carrying the risk's static ratings
// but no probability.
func EmptyResolution(risk *Risk) *Resolution {
	res := &Resolution{}
	if risk != nil {
		res.Impact = risk.Impact
		res.ControlEffectiveness = risk.ControlEffectiveness
	}
	return res
}
