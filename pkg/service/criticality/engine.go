// Package criticality derives criticality metrics from impact, control
// effectiveness and probability ratings. All functions are pure; the same
// inputs yield the same outputs for every consumer (analysis, evaluation,
// cartography, synthesis).
package criticality

import (
	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
)

// Attenuation returns the signed impact reduction granted by a control
// effectiveness rating: 1 -> -3, 2 -> -2, 3 -> -1, 4 -> 0.
func Attenuation(eff types.Rating) int {
	if !eff.IsValid() {
		return 0
	}
	return int(eff) - 4
}

// NetImpact returns the raw impact reduced by the control-effectiveness
// attenuation, floored at 1.
func NetImpact(rawImpact, eff types.Rating) int {
	net := int(rawImpact) + Attenuation(eff)
	if net < 1 {
		return 1
	}
	return net
}

// Score returns impact multiplied by probability. A missing probability
// counts as 1, so unevaluated risks never disappear from rankings.
func Score(impact int, probability types.Rating, hasProbability bool) int {
	p := 1
	if hasProbability && probability.IsValid() {
		p = int(probability)
	}
	return impact * p
}

// Level buckets a score into the 4-level scale by ordered thresholds:
// <=3 Low, <=6 Moderate, <=9 Significant, >=10 Critical. Scores 7, 10 and
// 11 are unreachable under the 1-4 x 1-4 domain but classify consistently
// should the domains ever widen.
func Level(score int) types.CriticalityLevel {
	switch {
	case score <= 3:
		return types.LevelLow
	case score <= 6:
		return types.LevelModerate
	case score <= 9:
		return types.LevelSignificant
	default:
		return types.LevelCritical
	}
}

// attenuationRates[prev-1][cur-1] is the signed percentage describing the
// criticality-level change between two periods. Positive means improvement
// or stability, negative means degradation.
var attenuationRates = [4][4]int{
	{100, -50, -75, -100},
	{100, 0, -50, -100},
	{100, 50, 0, -100},
	{100, 75, 50, -100},
}

// AttenuationRate returns the period-over-period attenuation percentage
// for a previous and current criticality level. Invalid levels yield 0.
func AttenuationRate(prev, cur types.CriticalityLevel) int {
	if !prev.IsValid() || !cur.IsValid() {
		return 0
	}
	return attenuationRates[prev-1][cur-1]
}

// Compute assembles the full criticality value object for a risk's ratings.
// In BRUTE mode the score uses the raw impact; in NETTE mode the net impact.
func Compute(rawImpact, eff, probability types.Rating, hasProbability bool, mode types.ScoreMode) model.Criticality {
	net := NetImpact(rawImpact, eff)
	impact := int(rawImpact)
	if mode == types.ScoreModeNette {
		impact = net
	}
	score := Score(impact, probability, hasProbability)
	return model.Criticality{
		NetImpact: net,
		Score:     score,
		Level:     Level(score),
	}
}
