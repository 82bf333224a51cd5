package model

import "github.com/secmon-lab/horai/pkg/domain/types"

// Criticality is a derived value object, computed on demand and never
// persisted.
type Criticality struct {
	NetImpact int
	Score     int
	Level     types.CriticalityLevel
}
