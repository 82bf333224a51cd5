package types

import (
	"fmt"
	"strings"
)

// CriticalityLevel is the 4-level bucket derived from a criticality score
type CriticalityLevel int

const (
	LevelLow CriticalityLevel = iota + 1
	LevelModerate
	LevelSignificant
	LevelCritical
)

// IsValid checks if the criticality level is valid
func (l CriticalityLevel) IsValid() bool {
	return l >= LevelLow && l <= LevelCritical
}

// String returns the label of the criticality level
func (l CriticalityLevel) String() string {
	switch l {
	case LevelLow:
		return "Low"
	case LevelModerate:
		return "Moderate"
	case LevelSignificant:
		return "Significant"
	case LevelCritical:
		return "Critical"
	default:
		return fmt.Sprintf("CriticalityLevel(%d)", int(l))
	}
}

// Int returns the numeric value of the criticality level
func (l CriticalityLevel) Int() int {
	return int(l)
}

// ScoreMode selects whether criticality is computed from the raw impact
// or the net impact (raw impact reduced by control-effectiveness attenuation).
type ScoreMode string

const (
	ScoreModeBrute ScoreMode = "BRUTE"
	ScoreModeNette ScoreMode = "NETTE"
)

// IsValid checks if the score mode is valid
func (m ScoreMode) IsValid() bool {
	switch m {
	case ScoreModeBrute, ScoreModeNette:
		return true
	default:
		return false
	}
}

// String returns the string representation of the score mode
func (m ScoreMode) String() string {
	return string(m)
}

// ParseScoreMode parses a string into a ScoreMode, ignoring case
func ParseScoreMode(s string) (ScoreMode, error) {
	mode := ScoreMode(strings.ToUpper(s))
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid score mode: %s", s)
	}
	return mode, nil
}
