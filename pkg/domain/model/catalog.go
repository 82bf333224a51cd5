package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/horai/pkg/domain/types"
)

// RatingLevel is one labeled step of a 1-4 scale
type RatingLevel struct {
	Score       int
	Name        string
	Description string
}

// RatingCatalog carries the organization's display labels for the rating
// scales. It never changes evaluation semantics, only presentation.
type RatingCatalog struct {
	Impact               []RatingLevel
	ControlEffectiveness []RatingLevel
	Probability          []RatingLevel
	Criticality          []RatingLevel
}

func validateLevels(kind string, levels []RatingLevel) error {
	seen := make(map[int]bool)
	for _, level := range levels {
		if level.Score < 1 || level.Score > 4 {
			return goerr.New("catalog score out of range",
				goerr.V("kind", kind), goerr.V("score", level.Score), goerr.T(types.ErrTagValidation))
		}
		if level.Name == "" {
			return goerr.New("catalog level name is required",
				goerr.V("kind", kind), goerr.V("score", level.Score), goerr.T(types.ErrTagValidation))
		}
		if seen[level.Score] {
			return goerr.New("duplicate catalog score",
				goerr.V("kind", kind), goerr.V("score", level.Score), goerr.T(types.ErrTagValidation))
		}
		seen[level.Score] = true
	}
	return nil
}

// Validate checks every scale of the catalog
func (c *RatingCatalog) Validate() error {
	if err := validateLevels("impact", c.Impact); err != nil {
		return err
	}
	if err := validateLevels("control_effectiveness", c.ControlEffectiveness); err != nil {
		return err
	}
	if err := validateLevels("probability", c.Probability); err != nil {
		return err
	}
	return validateLevels("criticality", c.Criticality)
}

// CriticalityLabel returns the configured label for a criticality level,
// falling back to the built-in one. Safe on a nil catalog.
func (c *RatingCatalog) CriticalityLabel(level types.CriticalityLevel) string {
	if c != nil {
		for _, l := range c.Criticality {
			if l.Score == level.Int() {
				return l.Name
			}
		}
	}
	return level.String()
}
