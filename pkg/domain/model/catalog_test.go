package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
)

func TestCatalogValidate(t *testing.T) {
	valid := &model.RatingCatalog{
		Criticality: []model.RatingLevel{
			{Score: 1, Name: "Faible"},
			{Score: 2, Name: "Modérée"},
			{Score: 3, Name: "Importante"},
			{Score: 4, Name: "Critique"},
		},
	}
	gt.NoError(t, valid.Validate())

	t.Run("score out of range", func(t *testing.T) {
		c := &model.RatingCatalog{
			Impact: []model.RatingLevel{{Score: 5, Name: "off the scale"}},
		}
		gt.Error(t, c.Validate())
	})

	t.Run("missing name", func(t *testing.T) {
		c := &model.RatingCatalog{
			Probability: []model.RatingLevel{{Score: 2}},
		}
		gt.Error(t, c.Validate())
	})

	t.Run("duplicate score", func(t *testing.T) {
		c := &model.RatingCatalog{
			ControlEffectiveness: []model.RatingLevel{
				{Score: 1, Name: "a"},
				{Score: 1, Name: "b"},
			},
		}
		gt.Error(t, c.Validate())
	})
}

func TestCriticalityLabel(t *testing.T) {
	catalog := &model.RatingCatalog{
		Criticality: []model.RatingLevel{
			{Score: 4, Name: "Critique"},
		},
	}

	gt.Value(t, catalog.CriticalityLabel(types.LevelCritical)).Equal("Critique")

	// Unconfigured levels fall back to the built-in label
	gt.Value(t, catalog.CriticalityLabel(types.LevelLow)).Equal(types.LevelLow.String())

	var nilCatalog *model.RatingCatalog
	gt.Value(t, nilCatalog.CriticalityLabel(types.LevelModerate)).Equal(types.LevelModerate.String())
}
