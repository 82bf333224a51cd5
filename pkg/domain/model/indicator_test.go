package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
)

func f(v float64) *float64 {
	return &v
}

func TestHasUsableThresholds(t *testing.T) {
	usable := &model.Indicator{
		Threshold1: f(100), Threshold2: f(150), Threshold3: f(200),
		Direction: types.DirectionPositive,
	}
	gt.Bool(t, usable.HasUsableThresholds()).True()

	t.Run("missing threshold", func(t *testing.T) {
		i := &model.Indicator{
			Threshold1: f(100), Threshold3: f(200),
			Direction: types.DirectionPositive,
		}
		gt.Bool(t, i.HasUsableThresholds()).False()
	})

	t.Run("not strictly ordered", func(t *testing.T) {
		i := &model.Indicator{
			Threshold1: f(100), Threshold2: f(100), Threshold3: f(200),
			Direction: types.DirectionPositive,
		}
		gt.Bool(t, i.HasUsableThresholds()).False()
	})

	t.Run("missing direction", func(t *testing.T) {
		i := &model.Indicator{
			Threshold1: f(100), Threshold2: f(150), Threshold3: f(200),
		}
		gt.Bool(t, i.HasUsableThresholds()).False()
	})
}

func TestProbabilityForPositive(t *testing.T) {
	indicator := &model.Indicator{
		Threshold1: f(100), Threshold2: f(150), Threshold3: f(200),
		Direction: types.DirectionPositive,
	}

	cases := []struct {
		value float64
		want  types.Rating
	}{
		{250, 1},
		{200, 1},
		{180, 2},
		{150, 2},
		{120, 3},
		{100, 3},
		{99, 4},
		{0, 4},
	}
	for _, tc := range cases {
		p, ok := indicator.ProbabilityFor(tc.value)
		gt.Bool(t, ok).True()
		gt.Value(t, p).Equal(tc.want)
	}
}

func TestProbabilityForNegative(t *testing.T) {
	indicator := &model.Indicator{
		Threshold1: f(10), Threshold2: f(20), Threshold3: f(30),
		Direction: types.DirectionNegative,
	}

	cases := []struct {
		value float64
		want  types.Rating
	}{
		{5, 1},
		{10, 1},
		{15, 2},
		{20, 2},
		{25, 3},
		{30, 3},
		{31, 4},
		{100, 4},
	}
	for _, tc := range cases {
		p, ok := indicator.ProbabilityFor(tc.value)
		gt.Bool(t, ok).True()
		gt.Value(t, p).Equal(tc.want)
	}
}

func TestProbabilityForUnusable(t *testing.T) {
	indicator := &model.Indicator{
		Threshold1: f(200), Threshold2: f(150), Threshold3: f(100),
		Direction: types.DirectionPositive,
	}
	_, ok := indicator.ProbabilityFor(120)
	gt.Bool(t, ok).False()
}

func TestOccurrenceHasValue(t *testing.T) {
	var nilOcc *model.IndicatorOccurrence
	gt.Bool(t, nilOcc.HasValue()).False()
	gt.Bool(t, (&model.IndicatorOccurrence{}).HasValue()).False()
	gt.Bool(t, (&model.IndicatorOccurrence{Value: f(0)}).HasValue()).True()
}
