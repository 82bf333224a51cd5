package periodkey_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/repository/memory"
	"github.com/secmon-lab/horai/pkg/service/periodkey"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"annual year", "2025", "2025"},
		{"canonical semester", "S1-2025", "S1-2025"},
		{"canonical quarter", "T3-2024", "T3-2024"},
		{"canonical month", "M01-2026", "M01-2026"},
		{"short semester with space", "S1 2025", "S1-2025"},
		{"short semester lowercase", "s2-2025", "S2-2025"},
		{"quarter letter Q", "Q3 2024", "T3-2024"},
		{"quarter with slash", "q3/2024", "T3-2024"},
		{"short month unpadded", "m1-2026", "M01-2026"},
		{"french semester", "Semestre 1 2025", "S1-2025"},
		{"english semester", "Semester 2 2025", "S2-2025"},
		{"year-first semester", "2025 Semestre 1", "S1-2025"},
		{"french ordinal semester", "1er semestre 2025", "S1-2025"},
		{"english ordinal semester", "2nd semester 2025", "S2-2025"},
		{"french quarter", "Trimestre 3 2024", "T3-2024"},
		{"english quarter", "Quarter 1 2025", "T1-2025"},
		{"year-first quarter", "2024 Quarter 3", "T3-2024"},
		{"french ordinal quarter", "3e trimestre 2024", "T3-2024"},
		{"numeric month dash", "01-2026", "M01-2026"},
		{"numeric month slash", "03/2025", "M03-2025"},
		{"french month name", "janvier 2026", "M01-2026"},
		{"french month accented", "décembre 2024", "M12-2024"},
		{"english month name", "March 2025", "M03-2025"},
		{"surrounding whitespace", "  S1   2025  ", "S1-2025"},
		{"opaque identifier", "0f4c2dd1-8d6b-4d31-a7a1-111111111111", "0f4c2dd1-8d6b-4d31-a7a1-111111111111"},
		{"unrecognized text", "whenever", "whenever"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := periodkey.Normalize(tc.input)
			gt.Value(t, got).Equal(tc.want)

			// Normalization is idempotent
			gt.Value(t, periodkey.Normalize(got)).Equal(tc.want)
		})
	}
}

func TestIsCanonical(t *testing.T) {
	gt.Bool(t, periodkey.IsCanonical("2025")).True()
	gt.Bool(t, periodkey.IsCanonical("S2-2025")).True()
	gt.Bool(t, periodkey.IsCanonical("T4-2024")).True()
	gt.Bool(t, periodkey.IsCanonical("M12-2026")).True()
	gt.Bool(t, periodkey.IsCanonical("M1-2026")).False()
	gt.Bool(t, periodkey.IsCanonical("S3-2025")).False()
	gt.Bool(t, periodkey.IsCanonical("Semestre 1 2025")).False()
}

func TestEquivalent(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	deadline := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	period, err := repo.Period().Create(ctx,
		model.NewPeriod(2025, model.SemesterTerm(1), deadline))
	gt.NoError(t, err).Required()

	codec := periodkey.New(repo.Period())

	t.Run("textual variants match", func(t *testing.T) {
		gt.Bool(t, codec.Equivalent(ctx, "Semestre 1 2025", "S1-2025")).True()
		gt.Bool(t, codec.Equivalent(ctx, "1er semestre 2025", "s1 2025")).True()
	})

	t.Run("reflexive and symmetric", func(t *testing.T) {
		gt.Bool(t, codec.Equivalent(ctx, "S1-2025", "S1-2025")).True()
		gt.Bool(t, codec.Equivalent(ctx, "S1-2025", "S2-2025")).False()
		gt.Bool(t, codec.Equivalent(ctx, "S2-2025", "S1-2025")).False()
	})

	t.Run("opaque identifier resolves to its key", func(t *testing.T) {
		gt.Bool(t, codec.Equivalent(ctx, string(period.ID), "S1-2025")).True()
		gt.Bool(t, codec.Equivalent(ctx, "Semestre 1 2025", string(period.ID))).True()
		gt.Bool(t, codec.Equivalent(ctx, string(period.ID), "S2-2025")).False()
	})

	t.Run("unresolvable identifiers compare as text", func(t *testing.T) {
		gt.Bool(t, codec.Equivalent(ctx, "no-such-period", "no-such-period")).True()
		gt.Bool(t, codec.Equivalent(ctx, "no-such-period", "S1-2025")).False()
	})
}
