// Package periodkey normalizes the heterogeneous period representations
// found across the application (free text, structured year+term, opaque
// period identifiers) into one canonical key, and compares two
// representations for equivalence.
//
// Canonical forms: "YYYY" (annual), "S{1|2}-YYYY" (semester),
// "T{1..4}-YYYY" (quarter), "M{01..12}-YYYY" (month).
package periodkey

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
)

// PeriodLookup resolves opaque period identifiers to periods. The period
// repository satisfies it.
type PeriodLookup interface {
	Get(ctx context.Context, id types.PeriodID) (*model.Period, error)
}

// Codec compares period representations, resolving opaque identifiers
// through the period store.
type Codec struct {
	periods PeriodLookup
}

// New returns a codec backed by the given period lookup
func New(periods PeriodLookup) *Codec {
	return &Codec{periods: periods}
}

var (
	spaceRe     = regexp.MustCompile(`\s+`)
	canonicalRe = regexp.MustCompile(`^(?:\d{4}|S[12]-\d{4}|T[1-4]-\d{4}|M(?:0[1-9]|1[0-2])-\d{4})$`)

	yearOnlyRe = regexp.MustCompile(`^(\d{4})$`)
	// "S1 2025", "S1/2025", "s1-2025"
	shortSemRe = regexp.MustCompile(`(?i)^s\s*([12])[\s/-]+(\d{4})$`)
	// "T3 2024", "Q3 2024", "q3/2024"
	shortQtrRe = regexp.MustCompile(`(?i)^[tq]\s*([1-4])[\s/-]+(\d{4})$`)
	// "M01 2026", "m1-2026"
	shortMonRe = regexp.MustCompile(`(?i)^m\s*(0?[1-9]|1[0-2])[\s/-]+(\d{4})$`)
	// "Semestre 1 2025", "Semester 2 2025"
	semYearRe = regexp.MustCompile(`(?i)^semest(?:re|er)\s+([12])\s+(\d{4})$`)
	// "2025 Semestre 1"
	yearSemRe = regexp.MustCompile(`(?i)^(\d{4})\s+semest(?:re|er)\s+([12])$`)
	// "1er semestre 2025", "2nd semester 2025", "2e semestre 2025"
	ordSemRe = regexp.MustCompile(`(?i)^([12])\s*(?:er|e|ème|eme|st|nd)\s+semest(?:re|er)\s+(\d{4})$`)
	// "Trimestre 3 2024", "Quarter 1 2025"
	qtrYearRe = regexp.MustCompile(`(?i)^(?:trimestre|quarter)\s+([1-4])\s+(\d{4})$`)
	// "2024 Trimestre 3", "2025 Quarter 1"
	yearQtrRe = regexp.MustCompile(`(?i)^(\d{4})\s+(?:trimestre|quarter)\s+([1-4])$`)
	// "3e trimestre 2024", "1st quarter 2025"
	ordQtrRe = regexp.MustCompile(`(?i)^([1-4])\s*(?:er|e|ème|eme|st|nd|rd|th)\s+(?:trimestre|quarter)\s+(\d{4})$`)
	// "01-2026", "01/2026"
	numMonRe = regexp.MustCompile(`^(0[1-9]|1[0-2])[/-](\d{4})$`)
	// "janvier 2026", "March 2025"
	nameMonRe = regexp.MustCompile(`(?i)^([a-zàéû]+)\s+(\d{4})$`)
	// "2026 janvier"
	yearNameMonRe = regexp.MustCompile(`(?i)^(\d{4})\s+([a-zàéû]+)$`)
)

var monthNames = map[string]int{
	"janvier": 1, "fevrier": 2, "février": 2, "mars": 3, "avril": 4,
	"mai": 5, "juin": 6, "juillet": 7, "aout": 8, "août": 8,
	"septembre": 9, "octobre": 10, "novembre": 11, "decembre": 12, "décembre": 12,
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5,
	"june": 6, "july": 7, "august": 8, "september": 9, "october": 10,
	"november": 11, "december": 12,
}

// Normalize rewrites known textual variants of a period into the canonical
// key. Well-formed keys and opaque identifiers pass through unchanged
// (beyond whitespace normalization). It never fails: unrecognized input is
// returned as-is, and the function is idempotent.
func Normalize(raw string) string {
	s := strings.TrimSpace(spaceRe.ReplaceAllString(raw, " "))
	if s == "" {
		return s
	}
	if canonicalRe.MatchString(s) {
		return s
	}

	if m := yearOnlyRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if m := shortSemRe.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("S%s-%s", m[1], m[2])
	}
	if m := shortQtrRe.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("T%s-%s", m[1], m[2])
	}
	if m := shortMonRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("M%02d-%s", n, m[2])
	}
	if m := semYearRe.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("S%s-%s", m[1], m[2])
	}
	if m := yearSemRe.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("S%s-%s", m[2], m[1])
	}
	if m := ordSemRe.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("S%s-%s", m[1], m[2])
	}
	if m := qtrYearRe.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("T%s-%s", m[1], m[2])
	}
	if m := yearQtrRe.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("T%s-%s", m[2], m[1])
	}
	if m := ordQtrRe.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("T%s-%s", m[1], m[2])
	}
	if m := numMonRe.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("M%s-%s", m[1], m[2])
	}
	if m := nameMonRe.FindStringSubmatch(s); m != nil {
		if n, ok := monthNames[strings.ToLower(m[1])]; ok {
			return fmt.Sprintf("M%02d-%s", n, m[2])
		}
	}
	if m := yearNameMonRe.FindStringSubmatch(s); m != nil {
		if n, ok := monthNames[strings.ToLower(m[2])]; ok {
			return fmt.Sprintf("M%02d-%s", n, m[1])
		}
	}

	return s
}

// IsCanonical reports whether s already is a canonical period key
func IsCanonical(s string) bool {
	return canonicalRe.MatchString(s)
}

// Equivalent reports whether a and b denote the same period. When the
// normalized forms differ, sides that are not canonical keys are treated as
// opaque period identifiers and resolved through the period store; some
// callers pass a period's identifier while others pass its canonical key,
// and the two must compare equal. Identifiers that resolve to no known
// period are compared as literal text.
func (c *Codec) Equivalent(ctx context.Context, a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return true
	}
	return c.resolve(ctx, na) == c.resolve(ctx, nb)
}

func (c *Codec) resolve(ctx context.Context, key string) string {
	if IsCanonical(key) || c.periods == nil {
		return key
	}
	period, err := c.periods.Get(ctx, types.PeriodID(key))
	if err != nil || period == nil {
		return key
	}
	return period.Key()
}
