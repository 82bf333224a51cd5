package types

// TermKind represents the sub-division kind of an evaluation period
type TermKind string

const (
	TermAnnual   TermKind = "ANNUAL"
	TermSemester TermKind = "SEMESTER"
	TermQuarter  TermKind = "QUARTER"
	TermMonth    TermKind = "MONTH"
)

// IsValid checks if the term kind is valid
func (k TermKind) IsValid() bool {
	switch k {
	case TermAnnual, TermSemester, TermQuarter, TermMonth:
		return true
	default:
		return false
	}
}

// String returns the string representation of the term kind
func (k TermKind) String() string {
	return string(k)
}

// MaxOrdinal returns the highest valid ordinal for the term kind
// (0 for annual terms, which carry no ordinal).
func (k TermKind) MaxOrdinal() int {
	switch k {
	case TermSemester:
		return 2
	case TermQuarter:
		return 4
	case TermMonth:
		return 12
	default:
		return 0
	}
}
