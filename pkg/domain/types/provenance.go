package types

// Provenance identifies which source produced a resolved probability
type Provenance string

const (
	// ProvenanceIndicator marks a probability computed from a measured
	// indicator occurrence through the indicator's thresholds.
	ProvenanceIndicator Provenance = "INDICATOR"
	// ProvenanceManual marks an operator-entered probability.
	ProvenanceManual Provenance = "MANUAL"
	// ProvenanceArchive marks a probability read from an archive snapshot
	// of a previously closed period.
	ProvenanceArchive Provenance = "ARCHIVE"
)

// IsValid checks if the provenance is valid
func (p Provenance) IsValid() bool {
	switch p {
	case ProvenanceIndicator, ProvenanceManual, ProvenanceArchive:
		return true
	default:
		return false
	}
}

// String returns the string representation of the provenance
func (p Provenance) String() string {
	return string(p)
}
