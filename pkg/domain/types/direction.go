package types

// ThresholdDirection tells whether higher or lower indicator values are better
type ThresholdDirection string

const (
	// DirectionPositive means higher measured values are better.
	DirectionPositive ThresholdDirection = "Positive"
	// DirectionNegative means lower measured values are better.
	DirectionNegative ThresholdDirection = "Negative"
)

// IsValid checks if the threshold direction is valid
func (d ThresholdDirection) IsValid() bool {
	switch d {
	case DirectionPositive, DirectionNegative:
		return true
	default:
		return false
	}
}

// String returns the string representation of the threshold direction
func (d ThresholdDirection) String() string {
	return string(d)
}
