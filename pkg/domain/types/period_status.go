package types

import "fmt"

// PeriodStatus represents the lifecycle status of an evaluation period
type PeriodStatus string

const (
	PeriodStatusOpen   PeriodStatus = "OPEN"
	PeriodStatusClosed PeriodStatus = "CLOSED"
)

// AllPeriodStatuses returns all valid period statuses
func AllPeriodStatuses() []PeriodStatus {
	return []PeriodStatus{
		PeriodStatusOpen,
		PeriodStatusClosed,
	}
}

// IsValid checks if the period status is valid
func (s PeriodStatus) IsValid() bool {
	switch s {
	case PeriodStatusOpen,
		PeriodStatusClosed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the period status
func (s PeriodStatus) String() string {
	return string(s)
}

// ParsePeriodStatus parses a string into a PeriodStatus
func ParsePeriodStatus(s string) (PeriodStatus, error) {
	status := PeriodStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid period status: %s", s)
	}
	return status, nil
}
