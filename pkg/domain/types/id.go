package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// PeriodID represents a unique identifier for an evaluation period
type PeriodID string

// NewPeriodID generates a new random PeriodID
func NewPeriodID() PeriodID {
	return PeriodID(uuid.New().String())
}

// Validate checks if the PeriodID is valid
func (p PeriodID) Validate() error {
	if p == "" {
		return goerr.New("period ID cannot be empty", goerr.T(ErrTagValidation))
	}
	return nil
}

// String returns the string representation of PeriodID
func (p PeriodID) String() string {
	return string(p)
}

// RiskID represents a unique identifier for a risk
type RiskID string

// Validate checks if the RiskID is valid
func (r RiskID) Validate() error {
	if r == "" {
		return goerr.New("risk ID cannot be empty", goerr.T(ErrTagValidation))
	}
	return nil
}

// String returns the string representation of RiskID
func (r RiskID) String() string {
	return string(r)
}

// IndicatorID represents a unique identifier for an indicator
type IndicatorID string

// Validate checks if the IndicatorID is valid
func (i IndicatorID) Validate() error {
	if i == "" {
		return goerr.New("indicator ID cannot be empty", goerr.T(ErrTagValidation))
	}
	return nil
}

// String returns the string representation of IndicatorID
func (i IndicatorID) String() string {
	return string(i)
}

// RecordID represents a unique identifier for a probability record
type RecordID string

// NewRecordID generates a new random RecordID
func NewRecordID() RecordID {
	return RecordID(uuid.New().String())
}

// String returns the string representation of RecordID
func (r RecordID) String() string {
	return string(r)
}
