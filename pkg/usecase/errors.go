package usecase

import "errors"

// Sentinel errors for the use case layer
var (
	ErrNoOpenPeriod      = errors.New("no open period")
	ErrClosingNotStarted = errors.New("closing session not started")
)

// Context keys for error values
const (
	PeriodIDKey  = "period_id"
	PeriodKeyKey = "period_key"
	RiskIDKey    = "risk_id"
)
