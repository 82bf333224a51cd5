package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures for callers. Validation errors are caller
// mistakes, invariant violations are rejected state mutations, precondition
// failures carry the offending set for remediation, and transaction failures
// left the store unchanged and are safe to retry.
var (
	ErrTagValidation   = goerr.NewTag("validation")
	ErrTagInvariant    = goerr.NewTag("invariant")
	ErrTagPrecondition = goerr.NewTag("precondition")
	ErrTagTransaction  = goerr.NewTag("transaction")
	ErrTagNotFound     = goerr.NewTag("not_found")
)
