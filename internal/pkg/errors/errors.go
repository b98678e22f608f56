package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is a generic sentinel for ownership/plan violations.
	ErrForbidden = errors.New("forbidden")
	// ErrQuotaExceeded marks a plan-limit rejection (free tier weekly cap).
	ErrQuotaExceeded = errors.New("quota exceeded")
	// ErrRateLimited marks a request rejected by the per-user rate limiter.
	ErrRateLimited = errors.New("rate limited")
	// ErrConflict marks a lost conditional update (duplicate orchestrator run).
	ErrConflict = errors.New("conflict")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)
