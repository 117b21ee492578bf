package service

import "errors"

// Error taxonomy shared by every service. State-machine and ownership
// violations are deterministic rejections; callers must not retry them.
var (
	// ErrNotFound means the entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the caller is authenticated but the role/ownership
	// check failed.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidOperation means a state-machine precondition was violated,
	// e.g. accepting a non-pending offer or reviewing an order twice.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrValidation means the input itself is malformed.
	ErrValidation = errors.New("validation failed")
)
