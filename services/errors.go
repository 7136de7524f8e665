package services

import "errors"

// Failure kinds reported by the matchmaking services. Services wrap
// these with context via fmt.Errorf and %w; callers classify with
// errors.Is and translate to transport responses.
var (
	ErrNotFound       = errors.New("not found")
	ErrSelfReference  = errors.New("actor and target are the same user")
	ErrAlreadyExists  = errors.New("already exists")
	ErrInvalidState   = errors.New("invalid state")
	ErrValidation     = errors.New("validation failed")
	ErrStorageFailure = errors.New("storage operation did not apply")
)
