package profile

import "errors"

var (
	// ErrLoad is fatal at startup: no record store, no question universe.
	ErrLoad = errors.New("profile records could not be loaded")
	// ErrIndexBuild is fatal at startup.
	ErrIndexBuild = errors.New("profile index could not be built")

	ErrSessionNotFound = errors.New("session not found")
	ErrSessionComplete = errors.New("session already complete")
	ErrValidation      = errors.New("validation failed")
)

// ValidationError carries the reason an answer was rejected.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}
