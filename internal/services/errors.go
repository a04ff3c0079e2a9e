package services

import "errors"

// ValidationError is returned when a route fails its save-time checks.
// The route itself is left unmodified; the caller re-prompts.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// PreconditionError is returned when a fleet state transition is refused.
// State is guaranteed unchanged when this is returned.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

// ErrVehicleNotFound is returned when a transition references a vehicle id
// that does not exist. Lookups feeding a transition hard-fail; they never
// silently proceed.
var ErrVehicleNotFound = errors.New("vehicle not found")

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPrecondition reports whether err is a PreconditionError
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}
