package application

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned when no verified identity accompanies a request.
	ErrUnauthenticated = errors.New("application: unauthenticated")
	// ErrForbidden is returned when the caller is verified but not authorized for the record or role.
	ErrForbidden = errors.New("application: forbidden")
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrConflict is returned when a uniqueness constraint or duplicate action is detected.
	ErrConflict = errors.New("application: conflict")
	// ErrInvalidArgument is returned for malformed input and failed state preconditions.
	ErrInvalidArgument = errors.New("application: invalid argument")
)

// GeofenceError reports an attendance mark attempted outside the configured
// radius. Distance and radius travel to the caller in the error payload.
type GeofenceError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

// Error implements the error interface.
func (g *GeofenceError) Error() string {
	return fmt.Sprintf("outside allowed attendance radius: %.0fm > %.0fm", g.DistanceMeters, g.RadiusMeters)
}

// Unwrap classifies geofence rejections as authorization failures.
func (g *GeofenceError) Unwrap() error {
	return ErrForbidden
}

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// Unwrap classifies validation failures as invalid arguments.
func (v *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}

func forbiddenf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrForbidden}, args...)...)
}

func conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConflict}, args...)...)
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}
