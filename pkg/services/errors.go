package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNotFound is returned when a service or credential does not exist.
	ErrNotFound = errors.New("service not found")

	// ErrAlreadyExists is returned when creating a service whose name is taken.
	ErrAlreadyExists = errors.New("service already exists")

	// ErrNotCephFS is returned when a CephFS-only operation targets another type.
	ErrNotCephFS = errors.New("service is not a CephFS service")

	// ErrUnknownType is returned for unsupported service types.
	ErrUnknownType = errors.New("unknown service type")

	// ErrInvalidRequest wraps request validation failures.
	ErrInvalidRequest = errors.New("invalid request")
)

// formatValidationError converts validator errors into a single error
// wrapping ErrInvalidRequest.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		e := validationErrs[0]
		return fmt.Errorf("%w: %s: validation failed on '%s' tag (value: %v)",
			ErrInvalidRequest, e.Field(), e.Tag(), e.Value())
	}
	return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
}
