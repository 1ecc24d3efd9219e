package domain

import (
	"errors"
	"fmt"
)

var (
	ErrServiceNotFound       = errors.New("service not found")
	ErrClientNotFound        = errors.New("client not found")
	ErrProjectNotFound       = errors.New("project not found")
	ErrServiceDetailNotFound = errors.New("service detail not found")
	ErrLogoNotFound          = errors.New("logo not found")
	ErrContentNotFound       = errors.New("content document not found")

	ErrAlreadyExists = errors.New("already exists")
	ErrImageRequired = errors.New("image required")
)

// ValidationError carries a message meant to be shown to the admin as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ExistsError reports a duplicate with an admin-facing message. It matches
// ErrAlreadyExists under errors.Is.
type ExistsError struct {
	Message string
}

func (e *ExistsError) Error() string {
	return e.Message
}

func (e *ExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

func ClientExists(companyName string) error {
	return &ExistsError{Message: fmt.Sprintf("Client %q already exists.", companyName)}
}
