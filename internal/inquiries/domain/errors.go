package domain

import "errors"

var ErrInquiryNotFound = errors.New("inquiry not found")

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
