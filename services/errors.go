package services

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Error kinds returned by the services. Each maps to its own HTTP status.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Error is an expected, user-triggerable failure. Kind is one of the Err* sentinels.
type Error struct {
	Kind    error
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func invalidInput(msg string) error { return &Error{Kind: ErrInvalidInput, Message: msg} }

func notFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

func conflict(msg string) error { return &Error{Kind: ErrConflict, Message: msg} }

func unauthenticated(msg string) error { return &Error{Kind: ErrUnauthenticated, Message: msg} }

func forbidden(msg string) error { return &Error{Kind: ErrForbidden, Message: msg} }

// validate runs an ozzo validatable and turns field errors into ErrInvalidInput.
func validate(v validation.Validatable) error {
	err := v.Validate()
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for name, fe := range fieldErrs {
			fields[name] = fe.Error()
		}
		return &Error{Kind: ErrInvalidInput, Message: fieldErrs.Error(), Fields: fields}
	}
	var ruleErr validation.Error
	if errors.As(err, &ruleErr) {
		return invalidInput(ruleErr.Error())
	}
	return err
}
