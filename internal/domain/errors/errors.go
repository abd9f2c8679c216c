package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInternal           = errors.New("internal error")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidAssertion   = errors.New("invalid identity assertion")
	ErrInvalidProject     = errors.New("Invalid ProjectId.")
	ErrConfiguration      = errors.New("configuration error")

	// ErrRenewalRejected is returned for every failed step of a token renewal.
	ErrRenewalRejected = errors.New("invalid or expired token")
)

func NewInvalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

func NewConfiguration(msg string) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, msg)
}

func WrapInternal(err error, context string) error {
	return fmt.Errorf("%w: %s: %v", ErrInternal, context, err)
}

func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func IsInvalidAssertion(err error) bool {
	return errors.Is(err, ErrInvalidAssertion)
}

func IsRenewalRejected(err error) bool {
	return errors.Is(err, ErrRenewalRejected)
}

func IsInvalidProject(err error) bool {
	return errors.Is(err, ErrInvalidProject)
}

func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
