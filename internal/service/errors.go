package service

import (
	"errors"

	"budget-server/internal/repository"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidBudget      = errors.New("invalid budget ID")
	ErrInvalidDate        = errors.New("invalid date")
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Principal is the authenticated caller on whose behalf a service acts.
type Principal struct {
	UserID   int64
	Username string
}

func (p *Principal) valid() bool {
	return p != nil && p.UserID != 0
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}
