package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an entity id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmptyRotation is returned when a reminder is triggered with no residents.
	ErrEmptyRotation = errors.New("no residents to remind")
	// ErrConflict is returned on uniqueness violations.
	ErrConflict = errors.New("conflict")
	// ErrForbidden is returned when an actor may not perform an action.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized is returned for bad credentials or tokens.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports malformed or inconsistent input. No state is mutated.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a *ValidationError.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ChannelSendError is a non-fatal failure to send on one channel.
type ChannelSendError struct {
	Channel Channel
	Address string
	Err     error
}

func (e *ChannelSendError) Error() string {
	return fmt.Sprintf("send via %s to %s: %v", e.Channel, e.Address, e.Err)
}

func (e *ChannelSendError) Unwrap() error { return e.Err }
