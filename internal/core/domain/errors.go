package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrLocationNotFound means a location name or ID did not resolve.
	ErrLocationNotFound = errors.New("location not found")

	// ErrInvalidInput covers caller-correctable argument problems.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig is an ErrInvalidInput raised by bad engine settings
	// such as a non-positive stride length.
	ErrInvalidConfig = fmt.Errorf("%w: invalid config", ErrInvalidInput)

	// ErrIllegalTransition means the operation is not valid in the session's current state.
	ErrIllegalTransition = errors.New("illegal state transition")

	// ErrSessionNotFound means no navigation session exists with the given ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrDuplicateName means another location already uses the name.
	ErrDuplicateName = fmt.Errorf("%w: location name already exists", ErrInvalidInput)
)
