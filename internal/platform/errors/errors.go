package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrActiveSessionExists = errors.New("active session already exists")

	// ErrGoalNotFound is a missing goal reference. It matches ErrNotFound.
	ErrGoalNotFound = fmt.Errorf("goal %w", ErrNotFound)

	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrDaemonUnavailable = errors.New("coordinator daemon unavailable")
)
