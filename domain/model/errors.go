package model

import "errors"

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrWorkspaceInvalid  = errors.New("workspace invalid")

	// ErrTeardownTimeout indicates namespace deletion was requested but its
	// disappearance was not observed within the bounded poll window.
	// Operator intervention is required; the wait is not retried.
	ErrTeardownTimeout = errors.New("timed out waiting for namespace deletion")
)
