package domain

import "errors"

// Domain errors
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrWorkspaceNotFound = errors.New("workspace not found")
)

// Validation constants
const (
	MaxWorkspaceNameLength = 255
)
