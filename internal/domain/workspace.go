package domain

import (
	"time"
)

// Workspace groups the deals of one Auth0 account
type Workspace struct {
	ID           int32     `json:"id"`
	OwnerAuth0ID string    `json:"ownerAuth0Id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// WorkspaceRepository defines the interface for workspace persistence operations
type WorkspaceRepository interface {
	GetByID(id int32) (*Workspace, error)
	GetByOwnerAuth0ID(auth0ID string) (*Workspace, error)
	CreateOrGetByOwnerAuth0ID(auth0ID, name string) (*Workspace, error)
}
