package service

import (
	"strings"

	"github.com/dafibh/underwriter/underwriter-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// DefaultWorkspaceName is used when the caller has no display name
const DefaultWorkspaceName = "My Deals"

// AuthService resolves the workspace of an authenticated Auth0 subject
type AuthService struct {
	workspaceRepo domain.WorkspaceRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(workspaceRepo domain.WorkspaceRepository) *AuthService {
	return &AuthService{workspaceRepo: workspaceRepo}
}

// EnsureWorkspace returns the subject's workspace, creating it on first login
func (s *AuthService) EnsureWorkspace(auth0ID, name string) (*domain.Workspace, error) {
	if auth0ID == "" {
		return nil, domain.ErrUnauthorized
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultWorkspaceName
	}
	if len(name) > domain.MaxWorkspaceNameLength {
		name = name[:domain.MaxWorkspaceNameLength]
	}

	workspace, err := s.workspaceRepo.CreateOrGetByOwnerAuth0ID(auth0ID, name)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to create or get workspace")
		return nil, err
	}
	return workspace, nil
}

// GetWorkspaceByAuth0ID resolves the subject's workspace, creating it on
// first use. It satisfies the middleware and websocket workspace lookups.
func (s *AuthService) GetWorkspaceByAuth0ID(auth0ID string) (*domain.Workspace, error) {
	return s.EnsureWorkspace(auth0ID, "")
}

// GetWorkspaceByID retrieves a workspace by its ID
func (s *AuthService) GetWorkspaceByID(id int32) (*domain.Workspace, error) {
	return s.workspaceRepo.GetByID(id)
}
