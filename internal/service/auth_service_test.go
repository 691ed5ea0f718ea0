package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/dafibh/underwriter/underwriter-backend/internal/domain"
	"github.com/dafibh/underwriter/underwriter-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureWorkspace_FirstLogin(t *testing.T) {
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	svc := NewAuthService(workspaceRepo)

	workspace, err := svc.EnsureWorkspace("auth0|12345", "  Dana's deals ")
	require.NoError(t, err)

	assert.Equal(t, "auth0|12345", workspace.OwnerAuth0ID)
	assert.Equal(t, "Dana's deals", workspace.Name)
	assert.Len(t, workspaceRepo.Workspaces, 1)
}

func TestEnsureWorkspace_ExistingUser(t *testing.T) {
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	workspaceRepo.AddWorkspace(&domain.Workspace{ID: 7, OwnerAuth0ID: "auth0|12345", Name: "Existing"})
	svc := NewAuthService(workspaceRepo)

	workspace, err := svc.EnsureWorkspace("auth0|12345", "Another name")
	require.NoError(t, err)

	assert.Equal(t, int32(7), workspace.ID)
	assert.Equal(t, "Existing", workspace.Name)
}

func TestEnsureWorkspace_DefaultsAndLimits(t *testing.T) {
	svc := NewAuthService(testutil.NewMockWorkspaceRepository())

	workspace, err := svc.EnsureWorkspace("auth0|a", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkspaceName, workspace.Name)

	long, err := svc.EnsureWorkspace("auth0|b", strings.Repeat("x", domain.MaxWorkspaceNameLength+10))
	require.NoError(t, err)
	assert.Len(t, long.Name, domain.MaxWorkspaceNameLength)

	_, err = svc.EnsureWorkspace("", "name")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestEnsureWorkspace_RepositoryError(t *testing.T) {
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	workspaceRepo.Err = errors.New("database unavailable")
	svc := NewAuthService(workspaceRepo)

	_, err := svc.EnsureWorkspace("auth0|12345", "")
	assert.ErrorContains(t, err, "database unavailable")
}

func TestGetWorkspaceByAuth0ID_CreatesOnFirstUse(t *testing.T) {
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	svc := NewAuthService(workspaceRepo)

	first, err := svc.GetWorkspaceByAuth0ID("auth0|12345")
	require.NoError(t, err)
	second, err := svc.GetWorkspaceByAuth0ID("auth0|12345")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	byID, err := svc.GetWorkspaceByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, byID.ID)
}
