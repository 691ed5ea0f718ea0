package postgres

import (
	"context"
	"errors"

	"github.com/dafibh/underwriter/underwriter-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const workspaceColumns = `id, owner_auth0_id, name, created_at, updated_at`

// WorkspaceRepository implements domain.WorkspaceRepository using PostgreSQL
type WorkspaceRepository struct {
	pool *pgxpool.Pool
}

var _ domain.WorkspaceRepository = (*WorkspaceRepository)(nil)

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(pool *pgxpool.Pool) *WorkspaceRepository {
	return &WorkspaceRepository{pool: pool}
}

// GetByID retrieves a workspace by its ID
func (r *WorkspaceRepository) GetByID(id int32) (*domain.Workspace, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+workspaceColumns+` FROM workspaces WHERE id = $1`, id)
	return scanWorkspace(row)
}

// GetByOwnerAuth0ID retrieves the workspace owned by an Auth0 subject
func (r *WorkspaceRepository) GetByOwnerAuth0ID(auth0ID string) (*domain.Workspace, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+workspaceColumns+` FROM workspaces WHERE owner_auth0_id = $1`, auth0ID)
	return scanWorkspace(row)
}

// CreateOrGetByOwnerAuth0ID returns the subject's workspace, creating it on
// first login. Concurrent first requests resolve to the same row.
func (r *WorkspaceRepository) CreateOrGetByOwnerAuth0ID(auth0ID, name string) (*domain.Workspace, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO workspaces (owner_auth0_id, name)
		VALUES ($1, $2)
		ON CONFLICT (owner_auth0_id) DO UPDATE SET owner_auth0_id = EXCLUDED.owner_auth0_id
		RETURNING `+workspaceColumns, auth0ID, name)
	return scanWorkspace(row)
}

func scanWorkspace(row pgx.Row) (*domain.Workspace, error) {
	var w domain.Workspace
	err := row.Scan(&w.ID, &w.OwnerAuth0ID, &w.Name, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, err
	}
	return &w, nil
}
