package websocket

import (
	"context"
	"errors"

	"github.com/auth0/go-jwt-middleware/v2/validator"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrWorkspaceNotFound = errors.New("workspace not found")
)

// TokenVerifier checks a raw bearer token; *validator.Validator satisfies it
type TokenVerifier interface {
	ValidateToken(ctx context.Context, token string) (interface{}, error)
}

// WorkspaceLookup resolves the workspace of an Auth0 subject
type WorkspaceLookup interface {
	GetWorkspaceByAuth0ID(auth0ID string) (workspaceID int32, err error)
}

// TokenWorkspaceResolver authenticates the `token` query parameter of a
// websocket upgrade and maps it to a workspace
type TokenWorkspaceResolver struct {
	verifier TokenVerifier
	lookup   WorkspaceLookup
}

// NewTokenWorkspaceResolver creates a TokenWorkspaceResolver
func NewTokenWorkspaceResolver(verifier TokenVerifier, lookup WorkspaceLookup) *TokenWorkspaceResolver {
	return &TokenWorkspaceResolver{verifier: verifier, lookup: lookup}
}

// ValidateToken returns the workspace the token's subject belongs to
func (r *TokenWorkspaceResolver) ValidateToken(token string) (int32, error) {
	claims, err := r.verifier.ValidateToken(context.Background(), token)
	if err != nil {
		return 0, ErrInvalidToken
	}
	validated, ok := claims.(*validator.ValidatedClaims)
	if !ok || validated.RegisteredClaims.Subject == "" {
		return 0, ErrInvalidToken
	}

	workspaceID, err := r.lookup.GetWorkspaceByAuth0ID(validated.RegisteredClaims.Subject)
	if err != nil {
		return 0, ErrWorkspaceNotFound
	}
	return workspaceID, nil
}
