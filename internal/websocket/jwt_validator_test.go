package websocket

import (
	"context"
	"errors"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	claims interface{}
	err    error
}

func (s stubVerifier) ValidateToken(ctx context.Context, token string) (interface{}, error) {
	return s.claims, s.err
}

type stubLookup struct {
	workspaceID int32
	err         error
	gotAuth0ID  string
}

func (s *stubLookup) GetWorkspaceByAuth0ID(auth0ID string) (int32, error) {
	s.gotAuth0ID = auth0ID
	return s.workspaceID, s.err
}

func claimsFor(subject string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{RegisteredClaims: validator.RegisteredClaims{Subject: subject}}
}

func TestTokenWorkspaceResolver_Success(t *testing.T) {
	lookup := &stubLookup{workspaceID: 12}
	resolver := NewTokenWorkspaceResolver(stubVerifier{claims: claimsFor("auth0|abc")}, lookup)

	workspaceID, err := resolver.ValidateToken("token")
	require.NoError(t, err)
	assert.Equal(t, int32(12), workspaceID)
	assert.Equal(t, "auth0|abc", lookup.gotAuth0ID)
}

func TestTokenWorkspaceResolver_Errors(t *testing.T) {
	tests := []struct {
		name     string
		verifier stubVerifier
		lookup   *stubLookup
		want     error
	}{
		{"rejected token", stubVerifier{err: errors.New("expired")}, &stubLookup{}, ErrInvalidToken},
		{"unexpected claims", stubVerifier{claims: "nope"}, &stubLookup{}, ErrInvalidToken},
		{"empty subject", stubVerifier{claims: claimsFor("")}, &stubLookup{}, ErrInvalidToken},
		{"no workspace", stubVerifier{claims: claimsFor("auth0|abc")}, &stubLookup{err: errors.New("db down")}, ErrWorkspaceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenWorkspaceResolver(tt.verifier, tt.lookup).ValidateToken("token")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
