package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVerifier accepts "good-token" for subject auth0|12345
type fakeVerifier struct {
	claims interface{}
}

func (f *fakeVerifier) ValidateToken(ctx context.Context, token string) (interface{}, error) {
	if token != "good-token" {
		return nil, errors.New("signature invalid")
	}
	if f.claims != nil {
		return f.claims, nil
	}
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: "auth0|12345"},
		CustomClaims:     &CustomClaims{Email: "dana@example.com", Name: "Dana"},
	}, nil
}

// MockWorkspaceProvider maps Auth0 IDs to workspaces
type MockWorkspaceProvider struct {
	workspaces map[string]int32
	err        error
}

func (m *MockWorkspaceProvider) GetWorkspaceByAuth0ID(auth0ID string) (int32, error) {
	if m.err != nil {
		return 0, m.err
	}
	if id, ok := m.workspaces[auth0ID]; ok {
		return id, nil
	}
	return 0, errors.New("workspace not found")
}

func runAuth(t *testing.T, m *AuthMiddleware, header string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := m.Authenticate()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	return rec, c, called
}

func TestAuthMiddleware_RejectsBadHeaders(t *testing.T) {
	m := NewAuthMiddlewareWithVerifier(&fakeVerifier{}, nil)

	tests := []struct {
		name   string
		header string
		detail string
	}{
		{"missing header", "", "missing authorization header"},
		{"no bearer prefix", "good-token", "invalid authorization header format"},
		{"basic scheme", "Basic dXNlcjpwYXNz", "invalid authorization header format"},
		{"bad token", "Bearer forged", "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, called := runAuth(t, m, tt.header)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var problem problemDetails
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, errorTypeUnauthorized, problem.Type)
			assert.Equal(t, tt.detail, problem.Detail)
			assert.Equal(t, "/api/v1/deals", problem.Instance)
		})
	}
}

func TestAuthMiddleware_RejectsClaimsWithoutSubject(t *testing.T) {
	m := NewAuthMiddlewareWithVerifier(&fakeVerifier{claims: &validator.ValidatedClaims{}}, nil)

	rec, _, called := runAuth(t, m, "Bearer good-token")
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_WorkspaceInjection(t *testing.T) {
	t.Run("injects workspace ID when provider returns valid workspace", func(t *testing.T) {
		provider := &MockWorkspaceProvider{workspaces: map[string]int32{"auth0|12345": 42}}
		m := NewAuthMiddlewareWithVerifier(&fakeVerifier{}, provider)

		rec, c, called := runAuth(t, m, "Bearer good-token")
		require.True(t, called)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int32(42), GetWorkspaceID(c))
		assert.Equal(t, "auth0|12345", GetAuth0ID(c))
		require.NotNil(t, GetCustomClaims(c))
		assert.Equal(t, "Dana", GetCustomClaims(c).Name)
	})

	t.Run("workspace provider error returns unauthorized", func(t *testing.T) {
		provider := &MockWorkspaceProvider{err: errors.New("db down")}
		m := NewAuthMiddlewareWithVerifier(&fakeVerifier{}, provider)

		rec, _, called := runAuth(t, m, "Bearer good-token")
		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("nil workspace provider skips workspace injection", func(t *testing.T) {
		m := NewAuthMiddlewareWithVerifier(&fakeVerifier{}, nil)

		_, c, called := runAuth(t, m, "Bearer good-token")
		require.True(t, called)
		assert.Equal(t, int32(0), GetWorkspaceID(c))
	})
}

func TestContextAccessors_Empty(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Equal(t, "", GetAuth0ID(c))
	assert.Nil(t, GetClaims(c))
	assert.Nil(t, GetCustomClaims(c))
	assert.Equal(t, int32(0), GetWorkspaceID(c))
}

func TestCustomClaims_Validate(t *testing.T) {
	claims := CustomClaims{Email: "test@example.com", Name: "Test"}
	assert.NoError(t, claims.Validate(context.Background()))
}

func TestNewTokenValidator(t *testing.T) {
	v, err := NewTokenValidator("tenant.us.auth0.com", "https://api.underwriter.app")
	require.NoError(t, err)
	assert.NotNil(t, v)

	m := NewAuthMiddlewareWithVerifier(v, nil)
	assert.Equal(t, TokenVerifier(v), m.Verifier())
}
