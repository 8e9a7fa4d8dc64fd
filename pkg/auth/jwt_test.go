package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Issuer:     "loanflow-test",
		Expiration: 15 * time.Minute,
	})
	require.NoError(t, err)
	return svc
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService(t)

	token, err := svc.GenerateToken("person-1", "employee")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "person-1", claims.PersonID)
	assert.Equal(t, "person-1", claims.Subject)
	assert.Equal(t, "employee", claims.Role)
	assert.Equal(t, "loanflow-test", claims.Issuer)
}

func TestValidateToken_Rejects(t *testing.T) {
	good := newTestJWTService(t)

	t.Run("expired", func(t *testing.T) {
		svc, err := NewJWTService(JWTConfig{Secret: "s", Issuer: "loanflow-test", Expiration: -time.Hour})
		require.NoError(t, err)
		token, err := svc.GenerateToken("person-1", "customer")
		require.NoError(t, err)
		_, err = good.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewJWTService(JWTConfig{Secret: "other", Issuer: "loanflow-test", Expiration: time.Minute})
		require.NoError(t, err)
		token, err := other.GenerateToken("person-1", "customer")
		require.NoError(t, err)
		_, err = good.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, err := NewJWTService(JWTConfig{Secret: "test-secret-key-for-unit-tests", Issuer: "someone-else", Expiration: time.Minute})
		require.NoError(t, err)
		token, err := other.GenerateToken("person-1", "customer")
		require.NoError(t, err)
		_, err = good.ValidateToken(token)
		assert.ErrorContains(t, err, "invalid issuer")
	})

	t.Run("missing role", func(t *testing.T) {
		token, err := good.GenerateToken("person-1", "")
		require.NoError(t, err)
		_, err = good.ValidateToken(token)
		assert.ErrorContains(t, err, "no person or role")
	})
}

func TestRSAKeys(t *testing.T) {
	privPEM, pubPEM, err := GenerateKeyPair()
	require.NoError(t, err)

	issuer, err := NewJWTService(JWTConfig{PrivateKeyPEM: string(privPEM), Expiration: time.Minute})
	require.NoError(t, err)
	validator, err := NewJWTService(JWTConfig{PublicKeyPEM: string(pubPEM)})
	require.NoError(t, err)

	token, err := issuer.GenerateToken("person-9", "manager")
	require.NoError(t, err)
	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "manager", claims.Role)

	_, err = validator.GenerateToken("person-9", "manager")
	assert.Error(t, err, "validation-only service cannot sign")

	hmac := newTestJWTService(t)
	_, err = hmac.ValidateToken(token)
	assert.Error(t, err, "RS256 token must not validate in HMAC mode")
}

func TestNewJWTService_NoKeys(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	assert.Error(t, err)
}

func TestHasRole(t *testing.T) {
	claims := Claims{Role: "manager"}
	assert.True(t, claims.HasRole("employee", "manager"))
	assert.False(t, claims.HasRole("admin"))
	assert.False(t, claims.HasRole())
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	tok, ok = BearerToken("abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)
}

func TestUnaryAuthInterceptor(t *testing.T) {
	svc := newTestJWTService(t)
	interceptor := UnaryAuthInterceptor(svc, []string{"/grpc.health.v1.Health/Check"})

	var seen *Claims
	handler := func(ctx context.Context, _ interface{}) (interface{}, error) {
		seen, _ = ClaimsFromContext(ctx)
		return "ok", nil
	}
	info := &grpc.UnaryServerInfo{FullMethod: "/loanflow.v1.LoanWorkflowService/GetApplication"}

	t.Run("skipped method", func(t *testing.T) {
		seen = nil
		_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)
		require.NoError(t, err)
		assert.Nil(t, seen)
	})

	t.Run("missing header", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.MD{})
		_, err := interceptor(ctx, nil, info, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("bad token", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer nope"))
		_, err := interceptor(ctx, nil, info, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := svc.GenerateToken("person-1", "customer")
		require.NoError(t, err)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
		resp, err := interceptor(ctx, nil, info, handler)
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
		require.NotNil(t, seen)
		assert.Equal(t, "person-1", seen.PersonID)
	})
}
