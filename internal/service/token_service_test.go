package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrms-suite/ledger-api/internal/models"
)

func signTestToken(t *testing.T, secret string, claims models.JWTClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestTokenServiceValidatesRoundTrip(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "test-secret"}, nil)
	claims := models.JWTClaims{
		UserID:   "emp-1",
		Role:     models.RoleEmployee,
		FullName: "Dana Field",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	parsed, err := svc.ValidateToken(signTestToken(t, "test-secret", claims))
	require.NoError(t, err)
	assert.Equal(t, "emp-1", parsed.UserID)
	assert.Equal(t, models.RoleEmployee, parsed.Role)
}

func TestTokenServiceRejectsWrongSecret(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "test-secret"}, nil)
	claims := models.JWTClaims{UserID: "emp-1", Role: models.RoleEmployee}

	_, err := svc.ValidateToken(signTestToken(t, "other-secret", claims))
	require.Error(t, err)
}

func TestTokenServiceRejectsExpired(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "test-secret"}, nil)
	claims := models.JWTClaims{
		UserID: "emp-1",
		Role:   models.RoleEmployee,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}

	_, err := svc.ValidateToken(signTestToken(t, "test-secret", claims))
	require.Error(t, err)
}

func TestTokenServiceRejectsUnknownRole(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "test-secret"}, nil)
	claims := models.JWTClaims{
		UserID: "emp-1",
		Role:   "superuser",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	_, err := svc.ValidateToken(signTestToken(t, "test-secret", claims))
	require.Error(t, err)
}
