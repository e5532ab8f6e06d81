package jwt_test

import (
	"testing"
	"time"

	"github.com/martinmanurung/cinevault/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	service := jwt.NewJWTService("secret", time.Hour)

	token, err := service.GenerateToken(jwt.TokenSubject{
		ExtID:      "user_abc",
		Name:       "Jane",
		Email:      "jane@example.com",
		IsVerified: true,
		Role:       "admin",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user_abc", claims.UserExtID)
	assert.Equal(t, "admin", claims.Role)
	assert.True(t, claims.IsVerified)
}

func TestValidateTokenStripsBearerPrefix(t *testing.T) {
	service := jwt.NewJWTService("secret", time.Hour)

	token, err := service.GenerateToken(jwt.TokenSubject{ExtID: "user_abc"})
	require.NoError(t, err)

	claims, err := service.ValidateToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user_abc", claims.UserExtID)
}

func TestValidateTokenWrongKey(t *testing.T) {
	issuer := jwt.NewJWTService("secret", time.Hour)
	validator := jwt.NewJWTService("other-secret", time.Hour)

	token, err := issuer.GenerateToken(jwt.TokenSubject{ExtID: "user_abc"})
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	service := jwt.NewJWTService("secret", time.Nanosecond)

	token, err := service.GenerateToken(jwt.TokenSubject{ExtID: "user_abc"})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}

func TestGenerateTokenRequiresExtID(t *testing.T) {
	service := jwt.NewJWTService("secret", time.Hour)

	_, err := service.GenerateToken(jwt.TokenSubject{})
	assert.Error(t, err)
}
