package utils

import (
	"testing"
	"time"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	claims := model.UserClaims{
		UserID:         "u1",
		Role:           model.RoleCreator,
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()},
	}
	token, err := GenerateToken(claims, "secret")
	require.NoError(t, err)

	parsed, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", parsed.UserID)
	assert.Equal(t, model.RoleCreator, parsed.Role)
}

func TestParseToken_Rejects(t *testing.T) {
	valid, err := GenerateToken(model.UserClaims{UserID: "u1", Role: model.RoleUser}, "secret")
	require.NoError(t, err)
	expired, err := GenerateToken(model.UserClaims{
		UserID:         "u1",
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Hour).Unix()},
	}, "secret")
	require.NoError(t, err)
	anonymous, err := GenerateToken(model.UserClaims{Role: model.RoleUser}, "secret")
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, "other"},
		{"expired", expired, "secret"},
		{"missing user id", anonymous, "secret"},
		{"garbage", "not-a-token", "secret"},
		{"no secret configured", valid, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.token, tt.secret)
			assert.Error(t, err)
		})
	}
}
