package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtrail/bootcamp-api/internal/models"
)

const testSecret = "test-secret"

func TestGenerateAndValidateJWT(t *testing.T) {
	token, err := GenerateJWT(testSecret, "64f0c9e2a1b2c3d4e5f60718", models.RolePublisher, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "64f0c9e2a1b2c3d4e5f60718", claims.Subject)
	assert.Equal(t, models.RolePublisher, claims.Role)
}

func TestValidateJWTFailures(t *testing.T) {
	valid, err := GenerateJWT(testSecret, "64f0c9e2a1b2c3d4e5f60718", models.RoleUser, time.Hour)
	require.NoError(t, err)

	expired, err := GenerateJWT(testSecret, "64f0c9e2a1b2c3d4e5f60718", models.RoleUser, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"malformed", "not.a.token"},
		{"empty", ""},
		{"wrong secret", valid + ""},
		{"expired", expired},
		{"tampered", valid[:len(valid)-2] + "xx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret := testSecret
			if tt.name == "wrong secret" {
				secret = "other-secret"
			}
			_, err := ValidateJWT(secret, tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestGenerateJWTNoSecret(t *testing.T) {
	_, err := GenerateJWT("", "id", models.RoleUser, time.Hour)
	assert.Error(t, err)
}
