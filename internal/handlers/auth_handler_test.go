package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devtrail/bootcamp-api/internal/config"
	"github.com/devtrail/bootcamp-api/internal/models"
	"github.com/devtrail/bootcamp-api/internal/utils"
)

func TestSendTokenResponse(t *testing.T) {
	cfg := &config.Config{
		Env:             "development",
		JWTSecret:       "test-secret",
		JWTExpire:       time.Hour,
		JWTCookieExpire: time.Hour,
	}
	h := &Handler{Cfg: cfg, Log: zerolog.Nop()}

	user := &models.User{ID: primitive.NewObjectID(), Role: models.RolePublisher}

	c, w := testContext()
	h.sendTokenResponse(c, http.StatusCreated, user)

	assert.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.NotEmpty(t, body.Token)

	// The token's subject resolves back to the user it was issued for.
	claims, err := utils.ValidateJWT(cfg.JWTSecret, body.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.Subject)
	assert.Equal(t, models.RolePublisher, claims.Role)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, body.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.False(t, cookies[0].Secure, "secure flag only set in production")
}

func TestSendTokenResponseSecureInProduction(t *testing.T) {
	cfg := &config.Config{
		Env:             "production",
		JWTSecret:       "test-secret",
		JWTExpire:       time.Hour,
		JWTCookieExpire: time.Hour,
	}
	h := &Handler{Cfg: cfg, Log: zerolog.Nop()}

	c, w := testContext()
	h.sendTokenResponse(c, http.StatusOK, &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser})

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
}
