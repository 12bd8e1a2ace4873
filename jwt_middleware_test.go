package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useJwtConfig(t *testing.T, timeout int) {
	t.Helper()

	previous := ServiceConfig.Jwt
	ServiceConfig.Jwt = JwtConfig{Secret: "test-secret", Timeout: timeout}

	t.Cleanup(func() { ServiceConfig.Jwt = previous })
}

func TestTokenRoundTrip(t *testing.T) {
	useJwtConfig(t, 3600)

	token, err := IssueToken(42)
	require.NoError(t, err)

	userId, validationErr := ValidateToken(token)
	assert.Nil(t, validationErr)
	assert.Equal(t, uint(42), userId)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	useJwtConfig(t, -10)

	token, err := IssueToken(42)
	require.NoError(t, err)

	_, validationErr := ValidateToken(token)
	assert.NotNil(t, validationErr)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	useJwtConfig(t, 3600)

	token, err := IssueToken(42)
	require.NoError(t, err)

	ServiceConfig.Jwt.Secret = "another-secret"

	_, validationErr := ValidateToken(token)
	assert.NotNil(t, validationErr)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	useJwtConfig(t, 3600)

	_, validationErr := ValidateToken("not-a-token")
	assert.NotNil(t, validationErr)
}

func TestJwtRequired(t *testing.T) {
	useJwtConfig(t, 3600)

	app := fiber.New()
	app.Get("/me", JwtRequired, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": CurrentUserId(c)})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := IssueToken(42)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
