package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirasaad/minibank/pkg/config"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJwt = config.Jwt{Secret: "s3cret", Expiry: time.Hour, Issuer: "minibank"}

func newProtectedApp(cfg config.Auth) *fiber.App {
	app := fiber.New()
	app.Get("/", Protected(cfg), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	return app
}

func TestProtected_Disabled(t *testing.T) {
	app := newProtectedApp(config.Auth{})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProtected_Enabled(t *testing.T) {
	app := newProtectedApp(config.Auth{Jwt: testJwt})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	token, err := IssueToken(testJwt, "ops", time.Now())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	expired, err := IssueToken(testJwt, "ops", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJwtError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"malformed", jwtware.ErrJWTMissingOrMalformed, fiber.StatusBadRequest},
		{"other", errors.New("any other error"), fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(func(c *fiber.Ctx) error { return jwtError(c, tt.err) })
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestIssueToken_NoSecret(t *testing.T) {
	_, err := IssueToken(config.Jwt{}, "ops", time.Now())
	assert.Error(t, err)
}
