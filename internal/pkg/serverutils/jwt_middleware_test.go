package serverutils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, secret string, userId string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userId,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newProtectedApp(middleware fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(middleware)
	app.Get("/me", func(ctx *fiber.Ctx) error {
		userId, _ := ctx.Locals("user_id").(string)
		return ctx.JSON(fiber.Map{"user_id": userId})
	})
	return app
}

func TestJwtMiddlewareRejectsMissingToken(t *testing.T) {
	app := newProtectedApp(JwtMiddleware)

	req := httptest.NewRequest("GET", "/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJwtMiddlewareRejectsBadToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-secret")
	app := newProtectedApp(JwtMiddleware)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJwtMiddlewareAcceptsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-secret")
	app := newProtectedApp(JwtMiddleware)

	token := signTestToken(t, "unit-secret", "7b9675b8-3bb4-4f06-ae37-3160f0a0c66e")
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestOptionalJwtMiddlewareAllowsAnonymous(t *testing.T) {
	app := newProtectedApp(OptionalJwtMiddleware)

	req := httptest.NewRequest("GET", "/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestOptionalJwtMiddlewareIgnoresInvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-secret")
	app := newProtectedApp(OptionalJwtMiddleware)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
