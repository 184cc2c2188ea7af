// Package middleware holds fiber middleware shared by the HTTP areas.
package middleware

import (
	"errors"
	"time"

	"github.com/amirasaad/minibank/pkg/config"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JwtProtected validates HS256 bearer tokens signed with cfg.Secret. The
// parsed token is stored under the "user" local.
func JwtProtected(cfg config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.Secret)},
		ErrorHandler: jwtError,
	})
}

// Protected guards a route when bearer auth is enabled and passes through
// otherwise.
func Protected(cfg config.Auth) fiber.Handler {
	if !cfg.Enabled() {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return JwtProtected(cfg.Jwt)
}

func jwtError(c *fiber.Ctx, err error) error {
	status := fiber.StatusUnauthorized
	title := "Invalid or expired JWT"
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		status = fiber.StatusBadRequest
		title = "Missing or malformed JWT"
	}
	c.Set(fiber.HeaderContentType, "application/problem+json")
	return c.Status(status).JSON(fiber.Map{
		"type":     "about:blank",
		"title":    title,
		"status":   status,
		"detail":   err.Error(),
		"instance": c.OriginalURL(),
	})
}

// IssueToken signs a token for subject that expires after cfg.Expiry.
func IssueToken(cfg config.Jwt, subject string, now time.Time) (string, error) {
	if cfg.Secret == "" {
		return "", errors.New("jwt secret is not configured")
	}
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.Expiry)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
}
