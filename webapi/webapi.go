// Package webapi provides HTTP handlers and API endpoints for MiniBank.
// It is organized into sub-packages for different domains:
// - account: Account, transfer and transaction log endpoints
// - user: User management endpoints
// - currency: Currency and exchange rate endpoints
package webapi

import (
	"errors"
	"strings"

	_ "github.com/amirasaad/minibank/docs"
	"github.com/amirasaad/minibank/pkg/app"
	accountweb "github.com/amirasaad/minibank/webapi/account"
	"github.com/amirasaad/minibank/webapi/common"
	currencyweb "github.com/amirasaad/minibank/webapi/currency"
	userweb "github.com/amirasaad/minibank/webapi/user"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(app *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})
	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		PersistAuthorization: true,
	}))

	rateLimit := app.Config.RateLimit
	if rateLimit.MaxRequests > 0 {
		fiberApp.Use(limiter.New(limiter.Config{
			Max:          rateLimit.MaxRequests,
			Expiration:   rateLimit.Window,
			KeyGenerator: clientKey,
			LimitReached: func(c *fiber.Ctx) error {
				return common.ProblemDetailsJSON(
					c,
					"Too Many Requests",
					errors.New("rate limit exceeded"),
					fiber.StatusTooManyRequests,
				)
			},
		}))
	}
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("MiniBank API is running!")
	})

	userweb.Routes(fiberApp, app.UserService, app.Config)
	accountweb.Routes(fiberApp, app.AccountService, app.Config)
	currencyweb.Routes(fiberApp, app.CurrencyService, app.Config)
	return fiberApp
}

// clientKey identifies the caller for rate limiting. Behind a proxy the
// first X-Forwarded-For hop wins, then X-Real-IP, then the socket address.
func clientKey(c *fiber.Ctx) string {
	if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
		if first, _, found := strings.Cut(forwardedFor, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwardedFor)
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}
