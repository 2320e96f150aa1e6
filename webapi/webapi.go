// Package webapi assembles the Fiber application: middleware, health and
// metrics endpoints, and the per-domain route packages.
package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/ognlabs/token-transfer/app"
	accountweb "github.com/ognlabs/token-transfer/webapi/account"
	authweb "github.com/ognlabs/token-transfer/webapi/auth"
	"github.com/ognlabs/token-transfer/webapi/common"
	transferweb "github.com/ognlabs/token-transfer/webapi/transfer"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupApp initializes Fiber with the application's routes and middleware.
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err.Error())
		},
	})

	fiberApp.Use(limiter.New(limiter.Config{
		Max:          a.Config.RateLimit.MaxRequests,
		Expiration:   a.Config.RateLimit.Window,
		KeyGenerator: common.ClientIP,
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(c, "Too Many Requests",
				"rate limit exceeded", fiber.StatusTooManyRequests)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Token transfer API is running")
	})
	fiberApp.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authweb.Routes(fiberApp, a.AuthService)
	accountweb.Routes(fiberApp, a.AccountService, a.AuthService, a.Config)
	transferweb.Routes(fiberApp, a.TransferService, a.AuthService, a.Config)
	return fiberApp
}
