// Package middleware holds the Fiber middleware shared by the API routes.
package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/ognlabs/token-transfer/pkg/config"
)

// JwtProtected guards a route with JWT bearer authentication. The verified
// token is stored in c.Locals("user").
func JwtProtected(cfg config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	message := "Invalid or expired JWT"
	if err.Error() == "Missing or malformed JWT" {
		message = "Missing or malformed JWT"
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": message})
}
