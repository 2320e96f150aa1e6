package common

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ClientIP returns the requester's address, preferring the proxy headers set
// by the load balancer over the direct peer address.
func ClientIP(c *fiber.Ctx) string {
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
		if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
			return strings.TrimSpace(forwardedFor[:commaIndex])
		}
		return strings.TrimSpace(forwardedFor)
	}
	return c.IP()
}
