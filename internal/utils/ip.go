package utils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ClientIP resolves the originating network address of a request,
// preferring proxy-set headers over the socket address. The first entry
// of X-Forwarded-For is the original client when behind a proxy chain.
func ClientIP(c *fiber.Ctx) string {
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		if ip := FirstForwardedIP(forwarded); ip != "" {
			return ip
		}
	}
	if real := strings.TrimSpace(c.Get("X-Real-IP")); real != "" {
		return real
	}
	return c.IP()
}

// FirstForwardedIP extracts the first address from an X-Forwarded-For
// header value.
func FirstForwardedIP(header string) string {
	parts := strings.Split(header, ",")
	if len(parts) == 0 {
		return ""
	}
	return strings.TrimSpace(parts[0])
}
