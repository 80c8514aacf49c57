// middlewares/cron_key.go
package middlewares

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CronKeyMiddleware memproteksi endpoint trigger (materialize) dengan shared
// secret Bearer. Perbandingan constant-time. Kalau secret kosong, endpoint
// dibiarkan terbuka (mode lokal/dev).
func CronKeyMiddleware(secret string) fiber.Handler {
	secret = strings.TrimSpace(secret)

	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		if subtle.ConstantTimeCompare([]byte(raw), []byte(secret)) != 1 {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}
		return c.Next()
	}
}
