package router

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"docsign-client/internal/domain/entity"
)

// originGuard refuses browser requests that do not come from an allowed origin.
// Requests without Origin or Sec-Fetch-Site come from local tools and pass.
func originGuard(allowed []string) fiber.Handler {
	permitted := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		permitted[origin] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		origin := strings.ToLower(strings.TrimRight(c.Get(fiber.HeaderOrigin), "/"))
		if origin != "" {
			if _, ok := permitted[origin]; ok {
				return c.Next()
			}
			return forbiddenOrigin(c)
		}

		// navigations and no-cors loads carry no Origin
		if c.Get("Sec-Fetch-Site") == "cross-site" {
			return forbiddenOrigin(c)
		}
		return c.Next()
	}
}

func forbiddenOrigin(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(entity.NewErrorResponse("FORBIDDEN_ORIGIN", "Origin not allowed"))
}
