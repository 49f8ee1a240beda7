package middleware

import (
	"slices"

	"github.com/AzizRahmanYaad/cbs-dashboard/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireRole rejects requests whose JWT carries none of the given roles.
// Role-name matching stays at the HTTP edge; services work with capabilities.
func RequireRole(skipAuth bool, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skipAuth {
			return c.Next()
		}

		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		for _, role := range roles {
			if slices.Contains(claims.Roles, role) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: Insufficient permissions",
		})
	}
}
