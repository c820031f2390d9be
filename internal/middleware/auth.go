package middleware

import (
	"karavan-backend/internal/models"
	"karavan-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// RequireAuth ensures a principal is in the session. Returns 401 with standard
// error format if not, 403 if the account has been deactivated.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := models.PrincipalFromSession(c.Locals(userLocal))
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !p.IsActive {
			return response.Error(c, "Account is deactivated", fiber.StatusForbidden, nil)
		}
		c.Locals("principal", p)
		return c.Next()
	}
}

// RequireManager gates manager-only routes. Must run after RequireAuth.
func RequireManager() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !p.IsManager() {
			return response.Error(c, "User is Forbidden from performing this action", fiber.StatusForbidden, nil)
		}
		return c.Next()
	}
}

// GetPrincipal returns the typed principal set by RequireAuth (nil if absent).
func GetPrincipal(c *fiber.Ctx) *models.Principal {
	if p, ok := c.Locals("principal").(*models.Principal); ok {
		return p
	}
	p, ok := models.PrincipalFromSession(c.Locals(userLocal))
	if !ok {
		return nil
	}
	return p
}

// GetUser returns the raw session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}
