package middleware

import (
	"strings"

	"stockgrow/models"
	"stockgrow/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Protected parses the Bearer token and attaches its claims for handlers to
// read via c.Locals("user").
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if auth == "" {
			return c.Status(401).JSON(models.NewErrorResponse(401, 1, "missing authorization token"))
		}
		tokenString := strings.TrimPrefix(auth, "Bearer ")

		claims, err := utils.VerifyJWTToken(tokenString)
		if err != nil {
			return c.Status(401).JSON(models.NewErrorResponse(401, 1, "invalid or expired token"))
		}

		c.Locals("user", claims)
		return c.Next()
	}
}

// AdminOnly requires an ADMIN role claim. Must run after Protected.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("user").(jwt.MapClaims)
		if !ok {
			return c.Status(401).JSON(models.NewErrorResponse(401, 1, "missing authorization token"))
		}
		if role, _ := claims["role"].(string); role != string(models.RoleAdmin) {
			return c.Status(403).JSON(models.NewErrorResponse(403, 1, "admin access required"))
		}
		return c.Next()
	}
}
