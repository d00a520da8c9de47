package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/eventcrew/eventcrew-api/internal/utils"
)

// JWTBearer reads the session token from the Authorization header and puts
// the verified identity into locals for downstream handlers.
func JWTBearer(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.ErrUnauthorized
		}

		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			return fiber.ErrUnauthorized
		}

		claims, err := utils.ParseJWT(secret, strings.TrimSpace(tokenStr))
		if err != nil {
			return fiber.ErrUnauthorized
		}

		uid := strings.TrimSpace(claims.UserID)
		if uid == "" {
			return fiber.ErrUnauthorized
		}

		c.Locals("userId", uid)
		c.Locals("phone", claims.Phone)
		return c.Next()
	}
}
