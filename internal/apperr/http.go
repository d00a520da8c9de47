package apperr

import "github.com/gofiber/fiber/v2"

// Write renders err as the standard JSON error body.
func Write(c *fiber.Ctx, err error) error {
	ae := From(err)
	return c.Status(ae.HTTPStatus).JSON(fiber.Map{
		"success":    false,
		"error_code": ae.Code,
		"message":    ae.Message,
	})
}
