package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GetUserIDFromToken reads the acting user's id out of c.Locals("user_id").
// 401 when not logged in, 400 when the value is malformed.
func GetUserIDFromToken(c *fiber.Ctx) (uint, error) {
	v := c.Locals("user_id")
	if v == nil {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Not logged in")
	}

	switch t := v.(type) {
	case uint:
		if t == 0 {
			return 0, fiber.NewError(fiber.StatusUnauthorized, "Not logged in")
		}
		return t, nil
	case int:
		if t <= 0 {
			return 0, fiber.NewError(fiber.StatusUnauthorized, "Not logged in")
		}
		return uint(t), nil
	case float64:
		if t <= 0 {
			return 0, fiber.NewError(fiber.StatusUnauthorized, "Not logged in")
		}
		return uint(t), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, fiber.NewError(fiber.StatusUnauthorized, "Not logged in")
		}
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid user id in token")
		}
		return uint(n), nil
	default:
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid user id in token")
	}
}

// GetRoleFromToken reads the acting user's role out of c.Locals("user_role").
func GetRoleFromToken(c *fiber.Ctx) (string, error) {
	role, ok := c.Locals("user_role").(string)
	if !ok || role == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Missing role information")
	}
	return role, nil
}
