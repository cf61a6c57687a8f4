package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func setupGuardedApp(guard fiber.Handler, role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != "" {
			c.Locals("user_role", role)
		}
		return c.Next()
	})
	app.Get("/guarded", guard, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestOnlyRoles(t *testing.T) {
	guard := OnlyRoles("Only admins can manage forms", "admin", "superadmin")

	cases := []struct {
		name string
		role string
		want int
	}{
		{"matching role passes", "admin", fiber.StatusOK},
		{"second allowed role passes", "superadmin", fiber.StatusOK},
		{"other role is forbidden", "faculty", fiber.StatusForbidden},
		{"missing role is unauthorized", "", fiber.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := setupGuardedApp(guard, tc.role)
			resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Errorf("Expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}
