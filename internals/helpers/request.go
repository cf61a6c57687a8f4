package helper

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ParseIDParam reads the :id route param as a positive integer.
func ParseIDParam(c *fiber.Ctx) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(c.Params("id")), 10, 64)
	if err != nil || n == 0 {
		return 0, JsonError(c, fiber.StatusBadRequest, "Invalid id")
	}
	return uint(n), nil
}

// ActingUser resolves the authenticated caller's id and role in one call.
func ActingUser(c *fiber.Ctx) (uint, string, error) {
	userID, err := GetUserIDFromToken(c)
	if err != nil {
		return 0, "", err
	}
	role, err := GetRoleFromToken(c)
	if err != nil {
		return 0, "", err
	}
	return userID, role, nil
}

// ValidationMap flattens validator errors into the field-keyed 400 shape.
func ValidationMap(err error) map[string][]string {
	out := map[string][]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			field := snakeField(fe)
			out[field] = append(out[field], "This field is invalid ("+fe.Tag()+").")
		}
		return out
	}
	out["non_field_errors"] = []string{err.Error()}
	return out
}

// snakeField converts the struct field name to its JSON-ish snake_case key.
func snakeField(fe validator.FieldError) string {
	name := fe.Field()
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
