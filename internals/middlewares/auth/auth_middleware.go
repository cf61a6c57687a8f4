package auth

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"csmanager_backend/internals/configs"
	userModel "csmanager_backend/internals/features/users/user/model"
)

// AuthMiddleware verifies the access token (Authorization: Bearer or the
// access_token cookie), loads the account and stores user_id + user_role in
// the request locals.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		secretKey := configs.JWTSecret
		if secretKey == "" {
			log.Println("[ERROR] JWT_SECRET is empty")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims := jwt.MapClaims{}
		if _, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secretKey), nil
		}); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or expired token")
		}

		userID, err := subjectID(claims)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}

		// Role is re-read from the DB so role changes take effect without a
		// new login.
		var user userModel.UserModel
		if err := db.Select("id", "role").First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - User not found")
			}
			log.Println("[ERROR] auth user lookup:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}

		c.Locals("user_id", user.ID)
		c.Locals("user_role", string(user.Role))
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) (string, error) {
	authHeader := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")), nil
	}
	if cookie := strings.TrimSpace(c.Cookies("access_token")); cookie != "" {
		return cookie, nil
	}
	return "", errors.New("Unauthorized - Missing token")
}

func subjectID(claims jwt.MapClaims) (uint, error) {
	switch sub := claims["sub"].(type) {
	case float64:
		if sub <= 0 {
			return 0, errors.New("invalid sub")
		}
		return uint(sub), nil
	case string:
		n, err := strconv.ParseUint(sub, 10, 64)
		if err != nil || n == 0 {
			return 0, errors.New("invalid sub")
		}
		return uint(n), nil
	default:
		return 0, errors.New("missing sub")
	}
}
