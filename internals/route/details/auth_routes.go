package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "csmanager_backend/internals/features/users/auth/controller"
	middlewares "csmanager_backend/internals/middlewares"
)

func AuthPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := authController.NewAuthController(db)

	auth := r.Group("/auth")
	auth.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)
	auth.Post("/google-login", middlewares.LoginRateLimiter(), ctl.GoogleLogin)
	auth.Post("/logout", ctl.Logout)

	// legacy alias kept for older frontends
	r.Post("/users/google-login", middlewares.LoginRateLimiter(), ctl.GoogleLogin)
}
