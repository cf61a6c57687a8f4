package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "csmanager_backend/internals/features/users/auth/controller"
	userController "csmanager_backend/internals/features/users/user/controller"
	userModel "csmanager_backend/internals/features/users/user/model"
	authMiddleware "csmanager_backend/internals/middlewares/auth"
)

func UserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := userController.NewUserController(db)
	auth := authController.NewAuthController(db)

	superadminOnly := authMiddleware.OnlyRoles(
		"Only superadmins can manage accounts",
		string(userModel.RoleSuperadmin),
	)

	users := r.Group("/users")
	users.Get("/", ctl.List)
	users.Get("/me", auth.Me)
	users.Post("/register", ctl.Register)
	users.Post("/complete-candidate-setup", ctl.CompleteCandidateSetup)
	users.Post("/complete-room-setup", ctl.CompleteRoomSetup)
	users.Post("/upload-headshot", ctl.UploadHeadshot)
	users.Get("/download-headshot", ctl.DownloadHeadshot)
	users.Post("/send-form-link", ctl.SendFormLink)
	users.Get("/:id", ctl.Retrieve)
	users.Put("/:id", ctl.Update)
	users.Patch("/:id", ctl.Update)
	users.Delete("/:id", superadminOnly, ctl.Delete)
	users.Post("/:id/update_role", superadminOnly, ctl.UpdateRole)
}
