package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	formController "csmanager_backend/internals/features/forms/controller"
	userModel "csmanager_backend/internals/features/users/user/model"
	authMiddleware "csmanager_backend/internals/middlewares/auth"
)

func FormRoutes(r fiber.Router, db *gorm.DB) {
	adminOnly := authMiddleware.OnlyRoles(
		"Only admins can manage forms",
		string(userModel.RoleAdmin), string(userModel.RoleSuperadmin),
	)

	formsCtl := formController.NewFormController(db)
	forms := r.Group("/forms")
	forms.Get("/", formsCtl.List)
	forms.Post("/", adminOnly, formsCtl.Create)
	forms.Get("/:id", formsCtl.Retrieve)
	forms.Put("/:id", adminOnly, formsCtl.Update)
	forms.Patch("/:id", adminOnly, formsCtl.Update)
	forms.Delete("/:id", adminOnly, formsCtl.Delete)

	subsCtl := formController.NewFormSubmissionController(db)
	subs := r.Group("/form-submissions")
	subs.Get("/", subsCtl.List)
	subs.Post("/", subsCtl.Create)
	subs.Get("/:id", subsCtl.Retrieve)
	subs.Put("/:id", subsCtl.Update)
	subs.Patch("/:id", subsCtl.Update)
	subs.Delete("/:id", subsCtl.Delete)
}
