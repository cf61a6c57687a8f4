package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	availabilityController "csmanager_backend/internals/features/availability/controller"
	userModel "csmanager_backend/internals/features/users/user/model"
	authMiddleware "csmanager_backend/internals/middlewares/auth"
)

func AvailabilityRoutes(r fiber.Router, db *gorm.DB) {
	importGuard := authMiddleware.OnlyRoles(
		"Only admins can import availability",
		string(userModel.RoleAdmin), string(userModel.RoleSuperadmin),
	)
	inviteGuard := authMiddleware.OnlyRoles(
		"Only admins can invite faculty",
		string(userModel.RoleAdmin), string(userModel.RoleSuperadmin),
	)

	availCtl := availabilityController.NewFacultyAvailabilityController(db)
	avail := r.Group("/faculty-availability")
	avail.Get("/", availCtl.List)
	avail.Post("/", availCtl.Create)
	avail.Get("/:id", availCtl.Retrieve)
	avail.Put("/:id", availCtl.Update)
	avail.Patch("/:id", availCtl.Update)
	avail.Delete("/:id", availCtl.Delete)
	avail.Post("/:id/import_slots", importGuard, availCtl.ImportSlots)

	inviteCtl := availabilityController.NewAvailabilityInvitationController(db)
	invites := r.Group("/availability-invitations")
	invites.Get("/", inviteCtl.List)
	invites.Post("/invite_faculty", inviteGuard, inviteCtl.InviteFaculty)
	invites.Get("/:id", inviteCtl.Retrieve)
	invites.Delete("/:id", inviteCtl.Delete)
}
