package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authMiddleware "csmanager_backend/internals/middlewares/auth"
	routeDetails "csmanager_backend/internals/route/details"
)

// SetupRoutes mounts the public auth endpoints, then everything else behind
// the JWT middleware under /api.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	log.Println("[INFO] Mounting public auth routes...")
	public := app.Group("/api")
	routeDetails.AuthPublicRoutes(public, db)

	log.Println("[INFO] Mounting authenticated routes...")
	private := app.Group("/api", authMiddleware.AuthMiddleware(db))
	routeDetails.UserRoutes(private, db)
	routeDetails.SchedulingRoutes(private, db)
	routeDetails.CatalogRoutes(private, db)
	routeDetails.FormRoutes(private, db)
	routeDetails.AvailabilityRoutes(private, db)
}
