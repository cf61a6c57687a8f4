package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	locationController "csmanager_backend/internals/features/catalog/locations/controller"
)

func CatalogRoutes(r fiber.Router, db *gorm.DB) {
	typesCtl := locationController.NewLocationTypeController(db)
	types := r.Group("/location-types")
	types.Get("/", typesCtl.List)
	types.Post("/", typesCtl.Create)
	types.Get("/:id", typesCtl.Retrieve)
	types.Put("/:id", typesCtl.Update)
	types.Patch("/:id", typesCtl.Update)
	types.Delete("/:id", typesCtl.Delete)

	locationsCtl := locationController.NewLocationController(db)
	locations := r.Group("/locations")
	locations.Get("/", locationsCtl.List)
	locations.Post("/", locationsCtl.Create)
	locations.Get("/:id", locationsCtl.Retrieve)
	locations.Put("/:id", locationsCtl.Update)
	locations.Patch("/:id", locationsCtl.Update)
	locations.Delete("/:id", locationsCtl.Delete)
}
