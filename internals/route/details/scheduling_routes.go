package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	sectionController "csmanager_backend/internals/features/scheduling/sections/controller"
	sessionController "csmanager_backend/internals/features/scheduling/sessions/controller"
	templateController "csmanager_backend/internals/features/scheduling/templates/controller"
	timeslotController "csmanager_backend/internals/features/scheduling/timeslots/controller"
)

func SchedulingRoutes(r fiber.Router, db *gorm.DB) {
	sessions := sessionController.NewSessionController(db)
	seasons := r.Group("/seasons")
	seasons.Get("/", sessions.List)
	seasons.Post("/", sessions.Create)
	seasons.Get("/:id", sessions.Retrieve)
	seasons.Put("/:id", sessions.Update)
	seasons.Patch("/:id", sessions.Update)
	seasons.Delete("/:id", sessions.Delete)

	sectionsCtl := sectionController.NewCandidateSectionController(db)
	sections := r.Group("/candidate-sections")
	sections.Get("/", sectionsCtl.List)
	sections.Post("/", sectionsCtl.Create)
	sections.Get("/:id", sectionsCtl.Retrieve)
	sections.Put("/:id", sectionsCtl.Update)
	sections.Patch("/:id", sectionsCtl.Update)
	sections.Delete("/:id", sectionsCtl.Delete)

	slotsCtl := timeslotController.NewSessionTimeSlotController(db)
	slots := r.Group("/timeslots")
	slots.Get("/", slotsCtl.List)
	slots.Post("/", slotsCtl.Create)
	slots.Get("/:id", slotsCtl.Retrieve)
	slots.Put("/:id", slotsCtl.Update)
	slots.Patch("/:id", slotsCtl.Update)
	slots.Delete("/:id", slotsCtl.Delete)
	slots.Post("/:id/register", slotsCtl.Register)
	slots.Post("/:id/unregister", slotsCtl.Unregister)

	attendeesCtl := timeslotController.NewSessionAttendeeController(db)
	attendees := r.Group("/attendees")
	attendees.Get("/", attendeesCtl.List)
	attendees.Get("/my_registrations", attendeesCtl.MyRegistrations)
	attendees.Get("/:id", attendeesCtl.Retrieve)
	attendees.Delete("/:id", attendeesCtl.Delete)

	templatesCtl := templateController.NewTimeSlotTemplateController(db)
	templates := r.Group("/timeslot-templates")
	templates.Get("/", templatesCtl.List)
	templates.Post("/", templatesCtl.Create)
	templates.Get("/:id", templatesCtl.Retrieve)
	templates.Put("/:id", templatesCtl.Update)
	templates.Patch("/:id", templatesCtl.Update)
	templates.Delete("/:id", templatesCtl.Delete)
}
