package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	timeslotDTO "csmanager_backend/internals/features/scheduling/timeslots/dto"
	timeslotModel "csmanager_backend/internals/features/scheduling/timeslots/model"
	userModel "csmanager_backend/internals/features/users/user/model"
	helper "csmanager_backend/internals/helpers"
)

type SessionAttendeeController struct {
	DB *gorm.DB
}

func NewSessionAttendeeController(db *gorm.DB) *SessionAttendeeController {
	return &SessionAttendeeController{DB: db}
}

// GET /api/attendees?time_slot=
// Non-admins only see their own registrations.
func (ctl *SessionAttendeeController) List(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}

	q := ctl.DB.Preload("User").Order("registered_at ASC")
	if s := strings.TrimSpace(c.Query("time_slot")); s != "" {
		q = q.Where("time_slot_id = ?", s)
	}
	if !userModel.Role(role).IsAdmin() {
		q = q.Where("user_id = ?", userID)
	}

	var rows []timeslotModel.SessionAttendeeModel
	if err := q.Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load attendees")
	}
	return helper.JsonList(c, "Attendees loaded", timeslotDTO.FromAttendeeModels(rows), nil)
}

// GET /api/attendees/:id
func (ctl *SessionAttendeeController) Retrieve(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	var row timeslotModel.SessionAttendeeModel
	if err := ctl.DB.Preload("User").First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Attendee not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load attendee")
	}
	if !userModel.Role(role).IsAdmin() && row.UserID != userID {
		return helper.JsonError(c, fiber.StatusNotFound, "Attendee not found")
	}
	return helper.JsonOK(c, "Attendee loaded", timeslotDTO.FromAttendeeModel(row))
}

// DELETE /api/attendees/:id (admin only)
func (ctl *SessionAttendeeController) Delete(c *fiber.Ctx) error {
	_, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	if !userModel.Role(role).IsAdmin() {
		return helper.JsonError(c, fiber.StatusForbidden, "Only admins can remove attendees")
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	res := ctl.DB.Delete(&timeslotModel.SessionAttendeeModel{}, id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to remove attendee")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Attendee not found")
	}
	return helper.JsonDeleted(c)
}

// GET /api/attendees/my_registrations
func (ctl *SessionAttendeeController) MyRegistrations(c *fiber.Ctx) error {
	userID, _, err := helper.ActingUser(c)
	if err != nil {
		return err
	}

	var rows []timeslotModel.SessionAttendeeModel
	if err := ctl.DB.Preload("User").Preload("TimeSlot").
		Where("user_id = ?", userID).
		Order("registered_at ASC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load registrations")
	}

	out := make([]fiber.Map, 0, len(rows))
	for _, row := range rows {
		item := fiber.Map{
			"registration": timeslotDTO.FromAttendeeModel(row),
			"time_slot":    timeslotDTO.FromTimeSlotModel(row.TimeSlot),
		}
		out = append(out, item)
	}
	return helper.JsonList(c, "Registrations loaded", out, nil)
}
