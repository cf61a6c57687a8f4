package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	templateDTO "csmanager_backend/internals/features/scheduling/templates/dto"
	templateModel "csmanager_backend/internals/features/scheduling/templates/model"
	userModel "csmanager_backend/internals/features/users/user/model"
	helper "csmanager_backend/internals/helpers"
)

// TimeSlotTemplateController serves the reusable slot shapes. Read is open to
// any authenticated user; writes need admin or faculty.
type TimeSlotTemplateController struct {
	DB *gorm.DB
}

func NewTimeSlotTemplateController(db *gorm.DB) *TimeSlotTemplateController {
	return &TimeSlotTemplateController{DB: db}
}

var validate = validator.New()

func (ctl *TimeSlotTemplateController) List(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	q := ctl.DB.Order("name ASC")
	if !userModel.Role(role).IsAdmin() {
		q = q.Where("created_by_id = ?", userID)
	}
	var rows []templateModel.TimeSlotTemplateModel
	if err := q.Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load templates")
	}
	return helper.JsonList(c, "Templates loaded", templateDTO.FromTimeSlotTemplateModels(rows), nil)
}

func (ctl *TimeSlotTemplateController) Retrieve(c *fiber.Ctx) error {
	if _, _, err := helper.ActingUser(c); err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}
	var row templateModel.TimeSlotTemplateModel
	if err := ctl.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Template not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load template")
	}
	return helper.JsonOK(c, "Template loaded", templateDTO.FromTimeSlotTemplateModel(row))
}

func (ctl *TimeSlotTemplateController) Create(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	if !userModel.Role(role).IsStaffLike() {
		return helper.JsonError(c, fiber.StatusForbidden, "Only admins and faculty can create templates")
	}

	var req templateDTO.CreateTimeSlotTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	row := req.ToModel(userID)
	if err := ctl.DB.Create(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create template")
	}
	return helper.JsonCreated(c, "Template created", templateDTO.FromTimeSlotTemplateModel(row))
}

func (ctl *TimeSlotTemplateController) Update(c *fiber.Ctx) error {
	_, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	if !userModel.Role(role).IsStaffLike() {
		return helper.JsonError(c, fiber.StatusForbidden, "Only admins and faculty can modify templates")
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	var row templateModel.TimeSlotTemplateModel
	if err := ctl.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Template not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load template")
	}

	var req templateDTO.UpdateTimeSlotTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	if req.Name != nil {
		row.Name = *req.Name
	}
	if req.Description != nil {
		row.Description = *req.Description
	}
	if req.StartTime != nil {
		row.StartTime = req.StartTime
	}
	if req.DurationMinutes != nil {
		row.DurationMinutes = *req.DurationMinutes
	}
	if req.MaxAttendees != nil {
		row.MaxAttendees = *req.MaxAttendees
	}
	if req.UseLocationType != nil {
		row.UseLocationType = *req.UseLocationType
	}
	if req.CustomLocation != nil {
		row.CustomLocation = *req.CustomLocation
	}
	if req.LocationID != nil {
		row.LocationID = req.LocationID
	}
	if req.LocationTypeID != nil {
		row.LocationTypeID = req.LocationTypeID
	}
	if req.Notes != nil {
		row.Notes = *req.Notes
	}
	if req.IsVisible != nil {
		row.IsVisible = *req.IsVisible
	}
	if req.HasEndTime != nil {
		row.HasEndTime = *req.HasEndTime
	}

	if err := ctl.DB.Save(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update template")
	}
	return helper.JsonUpdated(c, "Template updated", templateDTO.FromTimeSlotTemplateModel(row))
}

func (ctl *TimeSlotTemplateController) Delete(c *fiber.Ctx) error {
	_, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	if !userModel.Role(role).IsStaffLike() {
		return helper.JsonError(c, fiber.StatusForbidden, "Only admins and faculty can delete templates")
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	res := ctl.DB.Delete(&templateModel.TimeSlotTemplateModel{}, id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete template")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Template not found")
	}
	return helper.JsonDeleted(c)
}
