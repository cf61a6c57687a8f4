package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	sectionDTO "csmanager_backend/internals/features/scheduling/sections/dto"
	sectionModel "csmanager_backend/internals/features/scheduling/sections/model"
	sessionDTO "csmanager_backend/internals/features/scheduling/sessions/dto"
	sessionModel "csmanager_backend/internals/features/scheduling/sessions/model"
	timeslotModel "csmanager_backend/internals/features/scheduling/timeslots/model"
	userModel "csmanager_backend/internals/features/users/user/model"
	helper "csmanager_backend/internals/helpers"
)

type SessionController struct {
	DB *gorm.DB
}

func NewSessionController(db *gorm.DB) *SessionController {
	return &SessionController{DB: db}
}

var validate = validator.New()

// GET /api/seasons
func (ctl *SessionController) List(c *fiber.Ctx) error {
	var rows []sessionModel.SessionModel
	if err := ctl.DB.Order("start_date DESC, id DESC").Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load sessions")
	}
	return helper.JsonList(c, "Sessions loaded", sessionDTO.FromSessionModels(rows), nil)
}

// GET /api/seasons/:id
// Single-object retrieval embeds the candidate sections and their slots.
func (ctl *SessionController) Retrieve(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	var row sessionModel.SessionModel
	if err := ctl.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Session not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load session")
	}

	var sections []sectionModel.CandidateSectionModel
	if err := ctl.DB.Preload("Candidate").
		Where("session_id = ?", row.ID).
		Order("id ASC").
		Find(&sections).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load candidate sections")
	}

	detail := fiber.Map{
		"session":            sessionDTO.FromSessionModel(row),
		"candidate_sections": ctl.sectionsWithSlots(sections),
	}
	return helper.JsonOK(c, "Session loaded", detail)
}

// POST /api/seasons (admin only)
func (ctl *SessionController) Create(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	if !userModel.Role(role).IsAdmin() {
		return helper.JsonError(c, fiber.StatusForbidden, "Only admins can create sessions")
	}

	var req sessionDTO.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}
	start, end, fieldErrs := req.ParseDates()
	if fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	row := req.ToModel(userID, start, end)
	if err := ctl.DB.Create(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create session")
	}
	return helper.JsonCreated(c, "Session created", sessionDTO.FromSessionModel(row))
}

// PUT|PATCH /api/seasons/:id (admin only)
func (ctl *SessionController) Update(c *fiber.Ctx) error {
	_, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	if !userModel.Role(role).IsAdmin() {
		return helper.JsonError(c, fiber.StatusForbidden, "Only admins can modify sessions")
	}

	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	var row sessionModel.SessionModel
	if err := ctl.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Session not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load session")
	}

	var req sessionDTO.UpdateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	fieldErrs := map[string][]string{}
	if req.Title != nil {
		row.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		row.Description = *req.Description
	}
	if req.StartDate != nil {
		if t := sectionDTO.ParseDate("start_date", req.StartDate, fieldErrs); t != nil {
			row.StartDate = *t
		}
	}
	if req.EndDate != nil {
		if t := sectionDTO.ParseDate("end_date", req.EndDate, fieldErrs); t != nil {
			row.EndDate = *t
		}
	}
	if len(fieldErrs) == 0 && row.EndDate.Before(row.StartDate) {
		fieldErrs["end_date"] = append(fieldErrs["end_date"], "End date must not be before start date.")
	}
	if len(fieldErrs) > 0 {
		return helper.JsonValidationError(c, fieldErrs)
	}

	if err := ctl.DB.Save(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update session")
	}
	return helper.JsonUpdated(c, "Session updated", sessionDTO.FromSessionModel(row))
}

// DELETE /api/seasons/:id (admin only)
func (ctl *SessionController) Delete(c *fiber.Ctx) error {
	_, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	if !userModel.Role(role).IsAdmin() {
		return helper.JsonError(c, fiber.StatusForbidden, "Only admins can delete sessions")
	}

	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	res := ctl.DB.Delete(&sessionModel.SessionModel{}, id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete session")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Session not found")
	}
	return helper.JsonDeleted(c)
}

func (ctl *SessionController) sectionsWithSlots(sections []sectionModel.CandidateSectionModel) []sectionDTO.CandidateSectionResponse {
	out := make([]sectionDTO.CandidateSectionResponse, 0, len(sections))
	for _, sec := range sections {
		var slots []timeslotModel.SessionTimeSlotModel
		ctl.DB.Preload("Attendees").Preload("Attendees.User").
			Where("candidate_section_id = ?", sec.ID).
			Order("start_time ASC").
			Find(&slots)
		out = append(out, sectionDTO.FromCandidateSectionModel(sec, slots))
	}
	return out
}
