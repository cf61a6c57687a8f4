package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	sectionDTO "csmanager_backend/internals/features/scheduling/sections/dto"
	sectionModel "csmanager_backend/internals/features/scheduling/sections/model"
	timeslotModel "csmanager_backend/internals/features/scheduling/timeslots/model"
	userModel "csmanager_backend/internals/features/users/user/model"
	helper "csmanager_backend/internals/helpers"
)

type CandidateSectionController struct {
	DB *gorm.DB
}

func NewCandidateSectionController(db *gorm.DB) *CandidateSectionController {
	return &CandidateSectionController{DB: db}
}

var validate = validator.New()

// GET /api/candidate-sections?session=
// Non-admin/faculty callers only see sections where they are the candidate.
func (ctl *CandidateSectionController) List(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}

	q := ctl.DB.Preload("Candidate").Order("id ASC")
	if s := strings.TrimSpace(c.Query("session")); s != "" {
		q = q.Where("session_id = ?", s)
	}
	if !userModel.Role(role).IsStaffLike() {
		q = q.Where("candidate_id = ?", userID)
	}

	var rows []sectionModel.CandidateSectionModel
	if err := q.Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load candidate sections")
	}

	out := make([]sectionDTO.CandidateSectionResponse, 0, len(rows))
	for _, row := range rows {
		slots, err := ctl.loadSlots(row.ID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load time slots")
		}
		out = append(out, sectionDTO.FromCandidateSectionModel(row, slots))
	}
	return helper.JsonList(c, "Candidate sections loaded", out, nil)
}

// GET /api/candidate-sections/:id
func (ctl *CandidateSectionController) Retrieve(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	var row sectionModel.CandidateSectionModel
	if err := ctl.DB.Preload("Candidate").First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Candidate section not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load candidate section")
	}
	// outside the caller's visibility scope reads as absent
	if !userModel.Role(role).IsStaffLike() && row.CandidateID != userID {
		return helper.JsonError(c, fiber.StatusNotFound, "Candidate section not found")
	}

	slots, err := ctl.loadSlots(row.ID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load time slots")
	}
	return helper.JsonOK(c, "Candidate section loaded", sectionDTO.FromCandidateSectionModel(row, slots))
}

// POST /api/candidate-sections (admin only)
func (ctl *CandidateSectionController) Create(c *fiber.Ctx) error {
	_, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	if !userModel.Role(role).IsAdmin() {
		return helper.JsonError(c, fiber.StatusForbidden, "Only admins can create candidate sections")
	}

	var req sectionDTO.CreateCandidateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	fieldErrs := map[string][]string{}
	arrival := sectionDTO.ParseDate("arrival_date", req.ArrivalDate, fieldErrs)
	leaving := sectionDTO.ParseDate("leaving_date", req.LeavingDate, fieldErrs)
	if len(fieldErrs) > 0 {
		return helper.JsonValidationError(c, fieldErrs)
	}

	row := req.ToModel(arrival, leaving)
	if err := ctl.DB.Create(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create candidate section")
	}
	if err := ctl.DB.Preload("Candidate").First(&row, row.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload candidate section")
	}
	return helper.JsonCreated(c, "Candidate section created", sectionDTO.FromCandidateSectionModel(row, nil))
}

// PUT|PATCH /api/candidate-sections/:id (admin only)
func (ctl *CandidateSectionController) Update(c *fiber.Ctx) error {
	_, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	if !userModel.Role(role).IsAdmin() {
		return helper.JsonError(c, fiber.StatusForbidden, "Only admins can modify candidate sections")
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	var row sectionModel.CandidateSectionModel
	if err := ctl.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Candidate section not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load candidate section")
	}

	var req sectionDTO.UpdateCandidateSectionRequest
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
	if req.Location != nil {
		row.Location = *req.Location
	}
	if req.NeedsTransportation != nil {
		row.NeedsTransportation = *req.NeedsTransportation
	}
	if req.ArrivalDate != nil {
		row.ArrivalDate = sectionDTO.ParseDate("arrival_date", req.ArrivalDate, fieldErrs)
	}
	if req.LeavingDate != nil {
		row.LeavingDate = sectionDTO.ParseDate("leaving_date", req.LeavingDate, fieldErrs)
	}
	if len(fieldErrs) > 0 {
		return helper.JsonValidationError(c, fieldErrs)
	}

	if err := ctl.DB.Save(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update candidate section")
	}
	if err := ctl.DB.Preload("Candidate").First(&row, row.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload candidate section")
	}
	slots, _ := ctl.loadSlots(row.ID)
	return helper.JsonUpdated(c, "Candidate section updated", sectionDTO.FromCandidateSectionModel(row, slots))
}

// DELETE /api/candidate-sections/:id (admin only)
func (ctl *CandidateSectionController) Delete(c *fiber.Ctx) error {
	_, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	if !userModel.Role(role).IsAdmin() {
		return helper.JsonError(c, fiber.StatusForbidden, "Only admins can delete candidate sections")
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	res := ctl.DB.Delete(&sectionModel.CandidateSectionModel{}, id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete candidate section")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Candidate section not found")
	}
	return helper.JsonDeleted(c)
}

func (ctl *CandidateSectionController) loadSlots(sectionID uint) ([]timeslotModel.SessionTimeSlotModel, error) {
	var slots []timeslotModel.SessionTimeSlotModel
	err := ctl.DB.Preload("Attendees").Preload("Attendees.User").
		Where("candidate_section_id = ?", sectionID).
		Order("start_time ASC").
		Find(&slots).Error
	return slots, err
}
