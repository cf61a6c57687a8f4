package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	sectionModel "csmanager_backend/internals/features/scheduling/sections/model"
	sessionModel "csmanager_backend/internals/features/scheduling/sessions/model"
	timeslotDTO "csmanager_backend/internals/features/scheduling/timeslots/dto"
	timeslotModel "csmanager_backend/internals/features/scheduling/timeslots/model"
	userModel "csmanager_backend/internals/features/users/user/model"
	helper "csmanager_backend/internals/helpers"
)

type SessionTimeSlotController struct {
	DB *gorm.DB
}

func NewSessionTimeSlotController(db *gorm.DB) *SessionTimeSlotController {
	return &SessionTimeSlotController{DB: db}
}

var validate = validator.New()

// GET /api/timeslots?candidate_section=
func (ctl *SessionTimeSlotController) List(c *fiber.Ctx) error {
	if _, _, err := helper.ActingUser(c); err != nil {
		return err
	}

	q := ctl.DB.Preload("Attendees").Preload("Attendees.User").Order("start_time ASC")
	if s := strings.TrimSpace(c.Query("candidate_section")); s != "" {
		q = q.Where("candidate_section_id = ?", s)
	}

	var rows []timeslotModel.SessionTimeSlotModel
	if err := q.Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load time slots")
	}
	return helper.JsonList(c, "Time slots loaded", timeslotDTO.FromTimeSlotModels(rows), nil)
}

// GET /api/timeslots/:id
func (ctl *SessionTimeSlotController) Retrieve(c *fiber.Ctx) error {
	if _, _, err := helper.ActingUser(c); err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	var row timeslotModel.SessionTimeSlotModel
	if err := ctl.DB.Preload("Attendees").Preload("Attendees.User").First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Time slot not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load time slot")
	}
	return helper.JsonOK(c, "Time slot loaded", timeslotDTO.FromTimeSlotModel(row))
}

// POST /api/timeslots
// Creation is open to admins, faculty, and the candidate who owns the
// referenced section; ownership is resolved from the payload since the slot
// does not exist yet.
func (ctl *SessionTimeSlotController) Create(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}

	var req timeslotDTO.CreateTimeSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	section, session, err := ctl.loadSectionWithSession(c, req.CandidateSectionID)
	if err != nil {
		return err
	}
	if !userModel.Role(role).IsStaffLike() && section.CandidateID != userID {
		return helper.JsonError(c, fiber.StatusForbidden, "You do not own this candidate section")
	}

	start, end, fieldErrs := parseSlotWindow(req.StartTime, req.EndTime, session)
	if fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	row := req.ToModel(start, end)
	if err := ctl.DB.Create(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create time slot")
	}
	return helper.JsonCreated(c, "Time slot created", timeslotDTO.FromTimeSlotModel(row))
}

// PUT|PATCH /api/timeslots/:id
// Mutation ownership is resolved from the stored row's section.
func (ctl *SessionTimeSlotController) Update(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	var row timeslotModel.SessionTimeSlotModel
	if err := ctl.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Time slot not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load time slot")
	}

	section, session, err := ctl.loadSectionWithSession(c, row.CandidateSectionID)
	if err != nil {
		return err
	}
	if !userModel.Role(role).IsStaffLike() && section.CandidateID != userID {
		return helper.JsonError(c, fiber.StatusForbidden, "You do not own this candidate section")
	}

	var req timeslotDTO.UpdateTimeSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	startStr := row.StartTime.Format(time.RFC3339)
	if req.StartTime != nil {
		startStr = *req.StartTime
	}
	var endStr *string
	if row.EndTime != nil {
		v := row.EndTime.Format(time.RFC3339)
		endStr = &v
	}
	if req.EndTime != nil {
		if *req.EndTime == "" {
			endStr = nil
		} else {
			endStr = req.EndTime
		}
	}

	start, end, fieldErrs := parseSlotWindow(startStr, endStr, session)
	if fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	row.StartTime = start
	row.EndTime = end
	if req.MaxAttendees != nil {
		row.MaxAttendees = *req.MaxAttendees
	}
	if req.Location != nil {
		row.Location = *req.Location
	}
	if req.Description != nil {
		row.Description = *req.Description
	}
	if req.IsVisible != nil {
		row.IsVisible = *req.IsVisible
	}

	if err := ctl.DB.Save(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update time slot")
	}
	if err := ctl.DB.Preload("Attendees").Preload("Attendees.User").First(&row, row.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload time slot")
	}
	return helper.JsonUpdated(c, "Time slot updated", timeslotDTO.FromTimeSlotModel(row))
}

// DELETE /api/timeslots/:id
func (ctl *SessionTimeSlotController) Delete(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	var row timeslotModel.SessionTimeSlotModel
	if err := ctl.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Time slot not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load time slot")
	}

	section, _, err := ctl.loadSectionWithSession(c, row.CandidateSectionID)
	if err != nil {
		return err
	}
	if !userModel.Role(role).IsStaffLike() && section.CandidateID != userID {
		return helper.JsonError(c, fiber.StatusForbidden, "You do not own this candidate section")
	}

	if err := ctl.DB.Delete(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete time slot")
	}
	return helper.JsonDeleted(c)
}

// POST /api/timeslots/:id/register
// Capacity and duplicate checks run under a row lock so two concurrent
// registrations against the last seat cannot both pass.
func (ctl *SessionTimeSlotController) Register(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	if userModel.Role(role) == userModel.RoleCandidate {
		return helper.JsonError(c, fiber.StatusForbidden, "Candidates cannot register for time slots")
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	var attendee timeslotModel.SessionAttendeeModel
	txErr := ctl.DB.Transaction(func(tx *gorm.DB) error {
		slotQ := tx.Model(&timeslotModel.SessionTimeSlotModel{})
		if tx.Dialector.Name() == "postgres" {
			slotQ = slotQ.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var slot timeslotModel.SessionTimeSlotModel
		if err := slotQ.First(&slot, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Time slot not found")
			}
			return err
		}

		var existing int64
		if err := tx.Model(&timeslotModel.SessionAttendeeModel{}).
			Where("time_slot_id = ? AND user_id = ?", slot.ID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Already registered for this time slot")
		}

		var taken int64
		if err := tx.Model(&timeslotModel.SessionAttendeeModel{}).
			Where("time_slot_id = ?", slot.ID).
			Count(&taken).Error; err != nil {
			return err
		}
		if int(taken) >= slot.MaxAttendees {
			return fiber.NewError(fiber.StatusBadRequest, "Time slot is full")
		}

		attendee = timeslotModel.SessionAttendeeModel{TimeSlotID: slot.ID, UserID: userID}
		if err := tx.Create(&attendee).Error; err != nil {
			// unique (slot, user) backstop for same-user races
			msg := strings.ToLower(err.Error())
			if strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate") {
				return fiber.NewError(fiber.StatusBadRequest, "Already registered for this time slot")
			}
			return err
		}
		return nil
	})
	if txErr != nil {
		var fe *fiber.Error
		if errors.As(txErr, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to register for time slot")
	}

	if err := ctl.DB.Preload("User").First(&attendee, attendee.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload registration")
	}
	return helper.JsonCreated(c, "Registered for time slot", timeslotDTO.FromAttendeeModel(attendee))
}

// POST /api/timeslots/:id/unregister
func (ctl *SessionTimeSlotController) Unregister(c *fiber.Ctx) error {
	userID, _, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	res := ctl.DB.Where("time_slot_id = ? AND user_id = ?", id, userID).
		Delete(&timeslotModel.SessionAttendeeModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to unregister")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "You are not registered for this time slot")
	}
	return helper.JsonDeleted(c)
}

func (ctl *SessionTimeSlotController) loadSectionWithSession(c *fiber.Ctx, sectionID uint) (sectionModel.CandidateSectionModel, sessionModel.SessionModel, error) {
	var section sectionModel.CandidateSectionModel
	if err := ctl.DB.First(&section, sectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return section, sessionModel.SessionModel{}, helper.JsonError(c, fiber.StatusBadRequest, "Candidate section does not exist")
		}
		return section, sessionModel.SessionModel{}, helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load candidate section")
	}
	var session sessionModel.SessionModel
	if err := ctl.DB.First(&session, section.SessionID).Error; err != nil {
		return section, session, helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load session")
	}
	return section, session, nil
}

// parseSlotWindow parses both bounds and checks ordering plus the parent
// session's date window; each violation is keyed to the offending field.
func parseSlotWindow(startStr string, endStr *string, session sessionModel.SessionModel) (time.Time, *time.Time, map[string][]string) {
	errs := map[string][]string{}

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		errs["start_time"] = append(errs["start_time"], "Timestamp must be in RFC 3339 format.")
	}

	var end *time.Time
	if endStr != nil && *endStr != "" {
		t, err := time.Parse(time.RFC3339, *endStr)
		if err != nil {
			errs["end_time"] = append(errs["end_time"], "Timestamp must be in RFC 3339 format.")
		} else {
			end = &t
		}
	}
	if len(errs) > 0 {
		return time.Time{}, nil, errs
	}

	if end != nil && !end.After(start) {
		errs["end_time"] = append(errs["end_time"], "End time must be after start time.")
	}

	// session dates bound the slot window, inclusive of the last day
	windowStart := session.StartDate
	windowEnd := session.EndDate.AddDate(0, 0, 1)
	if start.Before(windowStart) || !start.Before(windowEnd) {
		errs["start_time"] = append(errs["start_time"], "Start time must fall within the session dates.")
	}
	if end != nil && (end.Before(windowStart) || !end.Before(windowEnd)) {
		errs["end_time"] = append(errs["end_time"], "End time must fall within the session dates.")
	}

	if len(errs) > 0 {
		return time.Time{}, nil, errs
	}
	return start, end, nil
}
