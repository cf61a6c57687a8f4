package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	availabilityDTO "csmanager_backend/internals/features/availability/dto"
	availabilityModel "csmanager_backend/internals/features/availability/model"
	sectionModel "csmanager_backend/internals/features/scheduling/sections/model"
	timeslotModel "csmanager_backend/internals/features/scheduling/timeslots/model"
	userModel "csmanager_backend/internals/features/users/user/model"
	helper "csmanager_backend/internals/helpers"
)

type FacultyAvailabilityController struct {
	DB *gorm.DB
}

func NewFacultyAvailabilityController(db *gorm.DB) *FacultyAvailabilityController {
	return &FacultyAvailabilityController{DB: db}
}

var validate = validator.New()

// GET /api/faculty-availability?candidate_section=
// Faculty callers are scoped to their own submissions.
func (ctl *FacultyAvailabilityController) List(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}

	q := ctl.DB.Preload("Faculty").Preload("TimeSlots", func(db *gorm.DB) *gorm.DB {
		return db.Order("start_time ASC")
	}).Order("id ASC")
	if s := strings.TrimSpace(c.Query("candidate_section")); s != "" {
		q = q.Where("candidate_section_id = ?", s)
	}
	if !userModel.Role(role).IsAdmin() {
		q = q.Where("faculty_id = ?", userID)
	}

	var rows []availabilityModel.FacultyAvailabilityModel
	if err := q.Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load availability")
	}
	return helper.JsonList(c, "Availability loaded", availabilityDTO.FromAvailabilityModels(rows), nil)
}

// GET /api/faculty-availability/:id
func (ctl *FacultyAvailabilityController) Retrieve(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	row, found, err := ctl.loadAvailability(id)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load availability")
	}
	if !found {
		return helper.JsonError(c, fiber.StatusNotFound, "Availability not found")
	}
	if !userModel.Role(role).IsAdmin() && row.FacultyID != userID {
		return helper.JsonError(c, fiber.StatusNotFound, "Availability not found")
	}
	return helper.JsonOK(c, "Availability loaded", availabilityDTO.FromAvailabilityModel(row))
}

// POST /api/faculty-availability
// The faculty reference is always the acting user, never taken from the
// payload.
func (ctl *FacultyAvailabilityController) Create(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	if !userModel.Role(role).IsStaffLike() {
		return helper.JsonError(c, fiber.StatusForbidden, "Only faculty and admins can submit availability")
	}

	var req availabilityDTO.CreateFacultyAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	var section sectionModel.CandidateSectionModel
	if err := ctl.DB.First(&section, req.CandidateSectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Candidate section does not exist")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load candidate section")
	}

	windows, fieldErrs := availabilityDTO.ParseSlotWindows(req.TimeSlots)
	if fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	row := availabilityModel.FacultyAvailabilityModel{
		FacultyID:          userID,
		CandidateSectionID: section.ID,
		Notes:              req.Notes,
	}
	if err := ctl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		for _, w := range windows {
			slot := availabilityModel.AvailabilityTimeSlotModel{
				AvailabilityID: row.ID,
				StartTime:      w.Start,
				EndTime:        w.End,
			}
			if err := tx.Create(&slot).Error; err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save availability")
	}

	fresh, _, err := ctl.loadAvailability(row.ID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload availability")
	}
	return helper.JsonCreated(c, "Availability saved", availabilityDTO.FromAvailabilityModel(fresh))
}

// PUT|PATCH /api/faculty-availability/:id
// Time slots reconcile by id; a slot resubmitted without its id is recreated
// under a new id.
func (ctl *FacultyAvailabilityController) Update(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	row, found, err := ctl.loadAvailability(id)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load availability")
	}
	if !found {
		return helper.JsonError(c, fiber.StatusNotFound, "Availability not found")
	}
	if !userModel.Role(role).IsAdmin() && row.FacultyID != userID {
		return helper.JsonError(c, fiber.StatusNotFound, "Availability not found")
	}

	var req availabilityDTO.UpdateFacultyAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	type parsedSlot struct {
		ID    uint
		Start time.Time
		End   time.Time
	}
	var items []parsedSlot
	if req.TimeSlots != nil {
		parsed, fieldErrs := availabilityDTO.ParseSlotWindows(*req.TimeSlots)
		if fieldErrs != nil {
			return helper.JsonValidationError(c, fieldErrs)
		}
		for i, p := range *req.TimeSlots {
			items = append(items, parsedSlot{ID: p.ID, Start: parsed[i].Start, End: parsed[i].End})
		}
	}

	if err := ctl.DB.Transaction(func(tx *gorm.DB) error {
		if req.Notes != nil {
			row.Notes = *req.Notes
			if err := tx.Model(&availabilityModel.FacultyAvailabilityModel{}).
				Where("id = ?", row.ID).Update("notes", row.Notes).Error; err != nil {
				return err
			}
		}
		if req.TimeSlots == nil {
			return nil
		}

		var existing []availabilityModel.AvailabilityTimeSlotModel
		if err := tx.Where("availability_id = ?", row.ID).Find(&existing).Error; err != nil {
			return err
		}

		return helper.ReconcileChildren(tx, existing, items,
			func(s *availabilityModel.AvailabilityTimeSlotModel) uint { return s.ID },
			func(p *parsedSlot) uint { return p.ID },
			func(s *availabilityModel.AvailabilityTimeSlotModel, p *parsedSlot) {
				s.StartTime = p.Start
				s.EndTime = p.End
			},
			func(p *parsedSlot) *availabilityModel.AvailabilityTimeSlotModel {
				return &availabilityModel.AvailabilityTimeSlotModel{
					AvailabilityID: row.ID,
					StartTime:      p.Start,
					EndTime:        p.End,
				}
			},
			func(s *availabilityModel.AvailabilityTimeSlotModel) error { return tx.Delete(s).Error },
		)
	}); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update availability")
	}

	fresh, _, err := ctl.loadAvailability(row.ID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload availability")
	}
	return helper.JsonUpdated(c, "Availability updated", availabilityDTO.FromAvailabilityModel(fresh))
}

// DELETE /api/faculty-availability/:id
func (ctl *FacultyAvailabilityController) Delete(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	row, found, err := ctl.loadAvailability(id)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load availability")
	}
	if !found {
		return helper.JsonError(c, fiber.StatusNotFound, "Availability not found")
	}
	if !userModel.Role(role).IsAdmin() && row.FacultyID != userID {
		return helper.JsonError(c, fiber.StatusNotFound, "Availability not found")
	}

	if err := ctl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("availability_id = ?", row.ID).
			Delete(&availabilityModel.AvailabilityTimeSlotModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&availabilityModel.FacultyAvailabilityModel{}, row.ID).Error
	}); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete availability")
	}
	return helper.JsonDeleted(c)
}

// POST /api/faculty-availability/:id/import_slots (admin guard on the route)
// Materializes the availability's intervals into real session time slots:
// every interval becomes a capacity-1 slot located at the faculty member's
// room, with the faculty auto-registered as attendee. The availability id is
// appended to the section's imported list at most once; re-importing still
// re-creates slots.
func (ctl *FacultyAvailabilityController) ImportSlots(c *fiber.Ctx) error {
	if _, _, err := helper.ActingUser(c); err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	var createdIDs []uint
	var importedIDs []uint

	txErr := ctl.DB.Transaction(func(tx *gorm.DB) error {
		var availability availabilityModel.FacultyAvailabilityModel
		if err := tx.Preload("Faculty").Preload("TimeSlots").First(&availability, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Availability not found")
			}
			return err
		}

		var section sectionModel.CandidateSectionModel
		if err := tx.First(&section, availability.CandidateSectionID).Error; err != nil {
			return err
		}

		importedIDs = decodeImportedIDs(section.ImportedAvailabilityIDs)
		if !containsID(importedIDs, availability.ID) {
			importedIDs = append(importedIDs, availability.ID)
			raw, err := json.Marshal(importedIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&sectionModel.CandidateSectionModel{}).
				Where("id = ?", section.ID).
				Update("imported_availability_ids", datatypes.JSON(raw)).Error; err != nil {
				return err
			}
		}

		location := ""
		if availability.Faculty.RoomNumber != nil {
			location = *availability.Faculty.RoomNumber
		}
		description := fmt.Sprintf("Meeting with %s %s",
			availability.Faculty.FirstName, availability.Faculty.LastName)

		for _, interval := range availability.TimeSlots {
			end := interval.EndTime
			slot := timeslotModel.SessionTimeSlotModel{
				CandidateSectionID: section.ID,
				StartTime:          interval.StartTime,
				EndTime:            &end,
				MaxAttendees:       1,
				Location:           location,
				Description:        description,
				IsVisible:          true,
			}
			if err := tx.Create(&slot).Error; err != nil {
				return err
			}
			attendee := timeslotModel.SessionAttendeeModel{
				TimeSlotID: slot.ID,
				UserID:     availability.FacultyID,
			}
			if err := tx.Create(&attendee).Error; err != nil {
				return err
			}
			createdIDs = append(createdIDs, slot.ID)
		}
		return nil
	})
	if txErr != nil {
		var fe *fiber.Error
		if errors.As(txErr, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusBadRequest, txErr.Error())
	}

	if createdIDs == nil {
		createdIDs = []uint{}
	}
	return helper.JsonCreated(c, "Availability imported", fiber.Map{
		"created_slot_ids":          createdIDs,
		"imported_availability_ids": importedIDs,
	})
}

func (ctl *FacultyAvailabilityController) loadAvailability(id uint) (availabilityModel.FacultyAvailabilityModel, bool, error) {
	var row availabilityModel.FacultyAvailabilityModel
	err := ctl.DB.Preload("Faculty").Preload("TimeSlots", func(db *gorm.DB) *gorm.DB {
		return db.Order("start_time ASC")
	}).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, false, nil
	}
	return row, err == nil, err
}

func decodeImportedIDs(raw datatypes.JSON) []uint {
	if len(raw) == 0 {
		return []uint{}
	}
	var ids []uint
	if err := json.Unmarshal(raw, &ids); err != nil {
		return []uint{}
	}
	return ids
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
