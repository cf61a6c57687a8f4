package controller

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	configs "csmanager_backend/internals/configs"
	availabilityDTO "csmanager_backend/internals/features/availability/dto"
	availabilityModel "csmanager_backend/internals/features/availability/model"
	sectionModel "csmanager_backend/internals/features/scheduling/sections/model"
	userModel "csmanager_backend/internals/features/users/user/model"
	helper "csmanager_backend/internals/helpers"
	mailer "csmanager_backend/internals/helpers/mailer"
)

type AvailabilityInvitationController struct {
	DB *gorm.DB
}

func NewAvailabilityInvitationController(db *gorm.DB) *AvailabilityInvitationController {
	return &AvailabilityInvitationController{DB: db}
}

// GET /api/availability-invitations
// Admins see all invitations, faculty their own.
func (ctl *AvailabilityInvitationController) List(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}

	q := ctl.DB.Preload("Faculty").Order("id ASC")
	if s := strings.TrimSpace(c.Query("candidate_section")); s != "" {
		q = q.Where("candidate_section_id = ?", s)
	}
	if !userModel.Role(role).IsAdmin() {
		q = q.Where("faculty_id = ?", userID)
	}

	var rows []availabilityModel.AvailabilityInvitationModel
	if err := q.Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load invitations")
	}
	return helper.JsonList(c, "Invitations loaded", availabilityDTO.FromInvitationModels(rows), nil)
}

// GET /api/availability-invitations/:id
func (ctl *AvailabilityInvitationController) Retrieve(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	var row availabilityModel.AvailabilityInvitationModel
	if err := ctl.DB.Preload("Faculty").First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Invitation not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load invitation")
	}
	if !userModel.Role(role).IsAdmin() && row.FacultyID != userID {
		return helper.JsonError(c, fiber.StatusNotFound, "Invitation not found")
	}
	return helper.JsonOK(c, "Invitation loaded", availabilityDTO.FromInvitationModel(row))
}

// DELETE /api/availability-invitations/:id (admin only)
func (ctl *AvailabilityInvitationController) Delete(c *fiber.Ctx) error {
	_, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	if !userModel.Role(role).IsAdmin() {
		return helper.JsonError(c, fiber.StatusForbidden, "Only admins can delete invitations")
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	res := ctl.DB.Delete(&availabilityModel.AvailabilityInvitationModel{}, id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete invitation")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Invitation not found")
	}
	return helper.JsonDeleted(c)
}

// POST /api/availability-invitations/invite_faculty (admin guard on the route)
// Cross-product of faculty ids and section ids; one invitation per pair,
// get-or-created so repeat invites never duplicate rows. Unknown ids are
// silently dropped. Mail failures are logged, never surfaced.
func (ctl *AvailabilityInvitationController) InviteFaculty(c *fiber.Ctx) error {
	userID, _, err := helper.ActingUser(c)
	if err != nil {
		return err
	}

	var req availabilityDTO.InviteFacultyRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	fieldErrs := map[string][]string{}
	if len(req.FacultyIDs) == 0 {
		fieldErrs["faculty_ids"] = append(fieldErrs["faculty_ids"], "This list must not be empty.")
	}
	if len(req.CandidateSectionIDs) == 0 {
		fieldErrs["candidate_section_ids"] = append(fieldErrs["candidate_section_ids"], "This list must not be empty.")
	}
	if len(fieldErrs) > 0 {
		return helper.JsonValidationError(c, fieldErrs)
	}

	// resolve ids, filtering to invitable roles
	var faculty []userModel.UserModel
	if err := ctl.DB.Where("id IN ? AND role IN ?", req.FacultyIDs, availabilityDTO.InvitableRoles()).
		Find(&faculty).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to resolve faculty")
	}
	var sections []sectionModel.CandidateSectionModel
	if err := ctl.DB.Where("id IN ?", req.CandidateSectionIDs).Find(&sections).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to resolve candidate sections")
	}

	created := 0
	emailed := 0
	for _, f := range faculty {
		for _, sec := range sections {
			invitation, wasCreated, err := ctl.getOrCreate(f.ID, sec.ID, userID)
			if err != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save invitation")
			}
			if wasCreated {
				created++
			}

			if !req.SendEmail || invitation.EmailSent {
				continue
			}
			if err := ctl.sendInviteMail(f, sec); err != nil {
				log.Printf("[ERROR] invite mail to %s failed: %v", f.Email, err)
				continue
			}
			if err := ctl.DB.Model(&availabilityModel.AvailabilityInvitationModel{}).
				Where("id = ?", invitation.ID).Update("email_sent", true).Error; err != nil {
				log.Printf("[ERROR] marking invitation %d emailed failed: %v", invitation.ID, err)
				continue
			}
			emailed++
		}
	}

	return helper.JsonCreated(c, "Faculty invited", fiber.Map{
		"invitations_created": created,
		"emails_sent":         emailed,
	})
}

// getOrCreate relies on the (faculty, section) unique index to collapse
// concurrent invites onto one row.
func (ctl *AvailabilityInvitationController) getOrCreate(facultyID, sectionID, createdBy uint) (availabilityModel.AvailabilityInvitationModel, bool, error) {
	var row availabilityModel.AvailabilityInvitationModel
	err := ctl.DB.Where("faculty_id = ? AND candidate_section_id = ?", facultyID, sectionID).
		First(&row).Error
	if err == nil {
		return row, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return row, false, err
	}

	row = availabilityModel.AvailabilityInvitationModel{
		FacultyID:          facultyID,
		CandidateSectionID: sectionID,
		CreatedByID:        createdBy,
	}
	if err := ctl.DB.Create(&row).Error; err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate") {
			var existing availabilityModel.AvailabilityInvitationModel
			if err := ctl.DB.Where("faculty_id = ? AND candidate_section_id = ?", facultyID, sectionID).
				First(&existing).Error; err != nil {
				return existing, false, err
			}
			return existing, false, nil
		}
		return row, false, err
	}
	return row, true, nil
}

func (ctl *AvailabilityInvitationController) sendInviteMail(f userModel.UserModel, sec sectionModel.CandidateSectionModel) error {
	subject := "Availability requested: " + sec.Title
	body := fmt.Sprintf(
		"Hello %s,\n\nPlease submit your availability for the candidate visit %q.\n\n%s/availability?section=%d\n\nThank you.",
		f.FullName(), sec.Title, configs.FrontendURL, sec.ID,
	)
	return mailer.Send(f.Email, subject, body)
}
