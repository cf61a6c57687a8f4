package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	formDTO "csmanager_backend/internals/features/forms/dto"
	formModel "csmanager_backend/internals/features/forms/model"
	userModel "csmanager_backend/internals/features/users/user/model"
	helper "csmanager_backend/internals/helpers"
)

type FormSubmissionController struct {
	DB *gorm.DB
}

func NewFormSubmissionController(db *gorm.DB) *FormSubmissionController {
	return &FormSubmissionController{DB: db}
}

// GET /api/form-submissions?form=
// Non-staff callers only see their own submissions.
func (ctl *FormSubmissionController) List(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}

	q := ctl.DB.Order("id ASC")
	if s := strings.TrimSpace(c.Query("form")); s != "" {
		q = q.Where("form_id = ?", s)
	}
	if !userModel.Role(role).IsAdmin() {
		q = q.Where("submitted_by_id = ?", userID)
	}

	var rows []formModel.FormSubmissionModel
	if err := q.Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load submissions")
	}

	out := make([]formDTO.FormSubmissionResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, ctl.present(row))
	}
	return helper.JsonList(c, "Submissions loaded", out, nil)
}

// GET /api/form-submissions/:id
func (ctl *FormSubmissionController) Retrieve(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	var row formModel.FormSubmissionModel
	if err := ctl.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Submission not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load submission")
	}
	if !userModel.Role(role).IsAdmin() && row.SubmittedByID != userID {
		return helper.JsonError(c, fiber.StatusNotFound, "Submission not found")
	}
	return helper.JsonOK(c, "Submission loaded", ctl.present(row))
}

// POST /api/form-submissions
func (ctl *FormSubmissionController) Create(c *fiber.Ctx) error {
	userID, _, err := helper.ActingUser(c)
	if err != nil {
		return err
	}

	var req formDTO.CreateFormSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if req.FormID == 0 {
		return helper.JsonValidationError(c, map[string][]string{"form": {"This field is required."}})
	}

	var form formModel.FormModel
	if err := ctl.DB.Preload("Fields").First(&form, req.FormID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Form not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load form")
	}

	var assigned int64
	if err := ctl.DB.Model(&formModel.FormAssignmentModel{}).
		Where("form_id = ? AND user_id = ?", form.ID, userID).
		Count(&assigned).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check assignment")
	}
	if assigned == 0 {
		return helper.JsonError(c, fiber.StatusForbidden, "You are not assigned to this form")
	}

	if fieldErrs := validateAnswers(form.Fields, req.Answers); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	var duplicate int64
	if err := ctl.DB.Model(&formModel.FormSubmissionModel{}).
		Where("form_id = ? AND submitted_by_id = ? AND is_completed = ?", form.ID, userID, true).
		Count(&duplicate).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check submissions")
	}
	if duplicate > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "You have already submitted this form")
	}

	answersJSON, err := json.Marshal(orEmpty(req.Answers))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Answers are not serializable")
	}
	version, err := buildFormVersion(form.Fields)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to snapshot form")
	}

	row := formModel.FormSubmissionModel{
		FormID:        form.ID,
		SubmittedByID: userID,
		Answers:       datatypes.JSON(answersJSON),
		IsCompleted:   req.IsCompleted,
		FormVersion:   version,
	}
	if err := ctl.DB.Create(&row).Error; err != nil {
		msg := strings.ToLower(err.Error())
		// partial unique index backstop for concurrent completed submissions
		if strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate") {
			return helper.JsonError(c, fiber.StatusBadRequest, "You have already submitted this form")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save submission")
	}
	return helper.JsonCreated(c, "Submission saved", ctl.present(row))
}

// PUT|PATCH /api/form-submissions/:id
// The frozen form_version is never recomputed, even when answers change.
func (ctl *FormSubmissionController) Update(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	var row formModel.FormSubmissionModel
	if err := ctl.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Submission not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load submission")
	}
	if !userModel.Role(role).IsAdmin() && row.SubmittedByID != userID {
		return helper.JsonError(c, fiber.StatusNotFound, "Submission not found")
	}

	var req formDTO.UpdateFormSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}

	if req.Answers != nil {
		var form formModel.FormModel
		if err := ctl.DB.Preload("Fields").First(&form, row.FormID).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load form")
		}
		if fieldErrs := validateAnswers(form.Fields, *req.Answers); fieldErrs != nil {
			return helper.JsonValidationError(c, fieldErrs)
		}
		answersJSON, err := json.Marshal(orEmpty(*req.Answers))
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Answers are not serializable")
		}
		row.Answers = datatypes.JSON(answersJSON)
	}

	if req.IsCompleted != nil && *req.IsCompleted && !row.IsCompleted {
		var other int64
		if err := ctl.DB.Model(&formModel.FormSubmissionModel{}).
			Where("form_id = ? AND submitted_by_id = ? AND is_completed = ? AND id <> ?",
				row.FormID, row.SubmittedByID, true, row.ID).
			Count(&other).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check submissions")
		}
		if other > 0 {
			return helper.JsonError(c, fiber.StatusBadRequest, "You have already submitted this form")
		}
	}
	if req.IsCompleted != nil {
		row.IsCompleted = *req.IsCompleted
	}

	if err := ctl.DB.Save(&row).Error; err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate") {
			return helper.JsonError(c, fiber.StatusBadRequest, "You have already submitted this form")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update submission")
	}
	return helper.JsonUpdated(c, "Submission updated", ctl.present(row))
}

// DELETE /api/form-submissions/:id
func (ctl *FormSubmissionController) Delete(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	var row formModel.FormSubmissionModel
	if err := ctl.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Submission not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load submission")
	}
	if !userModel.Role(role).IsAdmin() && row.SubmittedByID != userID {
		return helper.JsonError(c, fiber.StatusNotFound, "Submission not found")
	}

	if err := ctl.DB.Delete(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete submission")
	}
	return helper.JsonDeleted(c)
}

// present remaps stored answers onto the form's current field ids before
// serializing.
func (ctl *FormSubmissionController) present(row formModel.FormSubmissionModel) formDTO.FormSubmissionResponse {
	var fields []formModel.FormFieldModel
	ctl.DB.Where("form_id = ?", row.FormID).Find(&fields)

	answers := remapAnswers(row.FormVersion, row.Answers, fields)
	return formDTO.FromSubmissionModel(row, answers, decodeVersion(row.FormVersion))
}

const answerDateLayout = "2006-01-02"

// validateAnswers checks required answers are present and non-empty, and
// date_range answers decode to {startDate, endDate} with startDate <= endDate.
// Errors key on the field id as string, matching the answer keys.
func validateAnswers(fields []formModel.FormFieldModel, answers map[string]any) map[string][]string {
	errs := map[string][]string{}
	for _, f := range fields {
		key := strconv.FormatUint(uint64(f.ID), 10)
		ans, ok := answers[key]

		if f.Required && (!ok || answerEmpty(ans)) {
			errs[key] = append(errs[key], fmt.Sprintf("An answer for %q is required.", f.Label))
			continue
		}
		if !ok || answerEmpty(ans) {
			continue
		}

		if f.Type == formModel.FieldTypeDateRange {
			obj, ok := ans.(map[string]any)
			if !ok {
				errs[key] = append(errs[key], "Date range answers must be an object with startDate and endDate.")
				continue
			}
			start, okS := parseAnswerDate(obj["startDate"])
			end, okE := parseAnswerDate(obj["endDate"])
			if !okS || !okE {
				errs[key] = append(errs[key], "Date range answers must contain parseable startDate and endDate.")
				continue
			}
			if end.Before(start) {
				errs[key] = append(errs[key], "startDate must not be after endDate.")
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func parseAnswerDate(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(answerDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func answerEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
