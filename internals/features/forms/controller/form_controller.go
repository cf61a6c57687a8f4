package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	formDTO "csmanager_backend/internals/features/forms/dto"
	formModel "csmanager_backend/internals/features/forms/model"
	userModel "csmanager_backend/internals/features/users/user/model"
	helper "csmanager_backend/internals/helpers"
)

type FormController struct {
	DB *gorm.DB
}

func NewFormController(db *gorm.DB) *FormController {
	return &FormController{DB: db}
}

var validate = validator.New()

// GET /api/forms
// Staff see every form; everyone else only active forms assigned to them.
func (ctl *FormController) List(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}

	q := ctl.DB.Preload("Fields", func(db *gorm.DB) *gorm.DB {
		return db.Order("\"order\" ASC, created_at ASC")
	}).Preload("Fields.Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("\"order\" ASC, created_at ASC")
	}).Order("id ASC")

	if !userModel.Role(role).IsAdmin() {
		q = q.Where("is_active = ?", true).
			Where("id IN (?)", ctl.DB.Model(&formModel.FormAssignmentModel{}).
				Select("form_id").Where("user_id = ?", userID))
	}

	var rows []formModel.FormModel
	if err := q.Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load forms")
	}

	out := make([]formDTO.FormResponse, 0, len(rows))
	for _, row := range rows {
		ids, err := ctl.assignedIDs(row.ID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load assignments")
		}
		out = append(out, formDTO.FromFormModel(row, ids))
	}
	return helper.JsonList(c, "Forms loaded", out, nil)
}

// GET /api/forms/:id
// An unassigned form reads as absent rather than forbidden.
func (ctl *FormController) Retrieve(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	row, found, err := ctl.loadForm(id)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load form")
	}
	if !found {
		return helper.JsonError(c, fiber.StatusNotFound, "Form not found")
	}

	if !userModel.Role(role).IsAdmin() {
		assigned, err := ctl.isAssigned(row.ID, userID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check assignment")
		}
		if !row.IsActive || !assigned {
			return helper.JsonError(c, fiber.StatusNotFound, "Form not found")
		}
	}

	ids, err := ctl.assignedIDs(row.ID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load assignments")
	}
	return helper.JsonOK(c, "Form loaded", formDTO.FromFormModel(row, ids))
}

// POST /api/forms (admin guard on the route)
func (ctl *FormController) Create(c *fiber.Ctx) error {
	userID, _, err := helper.ActingUser(c)
	if err != nil {
		return err
	}

	var req formDTO.CreateFormRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}
	if fieldErrs := formDTO.ValidateFields(req.Fields); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	form := formModel.FormModel{
		Title:       req.Title,
		Description: req.Description,
		IsActive:    true,
		CreatedByID: userID,
	}
	if req.IsActive != nil {
		form.IsActive = *req.IsActive
	}

	if err := ctl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&form).Error; err != nil {
			return err
		}
		for _, fp := range req.Fields {
			field := formModel.FormFieldModel{
				FormID:   form.ID,
				Type:     fp.Type,
				Label:    fp.Label,
				Required: fp.Required,
				HelpText: fp.HelpText,
				Order:    fp.Order,
			}
			if err := tx.Create(&field).Error; err != nil {
				return err
			}
			// options only make sense on choice types
			if !formModel.FieldTypeNeedsOptions(fp.Type) {
				continue
			}
			for _, op := range fp.Options {
				opt := formModel.FormFieldOptionModel{
					FieldID: field.ID,
					Label:   op.Label,
					Order:   op.Order,
				}
				if err := tx.Create(&opt).Error; err != nil {
					return err
				}
			}
		}
		return ctl.replaceAssignments(tx, form.ID, req.AssignedToIDs)
	}); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create form")
	}

	row, _, err := ctl.loadForm(form.ID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload form")
	}
	ids, _ := ctl.assignedIDs(row.ID)
	return helper.JsonCreated(c, "Form created", formDTO.FromFormModel(row, ids))
}

// PUT|PATCH /api/forms/:id (admin guard on the route)
// Fields are reconciled by id: matched ids update in place, payloads without
// a known id create, persisted rows missing from the payload are removed
// along with their options. Options reconcile the same way within each kept
// field, so a payload built from a fresh read applies as a no-op.
func (ctl *FormController) Update(c *fiber.Ctx) error {
	if _, _, err := helper.ActingUser(c); err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	row, found, err := ctl.loadForm(id)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load form")
	}
	if !found {
		return helper.JsonError(c, fiber.StatusNotFound, "Form not found")
	}

	var req formDTO.UpdateFormRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}
	if req.Fields != nil {
		if fieldErrs := formDTO.ValidateFields(*req.Fields); fieldErrs != nil {
			return helper.JsonValidationError(c, fieldErrs)
		}
	}

	if err := ctl.DB.Transaction(func(tx *gorm.DB) error {
		if req.Title != nil {
			row.Title = *req.Title
		}
		if req.Description != nil {
			row.Description = *req.Description
		}
		if req.IsActive != nil {
			row.IsActive = *req.IsActive
		}
		if err := tx.Model(&formModel.FormModel{}).Where("id = ?", row.ID).Updates(map[string]any{
			"title":       row.Title,
			"description": row.Description,
			"is_active":   row.IsActive,
		}).Error; err != nil {
			return err
		}

		if req.Fields != nil {
			if err := ctl.reconcileFields(tx, &row, *req.Fields); err != nil {
				return err
			}
		}
		if req.AssignedToIDs != nil {
			if err := ctl.replaceAssignments(tx, row.ID, *req.AssignedToIDs); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update form")
	}

	fresh, _, err := ctl.loadForm(row.ID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload form")
	}
	ids, _ := ctl.assignedIDs(fresh.ID)
	return helper.JsonUpdated(c, "Form updated", formDTO.FromFormModel(fresh, ids))
}

// DELETE /api/forms/:id (admin guard on the route)
func (ctl *FormController) Delete(c *fiber.Ctx) error {
	if _, _, err := helper.ActingUser(c); err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		var form formModel.FormModel
		if err := tx.First(&form, id).Error; err != nil {
			return err
		}
		var fieldIDs []uint
		if err := tx.Model(&formModel.FormFieldModel{}).
			Where("form_id = ?", form.ID).Pluck("id", &fieldIDs).Error; err != nil {
			return err
		}
		if len(fieldIDs) > 0 {
			if err := tx.Where("field_id IN ?", fieldIDs).
				Delete(&formModel.FormFieldOptionModel{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("form_id = ?", form.ID).Delete(&formModel.FormFieldModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("form_id = ?", form.ID).Delete(&formModel.FormAssignmentModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&form).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Form not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete form")
	}
	return helper.JsonDeleted(c)
}

func (ctl *FormController) reconcileFields(tx *gorm.DB, form *formModel.FormModel, payloads []formDTO.FormFieldPayload) error {
	var existing []formModel.FormFieldModel
	if err := tx.Preload("Options").Where("form_id = ?", form.ID).Find(&existing).Error; err != nil {
		return err
	}

	if err := helper.ReconcileChildren(tx, existing, payloads,
		func(f *formModel.FormFieldModel) uint { return f.ID },
		func(p *formDTO.FormFieldPayload) uint { return p.ID },
		func(f *formModel.FormFieldModel, p *formDTO.FormFieldPayload) {
			f.Type = p.Type
			f.Label = p.Label
			f.Required = p.Required
			f.HelpText = p.HelpText
			f.Order = p.Order
		},
		func(p *formDTO.FormFieldPayload) *formModel.FormFieldModel {
			return &formModel.FormFieldModel{
				FormID:   form.ID,
				Type:     p.Type,
				Label:    p.Label,
				Required: p.Required,
				HelpText: p.HelpText,
				Order:    p.Order,
			}
		},
		func(f *formModel.FormFieldModel) error {
			if err := tx.Where("field_id = ?", f.ID).
				Delete(&formModel.FormFieldOptionModel{}).Error; err != nil {
				return err
			}
			return tx.Delete(f).Error
		},
	); err != nil {
		return err
	}

	// second pass: reconcile options within every kept field
	return ctl.reconcileOptions(tx, form.ID, payloads)
}

func (ctl *FormController) reconcileOptions(tx *gorm.DB, formID uint, payloads []formDTO.FormFieldPayload) error {
	for i := range payloads {
		fp := &payloads[i]

		var field formModel.FormFieldModel
		q := tx.Where("form_id = ?", formID)
		if fp.ID != 0 {
			q = q.Where("id = ?", fp.ID)
		} else {
			q = q.Where("label = ? AND type = ?", fp.Label, fp.Type).Order("id DESC")
		}
		if err := q.First(&field).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}

		submitted := fp.Options
		if !formModel.FieldTypeNeedsOptions(field.Type) {
			submitted = nil
		}

		var existing []formModel.FormFieldOptionModel
		if err := tx.Where("field_id = ?", field.ID).Find(&existing).Error; err != nil {
			return err
		}

		if err := helper.ReconcileChildren(tx, existing, submitted,
			func(o *formModel.FormFieldOptionModel) uint { return o.ID },
			func(p *formDTO.FormFieldOptionPayload) uint { return p.ID },
			func(o *formModel.FormFieldOptionModel, p *formDTO.FormFieldOptionPayload) {
				o.Label = p.Label
				o.Order = p.Order
			},
			func(p *formDTO.FormFieldOptionPayload) *formModel.FormFieldOptionModel {
				return &formModel.FormFieldOptionModel{
					FieldID: field.ID,
					Label:   p.Label,
					Order:   p.Order,
				}
			},
			func(o *formModel.FormFieldOptionModel) error { return tx.Delete(o).Error },
		); err != nil {
			return err
		}
	}
	return nil
}

func (ctl *FormController) replaceAssignments(tx *gorm.DB, formID uint, userIDs []uint) error {
	if err := tx.Where("form_id = ?", formID).Delete(&formModel.FormAssignmentModel{}).Error; err != nil {
		return err
	}
	for _, uid := range userIDs {
		var cnt int64
		if err := tx.Model(&userModel.UserModel{}).Where("id = ?", uid).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			continue // unknown ids are silently dropped
		}
		if err := tx.Create(&formModel.FormAssignmentModel{FormID: formID, UserID: uid}).Error; err != nil {
			return err
		}
	}
	return nil
}

func (ctl *FormController) loadForm(id uint) (formModel.FormModel, bool, error) {
	var row formModel.FormModel
	err := ctl.DB.Preload("Fields", func(db *gorm.DB) *gorm.DB {
		return db.Order("\"order\" ASC, created_at ASC")
	}).Preload("Fields.Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("\"order\" ASC, created_at ASC")
	}).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, false, nil
	}
	return row, err == nil, err
}

func (ctl *FormController) assignedIDs(formID uint) ([]uint, error) {
	var ids []uint
	err := ctl.DB.Model(&formModel.FormAssignmentModel{}).
		Where("form_id = ?", formID).Order("user_id ASC").Pluck("user_id", &ids).Error
	return ids, err
}

func (ctl *FormController) isAssigned(formID, userID uint) (bool, error) {
	var cnt int64
	err := ctl.DB.Model(&formModel.FormAssignmentModel{}).
		Where("form_id = ? AND user_id = ?", formID, userID).Count(&cnt).Error
	return cnt > 0, err
}
