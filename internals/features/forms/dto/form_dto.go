package dto

import (
	"time"

	m "csmanager_backend/internals/features/forms/model"
)

type FormFieldOptionPayload struct {
	ID    uint   `json:"id"`
	Label string `json:"label" validate:"required,max=255"`
	Order int    `json:"order"`
}

type FormFieldPayload struct {
	ID       uint                     `json:"id"`
	Type     string                   `json:"type" validate:"required"`
	Label    string                   `json:"label" validate:"required,max=255"`
	Required bool                     `json:"required"`
	HelpText string                   `json:"help_text"`
	Order    int                      `json:"order"`
	Options  []FormFieldOptionPayload `json:"options" validate:"dive"`
}

type CreateFormRequest struct {
	Title         string             `json:"title" validate:"required,max=200"`
	Description   string             `json:"description"`
	IsActive      *bool              `json:"is_active"`
	AssignedToIDs []uint             `json:"assigned_to_ids"`
	Fields        []FormFieldPayload `json:"fields" validate:"dive"`
}

type UpdateFormRequest struct {
	Title         *string             `json:"title" validate:"omitempty,max=200"`
	Description   *string             `json:"description"`
	IsActive      *bool               `json:"is_active"`
	AssignedToIDs *[]uint             `json:"assigned_to_ids"`
	Fields        *[]FormFieldPayload `json:"fields" validate:"omitempty,dive"`
}

// ValidateFields applies the field-type option rules: choice types need at
// least one option, date_range must not carry any. Errors key on `options`,
// naming the type.
func ValidateFields(fields []FormFieldPayload) map[string][]string {
	errs := map[string][]string{}
	for _, f := range fields {
		if !m.ValidFieldType(f.Type) {
			errs["type"] = append(errs["type"], "Unknown field type: "+f.Type+".")
			continue
		}
		if m.FieldTypeNeedsOptions(f.Type) && len(f.Options) == 0 {
			errs["options"] = append(errs["options"], "Fields of type "+f.Type+" require at least one option.")
		}
		if f.Type == m.FieldTypeDateRange && len(f.Options) > 0 {
			errs["options"] = append(errs["options"], "Fields of type "+m.FieldTypeDateRange+" must not have options.")
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

type FormFieldOptionResponse struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
	Order int    `json:"order"`
}

type FormFieldResponse struct {
	ID       uint                      `json:"id"`
	Type     string                    `json:"type"`
	Label    string                    `json:"label"`
	Required bool                      `json:"required"`
	HelpText string                    `json:"help_text"`
	Order    int                       `json:"order"`
	Options  []FormFieldOptionResponse `json:"options"`
}

type FormResponse struct {
	ID            uint                `json:"id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	IsActive      bool                `json:"is_active"`
	CreatedBy     uint                `json:"created_by"`
	AssignedToIDs []uint              `json:"assigned_to_ids"`
	Fields        []FormFieldResponse `json:"fields"`
	CreatedAt     string              `json:"created_at"`
	UpdatedAt     string              `json:"updated_at"`
}

func fromFieldModel(f m.FormFieldModel) FormFieldResponse {
	opts := make([]FormFieldOptionResponse, 0, len(f.Options))
	for _, o := range f.Options {
		opts = append(opts, FormFieldOptionResponse{ID: o.ID, Label: o.Label, Order: o.Order})
	}
	return FormFieldResponse{
		ID:       f.ID,
		Type:     f.Type,
		Label:    f.Label,
		Required: f.Required,
		HelpText: f.HelpText,
		Order:    f.Order,
		Options:  opts,
	}
}

// FromFormModel expects Fields (with Options) preloaded in display order and
// the assignment ids resolved by the caller.
func FromFormModel(f m.FormModel, assignedIDs []uint) FormResponse {
	fields := make([]FormFieldResponse, 0, len(f.Fields))
	for _, fld := range f.Fields {
		fields = append(fields, fromFieldModel(fld))
	}
	if assignedIDs == nil {
		assignedIDs = []uint{}
	}
	return FormResponse{
		ID:            f.ID,
		Title:         f.Title,
		Description:   f.Description,
		IsActive:      f.IsActive,
		CreatedBy:     f.CreatedByID,
		AssignedToIDs: assignedIDs,
		Fields:        fields,
		CreatedAt:     f.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     f.UpdatedAt.Format(time.RFC3339),
	}
}
