package model

import (
	"time"

	userModel "csmanager_backend/internals/features/users/user/model"
)

// Field types a form can carry. select/radio/checkbox require options,
// date_range must not have any.
const (
	FieldTypeText      = "text"
	FieldTypeTextarea  = "textarea"
	FieldTypeSelect    = "select"
	FieldTypeRadio     = "radio"
	FieldTypeCheckbox  = "checkbox"
	FieldTypeDate      = "date"
	FieldTypeDateRange = "date_range"
)

func ValidFieldType(t string) bool {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeSelect, FieldTypeRadio,
		FieldTypeCheckbox, FieldTypeDate, FieldTypeDateRange:
		return true
	}
	return false
}

// FieldTypeNeedsOptions reports whether a field type is a choice type.
func FieldTypeNeedsOptions(t string) bool {
	switch t {
	case FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox:
		return true
	}
	return false
}

type FormModel struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `json:"description"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	CreatedByID uint                `gorm:"not null" json:"created_by"`
	CreatedBy   userModel.UserModel `gorm:"foreignKey:CreatedByID" json:"-"`

	Fields     []FormFieldModel      `gorm:"foreignKey:FormID" json:"-"`
	AssignedTo []userModel.UserModel `gorm:"many2many:form_assignments;joinForeignKey:FormID;joinReferences:UserID" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FormModel) TableName() string { return "forms" }

type FormFieldModel struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FormID   uint   `gorm:"not null;index" json:"form"`
	Type     string `gorm:"size:20;not null" json:"type"`
	Label    string `gorm:"size:255;not null" json:"label"`
	Required bool   `gorm:"default:false" json:"required"`
	HelpText string `json:"help_text"`
	Order    int    `gorm:"default:0" json:"order"`

	Options []FormFieldOptionModel `gorm:"foreignKey:FieldID" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (FormFieldModel) TableName() string { return "form_fields" }

type FormFieldOptionModel struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	FieldID uint   `gorm:"not null;index" json:"field"`
	Label   string `gorm:"size:255;not null" json:"label"`
	Order   int    `gorm:"default:0" json:"order"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (FormFieldOptionModel) TableName() string { return "form_field_options" }

// FormAssignmentModel is the explicit join table behind FormModel.AssignedTo,
// migrated directly so lookups can hit it without loading the association.
type FormAssignmentModel struct {
	FormID uint `gorm:"primaryKey" json:"form_id"`
	UserID uint `gorm:"primaryKey" json:"user_id"`
}

func (FormAssignmentModel) TableName() string { return "form_assignments" }
