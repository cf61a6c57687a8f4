package model

import (
	"time"

	"gorm.io/datatypes"

	userModel "csmanager_backend/internals/features/users/user/model"
)

// FormSubmissionModel stores answers keyed by the field id (as string) plus a
// frozen snapshot of the form's fields at submission time. The snapshot is
// written once on first save and never recomputed, so answers stay readable
// after the form is edited. A partial unique index on
// (form_id, submitted_by_id) WHERE is_completed backstops the duplicate check.
type FormSubmissionModel struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	FormID        uint `gorm:"not null;index" json:"form"`
	SubmittedByID uint `gorm:"not null;index" json:"submitted_by"`

	Answers     datatypes.JSON `gorm:"type:jsonb" json:"answers"`
	IsCompleted bool           `gorm:"default:false" json:"is_completed"`
	FormVersion datatypes.JSON `gorm:"type:jsonb" json:"form_version"`

	Form        FormModel           `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"-"`
	SubmittedBy userModel.UserModel `gorm:"foreignKey:SubmittedByID" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FormSubmissionModel) TableName() string { return "form_submissions" }
