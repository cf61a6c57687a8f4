package model

import (
	"time"

	"gorm.io/datatypes"

	sessionModel "csmanager_backend/internals/features/scheduling/sessions/model"
	userModel "csmanager_backend/internals/features/users/user/model"
)

// CandidateSectionModel is one candidate's visit within a session.
type CandidateSectionModel struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	SessionID   uint   `gorm:"not null;index" json:"session"`
	CandidateID uint   `gorm:"not null;index" json:"candidate_id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `json:"description"`
	Location    string `gorm:"size:200" json:"location"`

	NeedsTransportation bool       `gorm:"not null;default:false" json:"needs_transportation"`
	ArrivalDate         *time.Time `gorm:"type:date" json:"-"`
	LeavingDate         *time.Time `gorm:"type:date" json:"-"`

	// Availability submissions already materialized into time slots.
	// Append-only; the list never holds duplicates.
	ImportedAvailabilityIDs datatypes.JSON `json:"imported_availability_ids"`

	Session   sessionModel.SessionModel `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	Candidate userModel.UserModel       `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CandidateSectionModel) TableName() string { return "candidate_sections" }
