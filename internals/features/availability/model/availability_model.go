package model

import (
	"time"

	sectionModel "csmanager_backend/internals/features/scheduling/sections/model"
	userModel "csmanager_backend/internals/features/users/user/model"
)

// FacultyAvailabilityModel is a faculty member's offered meeting windows for
// one candidate section. Slots are imported into real session time slots by
// an admin, never automatically.
type FacultyAvailabilityModel struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	FacultyID          uint   `gorm:"not null;index" json:"faculty"`
	CandidateSectionID uint   `gorm:"not null;index" json:"candidate_section"`
	Notes              string `json:"notes"`

	Faculty          userModel.UserModel                `gorm:"foreignKey:FacultyID" json:"-"`
	CandidateSection sectionModel.CandidateSectionModel `gorm:"foreignKey:CandidateSectionID;constraint:OnDelete:CASCADE" json:"-"`
	TimeSlots        []AvailabilityTimeSlotModel        `gorm:"foreignKey:AvailabilityID" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FacultyAvailabilityModel) TableName() string { return "faculty_availability" }

type AvailabilityTimeSlotModel struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	AvailabilityID uint      `gorm:"not null;index" json:"availability"`
	StartTime      time.Time `gorm:"not null" json:"start_time"`
	EndTime        time.Time `gorm:"not null" json:"end_time"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AvailabilityTimeSlotModel) TableName() string { return "availability_time_slots" }

// AvailabilityInvitationModel tracks which faculty were asked to submit
// availability for a section. One row per (faculty, section) pair.
type AvailabilityInvitationModel struct {
	ID                 uint `gorm:"primaryKey" json:"id"`
	FacultyID          uint `gorm:"not null;uniqueIndex:uq_invitation_faculty_section" json:"faculty"`
	CandidateSectionID uint `gorm:"not null;uniqueIndex:uq_invitation_faculty_section" json:"candidate_section"`
	CreatedByID        uint `gorm:"not null" json:"created_by"`
	EmailSent          bool `gorm:"default:false" json:"email_sent"`

	Faculty          userModel.UserModel                `gorm:"foreignKey:FacultyID" json:"-"`
	CandidateSection sectionModel.CandidateSectionModel `gorm:"foreignKey:CandidateSectionID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedBy        userModel.UserModel                `gorm:"foreignKey:CreatedByID" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AvailabilityInvitationModel) TableName() string { return "availability_invitations" }
