package model

import (
	"time"

	sectionModel "csmanager_backend/internals/features/scheduling/sections/model"
	userModel "csmanager_backend/internals/features/users/user/model"
)

// SessionTimeSlotModel is a bookable meeting interval within a candidate
// section.
type SessionTimeSlotModel struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	CandidateSectionID uint       `gorm:"not null;index" json:"candidate_section"`
	StartTime          time.Time  `gorm:"not null" json:"start_time"`
	EndTime            *time.Time `json:"end_time"`
	MaxAttendees       int        `gorm:"not null;default:1" json:"max_attendees"`
	Location           string     `gorm:"size:200" json:"location"`
	Description        string     `json:"description"`
	IsVisible          bool       `gorm:"not null;default:true" json:"is_visible"`

	CandidateSection sectionModel.CandidateSectionModel `gorm:"foreignKey:CandidateSectionID;constraint:OnDelete:CASCADE" json:"-"`
	Attendees        []SessionAttendeeModel             `gorm:"foreignKey:TimeSlotID" json:"-"`
}

func (SessionTimeSlotModel) TableName() string { return "session_time_slots" }

// AvailableSlots derives remaining capacity from the loaded attendee rows.
func (s *SessionTimeSlotModel) AvailableSlots() int {
	return s.MaxAttendees - len(s.Attendees)
}

func (s *SessionTimeSlotModel) IsFull() bool {
	return s.AvailableSlots() <= 0
}

// SessionAttendeeModel registers a user against a time slot. At most one row
// per (slot, user).
type SessionAttendeeModel struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	TimeSlotID uint `gorm:"not null;index;uniqueIndex:uq_slot_user" json:"time_slot"`
	UserID     uint `gorm:"not null;uniqueIndex:uq_slot_user" json:"user_id"`

	User         userModel.UserModel  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TimeSlot     SessionTimeSlotModel `gorm:"foreignKey:TimeSlotID;constraint:OnDelete:CASCADE" json:"-"`
	RegisteredAt time.Time            `gorm:"autoCreateTime" json:"registered_at"`
}

func (SessionAttendeeModel) TableName() string { return "session_attendees" }
