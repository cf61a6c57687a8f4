package dto

import (
	"time"

	m "csmanager_backend/internals/features/scheduling/timeslots/model"
	userModel "csmanager_backend/internals/features/users/user/model"
)

type CreateTimeSlotRequest struct {
	CandidateSectionID uint    `json:"candidate_section" validate:"required"`
	StartTime          string  `json:"start_time" validate:"required"`
	EndTime            *string `json:"end_time"`
	MaxAttendees       *int    `json:"max_attendees" validate:"omitempty,min=1"`
	Location           string  `json:"location" validate:"max=200"`
	Description        string  `json:"description"`
	IsVisible          *bool   `json:"is_visible"`
}

type UpdateTimeSlotRequest struct {
	StartTime    *string `json:"start_time"`
	EndTime      *string `json:"end_time"`
	MaxAttendees *int    `json:"max_attendees" validate:"omitempty,min=1"`
	Location     *string `json:"location" validate:"omitempty,max=200"`
	Description  *string `json:"description"`
	IsVisible    *bool   `json:"is_visible"`
}

func (r CreateTimeSlotRequest) ToModel(start time.Time, end *time.Time) m.SessionTimeSlotModel {
	slot := m.SessionTimeSlotModel{
		CandidateSectionID: r.CandidateSectionID,
		StartTime:          start,
		EndTime:            end,
		MaxAttendees:       1,
		Location:           r.Location,
		Description:        r.Description,
		IsVisible:          true,
	}
	if r.MaxAttendees != nil {
		slot.MaxAttendees = *r.MaxAttendees
	}
	if r.IsVisible != nil {
		slot.IsVisible = *r.IsVisible
	}
	return slot
}

type AttendeeUser struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserType  string `json:"user_type"`
}

func fromAttendeeUser(u userModel.UserModel) AttendeeUser {
	return AttendeeUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserType:  string(u.Role),
	}
}

type AttendeeResponse struct {
	ID           uint         `json:"id"`
	TimeSlot     uint         `json:"time_slot"`
	UserID       uint         `json:"user_id"`
	User         AttendeeUser `json:"user"`
	RegisteredAt string       `json:"registered_at"`
}

func FromAttendeeModel(a m.SessionAttendeeModel) AttendeeResponse {
	return AttendeeResponse{
		ID:           a.ID,
		TimeSlot:     a.TimeSlotID,
		UserID:       a.UserID,
		User:         fromAttendeeUser(a.User),
		RegisteredAt: a.RegisteredAt.Format(time.RFC3339),
	}
}

func FromAttendeeModels(rows []m.SessionAttendeeModel) []AttendeeResponse {
	out := make([]AttendeeResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromAttendeeModel(r))
	}
	return out
}

type TimeSlotResponse struct {
	ID               uint               `json:"id"`
	CandidateSection uint               `json:"candidate_section"`
	StartTime        string             `json:"start_time"`
	EndTime          *string            `json:"end_time"`
	MaxAttendees     int                `json:"max_attendees"`
	Location         string             `json:"location"`
	Description      string             `json:"description"`
	IsVisible        bool               `json:"is_visible"`
	AvailableSlots   int                `json:"available_slots"`
	IsFull           bool               `json:"is_full"`
	Attendees        []AttendeeResponse `json:"attendees"`
}

// FromTimeSlotModel derives available_slots/is_full from the attendee rows,
// so callers must preload Attendees (and Attendees.User).
func FromTimeSlotModel(s m.SessionTimeSlotModel) TimeSlotResponse {
	var end *string
	if s.EndTime != nil {
		v := s.EndTime.Format(time.RFC3339)
		end = &v
	}
	return TimeSlotResponse{
		ID:               s.ID,
		CandidateSection: s.CandidateSectionID,
		StartTime:        s.StartTime.Format(time.RFC3339),
		EndTime:          end,
		MaxAttendees:     s.MaxAttendees,
		Location:         s.Location,
		Description:      s.Description,
		IsVisible:        s.IsVisible,
		AvailableSlots:   s.AvailableSlots(),
		IsFull:           s.IsFull(),
		Attendees:        FromAttendeeModels(s.Attendees),
	}
}

func FromTimeSlotModels(rows []m.SessionTimeSlotModel) []TimeSlotResponse {
	out := make([]TimeSlotResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromTimeSlotModel(r))
	}
	return out
}
