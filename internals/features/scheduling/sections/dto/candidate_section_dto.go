package dto

import (
	"time"

	m "csmanager_backend/internals/features/scheduling/sections/model"
	timeslotDTO "csmanager_backend/internals/features/scheduling/timeslots/dto"
	timeslotModel "csmanager_backend/internals/features/scheduling/timeslots/model"
	userModel "csmanager_backend/internals/features/users/user/model"
)

const dateLayout = "2006-01-02"

type CreateCandidateSectionRequest struct {
	SessionID           uint    `json:"session" validate:"required"`
	CandidateID         uint    `json:"candidate_id" validate:"required"`
	Title               string  `json:"title" validate:"required,max=200"`
	Description         string  `json:"description"`
	Location            string  `json:"location" validate:"max=200"`
	NeedsTransportation *bool   `json:"needs_transportation"`
	ArrivalDate         *string `json:"arrival_date"`
	LeavingDate         *string `json:"leaving_date"`
}

type UpdateCandidateSectionRequest struct {
	Title               *string `json:"title" validate:"omitempty,max=200"`
	Description         *string `json:"description"`
	Location            *string `json:"location" validate:"omitempty,max=200"`
	NeedsTransportation *bool   `json:"needs_transportation"`
	ArrivalDate         *string `json:"arrival_date"`
	LeavingDate         *string `json:"leaving_date"`
}

// ParseDate accepts a YYYY-MM-DD payload value; nil stays nil.
func ParseDate(field string, v *string, errs map[string][]string) *time.Time {
	if v == nil || *v == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, *v)
	if err != nil {
		errs[field] = append(errs[field], "Date must be in YYYY-MM-DD format.")
		return nil
	}
	return &t
}

func (r CreateCandidateSectionRequest) ToModel(arrival, leaving *time.Time) m.CandidateSectionModel {
	sec := m.CandidateSectionModel{
		SessionID:   r.SessionID,
		CandidateID: r.CandidateID,
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		ArrivalDate: arrival,
		LeavingDate: leaving,
	}
	if r.NeedsTransportation != nil {
		sec.NeedsTransportation = *r.NeedsTransportation
	}
	return sec
}

type CandidateUser struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserType  string `json:"user_type"`
}

type CandidateSectionResponse struct {
	ID                      uint                           `json:"id"`
	Session                 uint                           `json:"session"`
	CandidateID             uint                           `json:"candidate_id"`
	Candidate               CandidateUser                  `json:"candidate"`
	Title                   string                         `json:"title"`
	Description             string                         `json:"description"`
	Location                string                         `json:"location"`
	NeedsTransportation     bool                           `json:"needs_transportation"`
	ArrivalDate             *string                        `json:"arrival_date"`
	LeavingDate             *string                        `json:"leaving_date"`
	ImportedAvailabilityIDs any                            `json:"imported_availability_ids"`
	TimeSlots               []timeslotDTO.TimeSlotResponse `json:"time_slots"`
	CreatedAt               string                         `json:"created_at"`
	UpdatedAt               string                         `json:"updated_at"`
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(dateLayout)
	return &v
}

func fromCandidateUser(u userModel.UserModel) CandidateUser {
	return CandidateUser{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserType:  string(u.Role),
	}
}

// FromCandidateSectionModel embeds the candidate user and the section's slots;
// callers preload Candidate and pass the slot rows (with attendees) they want
// nested.
func FromCandidateSectionModel(s m.CandidateSectionModel, slots []timeslotModel.SessionTimeSlotModel) CandidateSectionResponse {
	var imported any = []uint{}
	if len(s.ImportedAvailabilityIDs) > 0 {
		imported = s.ImportedAvailabilityIDs
	}
	return CandidateSectionResponse{
		ID:                      s.ID,
		Session:                 s.SessionID,
		CandidateID:             s.CandidateID,
		Candidate:               fromCandidateUser(s.Candidate),
		Title:                   s.Title,
		Description:             s.Description,
		Location:                s.Location,
		NeedsTransportation:     s.NeedsTransportation,
		ArrivalDate:             formatDatePtr(s.ArrivalDate),
		LeavingDate:             formatDatePtr(s.LeavingDate),
		ImportedAvailabilityIDs: imported,
		TimeSlots:               timeslotDTO.FromTimeSlotModels(slots),
		CreatedAt:               s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:               s.UpdatedAt.Format(time.RFC3339),
	}
}
