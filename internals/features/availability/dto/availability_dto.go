package dto

import (
	"time"

	m "csmanager_backend/internals/features/availability/model"
	userModel "csmanager_backend/internals/features/users/user/model"
)

type AvailabilityTimeSlotPayload struct {
	ID        uint   `json:"id"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

type CreateFacultyAvailabilityRequest struct {
	CandidateSectionID uint                          `json:"candidate_section" validate:"required"`
	Notes              string                        `json:"notes"`
	TimeSlots          []AvailabilityTimeSlotPayload `json:"time_slots" validate:"dive"`
}

type UpdateFacultyAvailabilityRequest struct {
	Notes     *string                        `json:"notes"`
	TimeSlots *[]AvailabilityTimeSlotPayload `json:"time_slots" validate:"omitempty,dive"`
}

// ParseSlotWindows parses every submitted interval and checks ordering.
// Errors key on start_time/end_time.
func ParseSlotWindows(payloads []AvailabilityTimeSlotPayload) ([]struct{ Start, End time.Time }, map[string][]string) {
	errs := map[string][]string{}
	out := make([]struct{ Start, End time.Time }, 0, len(payloads))
	for _, p := range payloads {
		start, errS := time.Parse(time.RFC3339, p.StartTime)
		if errS != nil {
			errs["start_time"] = append(errs["start_time"], "Timestamp must be in RFC 3339 format.")
		}
		end, errE := time.Parse(time.RFC3339, p.EndTime)
		if errE != nil {
			errs["end_time"] = append(errs["end_time"], "Timestamp must be in RFC 3339 format.")
		}
		if errS == nil && errE == nil && !end.After(start) {
			errs["end_time"] = append(errs["end_time"], "End time must be after start time.")
		}
		out = append(out, struct{ Start, End time.Time }{Start: start, End: end})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

type AvailabilityTimeSlotResponse struct {
	ID        uint   `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type FacultyAvailabilityResponse struct {
	ID               uint                           `json:"id"`
	Faculty          uint                           `json:"faculty"`
	FacultyName      string                         `json:"faculty_name"`
	FacultyEmail     string                         `json:"faculty_email"`
	FacultyRoom      *string                        `json:"faculty_room"`
	CandidateSection uint                           `json:"candidate_section"`
	Notes            string                         `json:"notes"`
	TimeSlots        []AvailabilityTimeSlotResponse `json:"time_slots"`
	CreatedAt        string                         `json:"created_at"`
	UpdatedAt        string                         `json:"updated_at"`
}

// FromAvailabilityModel expects Faculty and TimeSlots preloaded.
func FromAvailabilityModel(a m.FacultyAvailabilityModel) FacultyAvailabilityResponse {
	slots := make([]AvailabilityTimeSlotResponse, 0, len(a.TimeSlots))
	for _, s := range a.TimeSlots {
		slots = append(slots, AvailabilityTimeSlotResponse{
			ID:        s.ID,
			StartTime: s.StartTime.Format(time.RFC3339),
			EndTime:   s.EndTime.Format(time.RFC3339),
		})
	}
	return FacultyAvailabilityResponse{
		ID:               a.ID,
		Faculty:          a.FacultyID,
		FacultyName:      a.Faculty.FullName(),
		FacultyEmail:     a.Faculty.Email,
		FacultyRoom:      a.Faculty.RoomNumber,
		CandidateSection: a.CandidateSectionID,
		Notes:            a.Notes,
		TimeSlots:        slots,
		CreatedAt:        a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        a.UpdatedAt.Format(time.RFC3339),
	}
}

func FromAvailabilityModels(rows []m.FacultyAvailabilityModel) []FacultyAvailabilityResponse {
	out := make([]FacultyAvailabilityResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromAvailabilityModel(r))
	}
	return out
}

type InviteFacultyRequest struct {
	FacultyIDs          []uint `json:"faculty_ids"`
	CandidateSectionIDs []uint `json:"candidate_section_ids"`
	SendEmail           bool   `json:"send_email"`
}

type AvailabilityInvitationResponse struct {
	ID               uint   `json:"id"`
	Faculty          uint   `json:"faculty"`
	FacultyName      string `json:"faculty_name"`
	FacultyEmail     string `json:"faculty_email"`
	CandidateSection uint   `json:"candidate_section"`
	CreatedBy        uint   `json:"created_by"`
	EmailSent        bool   `json:"email_sent"`
	CreatedAt        string `json:"created_at"`
}

func FromInvitationModel(i m.AvailabilityInvitationModel) AvailabilityInvitationResponse {
	return AvailabilityInvitationResponse{
		ID:               i.ID,
		Faculty:          i.FacultyID,
		FacultyName:      i.Faculty.FullName(),
		FacultyEmail:     i.Faculty.Email,
		CandidateSection: i.CandidateSectionID,
		CreatedBy:        i.CreatedByID,
		EmailSent:        i.EmailSent,
		CreatedAt:        i.CreatedAt.Format(time.RFC3339),
	}
}

func FromInvitationModels(rows []m.AvailabilityInvitationModel) []AvailabilityInvitationResponse {
	out := make([]AvailabilityInvitationResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromInvitationModel(r))
	}
	return out
}

// invitable roles for faculty-id resolution
func InvitableRoles() []userModel.Role {
	return []userModel.Role{userModel.RoleFaculty, userModel.RoleAdmin, userModel.RoleSuperadmin}
}
