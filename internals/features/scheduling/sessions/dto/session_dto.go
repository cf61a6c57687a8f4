package dto

import (
	"time"

	m "csmanager_backend/internals/features/scheduling/sessions/model"
)

const dateLayout = "2006-01-02"

type CreateSessionRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
}

type UpdateSessionRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

// ParseDates validates both bounds and their ordering; errors are keyed by
// field name for the 400 payload.
func (r *CreateSessionRequest) ParseDates() (start, end time.Time, errs map[string][]string) {
	errs = map[string][]string{}
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		errs["start_date"] = append(errs["start_date"], "Date must be in YYYY-MM-DD format.")
	}
	end, err = time.Parse(dateLayout, r.EndDate)
	if err != nil {
		errs["end_date"] = append(errs["end_date"], "Date must be in YYYY-MM-DD format.")
	}
	if len(errs) == 0 && end.Before(start) {
		errs["end_date"] = append(errs["end_date"], "End date must not be before start date.")
	}
	if len(errs) > 0 {
		return time.Time{}, time.Time{}, errs
	}
	return start, end, nil
}

func (r CreateSessionRequest) ToModel(createdBy uint, start, end time.Time) m.SessionModel {
	return m.SessionModel{
		Title:       r.Title,
		Description: r.Description,
		StartDate:   start,
		EndDate:     end,
		CreatedByID: createdBy,
	}
}

type SessionResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	CreatedBy   uint   `json:"created_by"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func FromSessionModel(s m.SessionModel) SessionResponse {
	return SessionResponse{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		StartDate:   s.StartDate.Format(dateLayout),
		EndDate:     s.EndDate.Format(dateLayout),
		CreatedBy:   s.CreatedByID,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339),
	}
}

func FromSessionModels(rows []m.SessionModel) []SessionResponse {
	out := make([]SessionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromSessionModel(r))
	}
	return out
}
