package dto

import (
	"time"

	m "csmanager_backend/internals/features/forms/model"
)

type CreateFormSubmissionRequest struct {
	FormID      uint           `json:"form" validate:"required"`
	Answers     map[string]any `json:"answers"`
	IsCompleted bool           `json:"is_completed"`
}

type UpdateFormSubmissionRequest struct {
	Answers     *map[string]any `json:"answers"`
	IsCompleted *bool           `json:"is_completed"`
}

type FormSubmissionResponse struct {
	ID          uint           `json:"id"`
	Form        uint           `json:"form"`
	SubmittedBy uint           `json:"submitted_by"`
	Answers     map[string]any `json:"answers"`
	IsCompleted bool           `json:"is_completed"`
	FormVersion any            `json:"form_version"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

// FromSubmissionModel takes the answers already remapped onto current field
// ids and the decoded snapshot.
func FromSubmissionModel(s m.FormSubmissionModel, answers map[string]any, version any) FormSubmissionResponse {
	if answers == nil {
		answers = map[string]any{}
	}
	return FormSubmissionResponse{
		ID:          s.ID,
		Form:        s.FormID,
		SubmittedBy: s.SubmittedByID,
		Answers:     answers,
		IsCompleted: s.IsCompleted,
		FormVersion: version,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339),
	}
}
