package dto

import (
	"time"

	m "csmanager_backend/internals/features/scheduling/templates/model"
)

type CreateTimeSlotTemplateRequest struct {
	Name            string  `json:"name" validate:"required,max=100"`
	Description     string  `json:"description"`
	StartTime       *string `json:"start_time" validate:"omitempty,len=5"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,min=1"`
	MaxAttendees    *int    `json:"max_attendees" validate:"omitempty,min=1"`
	UseLocationType *bool   `json:"use_location_type"`
	CustomLocation  string  `json:"custom_location" validate:"max=200"`
	LocationID      *uint   `json:"location"`
	LocationTypeID  *uint   `json:"location_type"`
	Notes           string  `json:"notes"`
	IsVisible       *bool   `json:"is_visible"`
	HasEndTime      *bool   `json:"has_end_time"`
}

type UpdateTimeSlotTemplateRequest struct {
	Name            *string `json:"name" validate:"omitempty,max=100"`
	Description     *string `json:"description"`
	StartTime       *string `json:"start_time" validate:"omitempty,len=5"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,min=1"`
	MaxAttendees    *int    `json:"max_attendees" validate:"omitempty,min=1"`
	UseLocationType *bool   `json:"use_location_type"`
	CustomLocation  *string `json:"custom_location" validate:"omitempty,max=200"`
	LocationID      *uint   `json:"location"`
	LocationTypeID  *uint   `json:"location_type"`
	Notes           *string `json:"notes"`
	IsVisible       *bool   `json:"is_visible"`
	HasEndTime      *bool   `json:"has_end_time"`
}

func (r CreateTimeSlotTemplateRequest) ToModel(createdBy uint) m.TimeSlotTemplateModel {
	row := m.TimeSlotTemplateModel{
		Name:            r.Name,
		Description:     r.Description,
		StartTime:       r.StartTime,
		DurationMinutes: 60,
		MaxAttendees:    1,
		CustomLocation:  r.CustomLocation,
		LocationID:      r.LocationID,
		LocationTypeID:  r.LocationTypeID,
		Notes:           r.Notes,
		IsVisible:       true,
		HasEndTime:      true,
		CreatedByID:     createdBy,
	}
	if r.DurationMinutes != nil {
		row.DurationMinutes = *r.DurationMinutes
	}
	if r.MaxAttendees != nil {
		row.MaxAttendees = *r.MaxAttendees
	}
	if r.UseLocationType != nil {
		row.UseLocationType = *r.UseLocationType
	}
	if r.IsVisible != nil {
		row.IsVisible = *r.IsVisible
	}
	if r.HasEndTime != nil {
		row.HasEndTime = *r.HasEndTime
	}
	return row
}

type TimeSlotTemplateResponse struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	StartTime       *string `json:"start_time"`
	DurationMinutes int     `json:"duration_minutes"`
	MaxAttendees    int     `json:"max_attendees"`
	UseLocationType bool    `json:"use_location_type"`
	CustomLocation  string  `json:"custom_location"`
	Location        *uint   `json:"location"`
	LocationType    *uint   `json:"location_type"`
	Notes           string  `json:"notes"`
	IsVisible       bool    `json:"is_visible"`
	HasEndTime      bool    `json:"has_end_time"`
	CreatedBy       uint    `json:"created_by"`
	CreatedAt       string  `json:"created_at"`
}

func FromTimeSlotTemplateModel(t m.TimeSlotTemplateModel) TimeSlotTemplateResponse {
	return TimeSlotTemplateResponse{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		StartTime:       t.StartTime,
		DurationMinutes: t.DurationMinutes,
		MaxAttendees:    t.MaxAttendees,
		UseLocationType: t.UseLocationType,
		CustomLocation:  t.CustomLocation,
		Location:        t.LocationID,
		LocationType:    t.LocationTypeID,
		Notes:           t.Notes,
		IsVisible:       t.IsVisible,
		HasEndTime:      t.HasEndTime,
		CreatedBy:       t.CreatedByID,
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
	}
}

func FromTimeSlotTemplateModels(rows []m.TimeSlotTemplateModel) []TimeSlotTemplateResponse {
	out := make([]TimeSlotTemplateResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromTimeSlotTemplateModel(r))
	}
	return out
}
