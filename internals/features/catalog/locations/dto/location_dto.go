package dto

import (
	"time"

	m "csmanager_backend/internals/features/catalog/locations/model"
)

type CreateLocationTypeRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type UpdateLocationTypeRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description"`
}

func (r CreateLocationTypeRequest) ToModel(createdBy uint) m.LocationTypeModel {
	return m.LocationTypeModel{
		Name:        r.Name,
		Description: r.Description,
		CreatedByID: createdBy,
	}
}

type LocationTypeResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedBy   uint   `json:"created_by"`
	CreatedAt   string `json:"created_at"`
}

func FromLocationTypeModel(t m.LocationTypeModel) LocationTypeResponse {
	return LocationTypeResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedBy:   t.CreatedByID,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}

func FromLocationTypeModels(rows []m.LocationTypeModel) []LocationTypeResponse {
	out := make([]LocationTypeResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromLocationTypeModel(r))
	}
	return out
}

type CreateLocationRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Description    string `json:"description"`
	Address        string `json:"address" validate:"max=255"`
	LocationTypeID uint   `json:"location_type" validate:"required"`
	Notes          string `json:"notes"`
}

type UpdateLocationRequest struct {
	Name           *string `json:"name" validate:"omitempty,max=100"`
	Description    *string `json:"description"`
	Address        *string `json:"address" validate:"omitempty,max=255"`
	LocationTypeID *uint   `json:"location_type"`
	Notes          *string `json:"notes"`
}

func (r CreateLocationRequest) ToModel(createdBy uint) m.LocationModel {
	return m.LocationModel{
		Name:           r.Name,
		Description:    r.Description,
		Address:        r.Address,
		LocationTypeID: r.LocationTypeID,
		Notes:          r.Notes,
		CreatedByID:    createdBy,
	}
}

type LocationResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Address      string `json:"address"`
	LocationType uint   `json:"location_type"`
	Notes        string `json:"notes"`
	CreatedBy    uint   `json:"created_by"`
	CreatedAt    string `json:"created_at"`
}

func FromLocationModel(l m.LocationModel) LocationResponse {
	return LocationResponse{
		ID:           l.ID,
		Name:         l.Name,
		Description:  l.Description,
		Address:      l.Address,
		LocationType: l.LocationTypeID,
		Notes:        l.Notes,
		CreatedBy:    l.CreatedByID,
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
	}
}

func FromLocationModels(rows []m.LocationModel) []LocationResponse {
	out := make([]LocationResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromLocationModel(r))
	}
	return out
}
