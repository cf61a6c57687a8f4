package model

import (
	"time"

	locationModel "csmanager_backend/internals/features/catalog/locations/model"
	userModel "csmanager_backend/internals/features/users/user/model"
)

// TimeSlotTemplateModel is a reusable slot shape used to stamp out time
// slots faster; it is not itself a slot.
type TimeSlotTemplateModel struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	Name            string  `gorm:"size:100;not null" json:"name"`
	Description     string  `json:"description"`
	StartTime       *string `gorm:"size:5" json:"start_time"` // "HH:MM"
	DurationMinutes int     `gorm:"not null;default:60" json:"duration_minutes"`
	MaxAttendees    int     `gorm:"not null;default:1" json:"max_attendees"`

	UseLocationType bool   `gorm:"not null;default:false" json:"use_location_type"`
	CustomLocation  string `gorm:"size:200" json:"custom_location"`
	LocationID      *uint  `json:"location"`
	LocationTypeID  *uint  `json:"location_type"`

	Notes      string `json:"notes"`
	IsVisible  bool   `gorm:"not null;default:true" json:"is_visible"`
	HasEndTime bool   `gorm:"not null;default:true" json:"has_end_time"`

	CreatedByID uint `gorm:"not null" json:"created_by"`

	Location     *locationModel.LocationModel     `gorm:"foreignKey:LocationID;constraint:OnDelete:SET NULL" json:"-"`
	LocationType *locationModel.LocationTypeModel `gorm:"foreignKey:LocationTypeID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedBy    userModel.UserModel              `gorm:"foreignKey:CreatedByID" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (TimeSlotTemplateModel) TableName() string { return "time_slot_templates" }
