package model

import (
	"time"

	userModel "csmanager_backend/internals/features/users/user/model"
)

// LocationTypeModel classifies meeting places (virtual, classroom, office...).
type LocationTypeModel struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `json:"description"`

	CreatedByID uint                `gorm:"not null" json:"created_by"`
	CreatedBy   userModel.UserModel `gorm:"foreignKey:CreatedByID" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (LocationTypeModel) TableName() string { return "location_types" }

// LocationModel is a physical or virtual meeting place.
type LocationModel struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"size:100;not null" json:"name"`
	Description    string `json:"description"`
	Address        string `gorm:"size:255" json:"address"`
	LocationTypeID uint   `gorm:"not null;index" json:"location_type"`
	Notes          string `json:"notes"`

	LocationType LocationTypeModel   `gorm:"foreignKey:LocationTypeID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedByID  uint                `gorm:"not null" json:"created_by"`
	CreatedBy    userModel.UserModel `gorm:"foreignKey:CreatedByID" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (LocationModel) TableName() string { return "locations" }
