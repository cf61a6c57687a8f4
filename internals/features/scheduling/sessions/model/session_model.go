package model

import (
	"time"

	userModel "csmanager_backend/internals/features/users/user/model"
)

// SessionModel is a recruiting season, e.g. "Fall 2026 Recruitment".
type SessionModel struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `gorm:"type:date;not null" json:"-"`
	EndDate     time.Time `gorm:"type:date;not null" json:"-"`

	CreatedByID uint                `gorm:"not null" json:"created_by"`
	CreatedBy   userModel.UserModel `gorm:"foreignKey:CreatedByID" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SessionModel) TableName() string { return "sessions" }
