package model

import (
	"time"
)

// Role is a closed enum; admin capability is derived through predicates, not
// subclassing.
type Role string

const (
	RoleCandidate  Role = "candidate"
	RoleFaculty    Role = "faculty"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCandidate, RoleFaculty, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// IsAdmin is true for admin and superadmin.
func (r Role) IsAdmin() bool { return r == RoleAdmin || r == RoleSuperadmin }

func (r Role) IsSuperadmin() bool { return r == RoleSuperadmin }

// IsStaffLike is true for the roles allowed to receive availability
// invitations and register as slot attendees.
func (r Role) IsStaffLike() bool { return r == RoleFaculty || r.IsAdmin() }

// UserModel is the account record; email is the login identifier.
type UserModel struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Email     string `gorm:"size:255;uniqueIndex;not null" json:"email" validate:"required,email"`
	Username  string `gorm:"size:150;not null" json:"username" validate:"required,max=150"`
	FirstName string `gorm:"size:150" json:"first_name"`
	LastName  string `gorm:"size:150" json:"last_name"`
	Password  string `gorm:"size:255" json:"-"`
	Role      Role   `gorm:"type:varchar(10);not null;default:'candidate'" json:"user_type"`

	// Faculty/admin office; used as the imported slot location.
	RoomNumber *string `gorm:"size:50" json:"room_number"`

	HasCompletedSetup    bool `gorm:"not null;default:false" json:"has_completed_setup"`
	AvailableForMeetings bool `gorm:"not null;default:true" json:"available_for_meetings"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) FullName() string {
	return u.FirstName + " " + u.LastName
}
