package dto

import (
	"time"

	m "csmanager_backend/internals/features/users/user/model"
)

const dateLayout = "2006-01-02"

type RegisterUserRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	Username   string  `json:"username" validate:"required,max=150"`
	FirstName  string  `json:"first_name" validate:"max=150"`
	LastName   string  `json:"last_name" validate:"max=150"`
	Password   string  `json:"password" validate:"required,min=8"`
	Role       string  `json:"user_type" validate:"required"`
	RoomNumber *string `json:"room_number" validate:"omitempty,max=50"`
}

// UpdateUserRequest deliberately omits email and username; both are
// immutable after registration.
type UpdateUserRequest struct {
	FirstName            *string `json:"first_name" validate:"omitempty,max=150"`
	LastName             *string `json:"last_name" validate:"omitempty,max=150"`
	RoomNumber           *string `json:"room_number" validate:"omitempty,max=50"`
	AvailableForMeetings *bool   `json:"available_for_meetings"`
}

type UpdateRoleRequest struct {
	Role string `json:"user_type" validate:"required"`
}

type CompleteRoomSetupRequest struct {
	RoomNumber string `json:"room_number" validate:"required,max=50"`
}

type SendFormLinkRequest struct {
	UserID uint `json:"user_id" validate:"required"`
	FormID uint `json:"form_id" validate:"required"`
}

type CompleteCandidateSetupRequest struct {
	CurrentTitle        string  `json:"current_title" validate:"max=200"`
	CurrentDepartment   string  `json:"current_department" validate:"max=200"`
	CurrentInstitution  string  `json:"current_institution" validate:"max=200"`
	ResearchInterests   string  `json:"research_interests"`
	CellNumber          string  `json:"cell_number" validate:"max=20"`
	TravelAssistance    string  `json:"travel_assistance" validate:"omitempty,oneof=all some none"`
	PassportName        string  `json:"passport_name" validate:"max=200"`
	DateOfBirth         *string `json:"date_of_birth"`
	CountryOfResidence  string  `json:"country_of_residence" validate:"max=200"`
	Gender              string  `json:"gender" validate:"max=50"`
	GenderCustom        *string `json:"gender_custom" validate:"omitempty,max=50"`
	PreferredAirport    string  `json:"preferred_airport" validate:"max=200"`
	FrequentFlyerInfo   string  `json:"frequent_flyer_info"`
	KnownTravelerNumber string  `json:"known_traveler_number" validate:"max=100"`

	TalkTitle string `json:"talk_title" validate:"max=300"`
	Abstract  string `json:"abstract"`
	Biography string `json:"biography"`

	VideotapePermission     string `json:"videotape_permission" validate:"omitempty,oneof=yes no"`
	AdvertisementPermission string `json:"advertisement_permission" validate:"omitempty,oneof=yes no"`
	ExtraTours              string `json:"extra_tours" validate:"max=50"`

	FoodPreferences     []string `json:"food_preferences"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	PreferredFaculty    []string `json:"preferred_faculty"`
	PreferredVisitDates []string `json:"preferred_visit_dates"`
}

// UserResponse is the staff-facing shape.
type UserResponse struct {
	ID                   uint    `json:"id"`
	Email                string  `json:"email"`
	Username             string  `json:"username"`
	FirstName            string  `json:"first_name"`
	LastName             string  `json:"last_name"`
	UserType             string  `json:"user_type"`
	RoomNumber           *string `json:"room_number"`
	HasCompletedSetup    bool    `json:"has_completed_setup"`
	AvailableForMeetings bool    `json:"available_for_meetings"`
	CreatedAt            string  `json:"created_at"`
}

// PublicUserResponse is the shape non-admin callers see for other users.
type PublicUserResponse struct {
	ID                   uint   `json:"id"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	UserType             string `json:"user_type"`
	AvailableForMeetings bool   `json:"available_for_meetings"`
}

func FromUserModel(u m.UserModel) UserResponse {
	return UserResponse{
		ID:                   u.ID,
		Email:                u.Email,
		Username:             u.Username,
		FirstName:            u.FirstName,
		LastName:             u.LastName,
		UserType:             string(u.Role),
		RoomNumber:           u.RoomNumber,
		HasCompletedSetup:    u.HasCompletedSetup,
		AvailableForMeetings: u.AvailableForMeetings,
		CreatedAt:            u.CreatedAt.Format(time.RFC3339),
	}
}

func FromUserModels(rows []m.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromUserModel(r))
	}
	return out
}

func FromUserModelPublic(u m.UserModel) PublicUserResponse {
	return PublicUserResponse{
		ID:                   u.ID,
		FirstName:            u.FirstName,
		LastName:             u.LastName,
		UserType:             string(u.Role),
		AvailableForMeetings: u.AvailableForMeetings,
	}
}

func FromUserModelsPublic(rows []m.UserModel) []PublicUserResponse {
	out := make([]PublicUserResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromUserModelPublic(r))
	}
	return out
}

type CandidateProfileResponse struct {
	ID                  uint    `json:"id"`
	UserID              uint    `json:"user_id"`
	CurrentTitle        string  `json:"current_title"`
	CurrentDepartment   string  `json:"current_department"`
	CurrentInstitution  string  `json:"current_institution"`
	ResearchInterests   string  `json:"research_interests"`
	CellNumber          string  `json:"cell_number"`
	TravelAssistance    string  `json:"travel_assistance"`
	PassportName        string  `json:"passport_name"`
	DateOfBirth         *string `json:"date_of_birth"`
	CountryOfResidence  string  `json:"country_of_residence"`
	Gender              string  `json:"gender"`
	GenderCustom        *string `json:"gender_custom"`
	PreferredAirport    string  `json:"preferred_airport"`
	FrequentFlyerInfo   string  `json:"frequent_flyer_info"`
	KnownTravelerNumber string  `json:"known_traveler_number"`

	TalkTitle   string  `json:"talk_title"`
	Abstract    string  `json:"abstract"`
	Biography   string  `json:"biography"`
	HeadshotURL *string `json:"headshot_url"`

	VideotapePermission     string `json:"videotape_permission"`
	AdvertisementPermission string `json:"advertisement_permission"`
	ExtraTours              string `json:"extra_tours"`

	FoodPreferences     []string `json:"food_preferences"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	PreferredFaculty    []string `json:"preferred_faculty"`
	PreferredVisitDates any      `json:"preferred_visit_dates"`

	HasCompletedSetup bool `json:"has_completed_setup"`
}

func FromProfileModel(p m.CandidateProfileModel) CandidateProfileResponse {
	var dob *string
	if p.DateOfBirth != nil {
		v := p.DateOfBirth.Format(dateLayout)
		dob = &v
	}
	var visitDates any = []string{}
	if len(p.PreferredVisitDates) > 0 {
		visitDates = p.PreferredVisitDates
	}
	return CandidateProfileResponse{
		ID:                      p.ID,
		UserID:                  p.UserID,
		CurrentTitle:            p.CurrentTitle,
		CurrentDepartment:       p.CurrentDepartment,
		CurrentInstitution:      p.CurrentInstitution,
		ResearchInterests:       p.ResearchInterests,
		CellNumber:              p.CellNumber,
		TravelAssistance:        p.TravelAssistance,
		PassportName:            p.PassportName,
		DateOfBirth:             dob,
		CountryOfResidence:      p.CountryOfResidence,
		Gender:                  p.Gender,
		GenderCustom:            p.GenderCustom,
		PreferredAirport:        p.PreferredAirport,
		FrequentFlyerInfo:       p.FrequentFlyerInfo,
		KnownTravelerNumber:     p.KnownTravelerNumber,
		TalkTitle:               p.TalkTitle,
		Abstract:                p.Abstract,
		Biography:               p.Biography,
		HeadshotURL:             p.HeadshotURL,
		VideotapePermission:     p.VideotapePermission,
		AdvertisementPermission: p.AdvertisementPermission,
		ExtraTours:              p.ExtraTours,
		FoodPreferences:         p.FoodPreferences,
		DietaryRestrictions:     p.DietaryRestrictions,
		PreferredFaculty:        p.PreferredFaculty,
		PreferredVisitDates:     visitDates,
		HasCompletedSetup:       p.HasCompletedSetup,
	}
}
