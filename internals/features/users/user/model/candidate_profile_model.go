package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// CandidateProfileModel extends a candidate account with visit logistics and
// presentation material. Created lazily on first setup or headshot upload.
type CandidateProfileModel struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UserID uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User   UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	// Professional information
	CurrentTitle       string `gorm:"size:200" json:"current_title"`
	CurrentDepartment  string `gorm:"size:200" json:"current_department"`
	CurrentInstitution string `gorm:"size:200" json:"current_institution"`
	ResearchInterests  string `json:"research_interests"`

	CellNumber string `gorm:"size:20" json:"cell_number"`

	// Travel information
	TravelAssistance    string     `gorm:"size:10" json:"travel_assistance"` // all | some | none
	PassportName        string     `gorm:"size:200" json:"passport_name"`
	DateOfBirth         *time.Time `gorm:"type:date" json:"-"`
	CountryOfResidence  string     `gorm:"size:200" json:"country_of_residence"`
	Gender              string     `gorm:"size:50" json:"gender"`
	GenderCustom        *string    `gorm:"size:50" json:"gender_custom"`
	PreferredAirport    string     `gorm:"size:200" json:"preferred_airport"`
	FrequentFlyerInfo   string     `json:"frequent_flyer_info"`
	KnownTravelerNumber string     `gorm:"size:100" json:"known_traveler_number"`

	// Presentation information
	TalkTitle    string  `gorm:"size:300" json:"talk_title"`
	Abstract     string  `json:"abstract"`
	Biography    string  `json:"biography"`
	HeadshotURL  *string `gorm:"size:500" json:"headshot_url"`
	HeadshotPath *string `gorm:"size:500" json:"-"` // local file when not yet mirrored

	// Permissions and preferences
	VideotapePermission     string `gorm:"size:3;default:'no'" json:"videotape_permission"`
	AdvertisementPermission string `gorm:"size:3;default:'no'" json:"advertisement_permission"`
	ExtraTours              string `gorm:"size:50;default:'Not at this time'" json:"extra_tours"`

	FoodPreferences     pq.StringArray `gorm:"type:text[]" json:"food_preferences"`
	DietaryRestrictions pq.StringArray `gorm:"type:text[]" json:"dietary_restrictions"`
	PreferredFaculty    pq.StringArray `gorm:"type:text[]" json:"preferred_faculty"`

	PreferredVisitDates datatypes.JSON `json:"preferred_visit_dates"`

	HasCompletedSetup bool `gorm:"not null;default:false" json:"has_completed_setup"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CandidateProfileModel) TableName() string { return "candidate_profiles" }
