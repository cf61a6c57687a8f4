package controller

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"csmanager_backend/internals/configs"
	userDTO "csmanager_backend/internals/features/users/user/dto"
	userModel "csmanager_backend/internals/features/users/user/model"
	helper "csmanager_backend/internals/helpers"
	ossHelper "csmanager_backend/internals/helpers/oss"
)

const dateLayout = "2006-01-02"

// POST /api/users/complete-candidate-setup
// Candidate-only; lazily creates the profile row and marks setup complete on
// both the profile and the account.
func (ctl *UserController) CompleteCandidateSetup(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	if userModel.Role(role) != userModel.RoleCandidate {
		return helper.JsonError(c, fiber.StatusForbidden, "Only candidates complete candidate setup")
	}

	var req userDTO.CompleteCandidateSetupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	var dob *time.Time
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		t, err := time.Parse(dateLayout, *req.DateOfBirth)
		if err != nil {
			return helper.JsonValidationError(c, map[string][]string{
				"date_of_birth": {"Date must be in YYYY-MM-DD format."},
			})
		}
		dob = &t
	}

	profile, err := ctl.getOrCreateProfile(userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load profile")
	}

	profile.CurrentTitle = req.CurrentTitle
	profile.CurrentDepartment = req.CurrentDepartment
	profile.CurrentInstitution = req.CurrentInstitution
	profile.ResearchInterests = req.ResearchInterests
	profile.CellNumber = req.CellNumber
	if req.TravelAssistance != "" {
		profile.TravelAssistance = req.TravelAssistance
	}
	profile.PassportName = req.PassportName
	profile.DateOfBirth = dob
	profile.CountryOfResidence = req.CountryOfResidence
	profile.Gender = req.Gender
	profile.GenderCustom = req.GenderCustom
	profile.PreferredAirport = req.PreferredAirport
	profile.FrequentFlyerInfo = req.FrequentFlyerInfo
	profile.KnownTravelerNumber = req.KnownTravelerNumber
	profile.TalkTitle = req.TalkTitle
	profile.Abstract = req.Abstract
	profile.Biography = req.Biography
	if req.VideotapePermission != "" {
		profile.VideotapePermission = req.VideotapePermission
	}
	if req.AdvertisementPermission != "" {
		profile.AdvertisementPermission = req.AdvertisementPermission
	}
	if req.ExtraTours != "" {
		profile.ExtraTours = req.ExtraTours
	}
	profile.FoodPreferences = req.FoodPreferences
	profile.DietaryRestrictions = req.DietaryRestrictions
	profile.PreferredFaculty = req.PreferredFaculty
	if req.PreferredVisitDates != nil {
		raw, err := json.Marshal(req.PreferredVisitDates)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Preferred visit dates are not serializable")
		}
		profile.PreferredVisitDates = datatypes.JSON(raw)
	}
	profile.HasCompletedSetup = true

	if err := ctl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(profile).Error; err != nil {
			return err
		}
		return tx.Model(&userModel.UserModel{}).
			Where("id = ?", userID).Update("has_completed_setup", true).Error
	}); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save profile")
	}
	return helper.JsonOK(c, "Setup completed", userDTO.FromProfileModel(*profile))
}

// POST /api/users/complete-room-setup
// Faculty/admin flow; candidates have no room.
func (ctl *UserController) CompleteRoomSetup(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	if userModel.Role(role) == userModel.RoleCandidate {
		return helper.JsonError(c, fiber.StatusForbidden, "Candidates do not have a room assignment")
	}

	var req userDTO.CompleteRoomSetupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	room := strings.TrimSpace(req.RoomNumber)
	if room == "" {
		return helper.JsonValidationError(c, map[string][]string{
			"room_number": {"This field is required."},
		})
	}

	var user userModel.UserModel
	if err := ctl.DB.First(&user, userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load account")
	}
	user.RoomNumber = &room
	user.HasCompletedSetup = true
	if err := ctl.DB.Save(&user).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save account")
	}
	return helper.JsonOK(c, "Room setup completed", userDTO.FromUserModel(user))
}

// POST /api/users/upload-headshot (multipart field "headshot")
// Accepts image/* up to 5MB. The old local file is removed after a
// successful save; when the upload happens before candidate setup the
// profile row is created with pending defaults.
func (ctl *UserController) UploadHeadshot(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	if userModel.Role(role) != userModel.RoleCandidate {
		return helper.JsonError(c, fiber.StatusForbidden, "Only candidates have headshots")
	}

	fh, err := c.FormFile("headshot")
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{
			"headshot": {"A headshot file is required."},
		})
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return helper.JsonValidationError(c, map[string][]string{
			"headshot": {"File must be an image."},
		})
	}
	if fh.Size > ossHelper.MaxHeadshotSize {
		return helper.JsonValidationError(c, map[string][]string{
			"headshot": {"Image must be 5MB or smaller."},
		})
	}

	profile, err := ctl.getOrCreateProfile(userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load profile")
	}

	oldPath := ""
	if profile.HeadshotPath != nil {
		oldPath = *profile.HeadshotPath
	}

	localPath, publicURL, err := ossHelper.SaveHeadshot(userID, fh)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to store headshot")
	}

	profile.HeadshotPath = &localPath
	profile.HeadshotURL = &publicURL
	if err := ctl.DB.Save(profile).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save profile")
	}

	if oldPath != "" && oldPath != localPath {
		ossHelper.DeleteHeadshot(oldPath)
	}
	return helper.JsonCreated(c, "Headshot uploaded", fiber.Map{
		"headshot_url": publicURL,
	})
}

// GET /api/users/download-headshot?url=
// Mirrored URLs redirect; local media streams from disk.
func (ctl *UserController) DownloadHeadshot(c *fiber.Ctx) error {
	if _, _, err := helper.ActingUser(c); err != nil {
		return err
	}

	url := strings.TrimSpace(c.Query("url"))
	if url == "" {
		return helper.JsonValidationError(c, map[string][]string{
			"url": {"This query parameter is required."},
		})
	}
	if ossHelper.IsMirroredURL(url) {
		return c.Redirect(url, fiber.StatusFound)
	}

	// local media path; keep it inside the media root
	clean := filepath.Clean(strings.TrimPrefix(url, "/"))
	if !strings.HasPrefix(clean, filepath.Clean(configs.MediaRoot)+string(filepath.Separator)) {
		return helper.JsonError(c, fiber.StatusNotFound, "Headshot not found")
	}
	return c.SendFile(clean)
}

func (ctl *UserController) getOrCreateProfile(userID uint) (*userModel.CandidateProfileModel, error) {
	var profile userModel.CandidateProfileModel
	err := ctl.DB.Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	profile = userModel.CandidateProfileModel{UserID: userID}
	if err := ctl.DB.Create(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
