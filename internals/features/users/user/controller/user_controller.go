package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"csmanager_backend/internals/configs"
	formModel "csmanager_backend/internals/features/forms/model"
	authService "csmanager_backend/internals/features/users/auth/service"
	userDTO "csmanager_backend/internals/features/users/user/dto"
	userModel "csmanager_backend/internals/features/users/user/model"
	helper "csmanager_backend/internals/helpers"
	mailer "csmanager_backend/internals/helpers/mailer"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

var validate = validator.New()

// GET /api/users
// Admins get the full account shape; everyone else a trimmed public one.
func (ctl *UserController) List(c *fiber.Ctx) error {
	_, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}

	q := ctl.DB.Order("id ASC")
	if userModel.Role(role) == userModel.RoleAdmin {
		q = q.Where("role <> ?", userModel.RoleSuperadmin)
	}
	if s := strings.TrimSpace(c.Query("user_type")); s != "" {
		q = q.Where("role = ?", s)
	}

	var rows []userModel.UserModel
	if err := q.Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load users")
	}

	if userModel.Role(role).IsAdmin() {
		return helper.JsonList(c, "Users loaded", userDTO.FromUserModels(rows), nil)
	}
	return helper.JsonList(c, "Users loaded", userDTO.FromUserModelsPublic(rows), nil)
}

// GET /api/users/:id
func (ctl *UserController) Retrieve(c *fiber.Ctx) error {
	userID, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	var row userModel.UserModel
	if err := ctl.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	if userModel.Role(role).IsAdmin() || row.ID == userID {
		return helper.JsonOK(c, "User loaded", userDTO.FromUserModel(row))
	}
	return helper.JsonOK(c, "User loaded", userDTO.FromUserModelPublic(row))
}

// POST /api/users/register (admin only)
func (ctl *UserController) Register(c *fiber.Ctx) error {
	_, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	if !userModel.Role(role).IsAdmin() {
		return helper.JsonError(c, fiber.StatusForbidden, "Only admins can register accounts")
	}

	var req userDTO.RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}
	newRole := userModel.Role(req.Role)
	if !newRole.Valid() {
		return helper.JsonValidationError(c, map[string][]string{
			"user_type": {"Role must be one of candidate, faculty, admin, superadmin."},
		})
	}

	hash, err := authService.HashPassword(req.Password)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	row := userModel.UserModel{
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Username:   strings.TrimSpace(req.Username),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Password:   hash,
		Role:       newRole,
		RoomNumber: req.RoomNumber,
	}
	if err := ctl.DB.Create(&row).Error; err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate") {
			return helper.JsonError(c, fiber.StatusBadRequest, "An account with this email already exists")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create account")
	}
	return helper.JsonCreated(c, "Account created", userDTO.FromUserModel(row))
}

// PUT|PATCH /api/users/:id (admin only; email and username are immutable)
func (ctl *UserController) Update(c *fiber.Ctx) error {
	_, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	if !userModel.Role(role).IsAdmin() {
		return helper.JsonError(c, fiber.StatusForbidden, "Only admins can modify accounts")
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	var row userModel.UserModel
	if err := ctl.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	var req userDTO.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	if req.FirstName != nil {
		row.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		row.LastName = *req.LastName
	}
	if req.RoomNumber != nil {
		row.RoomNumber = req.RoomNumber
	}
	if req.AvailableForMeetings != nil {
		row.AvailableForMeetings = *req.AvailableForMeetings
	}

	if err := ctl.DB.Save(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update user")
	}
	return helper.JsonUpdated(c, "User updated", userDTO.FromUserModel(row))
}

// DELETE /api/users/:id (superadmin guard on the route)
// Never self, never another superadmin.
func (ctl *UserController) Delete(c *fiber.Ctx) error {
	userID, _, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}
	if id == userID {
		return helper.JsonError(c, fiber.StatusBadRequest, "You cannot delete your own account")
	}

	var row userModel.UserModel
	if err := ctl.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}
	if row.Role.IsSuperadmin() {
		return helper.JsonError(c, fiber.StatusBadRequest, "Superadmin accounts cannot be deleted")
	}

	if err := ctl.DB.Delete(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete user")
	}
	return helper.JsonDeleted(c)
}

// POST /api/users/:id/update_role (superadmin guard on the route)
func (ctl *UserController) UpdateRole(c *fiber.Ctx) error {
	if _, _, err := helper.ActingUser(c); err != nil {
		return err
	}
	id, err := helper.ParseIDParam(c)
	if err != nil {
		return err
	}

	var req userDTO.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	newRole := userModel.Role(req.Role)
	if !newRole.Valid() {
		return helper.JsonValidationError(c, map[string][]string{
			"user_type": {"Role must be one of candidate, faculty, admin, superadmin."},
		})
	}

	var row userModel.UserModel
	if err := ctl.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	if row.Role.IsSuperadmin() && !newRole.IsSuperadmin() {
		var superadmins int64
		if err := ctl.DB.Model(&userModel.UserModel{}).
			Where("role = ?", userModel.RoleSuperadmin).Count(&superadmins).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count superadmins")
		}
		if superadmins <= 1 {
			return helper.JsonError(c, fiber.StatusBadRequest, "Cannot change the role of the last superadmin")
		}
	}

	row.Role = newRole
	if err := ctl.DB.Save(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update role")
	}
	return helper.JsonUpdated(c, "Role updated", userDTO.FromUserModel(row))
}

// POST /api/users/send-form-link (admin only)
func (ctl *UserController) SendFormLink(c *fiber.Ctx) error {
	_, role, err := helper.ActingUser(c)
	if err != nil {
		return err
	}
	if !userModel.Role(role).IsAdmin() {
		return helper.JsonError(c, fiber.StatusForbidden, "Only admins can send form links")
	}

	var req userDTO.SendFormLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	var target userModel.UserModel
	if err := ctl.DB.First(&target, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}
	var form formModel.FormModel
	if err := ctl.DB.First(&form, req.FormID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Form not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load form")
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nPlease complete the form %q:\n\n%s/login?formId=%d\n\nThank you.",
		target.FullName(), form.Title, configs.FrontendURL, form.ID,
	)
	if err := mailer.Send(target.Email, "Please complete: "+form.Title, body); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to send form link")
	}
	return helper.JsonOK(c, "Form link sent", fiber.Map{"sent_to": target.Email})
}
